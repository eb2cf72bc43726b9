package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/studyforge/studyforge/pkg/api/v1/client"
)

// generationOutput represents the filtered output for a generation
type generationOutput struct {
	ID        string `json:"id"`
	SourceURL string `json:"source_url"`
	Status    string `json:"status"`
	Progress  int    `json:"progress"`
	ResultRef string `json:"result_ref,omitempty"`
	Error     string `json:"error,omitempty"`
}

// generationListOutput represents the filtered output for a list of generations
type generationListOutput struct {
	Generations []generationOutput `json:"generations"`
}

func init() {
	generationsCmd.AddCommand(submitGenerationCmd)
	generationsCmd.AddCommand(listGenerationsCmd)
	generationsCmd.AddCommand(getGenerationCmd)
	generationsCmd.AddCommand(cancelGenerationCmd)

	submitGenerationCmd.Flags().StringP("url", "u", "", "Source video URL to submit")
	_ = submitGenerationCmd.MarkFlagRequired("url")

	listGenerationsCmd.Flags().IntP("page", "p", 1, "Page number")
	listGenerationsCmd.Flags().IntP("limit", "l", 0, "Limit the number of generations returned")
	listGenerationsCmd.Flags().String("status", "", "Filter generations by status")

	getGenerationCmd.Flags().StringP("id", "i", "", "Generation ID to fetch")
	_ = getGenerationCmd.MarkFlagRequired("id")

	cancelGenerationCmd.Flags().StringP("id", "i", "", "Generation ID to cancel")
	_ = cancelGenerationCmd.MarkFlagRequired("id")
}

var generationsCmd = &cobra.Command{
	Use:   "generations",
	Short: "Manage generation jobs",
}

var submitGenerationCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit a video URL for artifact generation",
	RunE: func(cmd *cobra.Command, _ []string) error {
		sourceURL, _ := cmd.Flags().GetString("url")

		resp, err := apiClient.SubmitGeneration(context.Background(), sourceURL)
		if err != nil {
			return fmt.Errorf("error submitting generation: %w", err)
		}

		return printJSON(map[string]string{
			"id":     resp.ID.String(),
			"status": resp.Status.String(),
		})
	},
}

var listGenerationsCmd = &cobra.Command{
	Use:   "list",
	Short: "List your generation jobs, newest first",
	RunE: func(cmd *cobra.Command, _ []string) error {
		page, _ := cmd.Flags().GetInt("page")
		limit, _ := cmd.Flags().GetInt("limit")
		status, _ := cmd.Flags().GetString("status")

		resp, err := apiClient.ListGenerations(context.Background(), &client.ListGenerationsOptions{
			Page:   page,
			Limit:  limit,
			Status: status,
		})
		if err != nil {
			return fmt.Errorf("error fetching generations: %w", err)
		}

		output := generationListOutput{
			Generations: make([]generationOutput, len(resp.Rows)),
		}
		for i, gen := range resp.Rows {
			output.Generations[i] = generationOutput{
				ID:        gen.ID.String(),
				SourceURL: gen.SourceURL,
				Status:    gen.Status.String(),
				Progress:  gen.Progress,
				ResultRef: gen.ResultRef,
				Error:     gen.Error,
			}
		}

		return printJSON(output)
	},
}

var getGenerationCmd = &cobra.Command{
	Use:   "get",
	Short: "Get a specific generation job",
	RunE: func(cmd *cobra.Command, _ []string) error {
		id, _ := cmd.Flags().GetString("id")

		gen, err := apiClient.GetGeneration(context.Background(), id)
		if err != nil {
			return fmt.Errorf("error fetching generation: %w", err)
		}

		return printJSON(generationOutput{
			ID:        gen.ID.String(),
			SourceURL: gen.SourceURL,
			Status:    gen.Status.String(),
			Progress:  gen.Progress,
			ResultRef: gen.ResultRef,
			Error:     gen.Error,
		})
	},
}

var cancelGenerationCmd = &cobra.Command{
	Use:   "cancel",
	Short: "Cancel a queued or processing generation job",
	RunE: func(cmd *cobra.Command, _ []string) error {
		id, _ := cmd.Flags().GetString("id")

		resp, err := apiClient.CancelGeneration(context.Background(), id)
		if err != nil {
			return fmt.Errorf("error canceling generation: %w", err)
		}

		return printJSON(map[string]string{
			"id":     resp.ID.String(),
			"status": resp.Status.String(),
		})
	},
}

// printJSON pretty prints the command output
func printJSON(v interface{}) error {
	prettyJSON, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("error formatting response: %w", err)
	}
	fmt.Println(string(prettyJSON))
	return nil
}

// GetGenerationsCmd returns the generations command
func GetGenerationsCmd() *cobra.Command {
	return generationsCmd
}
