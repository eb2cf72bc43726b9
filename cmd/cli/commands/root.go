// Package commands implements the studyforge CLI
package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/studyforge/studyforge/pkg/api/v1/client"
	"github.com/studyforge/studyforge/pkg/api/v1/routes"
)

// flag names
const (
	flagServerAddress = "server-address"
	flagAPIKey        = "api-key"
)

// environment variable names
const (
	envServerAddress = "STUDYFORGE_SERVER_ADDRESS"
	envAPIKey        = "STUDYFORGE_API_KEY"
)

var (
	// apiClient is the shared API client instance
	apiClient client.Client
	// serverAddress holds the target API server address
	serverAddress string
	// apiKey holds the credential sent with every request
	apiKey string
)

// initClient initializes the API client
func initClient() error {
	opts := client.DefaultOptions()
	opts.BaseURL = serverAddress
	opts.APIKey = apiKey

	var err error
	apiClient, err = client.NewClient(opts)
	return err
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&serverAddress, flagServerAddress, "s", routes.DefaultBaseURL,
		"Address of the studyforge API server (env: STUDYFORGE_SERVER_ADDRESS)")
	RootCmd.PersistentFlags().StringVarP(&apiKey, flagAPIKey, "k", "",
		"API key for authentication (env: STUDYFORGE_API_KEY)")

	RootCmd.AddCommand(GetGenerationsCmd())
}

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "studyforge",
	Short: "Studyforge CLI - manage video generation jobs",
	Long: `Studyforge CLI is a command line tool for submitting videos and
tracking the generation of learning artifacts through the studyforge API.`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if env := os.Getenv(envServerAddress); env != "" && !cmd.Root().PersistentFlags().Changed(flagServerAddress) {
			serverAddress = env
		}
		if env := os.Getenv(envAPIKey); env != "" && !cmd.Root().PersistentFlags().Changed(flagAPIKey) {
			apiKey = env
		}
		return initClient()
	},
}
