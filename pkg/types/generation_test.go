package types

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSourceURL(t *testing.T) {
	valid := []string{
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		"https://youtu.be/dQw4w9WgXcQ",
		"http://example.com/video.mp4",
		"https://example.com/v?t=42&list=PL123",
	}
	for _, source := range valid {
		assert.NoError(t, ValidateSourceURL(source), "expected %q to be accepted", source)
	}

	invalid := []string{
		"",
		"not a url",
		"youtube.com/watch?v=abc", // missing scheme
		"ftp://example.com/video",
		"https://",
		"https://" + strings.Repeat("a", maxSourceURLLength) + ".com/v",
	}
	for _, source := range invalid {
		assert.Error(t, ValidateSourceURL(source), "expected %q to be rejected", source)
	}
}

func TestSubmitGenerationRequestValidate(t *testing.T) {
	req := &SubmitGenerationRequest{SourceURL: "https://example.com/v"}
	assert.NoError(t, req.Validate())

	req = &SubmitGenerationRequest{}
	assert.Error(t, req.Validate())
}

func TestCompleteRequestValidate(t *testing.T) {
	req := &CompleteRequest{ResultRef: "artifacts/run-7"}
	assert.NoError(t, req.Validate())

	req = &CompleteRequest{}
	assert.Error(t, req.Validate())
}

func TestFailRequestValidate(t *testing.T) {
	req := &FailRequest{Error: "pipeline exploded"}
	assert.NoError(t, req.Validate())

	req = &FailRequest{}
	assert.Error(t, req.Validate())
}
