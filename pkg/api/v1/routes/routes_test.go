package routes

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetRoute(t *testing.T) {
	assert.Equal(t, "/health", GetRoute(HealthCheck))
	assert.Equal(t, "/api/v1/generations/:id", GetRoute(GetGeneration))
	assert.Equal(t, "/api/v1/internal/generations/:id/claim", GetRoute(ClaimGeneration))
	assert.Equal(t, "", GetRoute("NoSuchRoute"))
}

func TestBuildURL(t *testing.T) {
	assert.Equal(t, "/api/v1/generations", SubmitGenerationURL())
	assert.Equal(t, "/api/v1/generations/abc", GetGenerationURL("abc"))
	assert.Equal(t, "/api/v1/generations/abc", CancelGenerationURL("abc"))
	assert.Equal(t, "/api/v1/internal/generations/abc/progress", ReportProgressURL("abc"))
	assert.Equal(t, "/api/v1/internal/generations/abc/complete", CompleteGenerationURL("abc"))
	assert.Equal(t, "/api/v1/internal/generations/abc/fail", FailGenerationURL("abc"))

	query := url.Values{}
	query.Set("page", "2")
	assert.Equal(t, "/api/v1/generations?page=2", ListGenerationsURL(query))
}
