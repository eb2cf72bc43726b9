// Package routes defines the API routes and URL structure
package routes

import (
	"fmt"
	"net/url"
	"strings"
	"sync"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/studyforge/studyforge/pkg/api/v1/handlers"
)

// API base configuration
const (
	// DefaultPort is the default port for the API
	DefaultPort = "8080"
	// APIv1Prefix is the prefix for all API endpoints
	APIv1Prefix = "/api/v1"
)

// DefaultBaseURL is the default base URL for the API
var DefaultBaseURL = fmt.Sprintf("http://localhost:%s", DefaultPort)

// Route names for lookup
const (
	// Health check
	HealthCheck = "HealthCheck"

	// Owner-facing generation routes
	SubmitGeneration = "SubmitGeneration"
	ListGenerations  = "ListGenerations"
	GetGeneration    = "GetGeneration"
	CancelGeneration = "CancelGeneration"

	// Worker routes
	ClaimGeneration    = "ClaimGeneration"
	ReportProgress     = "ReportProgress"
	CompleteGeneration = "CompleteGeneration"
	FailGeneration     = "FailGeneration"
)

// routeCache stores extracted routes for use prior to compilation
var (
	routeCache     map[string]string
	routeCacheMu   sync.RWMutex
	routeCacheInit sync.Once
)

// RegisterRoutes configures all the v1 routes.
//
// NOTE: route ordering matters because fiber matches routes in
// registration order; the worker group is registered before the :id
// owner routes so "internal" is never interpreted as a generation ID.
func RegisterRoutes(
	app *fiber.App,
	generationHandler *handlers.GenerationHandler,
	workerHandler *handlers.WorkerHandler,
	ownerAuth fiber.Handler,
	workerAuth fiber.Handler,
) {
	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy"})
	}).Name(HealthCheck)

	v1 := app.Group(APIv1Prefix)

	// Worker endpoints, system authority
	worker := v1.Group("/internal/generations", workerAuth)
	worker.Post("/:id/claim", workerHandler.ClaimGeneration).Name(ClaimGeneration)
	worker.Post("/:id/progress", workerHandler.ReportProgress).Name(ReportProgress)
	worker.Post("/:id/complete", workerHandler.CompleteGeneration).Name(CompleteGeneration)
	worker.Post("/:id/fail", workerHandler.FailGeneration).Name(FailGeneration)

	// Owner-facing generation endpoints
	generations := v1.Group("/generations", ownerAuth)
	generations.Get("/", generationHandler.ListGenerations).Name(ListGenerations)
	generations.Get("/:id", generationHandler.GetGeneration).Name(GetGeneration)
	generations.Post("/", generationHandler.SubmitGeneration).Name(SubmitGeneration)
	generations.Delete("/:id", generationHandler.CancelGeneration).Name(CancelGeneration)
}

// initRouteCache initializes the route cache by creating a mock app and
// extracting routes
func initRouteCache() {
	routeCacheInit.Do(func() {
		routeCache = make(map[string]string)

		app := fiber.New()

		noop := func(c *fiber.Ctx) error { return c.Next() }
		RegisterRoutes(app, &handlers.GenerationHandler{}, &handlers.WorkerHandler{}, noop, noop)

		for _, route := range app.GetRoutes() {
			if route.Name != "" {
				routeCache[route.Name] = route.Path
			}
		}
	})
}

// GetRoute returns the route pattern for the given route name
func GetRoute(name string) string {
	initRouteCache()

	routeCacheMu.RLock()
	defer routeCacheMu.RUnlock()
	return routeCache[name]
}

// BuildURL builds a URL for the given route name and parameters
func BuildURL(routeName string, params map[string]string, queryParams url.Values) string {
	route := GetRoute(routeName)
	if route == "" {
		return ""
	}

	for param, value := range params {
		route = strings.ReplaceAll(route, ":"+param, value)
	}

	// Remove trailing slash if it's a base endpoint with no parameters
	if strings.HasSuffix(route, "/") && !strings.Contains(route, ":") {
		route = strings.TrimSuffix(route, "/")
	}

	if len(queryParams) > 0 {
		route = fmt.Sprintf("%s?%s", route, queryParams.Encode())
	}

	return route
}

// Health check route helper

// HealthCheckURL returns the URL for the health check endpoint
func HealthCheckURL() string {
	return BuildURL(HealthCheck, nil, nil)
}

// Generation route helpers

// SubmitGenerationURL returns the URL for submitting a generation
func SubmitGenerationURL() string {
	return BuildURL(SubmitGeneration, nil, nil)
}

// ListGenerationsURL returns the URL for listing generations
func ListGenerationsURL(queryParams url.Values) string {
	return BuildURL(ListGenerations, nil, queryParams)
}

// GetGenerationURL returns the URL for getting a generation by ID
func GetGenerationURL(id string) string {
	return BuildURL(GetGeneration, map[string]string{"id": id}, nil)
}

// CancelGenerationURL returns the URL for canceling a generation
func CancelGenerationURL(id string) string {
	return BuildURL(CancelGeneration, map[string]string{"id": id}, nil)
}

// Worker route helpers

// ClaimGenerationURL returns the URL for claiming a generation
func ClaimGenerationURL(id string) string {
	return BuildURL(ClaimGeneration, map[string]string{"id": id}, nil)
}

// ReportProgressURL returns the URL for reporting progress
func ReportProgressURL(id string) string {
	return BuildURL(ReportProgress, map[string]string{"id": id}, nil)
}

// CompleteGenerationURL returns the URL for completing a generation
func CompleteGenerationURL(id string) string {
	return BuildURL(CompleteGeneration, map[string]string{"id": id}, nil)
}

// FailGenerationURL returns the URL for failing a generation
func FailGenerationURL(id string) string {
	return BuildURL(FailGeneration, map[string]string{"id": id}, nil)
}
