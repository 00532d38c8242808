package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing
	"github.com/redis/go-redis/v9"

	"github.com/clientxce/Pick-a-Padel/internal/config"
	"github.com/clientxce/Pick-a-Padel/internal/handler"    // import the handlers that implement business logic
	"github.com/clientxce/Pick-a-Padel/internal/middleware" // import middleware for JWT authentication and rate limiting
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Map the GET request at path "/healthz" to the Health handler.  This
	// endpoint can be used by load balancers or monitoring systems to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication‑related routes and applies the
// necessary middleware.  Unauthenticated operations live under /v1/auth,
// while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	// Create a route group under the /v1/auth prefix for operations that do
	// not require an existing session (register, login, refresh).  Each of
	// these handlers is responsible for generating or exchanging tokens.
	g := e.Group("/v1/auth")
	// Register a POST endpoint to handle user registration at /v1/auth/register.
	g.POST("/register", a.Register)
	// Register a POST endpoint to handle user login at /v1/auth/login.
	g.POST("/login", a.Login)
	// Register a POST endpoint to refresh access tokens at /v1/auth/refresh. This rotates the refresh token.
	g.POST("/refresh", a.Refresh)
	// Register a POST endpoint to log out using a refresh token.  The handler
	// accepts a JSON body containing a `refresh_token` and will invalidate
	// that token; with a bearer token and no body it revokes every session.
	g.POST("/logout", a.Logout)

	// Create another group for routes that require a valid access token.  All
	// handlers registered on this group will execute the JWTAuth middleware
	// before being invoked.  Protected endpoints live under /v1.
	auth := e.Group("/v1")
	// Apply the JWTAuth middleware to the protected group using the provided secret.
	auth.Use(middleware.JWTAuth(jwtSecret))
	// Register a GET endpoint at /v1/me that returns the authenticated user's information.
	auth.GET("/me", a.Me)
}

// RegisterPublic registers unauthenticated catalog and availability
// endpoints.  Availability is the hottest read path, so it sits behind the
// Redis response cache when one is configured.
func RegisterPublic(e *echo.Echo, courts *handler.CourtHandler, avail *handler.AvailabilityHandler, cacheCfg config.CacheConfig, rdb *redis.Client) {
	// Expose the full court catalog
	e.GET("/v1/courts", courts.List)
	// Court details by id
	e.GET("/v1/courts/:id", courts.Get)
	// Per-court slot availability for a date.  Cached responses carry an
	// X-Cache header so clients and tests can observe hits.
	e.GET("/v1/courts/availability", avail.ForDate, middleware.NewRedisCache(cacheCfg, rdb))
}

// RegisterBookings registers the authenticated booking workflow: placing a
// hold, verifying the payment and listing the caller's bookings.  The hold
// and verify endpoints additionally sit behind the Redis token bucket so a
// single client cannot hammer the gateway.
func RegisterBookings(e *echo.Echo, b *handler.BookingHandler, jwtSecret string, rlCfg config.RateLimitConfig, rdb *redis.Client) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))

	limited := middleware.NewTokenBucket(rlCfg, rdb)
	g.POST("/bookings/hold", b.Hold, limited)
	g.POST("/payments/verify", b.Verify, limited)
	g.GET("/my-bookings", b.MyBookings)
}
