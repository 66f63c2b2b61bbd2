package routes

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"tripnest-backend/internal/config"
	"tripnest-backend/internal/handlers"
	"tripnest-backend/internal/middleware"
)

// SetupRoutes configures all application routes
func SetupRoutes(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	googleAuthHandler *handlers.GoogleAuthHandler,
	healthHandler *handlers.HealthHandler,
	tripsHandler *handlers.TripsHandler,
	tripRouter *handlers.TripRouter,
	invitationsHandler *handlers.InvitationsHandler,
	watchHandler *handlers.WatchHandler,
) {
	jwtCfg := &cfg.JWT

	// Health check routes
	http.HandleFunc("/healthz", healthHandler.HealthCheck)
	http.HandleFunc("/livez", healthHandler.LivenessCheck)
	http.HandleFunc("/readyz", healthHandler.ReadinessCheck)

	// Authentication routes
	http.HandleFunc("/api/auth/register", authHandler.Register)
	http.HandleFunc("/api/auth/login", authHandler.Login)
	http.HandleFunc("/api/auth/profile", middleware.AuthMiddleware(authHandler.GetProfile, jwtCfg))
	http.HandleFunc("/api/auth/google/login", googleAuthHandler.GoogleLogin)
	http.HandleFunc("/api/auth/google/callback", googleAuthHandler.GoogleCallback)

	// Trip routes; the bare collection and everything below it
	http.HandleFunc("/api/trips", middleware.AuthMiddleware(tripsHandler.Trips, jwtCfg))
	http.HandleFunc("/api/trips/", middleware.AuthMiddleware(tripRouter.Route, jwtCfg))

	// Cross-trip pending invitations for the caller
	http.HandleFunc("/api/invitations", middleware.AuthMiddleware(invitationsHandler.ListPending, jwtCfg))

	// Realtime snapshot channel; authenticates via token query param
	http.HandleFunc("/api/watch", watchHandler.Watch)

	// Swagger UI
	http.HandleFunc("/swagger/", httpSwagger.WrapHandler)

	// Root route
	http.HandleFunc("/", rootHandler)
}

func rootHandler(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("Tripnest backend is running."))
}
