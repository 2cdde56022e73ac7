package wire

import (
	"net/http"

	"rideshare-booking/internal/adaptor"
	"rideshare-booking/internal/data/repository"
	"rideshare-booking/internal/usecase"
	"rideshare-booking/pkg/middleware"
	"rideshare-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// App menyimpan semua dependencies
type App struct {
	Router *chi.Mux
}

// Wiring menginisialisasi semua dependencies. publisher may be nil.
func Wiring(repo *repository.Repository, publisher usecase.NotificationPublisher, config *utils.Config, logger *zap.Logger) *App {
	service := usecase.NewService(repo, publisher, logger)
	handler := adaptor.NewHandler(service, logger)

	return &App{
		Router: setupRouter(handler, config, logger),
	}
}

// setupRouter konfigurasi Chi router
func setupRouter(handler *adaptor.Handler, config *utils.Config, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(chimw.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))

	auth := middleware.Auth(config.JWT.Secret, logger)
	driverOnly := middleware.RequireRole(utils.RoleDriver, logger)

	// Apply routes
	wireTrip(r, handler.Trip, auth, driverOnly)
	wireBooking(r, handler.Booking, auth, driverOnly)
	wireNotification(r, handler.Notification, auth)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
