package routes

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/knightsclub/chessclub/docs"
	"github.com/knightsclub/chessclub/handlers"
	"github.com/knightsclub/chessclub/middleware"
	"github.com/knightsclub/chessclub/models"
)

type Handlers struct {
	Auth           *handlers.AuthHandler
	Tournament     *handlers.TournamentHandler
	Notification   *handlers.NotificationHandler
	WebSocket      *handlers.WebSocketHandler
	JWTSecret      []byte
	AllowedOrigins []string
	Logger         *slog.Logger
}

func SetupRoutes(router chi.Router, h Handlers) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   h.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate(h.JWTSecret, h.Logger)

	router.Get("/swagger/*", httpSwagger.WrapHandler)
	router.Get("/ws/tournaments/{tournamentID}", h.WebSocket.ServeWs)

	router.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Auth.Register)
		r.Post("/login", h.Auth.Login)
	})

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/", h.Tournament.List)
		r.Get("/{tournamentID}", h.Tournament.Get)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/register", h.Tournament.Register)
			r.Post("/unregister", h.Tournament.Unregister)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Authorize(models.RoleAdmin))
				r.Post("/create", h.Tournament.Create)
				r.Put("/update", h.Tournament.Update)
				r.Delete("/delete", h.Tournament.Delete)
				r.Post("/generate-pairings", h.Tournament.GeneratePairings)
				r.Post("/manual-pairing", h.Tournament.ManualPairing)
				r.Post("/update-match", h.Tournament.UpdateMatch)
			})
		})
	})

	router.Route("/notifications", func(r chi.Router) {
		r.Use(authenticate)
		r.Get("/", h.Notification.List)
		r.Post("/mark-read", h.Notification.MarkRead)
		r.Delete("/clear", h.Notification.Clear)
	})
}
