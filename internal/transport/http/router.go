package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/showcase-api/internal/application/media"
	"github.com/showcase-api/internal/application/otp"
	"github.com/showcase-api/internal/application/project"
	"github.com/showcase-api/internal/config"
	"github.com/showcase-api/internal/transport/http/handler"
	appmiddleware "github.com/showcase-api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// 5 requests/second, burst of 10 — keeps the OTP mailer from being
	// driven as a spam relay.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	mediaSvc := media.NewService(deps.MediaStore)
	otpSvc := otp.NewService(otp.ServiceDeps{
		OTPRepo: deps.OTPRepo,
		Mailer:  deps.Mailer,
	})
	projectSvc := project.NewService(project.ServiceDeps{
		ProjectRepo: deps.ProjectRepo,
		Media:       mediaSvc,
		Mailer:      deps.Mailer,
		Events:      deps.Events,
	})

	healthH := handler.NewHealthHandler()
	authH := handler.NewAuthHandler(otpSvc)
	projectH := handler.NewProjectHandler(projectSvc)
	uploadsH := handler.NewUploadsHandler(mediaSvc)

	r.Get("/health-check", healthH.Ping)

	r.Route("/auth", func(r chi.Router) {
		r.With(sensitiveRL.Limit).Post("/send-otp", authH.SendOTP)
		r.Post("/verify-otp", authH.VerifyOTP)
	})

	r.Route("/projects", func(r chi.Router) {
		r.Post("/", projectH.Create)
		r.Get("/", projectH.List)
		r.Put("/updates/{id}", projectH.Update)
		r.Delete("/{id}", projectH.Delete)
	})

	r.Get("/uploads/{filename}", uploadsH.Serve)

	return r
}
