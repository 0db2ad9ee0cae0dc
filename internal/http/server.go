package httpapi

import (
	"net/http"
	"time"

	"senidea-backend-go/internal/config"
	"senidea-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"
)

type Server struct {
	DB         *sqlx.DB
	Config     config.Config
	Tokens     services.TokenService
	Gateway    *services.Paystack
	MetricsHub *services.MetricsHub
}

func NewServer(db *sqlx.DB, cfg config.Config, hub *services.MetricsHub) *Server {
	tokens := services.TokenService{
		Secret:    []byte(cfg.JWTSecret),
		Issuer:    cfg.JWTIssuer,
		AccessTTL: time.Duration(cfg.AccessTTLSeconds) * time.Second,
	}
	return &Server{
		DB:         db,
		Config:     cfg,
		Tokens:     tokens,
		Gateway:    services.NewPaystack(cfg.PaystackBaseURL, cfg.PaystackSecretKey),
		MetricsHub: hub,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(RequestLogger)
	if len(s.Config.CorsOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.Config.CorsOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	requireAdmin := []func(http.Handler) http.Handler{WithAuth(s.Tokens), RequireRole("Admin")}
	submitLimiter := NewRateLimiter(30, time.Minute)

	r.Route("/api", func(api chi.Router) {
		api.Post("/auth/register", s.Register)
		api.Post("/auth/login", s.Login)
		api.With(WithAuth(s.Tokens)).Get("/auth/validate", s.Validate)

		api.Route("/blog", func(blog chi.Router) {
			blog.Get("/", s.ListPosts)
			blog.Get("/{id}", s.GetPost)
			blog.Get("/image/{id}", s.PostImage)
			blog.With(requireAdmin...).Post("/", s.CreatePost)
			blog.With(requireAdmin...).Put("/{id}", s.UpdatePost)
			blog.With(requireAdmin...).Delete("/{id}", s.DeletePost)

			blog.Get("/{id}/comments", s.ListComments)
			blog.With(submitLimiter.Limit).Post("/{id}/comments", s.AddComment)
			blog.With(submitLimiter.Limit).Post("/{id}/like", s.ToggleLike)
			blog.Get("/{id}/likes", s.GetLikes)
		})

		api.Route("/content", func(content chi.Router) {
			content.Get("/", s.ListContent)
			content.Get("/{id:[0-9]+}", s.GetContent)
			content.Get("/image/{id}", s.ContentImage)
			content.Get("/{category}", s.ContentByCategory)
			content.With(requireAdmin...).Post("/", s.CreateContent)
			content.With(requireAdmin...).Put("/{id}", s.UpdateContent)
			content.With(requireAdmin...).Delete("/{id}", s.DeleteContent)
		})

		api.Route("/donation", func(donation chi.Router) {
			donation.With(WithOptionalAuth(s.Tokens)).Post("/", s.InitiateDonation)
			donation.Get("/verify/{reference}", s.VerifyDonation)
			donation.With(requireAdmin...).Get("/", s.ListDonations)
			donation.With(requireAdmin...).Put("/{id}", s.UpdateDonation)
			donation.With(requireAdmin...).Delete("/{id}", s.DeleteDonation)
		})

		api.Route("/newsletter", func(newsletter chi.Router) {
			newsletter.With(submitLimiter.Limit).Post("/subscribe", s.Subscribe)
			newsletter.With(requireAdmin...).Get("/", s.ListSubscriptions)
			newsletter.With(requireAdmin...).Delete("/{id}", s.DeleteSubscription)
		})

		api.Route("/contact", func(contact chi.Router) {
			contact.With(submitLimiter.Limit).Post("/", s.CreateContact)
			contact.With(requireAdmin...).Get("/", s.ListContacts)
			contact.With(requireAdmin...).Get("/{id}", s.GetContact)
			contact.With(requireAdmin...).Delete("/{id}", s.DeleteContact)
		})

		api.Route("/partnership", func(partnership chi.Router) {
			partnership.Get("/", s.PartnershipInfo)
			partnership.With(submitLimiter.Limit).Post("/", s.SubmitPartnership)
			partnership.With(requireAdmin...).Get("/submissions", s.ListPartnerships)
			partnership.With(requireAdmin...).Delete("/{id}", s.DeletePartnership)
		})

		api.Route("/volunteer", func(volunteer chi.Router) {
			volunteer.With(submitLimiter.Limit).Post("/", s.CreateVolunteer)
			volunteer.With(requireAdmin...).Get("/", s.ListVolunteers)
		})

		api.Route("/testimonial", func(testimonial chi.Router) {
			testimonial.With(submitLimiter.Limit).Post("/", s.CreateTestimonial)
			testimonial.Get("/", s.ListTestimonials)
			testimonial.Get("/{id}", s.GetTestimonial)
			testimonial.With(requireAdmin...).Put("/{id}", s.UpdateTestimonial)
			testimonial.With(requireAdmin...).Delete("/{id}", s.DeleteTestimonial)
		})

		api.Route("/public", func(pub chi.Router) {
			pub.Post("/visits", s.TrackVisit)
			pub.Get("/visits/count", s.VisitCount)
		})

		api.With(requireAdmin...).Get("/admin/metrics/history", s.MetricsHistory)
	})

	r.Get("/ws/metrics", s.MetricsSocket)
	return r
}
