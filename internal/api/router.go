package api

import (
	"net/http"

	"github.com/Cheertaboi/coupon-catalog-service/internal/api/handlers"
	"github.com/Cheertaboi/coupon-catalog-service/internal/api/middleware"
	"github.com/Cheertaboi/coupon-catalog-service/internal/logger"
	"github.com/Cheertaboi/coupon-catalog-service/internal/service"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

const Version = "1.0.0"

type RouterConfig struct {
	AllowedOrigins []string
}

// NewRouter builds the HTTP router for the coupon-service. Every route is served
// both at the root and under /api.
func NewRouter(svc *service.CouponService, store handlers.Pinger, log *logger.Logger, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(log))
	r.Use(chimw.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", middleware.HeaderRequestID},
		AllowCredentials: true,
	}).Handler)

	couponHandler := handlers.NewCouponHandler(svc, log)
	healthHandler := handlers.NewHealthHandler(store, Version)

	routes := func(r chi.Router) {
		r.Route("/coupons", func(r chi.Router) {
			r.Post("/", couponHandler.CreateCoupon)
			r.Get("/", couponHandler.ListCoupons)
			r.Post("/best-coupon", couponHandler.BestCoupon)
			r.Post("/best-coupon/batch", couponHandler.BestCouponBatch)
		})

		r.Get("/health", healthHandler.Health)
		r.Get("/", healthHandler.Index)
	}

	routes(r)
	r.Route("/api", routes)

	return r
}
