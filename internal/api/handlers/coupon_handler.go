package handlers

import (
	"net/http"

	"github.com/Cheertaboi/coupon-catalog-service/internal/logger"
	"github.com/Cheertaboi/coupon-catalog-service/internal/models"
	"github.com/Cheertaboi/coupon-catalog-service/internal/service"
)

// --- Response DTOs ---

type CreateCouponResponse struct {
	Message string         `json:"message"`
	Coupon  *models.Coupon `json:"coupon"`
}

type ListCouponsResponse struct {
	Count   int              `json:"count"`
	Coupons []*models.Coupon `json:"coupons"`
}

type BatchBestCouponResponse struct {
	Results []*models.EvaluationResult `json:"results"`
}

// --- Handler struct & constructor ---

type CouponHandler struct {
	service *service.CouponService
	logger  *logger.Logger
}

func NewCouponHandler(svc *service.CouponService, logger *logger.Logger) *CouponHandler {
	return &CouponHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Handlers ---

// CreateCoupon handles POST /coupons
func (h *CouponHandler) CreateCoupon(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCouponRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	coupon, err := h.service.CreateCoupon(r.Context(), req)
	if err != nil {
		h.logger.Debugw("create coupon failed", "error", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, CreateCouponResponse{
		Message: "Coupon created successfully",
		Coupon:  coupon,
	})
}

// ListCoupons handles GET /coupons
func (h *CouponHandler) ListCoupons(w http.ResponseWriter, r *http.Request) {
	coupons, err := h.service.ListCoupons(r.Context())
	if err != nil {
		h.logger.Errorw("list coupons failed", "error", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ListCouponsResponse{
		Count:   len(coupons),
		Coupons: coupons,
	})
}

// BestCoupon handles POST /coupons/best-coupon
func (h *CouponHandler) BestCoupon(w http.ResponseWriter, r *http.Request) {
	var req models.BestCouponRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.service.FindBest(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// BestCouponBatch handles POST /coupons/best-coupon/batch
func (h *CouponHandler) BestCouponBatch(w http.ResponseWriter, r *http.Request) {
	var req models.BatchBestCouponRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	results, err := h.service.FindBestBatch(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, BatchBestCouponResponse{Results: results})
}
