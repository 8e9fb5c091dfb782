package handler

import (
	"net/http"
	"strconv"

	"github.com/cinestock/cinestock-backend/internal/stock/service"
	"github.com/cinestock/cinestock-backend/pkg/httputil"
	"github.com/cinestock/cinestock-backend/pkg/logger"
)

// ReportHandler handles dashboard and alert report endpoints
type ReportHandler struct {
	service *service.StockService
	logger  *logger.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(svc *service.StockService, log *logger.Logger) *ReportHandler {
	return &ReportHandler{
		service: svc,
		logger:  log,
	}
}

// Dashboard returns inventory-wide statistics
func (h *ReportHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetDashboardStats(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, stats)
}

// LowStock returns items below their minimum pack count
func (h *ReportHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.LowStock(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, items)
}

// Expiring returns variants expiring inside the warning window
func (h *ReportHandler) Expiring(w http.ResponseWriter, r *http.Request) {
	horizon, _ := strconv.Atoi(r.URL.Query().Get("days"))

	expiring, err := h.service.Expiring(r.Context(), horizon)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, expiring)
}
