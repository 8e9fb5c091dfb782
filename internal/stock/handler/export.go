package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/cinestock/cinestock-backend/internal/stock/service"
	"github.com/cinestock/cinestock-backend/pkg/httputil"
	"github.com/cinestock/cinestock-backend/pkg/logger"
)

// ExportHandler handles CSV report endpoints
type ExportHandler struct {
	service *service.StockService
	logger  *logger.Logger
}

// NewExportHandler creates a new export handler
func NewExportHandler(svc *service.StockService, log *logger.Logger) *ExportHandler {
	return &ExportHandler{
		service: svc,
		logger:  log,
	}
}

// ExportInventory serves the inventory snapshot as a CSV attachment.
// Accepts the same search and category filters as the item list.
func (h *ExportHandler) ExportInventory(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")
	category := r.URL.Query().Get("category")

	items, err := h.service.Snapshot(r.Context(), search, category)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	csvBytes, err := h.service.RenderInventoryCSV(items)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to render inventory CSV")
		httputil.Error(w, err)
		return
	}

	serveCSV(w, "inventory", csvBytes)
}

// ExportMovements serves the movement history as a CSV attachment.
// Accepts the same inclusive date range as the history endpoint.
func (h *ExportHandler) ExportMovements(w http.ResponseWriter, r *http.Request) {
	start := r.URL.Query().Get("start")
	end := r.URL.Query().Get("end")

	movements, err := h.service.MovementHistory(r.Context(), start, end)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	csvBytes, err := h.service.RenderMovementsCSV(movements)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to render movements CSV")
		httputil.Error(w, err)
		return
	}

	serveCSV(w, "movements", csvBytes)
}

// ExportExpiring serves the expiring-variant report as a CSV
// attachment. Accepts an optional days horizon.
func (h *ExportHandler) ExportExpiring(w http.ResponseWriter, r *http.Request) {
	horizon, _ := strconv.Atoi(r.URL.Query().Get("days"))

	expiring, err := h.service.Expiring(r.Context(), horizon)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	csvBytes, err := h.service.RenderExpiringCSV(expiring)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to render expiring CSV")
		httputil.Error(w, err)
		return
	}

	serveCSV(w, "expiring", csvBytes)
}

// ExportLowStock serves the low-stock report as a CSV attachment.
func (h *ExportHandler) ExportLowStock(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.LowStock(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}

	csvBytes, err := h.service.RenderLowStockCSV(items)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to render low stock CSV")
		httputil.Error(w, err)
		return
	}

	serveCSV(w, "low-stock", csvBytes)
}

func serveCSV(w http.ResponseWriter, name string, body []byte) {
	filename := fmt.Sprintf("%s-%s.csv", name, time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(body)))
	w.Write(body)
}
