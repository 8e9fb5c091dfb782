package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/cinestock/cinestock-backend/internal/stock/repository"
	"github.com/cinestock/cinestock-backend/internal/stock/service"
	"github.com/cinestock/cinestock-backend/pkg/httputil"
	"github.com/cinestock/cinestock-backend/pkg/logger"
)

// PickingHandler handles picking list endpoints
type PickingHandler struct {
	service *service.StockService
	logger  *logger.Logger
}

// NewPickingHandler creates a new picking handler
func NewPickingHandler(svc *service.StockService, log *logger.Logger) *PickingHandler {
	return &PickingHandler{
		service: svc,
		logger:  log,
	}
}

// List returns the most recent picking lists, newest first
func (h *PickingHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	pickings, err := h.service.RecentPickings(r.Context(), limit)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, pickings)
}

// Get gets a picking list by id
func (h *PickingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, err := h.service.GetPicking(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, p)
}

// Create creates a pending picking list
func (h *PickingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.CreatePickingRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(req); err != nil {
		httputil.Error(w, err)
		return
	}

	p, err := h.service.CreatePicking(r.Context(), req)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, p)
}

// CompleteResponse carries the completed list and its per-row
// transaction results.
type CompleteResponse struct {
	Picking *repository.PickingList `json:"picking"`
	Results []service.RowResult     `json:"results"`
}

// Complete applies the list's lines as outgoing stock and marks it done
func (h *PickingHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, results, err := h.service.CompletePicking(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, CompleteResponse{Picking: p, Results: results})
}

// Cancel marks a pending picking list cancelled
func (h *PickingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, err := h.service.CancelPicking(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, p)
}
