package handler

import (
	"net/http"
	"strconv"

	"github.com/cinestock/cinestock-backend/internal/stock/ledger"
	"github.com/cinestock/cinestock-backend/internal/stock/service"
	"github.com/cinestock/cinestock-backend/pkg/errors"
	"github.com/cinestock/cinestock-backend/pkg/httputil"
	"github.com/cinestock/cinestock-backend/pkg/logger"
)

// TransactionHandler handles transaction and movement endpoints
type TransactionHandler struct {
	service *service.StockService
	logger  *logger.Logger
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(svc *service.StockService, log *logger.Logger) *TransactionHandler {
	return &TransactionHandler{
		service: svc,
		logger:  log,
	}
}

// ApplyRequest is a batch of transaction rows.
type ApplyRequest struct {
	Rows []ledger.TransactionRequest `json:"rows"`
}

// Apply applies a batch of transaction rows. Rows are independent:
// the response carries a per-row result and the overall status is 200
// even when some rows failed.
func (h *TransactionHandler) Apply(w http.ResponseWriter, r *http.Request) {
	var req ApplyRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if len(req.Rows) == 0 {
		httputil.Error(w, errors.Validation(map[string]string{"rows": "at least one row is required"}))
		return
	}

	results := h.service.ApplyTransactions(r.Context(), req.Rows)
	httputil.JSON(w, http.StatusOK, results)
}

// Movements returns the most recent movements, newest first.
// Supports optional type (incoming/outgoing) and single-day date
// filters.
func (h *TransactionHandler) Movements(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	typeFilter := r.URL.Query().Get("type")
	dateFilter := r.URL.Query().Get("date")

	if typeFilter != "" && typeFilter != string(ledger.MovementIncoming) && typeFilter != string(ledger.MovementOutgoing) {
		httputil.Error(w, errors.Validation(map[string]string{"type": "type must be incoming or outgoing"}))
		return
	}
	if !ledger.ValidExpiry(dateFilter) {
		httputil.Error(w, errors.Validation(map[string]string{"date": "date must be in YYYY-MM-DD format"}))
		return
	}

	movements, err := h.service.RecentMovements(r.Context(), limit, typeFilter, dateFilter)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, movements)
}

// History returns movements inside an inclusive date range
func (h *TransactionHandler) History(w http.ResponseWriter, r *http.Request) {
	start := r.URL.Query().Get("start")
	end := r.URL.Query().Get("end")
	if !ledger.ValidExpiry(start) || !ledger.ValidExpiry(end) {
		httputil.Error(w, errors.Validation(map[string]string{"range": "start and end must be dates in YYYY-MM-DD format"}))
		return
	}

	movements, err := h.service.MovementHistory(r.Context(), start, end)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, movements)
}
