package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/aryan0dhankhar/wattbill/internal/domain"
	"github.com/aryan0dhankhar/wattbill/internal/service"
)

// BillHandler serves bill CRUD
type BillHandler struct {
	bills  *service.BillService
	logger *slog.Logger
}

func NewBillHandler(bills *service.BillService, logger *slog.Logger) *BillHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &BillHandler{bills: bills, logger: logger}
}

// List handles GET /api/bills
func (h *BillHandler) List(w http.ResponseWriter, r *http.Request) {
	bills, err := h.bills.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch bills")
		return
	}
	writeJSON(w, http.StatusOK, bills)
}

// Create handles POST /api/bills
func (h *BillHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.CreateBillInput
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.Warn("failed to decode bill", slog.String("error", err.Error()))
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	bill, err := h.bills.Create(r.Context(), req)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, bill)
	case errors.Is(err, domain.ErrMissingFields):
		writeError(w, http.StatusBadRequest, "Missing fields")
	case errors.Is(err, domain.ErrOutOfRange):
		writeError(w, http.StatusBadRequest, "Amount out of range")
	default:
		writeError(w, http.StatusInternalServerError, "Failed to add bill")
	}
}

// Update handles PATCH /api/bills/{id}
func (h *BillHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	// An empty body is an empty patch
	var patch domain.BillPatch
	if err := decodeJSON(w, r, &patch); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("failed to decode bill patch",
			slog.String("bill_id", id),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	bill, err := h.bills.Update(r.Context(), id, patch)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, bill)
	case errors.Is(err, domain.ErrInvalidID):
		writeError(w, http.StatusBadRequest, "Invalid bill ID format")
	case errors.Is(err, domain.ErrInvalidField):
		writeError(w, http.StatusBadRequest, "Invalid status")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "Bill not found")
	default:
		writeError(w, http.StatusInternalServerError, "Failed to update bill")
	}
}

// Delete handles DELETE /api/bills/{id}
func (h *BillHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.bills.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete bill")
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Bill deleted"})
}
