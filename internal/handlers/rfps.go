package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func parseIDParam(r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// CreateRfpFromTextHandler обрабатывает POST /api/rfps/from-text
func (h *Handler) CreateRfpFromTextHandler(w http.ResponseWriter, r *http.Request) {
	// Ограничение размера тела, чтобы избежать DoS
	r.Body = http.MaxBytesReader(w, r.Body, 1048576)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	var input struct {
		Description string `json:"description" validate:"required"`
	}
	if err := json.Unmarshal(body, &input); err != nil {
		http.Error(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(input); err != nil {
		http.Error(w, "description is required", http.StatusBadRequest)
		return
	}

	rfp, err := h.Service.CreateFromText(r.Context(), input.Description)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rfp)
}

// GetRfpsHandler возвращает все RFP, новые первыми
func (h *Handler) GetRfpsHandler(w http.ResponseWriter, r *http.Request) {
	rfps, err := h.Store.GetRfps(r.Context())
	if err != nil {
		http.Error(w, "Failed to get rfps", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, rfps)
}

func (h *Handler) GetRfpHandler(w http.ResponseWriter, r *http.Request) {
	rfpID, ok := parseIDParam(r, "rfpId")
	if !ok {
		http.Error(w, "Invalid rfpId", http.StatusBadRequest)
		return
	}

	rfp, err := h.Store.GetRfp(r.Context(), rfpID)
	if err != nil {
		http.Error(w, "Rfp not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, rfp)
}

// SendRfpHandler рассылает RFP выбранным поставщикам.
// Общий 200 не означает полный успех: смотрите per-vendor results.
func (h *Handler) SendRfpHandler(w http.ResponseWriter, r *http.Request) {
	rfpID, ok := parseIDParam(r, "rfpId")
	if !ok {
		http.Error(w, "Invalid rfpId", http.StatusBadRequest)
		return
	}

	var input struct {
		VendorIDs []int `json:"vendorIds" validate:"required,min=1,dive,gt=0"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()
	if err := h.validate.Struct(input); err != nil {
		http.Error(w, "vendorIds must be a non-empty list of positive ids", http.StatusBadRequest)
		return
	}

	result, err := h.Service.Dispatch(r.Context(), rfpID, input.VendorIDs)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ProcessRepliesHandler забирает непрочитанные ответы из ящика
func (h *Handler) ProcessRepliesHandler(w http.ResponseWriter, r *http.Request) {
	results, err := h.Service.IngestBatch(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

// GetRfpComparisonHandler запускает сравнение предложений по RFP
func (h *Handler) GetRfpComparisonHandler(w http.ResponseWriter, r *http.Request) {
	rfpID, ok := parseIDParam(r, "rfpId")
	if !ok {
		http.Error(w, "Invalid rfpId", http.StatusBadRequest)
		return
	}

	result, err := h.Service.Compare(r.Context(), rfpID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
