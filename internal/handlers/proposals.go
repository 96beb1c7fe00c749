package handlers

import (
	"encoding/json"
	"net/http"
)

// IngestProposalHandler обрабатывает POST /api/proposals/ingest:
// прямой прием ответа поставщика (тема + тело)
func (h *Handler) IngestProposalHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Subject string `json:"subject" validate:"required"`
		Body    string `json:"body" validate:"required"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()
	if err := h.validate.Struct(input); err != nil {
		http.Error(w, "subject and body are required", http.StatusBadRequest)
		return
	}

	result, err := h.Service.IngestDirect(r.Context(), input.Subject, input.Body)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

// GetProposalsByRfpHandler возвращает все предложения по RFP вместе с поставщиком
func (h *Handler) GetProposalsByRfpHandler(w http.ResponseWriter, r *http.Request) {
	rfpID, ok := parseIDParam(r, "rfpId")
	if !ok {
		http.Error(w, "Invalid rfpId", http.StatusBadRequest)
		return
	}

	proposals, err := h.Store.GetProposalsByRfp(r.Context(), rfpID)
	if err != nil {
		http.Error(w, "Failed to get proposals", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, proposals)
}
