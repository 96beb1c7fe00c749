package handlers

import (
	"encoding/json"
	"net/http"

	"rfpflow/models"
)

// GetVendorsHandler возвращает всех поставщиков
func (h *Handler) GetVendorsHandler(w http.ResponseWriter, r *http.Request) {
	vendors, err := h.Store.GetVendors(r.Context())
	if err != nil {
		http.Error(w, "Failed to get vendors", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, vendors)
}

type vendorInput struct {
	Name     string  `json:"name" validate:"required,max=100"`
	Email    string  `json:"email" validate:"required,email"`
	Category *string `json:"category"`
}

// CreateVendorHandler обрабатывает POST /api/vendors
func (h *Handler) CreateVendorHandler(w http.ResponseWriter, r *http.Request) {
	var input vendorInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()
	if err := h.validate.Struct(input); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	vendor := &models.Vendor{Name: input.Name, Email: input.Email, Category: input.Category}
	if err := h.Store.CreateVendor(r.Context(), vendor); err != nil {
		http.Error(w, "Failed to create vendor", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, vendor)
}

// UpdateVendorHandler обрабатывает PUT /api/vendors/{vendorId}
func (h *Handler) UpdateVendorHandler(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := parseIDParam(r, "vendorId")
	if !ok {
		http.Error(w, "Invalid vendorId", http.StatusBadRequest)
		return
	}

	vendor, err := h.Store.GetVendor(r.Context(), vendorID)
	if err != nil {
		http.Error(w, "Vendor not found", http.StatusNotFound)
		return
	}

	var input struct {
		Name     *string `json:"name"`
		Email    *string `json:"email"`
		Category *string `json:"category"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if input.Name != nil {
		vendor.Name = *input.Name
	}
	if input.Email != nil {
		vendor.Email = *input.Email
	}
	if input.Category != nil {
		vendor.Category = input.Category
	}
	if err := h.validate.Struct(vendor); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.Store.UpdateVendor(r.Context(), vendor); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vendor)
}

// DeleteVendorHandler обрабатывает DELETE /api/vendors/{vendorId}
func (h *Handler) DeleteVendorHandler(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := parseIDParam(r, "vendorId")
	if !ok {
		http.Error(w, "Invalid vendorId", http.StatusBadRequest)
		return
	}

	if err := h.Store.DeleteVendor(r.Context(), vendorID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
