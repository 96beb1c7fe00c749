package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"rfpflow/internal/errx"
	logx "rfpflow/pkg/logger"
)

// Handler оборачивает Storage и Service для HTTP-слоя
type Handler struct {
	Store    StorageInterface
	Service  ServiceInterface
	validate *validator.Validate
}

// NewHandler создает новый Handler
func NewHandler(store StorageInterface, svc ServiceInterface) *Handler {
	return &Handler{
		Store:    store,
		Service:  svc,
		validate: validator.New(),
	}
}

// PingHandler отвечает "ok" для проверки сервера
func (h *Handler) PingHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logx.Error().Err(err).Msg("failed to encode response")
	}
}

// writeError мапит доменные ошибки на HTTP-статусы; все прочее — 500.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errx.ErrValidation),
		errors.Is(err, errx.ErrCorrelationNotFound),
		errors.Is(err, errx.ErrNoProposals):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, errx.ErrNotFound), errors.Is(err, sql.ErrNoRows):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, errx.ErrUpstreamUnavailable), errors.Is(err, errx.ErrMalformedOutput):
		logx.Error().Err(err).Msg("extraction failure")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	default:
		logx.Error().Err(err).Msg("unexpected error")
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
