package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/h2d-systems/printcost/internal/catalog"
	"github.com/h2d-systems/printcost/internal/logger"
	"github.com/h2d-systems/printcost/internal/pricing"
)

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("encode response", logger.ErrorF(err))
	}
}

// writeError maps the error taxonomy onto HTTP statuses: unresolved catalog
// references are 404, out-of-bounds inputs are 400 with the field name,
// everything else is an opaque 500.
func writeError(w http.ResponseWriter, err error) {
	var nf *catalog.NotFoundError
	if errors.As(err, &nf) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: nf.Error()})
		return
	}

	var ve *pricing.ValidationError
	if errors.As(err, &ve) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: ve.Error(), Field: ve.Field})
		return
	}

	logger.Error("request failed", logger.ErrorF(err))
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
