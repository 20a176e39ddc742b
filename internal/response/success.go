package response

import (
	"encoding/json"
	"net/http"

	"github.com/granaflow/grana-backend/pkg/logger"
)

type SuccessEnvelope struct {
	Success  bool     `json:"success"`
	Data     any      `json:"data,omitempty"`
	Warnings []string `json:"warnings,omitempty"` // non-fatal degradations (partial reads)
}

func (h *responseHandler) WriteSuccess(w http.ResponseWriter, r *http.Request, status int, data any) {
	h.writeEnvelope(w, r, status, SuccessEnvelope{Success: true, Data: data})
}

// WriteSuccessWithWarnings is used by endpoints that tolerate partial source
// failures: the data is still valid, the warnings say what was defaulted.
func (h *responseHandler) WriteSuccessWithWarnings(w http.ResponseWriter, r *http.Request, status int, data any, warnings []string) {
	h.writeEnvelope(w, r, status, SuccessEnvelope{Success: true, Data: data, Warnings: warnings})
}

func (h *responseHandler) writeEnvelope(w http.ResponseWriter, r *http.Request, status int, resp SuccessEnvelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		// Last-ditch logging; can't return an error now
		log := logger.FromContext(r.Context())
		log.Error("failed to encode success response", "error", err)
	}
}
