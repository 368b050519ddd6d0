package handlers

import "net/http"

const apiVersion = "2.0.0"

func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Venue Management API", "version": apiVersion})
}

// Health reports ok once the store answers.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()
	if err := h.catalog.Ping(ctx); err != nil {
		h.loggerForRequest(r).Error("action", "action", "healthz", "status", "store_unavailable", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("unavailable"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
