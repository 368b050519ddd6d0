package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"venuecatalog/backend/internal/catalog"

	"github.com/go-chi/chi/v5"
)

type venueRequest struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Description string  `json:"description" validate:"max=2000"`
	BaseURL     *string `json:"base_url" validate:"omitempty,url,max=2048"`
}

func (req *venueRequest) normalize() {
	req.Name = strings.TrimSpace(req.Name)
	req.BaseURL = optional(req.BaseURL)
}

func (req venueRequest) input() catalog.VenueInput {
	return catalog.VenueInput{Name: req.Name, Description: req.Description, BaseURL: req.BaseURL}
}

type bulkVenueRequest struct {
	BulkInput string `json:"bulk_input"`
}

func (h *Handler) ListVenues(w http.ResponseWriter, r *http.Request) {
	logger := h.loggerForRequest(r)
	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	venues, err := h.catalog.Store().ListVenues(ctx)
	if err != nil {
		logger.Error("action", "action", "list_venues", "status", "db_error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load venues")
		return
	}
	writeJSON(w, http.StatusOK, venues)
}

func (h *Handler) GetVenue(w http.ResponseWriter, r *http.Request) {
	logger := h.loggerForRequest(r)
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid venue id")
		return
	}
	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	venue, err := h.catalog.Store().GetVenue(ctx, id)
	if err != nil {
		h.storeError(w, logger, "get_venue", err, "Venue not found")
		return
	}
	writeJSON(w, http.StatusOK, venue)
}

func (h *Handler) CreateVenue(w http.ResponseWriter, r *http.Request) {
	logger := h.loggerForRequest(r)
	var req venueRequest
	if !h.decodeAndValidate(w, r, logger, "create_venue", &req) {
		return
	}
	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	venue, err := h.catalog.CreateVenue(ctx, req.input())
	if err != nil {
		h.storeError(w, logger, "create_venue", err, "Venue not found")
		return
	}
	logger.Info("action", "action", "create_venue", "status", "success", "venue_id", venue.ID)
	writeJSON(w, http.StatusOK, venue)
}

func (h *Handler) UpdateVenue(w http.ResponseWriter, r *http.Request) {
	logger := h.loggerForRequest(r)
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid venue id")
		return
	}
	var req venueRequest
	if !h.decodeAndValidate(w, r, logger, "update_venue", &req) {
		return
	}
	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	venue, err := h.catalog.UpdateVenue(ctx, id, req.input())
	if err != nil {
		h.storeError(w, logger, "update_venue", err, "Venue not found")
		return
	}
	writeJSON(w, http.StatusOK, venue)
}

func (h *Handler) DeleteVenue(w http.ResponseWriter, r *http.Request) {
	logger := h.loggerForRequest(r)
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid venue id")
		return
	}
	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	if err := h.catalog.Store().DeleteVenue(ctx, id); err != nil {
		h.storeError(w, logger, "delete_venue", err, "Venue not found")
		return
	}
	logger.Info("action", "action", "delete_venue", "status", "success", "venue_id", id)
	writeMessage(w, "Venue deleted")
}

func (h *Handler) CreateVenuesBulk(w http.ResponseWriter, r *http.Request) {
	logger := h.loggerForRequest(r)
	var req bulkVenueRequest
	if !h.decodeAndValidate(w, r, logger, "bulk_venues", &req) {
		return
	}
	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	venues, err := h.catalog.BulkCreateVenues(ctx, req.BulkInput)
	if err != nil {
		h.bulkError(w, logger, "bulk_venues", err, "Venue not found")
		return
	}
	writeJSON(w, http.StatusOK, venues)
}

func (h *Handler) ListVenueEvents(w http.ResponseWriter, r *http.Request) {
	logger := h.loggerForRequest(r)
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid venue id")
		return
	}
	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	events, err := h.catalog.Store().ListVenueEvents(ctx, id)
	if err != nil {
		logger.Error("action", "action", "list_venue_events", "status", "db_error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load events")
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (h *Handler) ListVenueEventsByName(w http.ResponseWriter, r *http.Request) {
	logger := h.loggerForRequest(r)
	name := chi.URLParam(r, "name")
	if unescaped, err := url.PathUnescape(name); err == nil {
		name = unescaped
	}
	if name == "" {
		writeError(w, http.StatusBadRequest, "venue name required")
		return
	}
	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	venue, err := h.catalog.Store().GetVenueByName(ctx, name)
	if err != nil {
		h.storeError(w, logger, "list_venue_events_by_name", err, "Venue not found")
		return
	}
	events, err := h.catalog.Store().ListVenueEvents(ctx, venue.ID)
	if err != nil {
		logger.Error("action", "action", "list_venue_events_by_name", "status", "db_error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load events")
		return
	}
	writeJSON(w, http.StatusOK, events)
}
