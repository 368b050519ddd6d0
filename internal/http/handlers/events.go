package handlers

import (
	"net/http"
	"strings"

	"venuecatalog/backend/internal/catalog"
)

type eventRequest struct {
	Name    string  `json:"name" validate:"required,max=255"`
	URL     string  `json:"url" validate:"required,max=2048"`
	VenueID int64   `json:"venue_id" validate:"required,gt=0"`
	EventID *string `json:"event_id" validate:"omitempty,max=255"`
	Date    *string `json:"date" validate:"omitempty,max=64"`
	Time    *string `json:"time" validate:"omitempty,max=64"`
}

func (req *eventRequest) normalize() {
	req.Name = strings.TrimSpace(req.Name)
	req.URL = strings.TrimSpace(req.URL)
	req.EventID = optional(req.EventID)
	req.Date = optional(req.Date)
	req.Time = optional(req.Time)
}

func (req eventRequest) input() catalog.EventInput {
	return catalog.EventInput{Name: req.Name, URL: req.URL, EventID: req.EventID, Date: req.Date, Time: req.Time}
}

// eventUpdateRequest omits venue_id: events stay with their venue.
type eventUpdateRequest struct {
	Name    string  `json:"name" validate:"required,max=255"`
	URL     string  `json:"url" validate:"required,max=2048"`
	EventID *string `json:"event_id" validate:"omitempty,max=255"`
	Date    *string `json:"date" validate:"omitempty,max=64"`
	Time    *string `json:"time" validate:"omitempty,max=64"`
}

func (req *eventUpdateRequest) normalize() {
	req.Name = strings.TrimSpace(req.Name)
	req.URL = strings.TrimSpace(req.URL)
	req.EventID = optional(req.EventID)
	req.Date = optional(req.Date)
	req.Time = optional(req.Time)
}

type bulkEventRequest struct {
	VenueID   int64  `json:"venue_id" validate:"required,gt=0"`
	BulkInput string `json:"bulk_input"`
}

func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	logger := h.loggerForRequest(r)
	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	events, err := h.catalog.Store().ListEvents(ctx)
	if err != nil {
		logger.Error("action", "action", "list_events", "status", "db_error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load events")
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	logger := h.loggerForRequest(r)
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid event id")
		return
	}
	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	event, err := h.catalog.Store().GetEvent(ctx, id)
	if err != nil {
		h.storeError(w, logger, "get_event", err, "Event not found")
		return
	}
	writeJSON(w, http.StatusOK, event)
}

func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	logger := h.loggerForRequest(r)
	var req eventRequest
	if !h.decodeAndValidate(w, r, logger, "create_event", &req) {
		return
	}
	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	event, err := h.catalog.CreateEvent(ctx, req.VenueID, req.input())
	if err != nil {
		h.storeError(w, logger, "create_event", err, "Venue not found")
		return
	}
	logger.Info("action", "action", "create_event", "status", "success", "event_id", event.ID, "venue_id", event.VenueID)
	writeJSON(w, http.StatusOK, event)
}

func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	logger := h.loggerForRequest(r)
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid event id")
		return
	}
	var req eventUpdateRequest
	if !h.decodeAndValidate(w, r, logger, "update_event", &req) {
		return
	}
	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	event, err := h.catalog.UpdateEvent(ctx, id, catalog.EventInput{
		Name:    req.Name,
		URL:     req.URL,
		EventID: req.EventID,
		Date:    req.Date,
		Time:    req.Time,
	})
	if err != nil {
		h.storeError(w, logger, "update_event", err, "Event not found")
		return
	}
	writeJSON(w, http.StatusOK, event)
}

func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	logger := h.loggerForRequest(r)
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid event id")
		return
	}
	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	if err := h.catalog.Store().DeleteEvent(ctx, id); err != nil {
		h.storeError(w, logger, "delete_event", err, "Event not found")
		return
	}
	logger.Info("action", "action", "delete_event", "status", "success", "event_id", id)
	writeMessage(w, "Event deleted")
}

func (h *Handler) CreateEventsBulk(w http.ResponseWriter, r *http.Request) {
	logger := h.loggerForRequest(r)
	var req bulkEventRequest
	if !h.decodeAndValidate(w, r, logger, "bulk_events", &req) {
		return
	}
	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	events, err := h.catalog.BulkCreateEvents(ctx, req.VenueID, req.BulkInput)
	if err != nil {
		h.bulkError(w, logger, "bulk_events", err, "Venue not found")
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	logger := h.loggerForRequest(r)
	query := r.URL.Query()
	if !query.Has("q") {
		writeError(w, http.StatusBadRequest, "q is required")
		return
	}
	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	result, err := h.catalog.Store().Search(ctx, query.Get("q"))
	if err != nil {
		logger.Error("action", "action", "search", "status", "db_error", "error", err)
		writeError(w, http.StatusInternalServerError, "search failed")
		return
	}
	writeJSON(w, http.StatusOK, result)
}
