// Package catalog holds the venue and event rules that sit between the HTTP handlers and
// the repository: identifier extraction on create, bulk ingestion and base URL refresh.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"venuecatalog/backend/internal/models"
	"venuecatalog/backend/internal/repository"
	"venuecatalog/backend/internal/urlpattern"
)

const DefaultMaxBulkLines = 500

var ErrTooManyLines = errors.New("bulk input has too many lines")

// Store is the persistence surface the catalog needs. *repository.Repository implements it.
type Store interface {
	Ping(ctx context.Context) error

	CreateVenue(ctx context.Context, venue models.NewVenue) (models.Venue, error)
	CreateVenuesSkipExisting(ctx context.Context, venues []models.NewVenue) ([]models.Venue, error)
	ExistingVenueNames(ctx context.Context, names []string) (map[string]struct{}, error)
	ListVenues(ctx context.Context) ([]models.Venue, error)
	GetVenue(ctx context.Context, id int64) (models.Venue, error)
	GetVenueByName(ctx context.Context, name string) (models.Venue, error)
	UpdateVenue(ctx context.Context, id int64, venue models.NewVenue) (models.Venue, error)
	SetVenueBaseURL(ctx context.Context, id int64, baseURL string) error
	DeleteVenue(ctx context.Context, id int64) error

	CreateEvent(ctx context.Context, event models.NewEvent) (models.Event, error)
	CreateEventsSkipExisting(ctx context.Context, events []models.NewEvent) ([]models.Event, error)
	ExistingEventURLs(ctx context.Context, urls []string) (map[string]struct{}, error)
	ListEvents(ctx context.Context) ([]models.Event, error)
	ListVenueEvents(ctx context.Context, venueID int64) ([]models.Event, error)
	ListVenueEventURLs(ctx context.Context, venueID int64) ([]string, error)
	GetEvent(ctx context.Context, id int64) (models.Event, error)
	UpdateEvent(ctx context.Context, id int64, event models.NewEvent) (models.Event, error)
	DeleteEvent(ctx context.Context, id int64) error

	Search(ctx context.Context, q string) (models.SearchResult, error)
}

var _ Store = (*repository.Repository)(nil)

type Service struct {
	store        Store
	logger       *slog.Logger
	maxBulkLines int
}

func New(store Store, logger *slog.Logger, maxBulkLines int) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if maxBulkLines <= 0 {
		maxBulkLines = DefaultMaxBulkLines
	}
	return &Service{store: store, logger: logger, maxBulkLines: maxBulkLines}
}

func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// Store exposes the underlying store for plain reads.
func (s *Service) Store() Store {
	return s.store
}

// EventInput is the caller-supplied part of an event. A nil EventID asks for the
// identifier to be extracted from URL.
type EventInput struct {
	Name    string
	URL     string
	EventID *string
	Date    *string
	Time    *string
}

func (in EventInput) toNew(venueID int64) models.NewEvent {
	return models.NewEvent{
		Name:    in.Name,
		URL:     in.URL,
		EventID: in.EventID,
		Date:    in.Date,
		Time:    in.Time,
		VenueID: venueID,
	}
}

// VenueInput is the caller-supplied part of a venue. A non-empty BaseURL overrides the
// inferred one until the next refresh.
type VenueInput struct {
	Name        string
	Description string
	BaseURL     *string
}

func (s *Service) CreateVenue(ctx context.Context, in VenueInput) (models.Venue, error) {
	venue, err := s.store.CreateVenue(ctx, models.NewVenue{Name: in.Name, Description: in.Description})
	if err != nil {
		return models.Venue{}, fmt.Errorf("create venue: %w", err)
	}
	return s.applyBaseURL(ctx, venue, in.BaseURL)
}

// UpdateVenue replaces name and description. A nil BaseURL leaves the stored one alone.
func (s *Service) UpdateVenue(ctx context.Context, id int64, in VenueInput) (models.Venue, error) {
	venue, err := s.store.UpdateVenue(ctx, id, models.NewVenue{Name: in.Name, Description: in.Description})
	if err != nil {
		return models.Venue{}, fmt.Errorf("update venue %d: %w", id, err)
	}
	return s.applyBaseURL(ctx, venue, in.BaseURL)
}

func (s *Service) applyBaseURL(ctx context.Context, venue models.Venue, baseURL *string) (models.Venue, error) {
	if baseURL == nil || *baseURL == "" {
		return venue, nil
	}
	if err := s.store.SetVenueBaseURL(ctx, venue.ID, *baseURL); err != nil {
		return models.Venue{}, fmt.Errorf("set base url: %w", err)
	}
	value := *baseURL
	venue.BaseURL = &value
	return venue, nil
}

func extractedID(url string) *string {
	if id, ok := urlpattern.ExtractIdentifier(url); ok {
		return &id
	}
	return nil
}

// CreateEvent stores a single event for an existing venue and refreshes the venue's
// base URL.
func (s *Service) CreateEvent(ctx context.Context, venueID int64, in EventInput) (models.Event, error) {
	if _, err := s.store.GetVenue(ctx, venueID); err != nil {
		return models.Event{}, fmt.Errorf("get venue %d: %w", venueID, err)
	}
	if in.EventID == nil {
		in.EventID = extractedID(in.URL)
	}
	event, err := s.store.CreateEvent(ctx, in.toNew(venueID))
	if err != nil {
		return models.Event{}, fmt.Errorf("create event: %w", err)
	}
	s.refreshBaseURLLogged(ctx, venueID)
	return event, nil
}

// UpdateEvent replaces an event's fields. A changed URL without an explicit identifier
// gets its identifier re-extracted.
func (s *Service) UpdateEvent(ctx context.Context, id int64, in EventInput) (models.Event, error) {
	current, err := s.store.GetEvent(ctx, id)
	if err != nil {
		return models.Event{}, fmt.Errorf("get event %d: %w", id, err)
	}
	if in.EventID == nil {
		if in.URL == current.URL {
			in.EventID = current.EventID
		} else {
			in.EventID = extractedID(in.URL)
		}
	}
	event, err := s.store.UpdateEvent(ctx, id, in.toNew(current.VenueID))
	if err != nil {
		return models.Event{}, fmt.Errorf("update event %d: %w", id, err)
	}
	s.refreshBaseURLLogged(ctx, current.VenueID)
	return event, nil
}

// BulkCreateEvents parses pasted URLs or identifiers for one venue and stores the ones
// whose URL is not known yet. Created events are returned in input order.
func (s *Service) BulkCreateEvents(ctx context.Context, venueID int64, text string) ([]models.Event, error) {
	venue, err := s.store.GetVenue(ctx, venueID)
	if err != nil {
		return nil, fmt.Errorf("get venue %d: %w", venueID, err)
	}
	if len(urlpattern.Lines(text)) > s.maxBulkLines {
		return nil, fmt.Errorf("%w: limit is %d", ErrTooManyLines, s.maxBulkLines)
	}

	baseURL := ""
	if venue.BaseURL != nil {
		baseURL = *venue.BaseURL
	}
	entries := urlpattern.ParseBulkInput(text, baseURL)
	if len(entries) == 0 {
		return []models.Event{}, nil
	}

	urls := make([]string, 0, len(entries))
	for _, e := range entries {
		urls = append(urls, e.URL)
	}
	existing, err := s.store.ExistingEventURLs(ctx, urls)
	if err != nil {
		return nil, fmt.Errorf("existing event urls: %w", err)
	}

	pending := make([]models.NewEvent, 0, len(entries))
	for _, e := range entries {
		if _, dup := existing[e.URL]; dup {
			continue
		}
		existing[e.URL] = struct{}{}

		ev := models.NewEvent{URL: e.URL, VenueID: venueID}
		if e.HasIdentifier {
			id := e.Identifier
			ev.EventID = &id
			ev.Name = id
		} else {
			ev.Name = fmt.Sprintf("Event %d", len(pending)+1)
		}
		pending = append(pending, ev)
	}
	if len(pending) == 0 {
		return []models.Event{}, nil
	}

	created, err := s.store.CreateEventsSkipExisting(ctx, pending)
	if err != nil {
		return nil, fmt.Errorf("create events: %w", err)
	}
	s.logger.Info("bulk_events", "venue_id", venueID, "lines", len(entries), "created", len(created))
	s.refreshBaseURLLogged(ctx, venueID)
	return created, nil
}

// BulkCreateVenues parses "Name | Description" lines and stores venues whose name is
// new. Repeated names inside the input are created once.
func (s *Service) BulkCreateVenues(ctx context.Context, text string) ([]models.Venue, error) {
	lines := urlpattern.ParseVenueLines(text)
	if len(lines) > s.maxBulkLines {
		return nil, fmt.Errorf("%w: limit is %d", ErrTooManyLines, s.maxBulkLines)
	}
	if len(lines) == 0 {
		return []models.Venue{}, nil
	}

	names := make([]string, 0, len(lines))
	for _, l := range lines {
		names = append(names, l.Name)
	}
	existing, err := s.store.ExistingVenueNames(ctx, names)
	if err != nil {
		return nil, fmt.Errorf("existing venue names: %w", err)
	}

	pending := make([]models.NewVenue, 0, len(lines))
	for _, l := range lines {
		if _, dup := existing[l.Name]; dup {
			continue
		}
		existing[l.Name] = struct{}{}
		pending = append(pending, models.NewVenue{Name: l.Name, Description: l.Description})
	}
	if len(pending) == 0 {
		return []models.Venue{}, nil
	}

	created, err := s.store.CreateVenuesSkipExisting(ctx, pending)
	if err != nil {
		return nil, fmt.Errorf("create venues: %w", err)
	}
	s.logger.Info("bulk_venues", "lines", len(lines), "created", len(created))
	return created, nil
}

// RefreshBaseURL re-infers a venue's base URL from all of its events once it has at
// least two. It returns the stored value and whether one was written.
func (s *Service) RefreshBaseURL(ctx context.Context, venueID int64) (string, bool, error) {
	urls, err := s.store.ListVenueEventURLs(ctx, venueID)
	if err != nil {
		return "", false, fmt.Errorf("list venue urls: %w", err)
	}
	if len(urls) < 2 {
		return "", false, nil
	}
	base, ok := urlpattern.InferBaseURL(urls)
	if !ok {
		return "", false, nil
	}
	if err := s.store.SetVenueBaseURL(ctx, venueID, base); err != nil {
		return "", false, fmt.Errorf("set base url: %w", err)
	}
	return base, true, nil
}

func (s *Service) refreshBaseURLLogged(ctx context.Context, venueID int64) {
	base, updated, err := s.RefreshBaseURL(ctx, venueID)
	if err != nil {
		s.logger.Error("refresh_base_url", "venue_id", venueID, "status", "error", "error", err)
		return
	}
	if updated {
		s.logger.Debug("refresh_base_url", "venue_id", venueID, "status", "success", "base_url", base)
	}
}
