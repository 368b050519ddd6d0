package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"venuecatalog/backend/internal/models"
	"venuecatalog/backend/internal/repository"
)

// MemoryStore is a process-local Store with the same error contract as the Postgres
// repository. It backs STORE_DRIVER=memory and the tests.
type MemoryStore struct {
	mu          sync.RWMutex
	venues      map[int64]models.Venue
	events      map[int64]models.Event
	nextVenueID int64
	nextEventID int64
	now         func() time.Time
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		venues: make(map[int64]models.Venue),
		events: make(map[int64]models.Event),
		now:    time.Now,
	}
}

func (m *MemoryStore) Ping(context.Context) error { return nil }

func conflict(constraint string) error {
	return &repository.ConstraintError{Constraint: constraint, Err: repository.ErrConflict}
}

func (m *MemoryStore) venueByNameLocked(name string) (models.Venue, bool) {
	for _, v := range m.venues {
		if v.Name == name {
			return v, true
		}
	}
	return models.Venue{}, false
}

func (m *MemoryStore) eventByURLLocked(url string) (models.Event, bool) {
	for _, e := range m.events {
		if e.URL == url {
			return e, true
		}
	}
	return models.Event{}, false
}

func (m *MemoryStore) insertVenueLocked(venue models.NewVenue) models.Venue {
	m.nextVenueID++
	now := m.now()
	v := models.Venue{
		ID:          m.nextVenueID,
		Name:        venue.Name,
		Description: venue.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	m.venues[v.ID] = v
	return v
}

func (m *MemoryStore) insertEventLocked(event models.NewEvent) models.Event {
	m.nextEventID++
	now := m.now()
	e := models.Event{
		ID:        m.nextEventID,
		Name:      event.Name,
		URL:       event.URL,
		EventID:   event.EventID,
		Date:      event.Date,
		Time:      event.Time,
		VenueID:   event.VenueID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.events[e.ID] = e
	return e
}

func (m *MemoryStore) CreateVenue(_ context.Context, venue models.NewVenue) (models.Venue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, dup := m.venueByNameLocked(venue.Name); dup {
		return models.Venue{}, conflict(repository.ConstraintVenueName)
	}
	return m.insertVenueLocked(venue), nil
}

func (m *MemoryStore) CreateVenuesSkipExisting(_ context.Context, venues []models.NewVenue) ([]models.Venue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Venue, 0, len(venues))
	for _, venue := range venues {
		if _, dup := m.venueByNameLocked(venue.Name); dup {
			continue
		}
		out = append(out, m.insertVenueLocked(venue))
	}
	return out, nil
}

func (m *MemoryStore) ExistingVenueNames(_ context.Context, names []string) (map[string]struct{}, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]struct{})
	for _, name := range names {
		if _, ok := m.venueByNameLocked(name); ok {
			out[name] = struct{}{}
		}
	}
	return out, nil
}

func (m *MemoryStore) ListVenues(_ context.Context) ([]models.Venue, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.filterVenuesLocked(func(models.Venue) bool { return true }), nil
}

func (m *MemoryStore) GetVenue(_ context.Context, id int64) (models.Venue, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.venues[id]
	if !ok {
		return models.Venue{}, repository.ErrNotFound
	}
	return v, nil
}

func (m *MemoryStore) GetVenueByName(_ context.Context, name string) (models.Venue, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.venueByNameLocked(name)
	if !ok {
		return models.Venue{}, repository.ErrNotFound
	}
	return v, nil
}

func (m *MemoryStore) UpdateVenue(_ context.Context, id int64, venue models.NewVenue) (models.Venue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.venues[id]
	if !ok {
		return models.Venue{}, repository.ErrNotFound
	}
	if other, dup := m.venueByNameLocked(venue.Name); dup && other.ID != id {
		return models.Venue{}, conflict(repository.ConstraintVenueName)
	}
	v.Name = venue.Name
	v.Description = venue.Description
	v.UpdatedAt = m.now()
	m.venues[id] = v
	return v, nil
}

func (m *MemoryStore) SetVenueBaseURL(_ context.Context, id int64, baseURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.venues[id]
	if !ok {
		return repository.ErrNotFound
	}
	v.BaseURL = &baseURL
	v.UpdatedAt = m.now()
	m.venues[id] = v
	return nil
}

func (m *MemoryStore) DeleteVenue(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.venues[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.venues, id)
	for eid, e := range m.events {
		if e.VenueID == id {
			delete(m.events, eid)
		}
	}
	return nil
}

func (m *MemoryStore) CreateEvent(_ context.Context, event models.NewEvent) (models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.venues[event.VenueID]; !ok {
		return models.Event{}, &repository.ConstraintError{Constraint: "events_venue_id_fkey", Err: repository.ErrForeignKey}
	}
	if _, dup := m.eventByURLLocked(event.URL); dup {
		return models.Event{}, conflict(repository.ConstraintEventURL)
	}
	return m.insertEventLocked(event), nil
}

func (m *MemoryStore) CreateEventsSkipExisting(_ context.Context, events []models.NewEvent) ([]models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, event := range events {
		if _, ok := m.venues[event.VenueID]; !ok {
			return nil, &repository.ConstraintError{Constraint: "events_venue_id_fkey", Err: repository.ErrForeignKey}
		}
	}
	out := make([]models.Event, 0, len(events))
	for _, event := range events {
		if _, dup := m.eventByURLLocked(event.URL); dup {
			continue
		}
		out = append(out, m.insertEventLocked(event))
	}
	return out, nil
}

func (m *MemoryStore) ExistingEventURLs(_ context.Context, urls []string) (map[string]struct{}, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]struct{})
	for _, url := range urls {
		if _, ok := m.eventByURLLocked(url); ok {
			out[url] = struct{}{}
		}
	}
	return out, nil
}

func (m *MemoryStore) ListEvents(_ context.Context) ([]models.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.filterEventsLocked(func(models.Event) bool { return true }), nil
}

func (m *MemoryStore) ListVenueEvents(_ context.Context, venueID int64) ([]models.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.filterEventsLocked(func(e models.Event) bool { return e.VenueID == venueID }), nil
}

func (m *MemoryStore) ListVenueEventURLs(ctx context.Context, venueID int64) ([]string, error) {
	events, _ := m.ListVenueEvents(ctx, venueID)
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.URL)
	}
	return out, nil
}

func (m *MemoryStore) GetEvent(_ context.Context, id int64) (models.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.events[id]
	if !ok {
		return models.Event{}, repository.ErrNotFound
	}
	return e, nil
}

func (m *MemoryStore) UpdateEvent(_ context.Context, id int64, event models.NewEvent) (models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[id]
	if !ok {
		return models.Event{}, repository.ErrNotFound
	}
	if other, dup := m.eventByURLLocked(event.URL); dup && other.ID != id {
		return models.Event{}, conflict(repository.ConstraintEventURL)
	}
	e.Name = event.Name
	e.URL = event.URL
	e.EventID = event.EventID
	e.Date = event.Date
	e.Time = event.Time
	e.UpdatedAt = m.now()
	m.events[id] = e
	return e, nil
}

func (m *MemoryStore) DeleteEvent(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.events[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.events, id)
	return nil
}

func (m *MemoryStore) Search(_ context.Context, q string) (models.SearchResult, error) {
	needle := strings.ToLower(q)
	contains := func(s string) bool { return strings.Contains(strings.ToLower(s), needle) }

	m.mu.RLock()
	defer m.mu.RUnlock()
	return models.SearchResult{
		Venues: m.filterVenuesLocked(func(v models.Venue) bool { return contains(v.Name) }),
		Events: m.filterEventsLocked(func(e models.Event) bool {
			return contains(e.Name) || (e.EventID != nil && contains(*e.EventID))
		}),
	}, nil
}

func (m *MemoryStore) filterVenuesLocked(keep func(models.Venue) bool) []models.Venue {
	out := make([]models.Venue, 0)
	for _, v := range m.venues {
		if keep(v) {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *MemoryStore) filterEventsLocked(keep func(models.Event) bool) []models.Event {
	out := make([]models.Event, 0)
	for _, e := range m.events {
		if keep(e) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
