package catalog

import (
	"context"
	"errors"
	"strings"
	"testing"

	"venuecatalog/backend/internal/logging"
	"venuecatalog/backend/internal/models"
	"venuecatalog/backend/internal/repository"
)

func newTestService(t *testing.T, maxLines int) (*Service, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore()
	return New(store, logging.Discard(), maxLines), store
}

func mustVenue(t *testing.T, store *MemoryStore, name string) models.Venue {
	t.Helper()
	v, err := store.CreateVenue(context.Background(), models.NewVenue{Name: name})
	if err != nil {
		t.Fatalf("create venue: %v", err)
	}
	return v
}

func strPtr(s string) *string { return &s }

func TestCreateEventExtractsIdentifierAndRefreshesBase(t *testing.T) {
	svc, store := newTestService(t, 0)
	ctx := context.Background()
	venue := mustVenue(t, store, "Hall")

	first, err := svc.CreateEvent(ctx, venue.ID, EventInput{Name: "One", URL: "https://tix.example.com/events/abc"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if first.EventID == nil || *first.EventID != "abc" {
		t.Fatalf("unexpected event id %v", first.EventID)
	}
	got, _ := store.GetVenue(ctx, venue.ID)
	if got.BaseURL != nil {
		t.Fatalf("base url set after a single event: %q", *got.BaseURL)
	}

	if _, err := svc.CreateEvent(ctx, venue.ID, EventInput{Name: "Two", URL: "https://tix.example.com/events/abd"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	got, _ = store.GetVenue(ctx, venue.ID)
	if got.BaseURL == nil || *got.BaseURL != "https://tix.example.com/events" {
		t.Fatalf("unexpected base url %v", got.BaseURL)
	}
}

func TestCreateEventKeepsExplicitIdentifier(t *testing.T) {
	svc, store := newTestService(t, 0)
	venue := mustVenue(t, store, "Hall")

	ev, err := svc.CreateEvent(context.Background(), venue.ID, EventInput{
		Name:    "One",
		URL:     "https://tix.example.com/events/abc",
		EventID: strPtr("custom"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if *ev.EventID != "custom" {
		t.Fatalf("explicit id overwritten: %q", *ev.EventID)
	}
}

func TestCreateEventErrors(t *testing.T) {
	svc, store := newTestService(t, 0)
	ctx := context.Background()

	_, err := svc.CreateEvent(ctx, 99, EventInput{Name: "x", URL: "https://a.com/events/1"})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	venue := mustVenue(t, store, "Hall")
	in := EventInput{Name: "x", URL: "https://a.com/events/1"}
	if _, err := svc.CreateEvent(ctx, venue.ID, in); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err = svc.CreateEvent(ctx, venue.ID, in)
	if !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if repository.Constraint(err) != repository.ConstraintEventURL {
		t.Fatalf("unexpected constraint %q", repository.Constraint(err))
	}
}

func TestUpdateEventIdentifier(t *testing.T) {
	svc, store := newTestService(t, 0)
	ctx := context.Background()
	venue := mustVenue(t, store, "Hall")
	ev, err := svc.CreateEvent(ctx, venue.ID, EventInput{Name: "One", URL: "https://tix.example.com/events/abc"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := store.UpdateEvent(ctx, ev.ID, models.NewEvent{Name: "One", URL: ev.URL, EventID: strPtr("manual")}); err != nil {
		t.Fatalf("seed manual id: %v", err)
	}

	cases := []struct {
		name string
		in   EventInput
		want string
	}{
		{name: "same_url_keeps_id", in: EventInput{Name: "Renamed", URL: "https://tix.example.com/events/abc"}, want: "manual"},
		{name: "new_url_reextracts", in: EventInput{Name: "Moved", URL: "https://tix.example.com/show/late-night"}, want: "late-night"},
		{name: "explicit_wins", in: EventInput{Name: "Moved", URL: "https://tix.example.com/show/other", EventID: strPtr("pinned")}, want: "pinned"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := svc.UpdateEvent(ctx, ev.ID, tc.in)
			if err != nil {
				t.Fatalf("update: %v", err)
			}
			if got.EventID == nil || *got.EventID != tc.want {
				t.Fatalf("unexpected event id %v want %q", got.EventID, tc.want)
			}
			if got.VenueID != venue.ID {
				t.Fatalf("venue changed to %d", got.VenueID)
			}
		})
	}

	if _, err := svc.UpdateEvent(ctx, 404, EventInput{Name: "x", URL: "https://a.com/x"}); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestBulkCreateEvents(t *testing.T) {
	svc, store := newTestService(t, 0)
	ctx := context.Background()
	venue := mustVenue(t, store, "Hall")
	if _, err := svc.CreateEvent(ctx, venue.ID, EventInput{Name: "Known", URL: "https://tix.example.com/events/aaa"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	input := strings.Join([]string{
		"https://tix.example.com/events/aaa",
		"https://tix.example.com/events/bbb",
		"",
		"https://tix.example.com/events/bbb",
		"https://tix.example.com/",
	}, "\n")
	created, err := svc.BulkCreateEvents(ctx, venue.ID, input)
	if err != nil {
		t.Fatalf("bulk: %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("expected 2 created events, got %d", len(created))
	}
	if created[0].Name != "bbb" || *created[0].EventID != "bbb" {
		t.Fatalf("unexpected first event %+v", created[0])
	}
	if created[1].Name != "Event 2" || created[1].EventID != nil {
		t.Fatalf("unexpected unnamed event %+v", created[1])
	}

	got, _ := store.GetVenue(ctx, venue.ID)
	if got.BaseURL == nil || *got.BaseURL != "https://tix.example.com" {
		t.Fatalf("unexpected base url %v", got.BaseURL)
	}
}

func TestBulkCreateEventsUsesStoredBase(t *testing.T) {
	svc, store := newTestService(t, 0)
	ctx := context.Background()
	venue := mustVenue(t, store, "Club")
	if err := store.SetVenueBaseURL(ctx, venue.ID, "https://club.example.com/event"); err != nil {
		t.Fatalf("set base: %v", err)
	}

	created, err := svc.BulkCreateEvents(ctx, venue.ID, "night-1\nnight-2\n")
	if err != nil {
		t.Fatalf("bulk: %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("expected 2 events, got %d", len(created))
	}
	if created[0].URL != "https://club.example.com/event/night-1" || *created[0].EventID != "night-1" {
		t.Fatalf("unexpected event %+v", created[0])
	}
}

func TestBulkCreateEventsLimits(t *testing.T) {
	svc, store := newTestService(t, 2)
	ctx := context.Background()
	venue := mustVenue(t, store, "Hall")

	_, err := svc.BulkCreateEvents(ctx, venue.ID, "a\nb\nc")
	if !errors.Is(err, ErrTooManyLines) {
		t.Fatalf("expected too many lines, got %v", err)
	}
	if _, err := svc.BulkCreateEvents(ctx, 42, "a"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	created, err := svc.BulkCreateEvents(ctx, venue.ID, "  \n\n")
	if err != nil || len(created) != 0 {
		t.Fatalf("expected empty result, got %v %v", created, err)
	}
}

func TestBulkCreateVenues(t *testing.T) {
	svc, store := newTestService(t, 0)
	ctx := context.Background()
	mustVenue(t, store, "Existing")

	input := "Existing | old\nNew Hall | Big room\nNew Hall | again\nBare\n | nameless"
	created, err := svc.BulkCreateVenues(ctx, input)
	if err != nil {
		t.Fatalf("bulk venues: %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("expected 2 venues, got %d", len(created))
	}
	if created[0].Name != "New Hall" || created[0].Description != "Big room" {
		t.Fatalf("unexpected venue %+v", created[0])
	}
	if created[1].Name != "Bare" || created[1].Description != "" {
		t.Fatalf("unexpected venue %+v", created[1])
	}
}

func TestRefreshBaseURLNeedsSharedHost(t *testing.T) {
	svc, store := newTestService(t, 0)
	ctx := context.Background()
	venue := mustVenue(t, store, "Mixed")
	for _, url := range []string{"https://a.example.com/events/1", "https://b.example.com/events/2"} {
		if _, err := store.CreateEvent(ctx, models.NewEvent{Name: url, URL: url, VenueID: venue.ID}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	_, updated, err := svc.RefreshBaseURL(ctx, venue.ID)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if updated {
		t.Fatalf("expected no base url for mixed hosts")
	}
	got, _ := store.GetVenue(ctx, venue.ID)
	if got.BaseURL != nil {
		t.Fatalf("base url written: %q", *got.BaseURL)
	}
}

func TestCreateAndUpdateVenueBaseURL(t *testing.T) {
	svc, _ := newTestService(t, 0)
	ctx := context.Background()

	venue, err := svc.CreateVenue(ctx, VenueInput{Name: "Arena", Description: "Main", BaseURL: strPtr("https://arena.example.com/e")})
	if err != nil {
		t.Fatalf("create venue: %v", err)
	}
	if venue.BaseURL == nil || *venue.BaseURL != "https://arena.example.com/e" {
		t.Fatalf("unexpected base url %v", venue.BaseURL)
	}

	updated, err := svc.UpdateVenue(ctx, venue.ID, VenueInput{Name: "Arena 2", Description: "Main"})
	if err != nil {
		t.Fatalf("update venue: %v", err)
	}
	if updated.Name != "Arena 2" || updated.BaseURL == nil || *updated.BaseURL != "https://arena.example.com/e" {
		t.Fatalf("unexpected venue %+v", updated)
	}

	if _, err := svc.CreateVenue(ctx, VenueInput{Name: "Arena 2"}); !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if _, err := svc.UpdateVenue(ctx, 77, VenueInput{Name: "Ghost"}); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
