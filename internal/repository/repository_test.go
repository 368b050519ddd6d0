package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"venuecatalog/backend/internal/db"
	"venuecatalog/backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

func TestLikePatternEscapesWildcards(t *testing.T) {
	cases := map[string]string{
		"msg":    "%msg%",
		"50%":    `%50\%%`,
		"a_b":    `%a\_b%`,
		`back\s`: `%back\\s%`,
		"":       "%%",
	}
	for in, want := range cases {
		if got := likePattern(in); got != want {
			t.Fatalf("likePattern(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMapError(t *testing.T) {
	if !errors.Is(mapError(pgx.ErrNoRows), ErrNotFound) {
		t.Fatalf("expected ErrNotFound for no rows")
	}
	unique := mapError(&pgconn.PgError{Code: "23505", ConstraintName: ConstraintEventURL})
	if !errors.Is(unique, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", unique)
	}
	if Constraint(unique) != ConstraintEventURL {
		t.Fatalf("unexpected constraint %q", Constraint(unique))
	}
	fk := mapError(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23503", ConstraintName: "events_venue_id_fkey"}))
	if !errors.Is(fk, ErrForeignKey) {
		t.Fatalf("expected ErrForeignKey, got %v", fk)
	}
	other := errors.New("boom")
	if mapError(other) != other {
		t.Fatalf("unrelated errors must pass through")
	}
	if mapError(nil) != nil {
		t.Fatalf("nil must stay nil")
	}
}

func openTestRepo(t *testing.T) (*Repository, *pgxpool.Pool) {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := db.NewPool(ctx, dsn)
	if err != nil {
		t.Skipf("db connection failed: %v", err)
	}
	t.Cleanup(pool.Close)
	if err := db.Migrate(ctx, pool); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return New(pool), pool
}

func TestVenueEventLifecycle(t *testing.T) {
	repo, pool := openTestRepo(t)
	ctx := context.Background()
	suffix := time.Now().UnixNano()

	venue, err := repo.CreateVenue(ctx, models.NewVenue{Name: fmt.Sprintf("Test Hall %d", suffix), Description: "test"})
	if err != nil {
		t.Fatalf("create venue: %v", err)
	}
	t.Cleanup(func() {
		_, _ = pool.Exec(ctx, "DELETE FROM venues WHERE id = $1", venue.ID)
	})

	_, err = repo.CreateVenue(ctx, models.NewVenue{Name: venue.Name})
	if !errors.Is(err, ErrConflict) || Constraint(err) != ConstraintVenueName {
		t.Fatalf("expected venue name conflict, got %v", err)
	}

	url1 := fmt.Sprintf("https://test-%d.example/events/1", suffix)
	url2 := fmt.Sprintf("https://test-%d.example/events/2", suffix)
	first, err := repo.CreateEvent(ctx, models.NewEvent{Name: "one", URL: url1, VenueID: venue.ID})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	if first.EventID != nil {
		t.Fatalf("expected null event_id, got %v", *first.EventID)
	}

	created, err := repo.CreateEventsSkipExisting(ctx, []models.NewEvent{
		{Name: "dup", URL: url1, VenueID: venue.ID},
		{Name: "two", URL: url2, VenueID: venue.ID},
	})
	if err != nil {
		t.Fatalf("bulk create: %v", err)
	}
	if len(created) != 1 || created[0].URL != url2 {
		t.Fatalf("expected only the new url to be created, got %+v", created)
	}

	existing, err := repo.ExistingEventURLs(ctx, []string{url1, "https://missing.example/x"})
	if err != nil {
		t.Fatalf("existing urls: %v", err)
	}
	if _, ok := existing[url1]; !ok || len(existing) != 1 {
		t.Fatalf("unexpected existing set %v", existing)
	}

	urls, err := repo.ListVenueEventURLs(ctx, venue.ID)
	if err != nil || len(urls) != 2 {
		t.Fatalf("expected 2 urls, got %v (%v)", urls, err)
	}

	if err := repo.SetVenueBaseURL(ctx, venue.ID, "https://example/events"); err != nil {
		t.Fatalf("set base url: %v", err)
	}
	got, err := repo.GetVenue(ctx, venue.ID)
	if err != nil || got.BaseURL == nil || *got.BaseURL != "https://example/events" {
		t.Fatalf("unexpected venue %+v (%v)", got, err)
	}

	result, err := repo.Search(ctx, fmt.Sprintf("hall %d", suffix))
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(result.Venues) != 1 || result.Venues[0].ID != venue.ID {
		t.Fatalf("unexpected search venues %+v", result.Venues)
	}

	if err := repo.DeleteVenue(ctx, venue.ID); err != nil {
		t.Fatalf("delete venue: %v", err)
	}
	if _, err := repo.GetEvent(ctx, first.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected events to cascade, got %v", err)
	}
	if err := repo.DeleteVenue(ctx, venue.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}
