package repository

import (
	"context"

	"venuecatalog/backend/internal/models"

	"github.com/jackc/pgx/v5"
)

const eventColumns = `id, name, url, event_id, date, time, venue_id, created_at, updated_at`

func scanEvent(row rowScanner) (models.Event, error) {
	var e models.Event
	err := row.Scan(&e.ID, &e.Name, &e.URL, &e.EventID, &e.Date, &e.Time, &e.VenueID, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

func collectEvents(rows pgx.Rows) ([]models.Event, error) {
	defer rows.Close()
	out := make([]models.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// CreateEvent inserts an event. A duplicate URL yields ErrConflict and an unknown
// venue yields ErrForeignKey.
func (r *Repository) CreateEvent(ctx context.Context, event models.NewEvent) (models.Event, error) {
	row := r.pool.QueryRow(ctx, `
INSERT INTO events (name, url, event_id, date, time, venue_id)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING `+eventColumns+`;`, event.Name, event.URL, event.EventID, event.Date, event.Time, event.VenueID)
	e, err := scanEvent(row)
	return e, mapError(err)
}

// CreateEventsSkipExisting inserts events in one transaction. Rows whose URL is already
// stored are skipped and left out of the result.
func (r *Repository) CreateEventsSkipExisting(ctx context.Context, events []models.NewEvent) ([]models.Event, error) {
	created := make([]models.Event, 0, len(events))
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		for _, event := range events {
			row := tx.QueryRow(ctx, `
INSERT INTO events (name, url, event_id, date, time, venue_id)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (url) DO NOTHING
RETURNING `+eventColumns+`;`, event.Name, event.URL, event.EventID, event.Date, event.Time, event.VenueID)
			e, err := scanEvent(row)
			if isNoRows(err) {
				continue
			}
			if err != nil {
				return err
			}
			created = append(created, e)
		}
		return nil
	})
	if err != nil {
		return nil, mapError(err)
	}
	return created, nil
}

// ExistingEventURLs returns the subset of urls already stored.
func (r *Repository) ExistingEventURLs(ctx context.Context, urls []string) (map[string]struct{}, error) {
	return r.existing(ctx, `SELECT url FROM events WHERE url = ANY($1)`, urls)
}

func (r *Repository) ListEvents(ctx context.Context) ([]models.Event, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+eventColumns+` FROM events ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return collectEvents(rows)
}

func (r *Repository) ListVenueEvents(ctx context.Context, venueID int64) ([]models.Event, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+eventColumns+` FROM events WHERE venue_id = $1 ORDER BY id`, venueID)
	if err != nil {
		return nil, err
	}
	return collectEvents(rows)
}

func (r *Repository) ListVenueEventURLs(ctx context.Context, venueID int64) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT url FROM events WHERE venue_id = $1 ORDER BY id`, venueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]string, 0)
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, err
		}
		out = append(out, url)
	}
	return out, rows.Err()
}

func (r *Repository) GetEvent(ctx context.Context, id int64) (models.Event, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id)
	e, err := scanEvent(row)
	return e, mapError(err)
}

// UpdateEvent replaces the mutable fields of an event; the venue is kept.
func (r *Repository) UpdateEvent(ctx context.Context, id int64, event models.NewEvent) (models.Event, error) {
	row := r.pool.QueryRow(ctx, `
UPDATE events
SET name = $2, url = $3, event_id = $4, date = $5, time = $6, updated_at = now()
WHERE id = $1
RETURNING `+eventColumns+`;`, id, event.Name, event.URL, event.EventID, event.Date, event.Time)
	e, err := scanEvent(row)
	return e, mapError(err)
}

func (r *Repository) DeleteEvent(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Search matches venues by name and events by identifier or name, case-insensitively.
func (r *Repository) Search(ctx context.Context, q string) (models.SearchResult, error) {
	pattern := likePattern(q)
	venueRows, err := r.pool.Query(ctx, `
SELECT `+venueColumns+`
FROM venues
WHERE name ILIKE $1 ESCAPE '\'
ORDER BY id;`, pattern)
	if err != nil {
		return models.SearchResult{}, err
	}
	venues, err := collectVenues(venueRows)
	if err != nil {
		return models.SearchResult{}, err
	}

	eventRows, err := r.pool.Query(ctx, `
SELECT `+eventColumns+`
FROM events
WHERE event_id ILIKE $1 ESCAPE '\' OR name ILIKE $1 ESCAPE '\'
ORDER BY id;`, pattern)
	if err != nil {
		return models.SearchResult{}, err
	}
	events, err := collectEvents(eventRows)
	if err != nil {
		return models.SearchResult{}, err
	}
	return models.SearchResult{Venues: venues, Events: events}, nil
}
