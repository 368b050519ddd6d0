package repository

import (
	"context"

	"venuecatalog/backend/internal/models"

	"github.com/jackc/pgx/v5"
)

const venueColumns = `id, name, description, base_url, created_at, updated_at`

func scanVenue(row rowScanner) (models.Venue, error) {
	var v models.Venue
	err := row.Scan(&v.ID, &v.Name, &v.Description, &v.BaseURL, &v.CreatedAt, &v.UpdatedAt)
	return v, err
}

func collectVenues(rows pgx.Rows) ([]models.Venue, error) {
	defer rows.Close()
	out := make([]models.Venue, 0)
	for rows.Next() {
		v, err := scanVenue(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// CreateVenue inserts a venue. A duplicate name yields ErrConflict.
func (r *Repository) CreateVenue(ctx context.Context, venue models.NewVenue) (models.Venue, error) {
	row := r.pool.QueryRow(ctx, `
INSERT INTO venues (name, description)
VALUES ($1, $2)
RETURNING `+venueColumns+`;`, venue.Name, venue.Description)
	v, err := scanVenue(row)
	return v, mapError(err)
}

// CreateVenuesSkipExisting inserts venues in one transaction and returns only the rows
// that were actually created; names that already exist are skipped.
func (r *Repository) CreateVenuesSkipExisting(ctx context.Context, venues []models.NewVenue) ([]models.Venue, error) {
	created := make([]models.Venue, 0, len(venues))
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		for _, venue := range venues {
			row := tx.QueryRow(ctx, `
INSERT INTO venues (name, description)
VALUES ($1, $2)
ON CONFLICT (name) DO NOTHING
RETURNING `+venueColumns+`;`, venue.Name, venue.Description)
			v, err := scanVenue(row)
			if isNoRows(err) {
				continue
			}
			if err != nil {
				return err
			}
			created = append(created, v)
		}
		return nil
	})
	if err != nil {
		return nil, mapError(err)
	}
	return created, nil
}

// ExistingVenueNames returns the subset of names already stored.
func (r *Repository) ExistingVenueNames(ctx context.Context, names []string) (map[string]struct{}, error) {
	return r.existing(ctx, `SELECT name FROM venues WHERE name = ANY($1)`, names)
}

func (r *Repository) ListVenues(ctx context.Context) ([]models.Venue, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+venueColumns+` FROM venues ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return collectVenues(rows)
}

func (r *Repository) GetVenue(ctx context.Context, id int64) (models.Venue, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+venueColumns+` FROM venues WHERE id = $1`, id)
	v, err := scanVenue(row)
	return v, mapError(err)
}

func (r *Repository) GetVenueByName(ctx context.Context, name string) (models.Venue, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+venueColumns+` FROM venues WHERE name = $1`, name)
	v, err := scanVenue(row)
	return v, mapError(err)
}

// UpdateVenue replaces name and description. The stored base URL is left alone.
func (r *Repository) UpdateVenue(ctx context.Context, id int64, venue models.NewVenue) (models.Venue, error) {
	row := r.pool.QueryRow(ctx, `
UPDATE venues
SET name = $2, description = $3, updated_at = now()
WHERE id = $1
RETURNING `+venueColumns+`;`, id, venue.Name, venue.Description)
	v, err := scanVenue(row)
	return v, mapError(err)
}

func (r *Repository) SetVenueBaseURL(ctx context.Context, id int64, baseURL string) error {
	cmd, err := r.pool.Exec(ctx, `
UPDATE venues
SET base_url = $2, updated_at = now()
WHERE id = $1;`, id, baseURL)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteVenue removes a venue together with its events.
func (r *Repository) DeleteVenue(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM venues WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) existing(ctx context.Context, query string, values []string) (map[string]struct{}, error) {
	out := make(map[string]struct{})
	if len(values) == 0 {
		return out, nil
	}
	rows, err := r.pool.Query(ctx, query, values)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out[v] = struct{}{}
	}
	return out, rows.Err()
}
