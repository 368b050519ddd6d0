package models

import "time"

type Venue struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	BaseURL     *string   `json:"base_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Event struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	EventID   *string   `json:"event_id"`
	Date      *string   `json:"date"`
	Time      *string   `json:"time"`
	VenueID   int64     `json:"venue_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewEvent is an event row that has not been stored yet.
type NewEvent struct {
	Name    string
	URL     string
	EventID *string
	Date    *string
	Time    *string
	VenueID int64
}

type NewVenue struct {
	Name        string
	Description string
}

type SearchResult struct {
	Venues []Venue `json:"venues"`
	Events []Event `json:"events"`
}

// Principal is an account allowed to log in.
type Principal struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}
