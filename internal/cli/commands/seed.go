package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"venuecatalog/backend/internal/models"
)

// SeedFile is the YAML layout accepted by the seed command.
type SeedFile struct {
	Venues []SeedVenue `yaml:"venues"`
}

type SeedVenue struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	BaseURL     string      `yaml:"base_url"`
	Events      []SeedEvent `yaml:"events"`
	// BulkEvents is pasted into POST /events/bulk as is.
	BulkEvents string `yaml:"bulk_events"`
}

type SeedEvent struct {
	Name    string `yaml:"name"`
	URL     string `yaml:"url"`
	EventID string `yaml:"event_id"`
	Date    string `yaml:"date"`
	Time    string `yaml:"time"`
}

// LoadSeedFile parses and validates a seed file.
func LoadSeedFile(path string) (*SeedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var seed SeedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	for i, v := range seed.Venues {
		if strings.TrimSpace(v.Name) == "" {
			return nil, fmt.Errorf("venues[%d]: name is required", i)
		}
		for j, e := range v.Events {
			if e.Name == "" || e.URL == "" {
				return nil, fmt.Errorf("venues[%d].events[%d]: name and url are required", i, j)
			}
		}
	}
	return &seed, nil
}

// SeedReport counts what a seed run did.
type SeedReport struct {
	VenuesCreated  int
	VenuesExisting int
	EventsCreated  int
	EventsSkipped  int
}

// NewSeedCommand creates the seed command.
func NewSeedCommand() *cobra.Command {
	var apiURL, apiKey string
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "seed <seed-file>",
		Short: "Load venues and events from a YAML file through the API",
		Long: `Load venues and events from a YAML file through the API.

Venues that already exist (by name) are reused. Events whose URL is already
stored are skipped, so the command can be re-run safely.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if apiKey == "" {
				apiKey = os.Getenv("API_KEY")
			}
			if apiKey == "" {
				return errors.New("--api-key or API_KEY is required")
			}
			seed, err := LoadSeedFile(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			client := NewAPIClient(apiURL, apiKey, &http.Client{Timeout: timeout})
			report, err := RunSeed(ctx, client, seed)
			if err != nil {
				return err
			}
			cmd.Printf("venues: %d created, %d existing\n", report.VenuesCreated, report.VenuesExisting)
			cmd.Printf("events: %d created, %d skipped\n", report.EventsCreated, report.EventsSkipped)
			return nil
		},
	}
	cmd.Flags().StringVar(&apiURL, "api", "http://localhost:8080", "API base URL")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "API key (defaults to $API_KEY)")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "per-request timeout")
	return cmd
}

// RunSeed pushes seed through client.
func RunSeed(ctx context.Context, client *APIClient, seed *SeedFile) (SeedReport, error) {
	var report SeedReport

	var venues []models.Venue
	if _, err := client.do(ctx, http.MethodGet, "/venues/", nil, &venues); err != nil {
		return report, fmt.Errorf("list venues: %w", err)
	}
	byName := make(map[string]int64, len(venues))
	for _, v := range venues {
		byName[v.Name] = v.ID
	}

	for _, sv := range seed.Venues {
		venueID, ok := byName[sv.Name]
		if ok {
			report.VenuesExisting++
		} else {
			body := map[string]interface{}{"name": sv.Name, "description": sv.Description}
			if sv.BaseURL != "" {
				body["base_url"] = sv.BaseURL
			}
			var created models.Venue
			if _, err := client.do(ctx, http.MethodPost, "/venues/", body, &created); err != nil {
				return report, fmt.Errorf("create venue %q: %w", sv.Name, err)
			}
			venueID = created.ID
			byName[sv.Name] = venueID
			report.VenuesCreated++
		}

		for _, se := range sv.Events {
			body := map[string]interface{}{"name": se.Name, "url": se.URL, "venue_id": venueID}
			for key, val := range map[string]string{"event_id": se.EventID, "date": se.Date, "time": se.Time} {
				if val != "" {
					body[key] = val
				}
			}
			status, err := client.do(ctx, http.MethodPost, "/events/", body, nil)
			if status == http.StatusBadRequest {
				report.EventsSkipped++
				continue
			}
			if err != nil {
				return report, fmt.Errorf("create event %q: %w", se.URL, err)
			}
			report.EventsCreated++
		}

		if strings.TrimSpace(sv.BulkEvents) != "" {
			var created []models.Event
			body := map[string]interface{}{"venue_id": venueID, "bulk_input": sv.BulkEvents}
			if _, err := client.do(ctx, http.MethodPost, "/events/bulk", body, &created); err != nil {
				return report, fmt.Errorf("bulk events for %q: %w", sv.Name, err)
			}
			report.EventsCreated += len(created)
		}
	}
	return report, nil
}

// APIClient talks to the catalog API with an API key.
type APIClient struct {
	base string
	key  string
	http *http.Client
}

// NewAPIClient returns a client for the catalog API at base.
func NewAPIClient(base, key string, httpClient *http.Client) *APIClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &APIClient{base: strings.TrimSuffix(base, "/"), key: key, http: httpClient}
}

// do sends a JSON request and decodes a 2xx body into out. Non-2xx responses return the
// status together with the server's detail.
func (c *APIClient) do(ctx context.Context, method, path string, body, out interface{}) (int, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, err
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return 0, err
	}
	req.Header.Set("X-API-Key", c.key)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var detail struct {
			Detail string `json:"detail"`
		}
		_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&detail)
		return resp.StatusCode, fmt.Errorf("%s %s: %d %s", method, path, resp.StatusCode, detail.Detail)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil
	}
	return resp.StatusCode, json.NewDecoder(resp.Body).Decode(out)
}
