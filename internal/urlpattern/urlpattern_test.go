package urlpattern

import (
	"reflect"
	"testing"
)

func TestExtractIdentifier(t *testing.T) {
	cases := []struct {
		name   string
		url    string
		want   string
		wantOK bool
		rule   string
	}{
		{name: "events", url: "https://site.com/events/abc-123_x", want: "abc-123_x", wantOK: true, rule: "events"},
		{name: "event_singular", url: "https://site.com/event/99", want: "99", wantOK: true, rule: "events"},
		{name: "event_prefix", url: "https://site.com/event-rock2024", want: "rock2024", wantOK: true, rule: "event-prefix"},
		{name: "short_e", url: "https://site.com/e/AbC", want: "AbC", wantOK: true, rule: "short-e"},
		{name: "tickets", url: "https://site.com/tickets/t1", want: "t1", wantOK: true, rule: "tickets"},
		{name: "ticket_singular", url: "https://site.com/ticket/t2", want: "t2", wantOK: true, rule: "ticket"},
		{name: "nested_tickets", url: "https://msg.com/knicks/tickets/123", want: "123", wantOK: true, rule: "tickets"},
		{name: "tickets_anywhere_beats_earlier_ticket", url: "https://a.com/ticket/a/tickets/b", want: "b", wantOK: true, rule: "tickets"},
		{name: "show", url: "https://site.com/show/xyz123", want: "xyz123", wantOK: true, rule: "show"},
		{name: "fallback", url: "https://site.com/nope", want: "nope", wantOK: true, rule: "last-segment"},
		{name: "fallback_trailing_slash", url: "https://site.com/nope/", want: "nope", wantOK: true, rule: "last-segment"},
		{name: "events_before_tickets", url: "https://site.com/events/123/tickets/abc", want: "123", wantOK: true, rule: "events"},
		{name: "events_rule_beats_earlier_tickets", url: "https://site.com/tickets/abc/events/123", want: "123", wantOK: true, rule: "events"},
		{name: "segment_must_start_with_event", url: "https://site.com/myevents/7", want: "7", wantOK: true, rule: "last-segment"},
		{name: "events_with_query", url: "https://site.com/events/12?ref=home", want: "12", wantOK: true, rule: "events"},
		{name: "root_path", url: "https://site.com/", wantOK: false},
		{name: "bare_domain", url: "https://site.com", wantOK: false},
		{name: "query_only_tail", url: "https://site.com/x?id=5", wantOK: false},
		{name: "empty", url: "", wantOK: false},
		{name: "dotless_host_hits_fallback", url: "https://localhost", want: "localhost", wantOK: true, rule: "last-segment"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, rule, ok := MatchIdentifier(tc.url)
			if ok != tc.wantOK {
				t.Fatalf("expected ok=%v, got %v (id=%q)", tc.wantOK, ok, got)
			}
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
			if rule != tc.rule {
				t.Fatalf("expected rule %q, got %q", tc.rule, rule)
			}
			again, okAgain := ExtractIdentifier(tc.url)
			if again != got || okAgain != ok {
				t.Fatalf("extraction not deterministic: %q/%v then %q/%v", got, ok, again, okAgain)
			}
		})
	}
}

func TestExtractIdentifierEventsPathAnywhere(t *testing.T) {
	ids := []string{"1", "abc", "A-b_C-9", "nets-warriors-abc123", "___", "-"}
	for _, id := range ids {
		for _, url := range []string{
			"https://venue.example/events/" + id,
			"https://venue.example/events/" + id + "/",
			"https://venue.example/events/" + id + "/tickets/other",
			"http://venue.example/a/b/events/" + id + "?x=1",
		} {
			got, ok := ExtractIdentifier(url)
			if !ok || got != id {
				t.Fatalf("%s: expected %q, got %q (ok=%v)", url, id, got, ok)
			}
		}
	}
}

func TestRulesOrder(t *testing.T) {
	want := []string{"events", "event-prefix", "short-e", "tickets", "ticket", "show", "last-segment"}
	if got := Rules(); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected rules: got=%v want=%v", got, want)
	}
}

func TestInferBaseURL(t *testing.T) {
	cases := []struct {
		name   string
		urls   []string
		want   string
		wantOK bool
	}{
		{name: "events_listing", urls: []string{"https://a.com/events/1", "https://a.com/events/2"}, want: "https://a.com/events", wantOK: true},
		{name: "strips_shared_id_fragment", urls: []string{"https://a.com/events/12", "https://a.com/events/13"}, want: "https://a.com/events", wantOK: true},
		{name: "strips_shared_word_fragment", urls: []string{"https://a.com/events/abc1", "https://a.com/events/abc2"}, want: "https://a.com/events", wantOK: true},
		{name: "slug_ids", urls: []string{
			"https://barclayscenter.com/events/nets-warriors-abc123",
			"https://barclayscenter.com/events/drake-def456",
			"https://barclayscenter.com/events/ufc-ghi789",
		}, want: "https://barclayscenter.com/events", wantOK: true},
		{name: "scheme_normalized", urls: []string{"http://a.com/e/1", "http://a.com/e/2"}, want: "https://a.com/e", wantOK: true},
		{name: "port_kept", urls: []string{"https://a.com:8443/show/1", "https://a.com:8443/show/2"}, want: "https://a.com:8443/show", wantOK: true},
		{name: "no_common_path", urls: []string{"https://a.com/x", "https://a.com/y"}, want: "https://a.com", wantOK: true},
		{name: "non_ascii_path_kept", urls: []string{"https://a.com/café/1", "https://a.com/café/2"}, want: "https://a.com/café", wantOK: true},
		{name: "prefix_stops_at_character_boundary", urls: []string{"https://a.com/café/1", "https://a.com/cafè/2"}, want: "https://a.com", wantOK: true},
		{name: "space_in_path_kept", urls: []string{"https://a.com/my events/1", "https://a.com/my events/2"}, want: "https://a.com/my events", wantOK: true},
		{name: "bad_escape_tolerated", urls: []string{"https://a.com/events/%zz1", "https://a.com/events/2"}, want: "https://a.com/events", wantOK: true},
		{name: "query_and_fragment_ignored", urls: []string{"https://a.com/events/1?ref=x", "https://a.com/events/2#top"}, want: "https://a.com/events", wantOK: true},
		{name: "userinfo_is_part_of_host", urls: []string{"https://u@a.com/events/1", "https://a.com/events/2"}, wantOK: false},
		{name: "mixed_hosts", urls: []string{"https://a.com/x", "https://b.com/y"}, wantOK: false},
		{name: "single_url", urls: []string{"https://a.com/x"}, wantOK: false},
		{name: "empty", urls: nil, wantOK: false},
		{name: "unparseable_mixed_in", urls: []string{"https://a.com/events/1", "http://[::1/events/2"}, wantOK: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := InferBaseURL(tc.urls)
			if ok != tc.wantOK {
				t.Fatalf("expected ok=%v, got %v (%q)", tc.wantOK, ok, got)
			}
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestBuildEventURL(t *testing.T) {
	cases := []struct {
		base string
		id   string
		want string
	}{
		{base: "https://a.com/events", id: "42", want: "https://a.com/events/42"},
		{base: "https://a.com/events/", id: "42", want: "https://a.com/events/42"},
		{base: "https://a.com/tickets", id: "x", want: "https://a.com/tickets/x"},
		{base: "https://a.com", id: "x", want: "https://a.com/x"},
		{base: "https://a.com//", id: "x", want: "https://a.com//x"},
	}
	for _, tc := range cases {
		if got := BuildEventURL(tc.base, tc.id); got != tc.want {
			t.Fatalf("BuildEventURL(%q, %q) = %q, want %q", tc.base, tc.id, got, tc.want)
		}
	}
}

func TestBuildEventURLRoundTrip(t *testing.T) {
	bases := []string{"https://a.com/events", "https://a.com/tickets/", "https://a.com", "https://a.com/show"}
	for _, base := range bases {
		for _, id := range []string{"42", "foo-bar_9"} {
			got, ok := ExtractIdentifier(BuildEventURL(base, id))
			if !ok || got != id {
				t.Fatalf("base %q: expected %q, got %q", base, id, got)
			}
		}
	}

	// A base that already contains a marker earlier in the path wins over the appended id.
	got, _ := ExtractIdentifier(BuildEventURL("https://a.com/events/x/e", "42"))
	if got != "x" {
		t.Fatalf("expected earlier events segment to win, got %q", got)
	}
}

func TestParseBulkInput(t *testing.T) {
	cases := []struct {
		name string
		text string
		base string
		want []Entry
	}{
		{
			name: "urls_and_ids_with_base",
			text: "https://a.com/events/42\nfoo123",
			base: "https://a.com/events",
			want: []Entry{
				{URL: "https://a.com/events/42", Identifier: "42", HasIdentifier: true},
				{URL: "https://a.com/events/foo123", Identifier: "foo123", HasIdentifier: true},
			},
		},
		{
			name: "ids_without_base",
			text: "  abc \n\n\t\ndef\r\n",
			want: []Entry{
				{URL: "abc", Identifier: "abc", HasIdentifier: true},
				{URL: "def", Identifier: "def", HasIdentifier: true},
			},
		},
		{
			name: "url_without_identifier",
			text: "https://site.com/",
			base: "https://a.com/events",
			want: []Entry{{URL: "https://site.com/"}},
		},
		{
			name: "duplicates_kept",
			text: "x\nx",
			base: "https://a.com/e/",
			want: []Entry{
				{URL: "https://a.com/e/x", Identifier: "x", HasIdentifier: true},
				{URL: "https://a.com/e/x", Identifier: "x", HasIdentifier: true},
			},
		},
		{name: "blank", text: " \n \n", want: []Entry{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseBulkInput(tc.text, tc.base)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("unexpected entries: got=%+v want=%+v", got, tc.want)
			}
		})
	}
}

func TestParseVenueLines(t *testing.T) {
	text := "Madison Square Garden | The World's Most Famous Arena\n" +
		"Webster Hall\n" +
		"  Terminal 5 |  \n" +
		" | orphan description\n" +
		"A | b | c\n"
	want := []VenueLine{
		{Name: "Madison Square Garden", Description: "The World's Most Famous Arena"},
		{Name: "Webster Hall"},
		{Name: "Terminal 5"},
		{Name: "A", Description: "b"},
	}
	if got := ParseVenueLines(text); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected venues: got=%+v want=%+v", got, want)
	}
}
