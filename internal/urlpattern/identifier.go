// Package urlpattern infers event identifiers and venue base URLs from event page URLs
// and normalizes pasted bulk input. Every function here is pure and safe for concurrent use.
package urlpattern

import "regexp"

const tokenClass = `[A-Za-z0-9_-]+`

// Rule is one path shape that can carry an event identifier.
type Rule struct {
	Name    string
	pattern *regexp.Regexp
}

// identifierRules are tried in order; the first rule that matches anywhere in the URL wins.
var identifierRules = []Rule{
	{Name: "events", pattern: regexp.MustCompile(`/events?/(` + tokenClass + `)`)},
	{Name: "event-prefix", pattern: regexp.MustCompile(`/event-(` + tokenClass + `)`)},
	{Name: "short-e", pattern: regexp.MustCompile(`/e/(` + tokenClass + `)`)},
	{Name: "tickets", pattern: regexp.MustCompile(`/tickets/(` + tokenClass + `)`)},
	{Name: "ticket", pattern: regexp.MustCompile(`/ticket/(` + tokenClass + `)`)},
	{Name: "show", pattern: regexp.MustCompile(`/show/(` + tokenClass + `)`)},
	{Name: "last-segment", pattern: regexp.MustCompile(`/(` + tokenClass + `)/?$`)},
}

// Rules returns the rule names in evaluation order.
func Rules() []string {
	names := make([]string, 0, len(identifierRules))
	for _, rule := range identifierRules {
		names = append(names, rule.Name)
	}
	return names
}

// ExtractIdentifier returns the event identifier carried by rawURL.
// The second result is false when no rule matches.
func ExtractIdentifier(rawURL string) (string, bool) {
	id, _, ok := MatchIdentifier(rawURL)
	return id, ok
}

// MatchIdentifier is ExtractIdentifier that also reports which rule matched.
func MatchIdentifier(rawURL string) (id string, rule string, ok bool) {
	for _, r := range identifierRules {
		if m := r.pattern.FindStringSubmatch(rawURL); m != nil {
			return m[1], r.Name, true
		}
	}
	return "", "", false
}
