package urlpattern

import "strings"

// Entry is one normalized line of bulk event input.
type Entry struct {
	URL           string
	Identifier    string
	HasIdentifier bool
}

// VenueLine is one line of bulk venue input.
type VenueLine struct {
	Name        string
	Description string
}

// Lines splits text on line breaks and returns the trimmed, non-empty lines.
func Lines(text string) []string {
	raw := strings.Split(text, "\n")
	out := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

// ParseBulkInput turns pasted text into (url, identifier) entries, one per non-empty line.
// Lines starting with "http" are full URLs. Anything else is a bare identifier that is
// expanded against baseURL, or used as both url and identifier when baseURL is empty.
func ParseBulkInput(text string, baseURL string) []Entry {
	lines := Lines(text)
	entries := make([]Entry, 0, len(lines))
	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "http"):
			id, ok := ExtractIdentifier(line)
			entries = append(entries, Entry{URL: line, Identifier: id, HasIdentifier: ok})
		case baseURL != "":
			entries = append(entries, Entry{URL: BuildEventURL(baseURL, line), Identifier: line, HasIdentifier: true})
		default:
			entries = append(entries, Entry{URL: line, Identifier: line, HasIdentifier: true})
		}
	}
	return entries
}

// ParseVenueLines parses "Name | Description" lines. A line without a pipe is a bare name.
func ParseVenueLines(text string) []VenueLine {
	lines := Lines(text)
	out := make([]VenueLine, 0, len(lines))
	for _, line := range lines {
		var v VenueLine
		if strings.Contains(line, "|") {
			parts := strings.Split(line, "|")
			v.Name = strings.TrimSpace(parts[0])
			if len(parts) > 1 {
				v.Description = strings.TrimSpace(parts[1])
			}
		} else {
			v.Name = line
		}
		if v.Name == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
