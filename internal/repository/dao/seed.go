package dao

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed seed_events.yml
var defaultEventSeed []byte

// LoadEventSeed reads the initial event catalog from a YAML file, or from the
// built-in catalog when path is empty.
func LoadEventSeed(path string) ([]Event, error) {
	raw := defaultEventSeed
	if path != "" {
		var err error
		raw, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("os.ReadFile -> %w", err)
		}
	}

	var events []Event
	if err := yaml.Unmarshal(raw, &events); err != nil {
		return nil, fmt.Errorf("yaml.Unmarshal -> %w", err)
	}

	seen := make(map[string]struct{}, len(events))
	for i, e := range events {
		if e.ID == "" {
			return nil, fmt.Errorf("seed event #%d has no id", i)
		}
		if _, dup := seen[e.ID]; dup {
			return nil, fmt.Errorf("seed event %q is listed twice", e.ID)
		}
		seen[e.ID] = struct{}{}
	}

	return events, nil
}
