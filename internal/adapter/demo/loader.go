// internal/adapter/demo/loader.go

package demo

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/feileberlin/krwl-hof/internal/domain/event"
)

// Load reads a JSON file of demo template events. The file uses the same
// envelope as the exported events file: {"events": [...]}. Template
// events keep their relative-time specs here; materialization happens per
// request so the demo data always looks current.
func Load(path string) ([]event.Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading demo events: %w", err)
	}

	var payload struct {
		Events []event.Event `json:"events"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("error parsing demo events: %w", err)
	}

	return payload.Events, nil
}
