// Package legacy serves the static table of 4-character keys issued under
// the previous key scheme. The table is loaded once at startup and never
// mutated; legacy hits bypass cache and store entirely.
package legacy

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
)

//go:embed legacy.json
var embeddedTable []byte

// KeyLength is the exact length of every legacy key.
const KeyLength = 4

// Table is a read-only mapping from legacy key to redirect target.
type Table struct {
	targets map[string]string
}

// New parses a flat JSON object of key -> target. Keys that are not
// exactly 4 characters are rejected: they could shadow composed short keys.
func New(data []byte) (*Table, error) {
	targets := make(map[string]string)
	if err := json.Unmarshal(data, &targets); err != nil {
		return nil, fmt.Errorf("parse legacy table: %w", err)
	}

	for key := range targets {
		if len(key) != KeyLength {
			return nil, fmt.Errorf("legacy key %q is not %d characters", key, KeyLength)
		}
	}

	return &Table{targets: targets}, nil
}

// Load reads the table from path, falling back to the embedded table when
// path is empty.
func Load(path string) (*Table, error) {
	if path == "" {
		return New(embeddedTable)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read legacy table: %w", err)
	}

	return New(data)
}

// Lookup returns the redirect target for a legacy key.
func (t *Table) Lookup(key string) (string, bool) {
	target, ok := t.targets[key]

	return target, ok
}

// Len reports the number of legacy entries.
func (t *Table) Len() int {
	return len(t.targets)
}
