package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// CategoryScores represents a per-category average map persisted as JSONB.
type CategoryScores map[string]float64

// Value marshals the map into JSON for Postgres.
func (s CategoryScores) Value() (driver.Value, error) {
	if s == nil {
		return "{}", nil
	}
	buf, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// Scan decodes JSONB into the map.
func (s *CategoryScores) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("category scores: unsupported scan type %T", value)
	}

	result := make(CategoryScores)
	if err := json.Unmarshal(raw, &result); err != nil {
		return err
	}
	*s = result
	return nil
}
