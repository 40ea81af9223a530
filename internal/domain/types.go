package domain

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
)

// MapOfAny is persisted as JSON in the database
type MapOfAny map[string]any

// Scan implements the sql.Scanner interface
func (m *MapOfAny) Scan(val interface{}) error {

	var data []byte

	if b, ok := val.([]byte); ok {
		// Clone: the sql driver reuses the same byte slice across rows
		data = bytes.Clone(b)
	} else if s, ok := val.(string); ok {
		data = []byte(s)
	} else if val == nil {
		return nil
	}

	return json.Unmarshal(data, m)
}

// Value implements the driver.Valuer interface
func (m MapOfAny) Value() (driver.Value, error) {
	return json.Marshal(m)
}

// SlotAssignments maps template slot keys to post IDs. Persisted as JSON.
type SlotAssignments map[string]int64

// Scan implements the sql.Scanner interface
func (s *SlotAssignments) Scan(val interface{}) error {

	var data []byte

	if b, ok := val.([]byte); ok {
		data = bytes.Clone(b)
	} else if str, ok := val.(string); ok {
		data = []byte(str)
	} else if val == nil {
		return nil
	}

	return json.Unmarshal(data, s)
}

// Value implements the driver.Valuer interface
func (s SlotAssignments) Value() (driver.Value, error) {
	return json.Marshal(s)
}
