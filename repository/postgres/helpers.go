package postgres

import (
	"encoding/json"
	"time"
)

// marshalJSON renders v for a NOT NULL jsonb column; nil slices become
// empty arrays rather than SQL nulls.
func marshalJSON(v interface{}) []byte {
	b, err := json.Marshal(v)
	if err != nil || string(b) == "null" {
		return []byte("[]")
	}
	return b
}

func nullTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}

func nullableTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t
}
