package types

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
)

// OptionalUUID accepts a uuid string, null, or an empty string from the
// dashboard forms. Only a non-empty string sets Value.
type OptionalUUID struct {
	Value *uuid.UUID
}

func (o *OptionalUUID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		o.Value = nil
		return nil
	}

	var raw string
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return err
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		o.Value = nil
		return nil
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return err
	}
	o.Value = &parsed
	return nil
}

func (o OptionalUUID) MarshalJSON() ([]byte, error) {
	if o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value.String())
}

// Present reports whether a uuid was supplied.
func (o OptionalUUID) Present() bool {
	return o.Value != nil
}
