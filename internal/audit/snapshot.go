package audit

import (
	"bytes"
	"encoding/json"
	"strings"
)

// redactedKeys lists field names that never leave the process in a snapshot.
var redactedKeys = map[string]struct{}{
	"password":      {},
	"password_hash": {},
	"token":         {},
	"access_token":  {},
	"refresh_token": {},
	"reset_token":   {},
	"secret":        {},
}

// Snapshot returns a shallow copy of fields without any sensitive key.
// Keys match case-insensitively. A nil map yields nil.
func Snapshot(fields map[string]any) map[string]any {
	if fields == nil {
		return nil
	}
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		if _, deny := redactedKeys[strings.ToLower(k)]; deny {
			continue
		}
		out[k] = v
	}
	return out
}

// Fields converts an entity into a field map keyed by its JSON names.
// Values that do not encode to a JSON object yield nil.
func Fields(v any) map[string]any {
	if v == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var out map[string]any
	if err := dec.Decode(&out); err != nil {
		return nil
	}
	return out
}
