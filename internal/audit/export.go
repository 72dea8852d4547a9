package audit

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"time"
)

var csvHeader = []string{"created_at", "actor_id", "action", "entity_type", "entity_id", "ip", "user_agent", "before", "after"}

// WriteCSV writes records as CSV with JSON encoded snapshots.
func WriteCSV(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("audit: write csv header: %w", err)
	}
	for _, rec := range records {
		before, err := snapshotCell(rec.Before)
		if err != nil {
			return err
		}
		after, err := snapshotCell(rec.After)
		if err != nil {
			return err
		}
		row := []string{
			rec.CreatedAt.UTC().Format(time.RFC3339),
			deref(rec.ActorID),
			string(rec.Action),
			rec.EntityType,
			rec.EntityID,
			deref(rec.IP),
			deref(rec.UserAgent),
			before,
			after,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("audit: write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// EncodeCSV renders records into memory.
func EncodeCSV(records []Record) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func snapshotCell(m map[string]any) (string, error) {
	if m == nil {
		return "", nil
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("audit: encode snapshot: %w", err)
	}
	return string(raw), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
