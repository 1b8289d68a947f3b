package ingest

import (
	"testing"
)

func FuzzParseValidate(f *testing.F) {
	// Seed corpus
	f.Add(`[{"id": 1, "name": "root", "lft": 1, "rgt": 4, "level": 0, "root": 1}, {"id": 2, "name": "a", "lft": 2, "level": 1, "root": 1}]`)
	f.Add(`[{"id": "3", "lft": "1", "level": 0, "root": 3, "active": "false"}]`)
	f.Add(`[]`)

	f.Fuzz(func(t *testing.T, data string) {
		records, err := Parse([]byte(data), "json", LoadOptions{})
		if err != nil {
			return // malformed exports are rejected, not interesting here
		}

		// Limit size to avoid timeouts during fuzzing
		if len(records) > 50 {
			records = records[:50]
		}

		filled := FillRight(records)
		if len(filled) != len(records) {
			t.Fatalf("FillRight changed length: %d -> %d", len(records), len(filled))
		}
		_ = Validate(filled)
	})
}
