package service

import (
	"strconv"
	"strings"

	"schemagen/internal/normalize/model"
)

// Normalize turns a raw header into canonical column names and the matching
// schema. Both slices have the same length and order as raw, and every name
// is unique.
func Normalize(raw model.RawHeader) ([]model.ColumnSchema, []string) {
	fields := make([]model.ColumnSchema, 0, len(raw))
	names := make([]string, 0, len(raw))

	seen := make(map[string]struct{}, len(raw))
	collisions := 0

	for _, h := range raw {
		name := cleanName(h)
		if _, ok := seen[name]; ok {
			name, collisions = dedupe(name, seen, collisions)
		}
		seen[name] = struct{}{}

		names = append(names, name)
		fields = append(fields, model.ColumnSchema{
			Name: name,
			Type: model.TypeString,
			Mode: model.ModeNullable,
		})
	}
	return fields, names
}

// === cleanName: the rewrite pipeline, order matters ===
func cleanName(s string) string {
	// 1) case
	s = strings.ToLower(s)

	// 2) outer whitespace
	s = strings.TrimSpace(s)

	// 3) interior spaces
	s = strings.ReplaceAll(s, " ", "_")

	// 4) symbols spelled out
	s = strings.ReplaceAll(s, "#", "num")
	s = strings.ReplaceAll(s, "%", "percent")

	// 5) plus signs dropped
	s = strings.ReplaceAll(s, "+", "")

	// 6) "no." before dots go away, otherwise it would become "no"
	s = strings.ReplaceAll(s, "no.", "num")
	s = strings.ReplaceAll(s, ".", "")

	return s
}

// dedupe appends "_<n>" using the file-wide counter until the name is free.
// The counter is never reused.
func dedupe(name string, seen map[string]struct{}, counter int) (string, int) {
	for {
		candidate := name + "_" + strconv.Itoa(counter)
		counter++
		if _, taken := seen[candidate]; !taken {
			return candidate, counter
		}
	}
}
