// Package toon implements TOON (Token-Oriented Object Notation) encoding of
// a corpus listing.
package toon

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	needsQuoting = regexp.MustCompile(`[,:"\\{}\[\]]`)
	looksNumeric = regexp.MustCompile(`^-?(?:0|[1-9]\d*)(?:\.\d+)?$`)
	keywords     = map[string]struct{}{
		"true":  {},
		"false": {},
		"null":  {},
	}
)

// Entry is one listed entity.
type Entry struct {
	File      string
	Name      string
	Kind      string
	Line      int
	Signature string
}

// Encode converts a corpus listing into TOON format: a files table with the
// entity count per file, followed by an entities table.
func Encode(root string, entries []Entry) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("root: %s", encodeValue(root)))

	var fileRows [][]string
	counts := map[string]int{}
	for _, e := range entries {
		if counts[e.File] == 0 {
			fileRows = append(fileRows, []string{e.File, ""})
		}
		counts[e.File]++
	}
	for _, row := range fileRows {
		row[1] = fmt.Sprintf("%d", counts[row[0]])
	}
	parts = append(parts, formatTabular("files", []string{"path", "entities"}, fileRows))

	entityRows := make([][]string, 0, len(entries))
	for _, e := range entries {
		entityRows = append(entityRows, []string{
			e.File,
			e.Name,
			e.Kind,
			fmt.Sprintf("%d", e.Line),
			e.Signature,
		})
	}
	parts = append(parts, formatTabular("entities", []string{"file", "name", "kind", "line", "signature"}, entityRows))

	return strings.Join(parts, "\n")
}

func formatTabular(name string, columns []string, rows [][]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s[%d]{%s}:", name, len(rows), strings.Join(columns, ","))
	for _, row := range rows {
		encoded := make([]string, len(row))
		for i, cell := range row {
			encoded[i] = encodeValue(cell)
		}
		fmt.Fprintf(&b, "\n  %s", strings.Join(encoded, ","))
	}
	return b.String()
}

func encodeValue(value string) string {
	if value == "" {
		return `""`
	}

	if value != strings.TrimSpace(value) || strings.ContainsAny(value, "\n\r\t") {
		return quote(value)
	}

	if _, ok := keywords[strings.ToLower(value)]; ok {
		return quote(value)
	}

	if looksNumeric.MatchString(value) {
		return value
	}

	if needsQuoting.MatchString(value) || strings.HasPrefix(value, "-") {
		return quote(value)
	}

	return value
}

func quote(value string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`, "\t", `\t`)
	return `"` + r.Replace(value) + `"`
}
