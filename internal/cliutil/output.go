package cliutil

import (
	"fmt"
	"io"
	"strings"

	"github.com/pwithnall/walbottle/schema"
)

// malformedJSON is a small fixed set of purely lexically invalid byte
// sequences (the "InvalidJson" generate flag), independent of any
// schema: these can never parse as JSON at all, so no jsonvalue.Value can
// represent them; they are threaded through as raw strings instead.
var malformedJSON = []string{
	`{`,
	`[1, 2,]`,
	`"unterminated`,
	`{"a": }`,
	`nul`,
}

// WritePlain writes one JSON value per line, per the generator CLI's
// "plain" output format. If includeMalformed is set, the fixed
// malformed-JSON vectors are appended after the generated instances.
func WritePlain(w io.Writer, instances []schema.GeneratedInstance, includeMalformed bool) error {
	for _, inst := range instances {
		if _, err := fmt.Fprintln(w, inst.JSON()); err != nil {
			return err
		}
	}
	if includeMalformed {
		for _, text := range malformedJSON {
			if _, err := fmt.Fprintln(w, text); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteC writes a C array of { const char *json; size_t size; unsigned
// is_valid; } struct literals, per the generator CLI's "c" output format.
// If includeMalformed is set, the fixed malformed-JSON vectors are appended
// as further entries, each labelled invalid (is_valid 0).
func WriteC(w io.Writer, instances []schema.GeneratedInstance, variableName string, includeMalformed bool) error {
	if _, err := fmt.Fprintf(w, "static const struct {\n\tconst char *json;\n\tsize_t size;\n\tunsigned is_valid;\n} %s[] = {\n", variableName); err != nil {
		return err
	}
	for _, inst := range instances {
		text := inst.JSON()
		isValid := 0
		if inst.Valid {
			isValid = 1
		}
		if _, err := fmt.Fprintf(w, "\t{ %s, %d, %d },\n", cStringLiteral(text), len(text), isValid); err != nil {
			return err
		}
	}
	if includeMalformed {
		for _, text := range malformedJSON {
			if _, err := fmt.Fprintf(w, "\t{ %s, %d, 0 },\n", cStringLiteral(text), len(text)); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintln(w, "};")
	return err
}

func cStringLiteral(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
