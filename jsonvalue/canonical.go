package jsonvalue

import (
	"fmt"
	"strings"
)

// Canonical returns the byte-stable serialization of v used as a dedup key
// by the instance generator.
//
// Rules, fixed here as the resolution of an open question on exact
// float formatting (no claim of byte-for-byte compatibility with any other
// implementation is made or required):
//
//   - Objects preserve insertion order as recorded on the Value, not sorted
//     — required since generator output and
//     dedup identity depend on it.
//   - Integers format as plain decimal digits.
//   - Real numbers with a known literal lexical form round-trip that exact
//     text (so a probe built from source JSON serializes identically to how
//     it was written); real numbers built programmatically (no lexical form)
//     format via a fixed trimmed-decimal rule. This is what keeps "0" and
//     "0.0" distinct canonical strings while both still compare numerically
//     equal (jsonvalue.Equal), as required of the
//     generator's deliberate 0/0.0 pair.
//   - Strings use a fixed escaping table: control characters, '"', and '\'
//     are escaped; everything else is emitted as-is (already valid UTF-8).
func Canonical(v Value) string {
	var sb strings.Builder
	writeCanonical(&sb, v)
	return sb.String()
}

func writeCanonical(sb *strings.Builder, v Value) {
	switch v.kind {
	case KindNull:
		sb.WriteString("null")
	case KindBool:
		if v.b {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case KindInt:
		sb.WriteString(v.i.String())
	case KindNum:
		sb.WriteString(formatNum(v))
	case KindString:
		writeCanonicalString(sb, v.s)
	case KindArray:
		sb.WriteByte('[')
		for i, item := range v.a {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeCanonical(sb, item)
		}
		sb.WriteByte(']')
	case KindObject:
		sb.WriteByte('{')
		for i, k := range v.o.Keys() {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeCanonicalString(sb, k)
			sb.WriteByte(':')
			val, _ := v.o.Get(k)
			writeCanonical(sb, val)
		}
		sb.WriteByte('}')
	}
}

func formatNum(v Value) string {
	if v.lexical != "" {
		return v.lexical
	}
	if v.n.IsInt() {
		return v.n.Num().String() + ".0"
	}
	dec := v.n.FloatString(17)
	dec = strings.TrimRight(dec, "0")
	dec = strings.TrimRight(dec, ".")
	if dec == "" || dec == "-" {
		return "0.0"
	}
	return dec
}

func writeCanonicalString(sb *strings.Builder, s string) {
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(sb, `\u%04x`, r)
			} else {
				sb.WriteRune(r)
			}
		}
	}
	sb.WriteByte('"')
}
