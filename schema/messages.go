package schema

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kaptinlin/go-i18n"
	"github.com/kaptinlin/jsonpointer"
)

// Severity classifies a Message as either a hard failure (the loader cannot
// proceed) or a recorded warning (the loader proceeds, e.g. an unresolvable
// absolute $ref).
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Message is one node of the message tree: a
// JSON-pointer path, a severity, a human message, an optional link to the
// relevant draft-04 spec section, and nested sub-messages.
type Message struct {
	Path        string
	Severity    Severity
	Code        string
	Text        string
	Params      map[string]any
	SpecSection string
	Sub         []*Message
}

// draft04Section maps a message code to the section of the draft-04
// validation specification (draft-fge-json-schema-validation-00) defining
// the violated rule. Codes with no natural home there (JSON parse errors,
// $ref resolution) carry no section.
var draft04Section = map[string]string{
	"multiple_of_invalid":             "5.1.1",
	"multiple_of_non_positive":        "5.1.1",
	"multiple_of_mismatch":            "5.1.1",
	"maximum_invalid":                 "5.1.2",
	"maximum_exceeded":                "5.1.2",
	"exclusive_maximum_invalid":       "5.1.2",
	"exclusive_without_bound":         "5.1.2",
	"minimum_invalid":                 "5.1.3",
	"minimum_exceeded":                "5.1.3",
	"exclusive_minimum_invalid":       "5.1.3",
	"maxLength_invalid":               "5.2.1",
	"maxLength_negative":              "5.2.1",
	"max_length_exceeded":             "5.2.1",
	"minLength_invalid":               "5.2.2",
	"minLength_negative":              "5.2.2",
	"min_length_exceeded":             "5.2.2",
	"pattern_invalid":                 "5.2.3",
	"pattern_compile_error":           "5.2.3",
	"pattern_mismatch":                "5.2.3",
	"additional_items_forbidden":      "5.3.1",
	"maxItems_invalid":                "5.3.2",
	"maxItems_negative":               "5.3.2",
	"max_items_exceeded":              "5.3.2",
	"minItems_invalid":                "5.3.3",
	"minItems_negative":               "5.3.3",
	"min_items_exceeded":              "5.3.3",
	"unique_items_invalid":            "5.3.4",
	"items_not_unique":                "5.3.4",
	"maxProperties_invalid":           "5.4.1",
	"maxProperties_negative":          "5.4.1",
	"max_properties_exceeded":         "5.4.1",
	"minProperties_invalid":           "5.4.2",
	"minProperties_negative":          "5.4.2",
	"min_properties_exceeded":         "5.4.2",
	"required_invalid":                "5.4.3",
	"required_empty":                  "5.4.3",
	"required_duplicate":              "5.4.3",
	"required_property_missing":       "5.4.3",
	"properties_invalid":              "5.4.4",
	"pattern_properties_invalid":      "5.4.4",
	"additional_properties_forbidden": "5.4.4",
	"dependencies_invalid":            "5.4.5",
	"dependencies_empty":              "5.4.5",
	"dependency_property_missing":     "5.4.5",
	"enum_invalid":                    "5.5.1",
	"enum_empty":                      "5.5.1",
	"enum_duplicate":                  "5.5.1",
	"enum_mismatch":                   "5.5.1",
	"type_invalid":                    "5.5.2",
	"type_empty":                      "5.5.2",
	"type_unknown":                    "5.5.2",
	"type_duplicate":                  "5.5.2",
	"type_mismatch":                   "5.5.2",
	"allOf_invalid":                   "5.5.3",
	"anyOf_invalid":                   "5.5.4",
	"any_of_none_matched":             "5.5.4",
	"oneOf_invalid":                   "5.5.5",
	"one_of_none_matched":             "5.5.5",
	"one_of_multiple_matched":         "5.5.5",
	"not_matched":                     "5.5.6",
	"definitions_invalid":             "5.5.7",
}

// NewMessage builds a Message. path should already be a JSON-pointer
// fragment ("#" for the document root); code/text follow the same (code, template,
// params) shape as EvaluationError so the same i18n bundle can
// localize both. The draft-04 spec section, when one covers the code, is
// attached automatically.
func NewMessage(path string, severity Severity, code, text string, params map[string]any) *Message {
	return &Message{Path: path, Severity: severity, Code: code, Text: text, Params: params, SpecSection: draft04Section[code]}
}

// Error renders the message in English, substituting {param} placeholders.
func (m *Message) Error() string {
	return fmt.Sprintf("%s: %s", m.Path, substitute(m.Text, m.Params))
}

// Localize renders the message using an i18n bundle's localizer, falling
// back to Error() if localizer is nil. Mirrors
// EvaluationError.Localize (result.go).
func (m *Message) Localize(localizer *i18n.Localizer) string {
	if localizer == nil {
		return m.Error()
	}
	return fmt.Sprintf("%s: %s", m.Path, localizer.Get(m.Code, i18n.Vars(m.Params)))
}

func substitute(template string, params map[string]any) string {
	out := template
	for k, v := range params {
		out = strings.ReplaceAll(out, "{"+k+"}", fmt.Sprint(v))
	}
	return out
}

// pathAt joins a JSON-pointer base with an additional raw (unescaped)
// token, matching the escaping jsonpointer.Format applies ('~' -> '~0',
// '/' -> '~1').
func pathAt(base string, tokens ...string) string {
	return "#" + jsonpointer.Format(append(splitTokens(base), tokens...)...)
}

// instancePathAt joins a plain (non-fragment) JSON pointer base with
// additional raw tokens, for locating positions within the instance being
// evaluated rather than within the schema.
func instancePathAt(base string, tokens ...string) string {
	var baseTokens []string
	if base != "" {
		baseTokens = jsonpointer.Parse(base)
	}
	return jsonpointer.Format(append(baseTokens, tokens...)...)
}

func splitTokens(pointer string) []string {
	pointer = strings.TrimPrefix(pointer, "#")
	if pointer == "" {
		return nil
	}
	return jsonpointer.Parse(pointer)
}

// messageCollector accumulates Messages during a recursive schema load, then
// is asked whether anything at SeverityError occurred.
type messageCollector struct {
	messages []*Message
}

func (c *messageCollector) add(m *Message) {
	c.messages = append(c.messages, m)
}

func (c *messageCollector) hasErrors() bool {
	for _, m := range c.messages {
		if m.Severity == SeverityError {
			return true
		}
	}
	return false
}

// errorMessages returns only the SeverityError messages, in encounter order.
func (c *messageCollector) errorMessages() []*Message {
	var out []*Message
	for _, m := range c.messages {
		if m.Severity == SeverityError {
			out = append(out, m)
		}
	}
	return out
}

// warningMessages returns only the SeverityWarning messages, in encounter
// order.
func (c *messageCollector) warningMessages() []*Message {
	var out []*Message
	for _, m := range c.messages {
		if m.Severity == SeverityWarning {
			out = append(out, m)
		}
	}
	return out
}

// SchemaMalformed is returned by Load when the input text does not describe
// a well-formed draft-04 schema.
type SchemaMalformed struct {
	Messages []*Message
}

// HasOnly reports whether every message e carries has one of the given
// codes, so callers can recognise a documented set of failure reasons
// without the sentinel-error machinery SchemaMalformed deliberately doesn't
// implement (load.go builds each Message's Code directly at its call site;
// there is no single per-keyword error value to wrap or match with
// errors.Is).
func (e *SchemaMalformed) HasOnly(codes ...string) bool {
	if len(e.Messages) == 0 {
		return false
	}
	allowed := make(map[string]bool, len(codes))
	for _, code := range codes {
		allowed[code] = true
	}
	for _, m := range e.Messages {
		if !allowed[m.Code] {
			return false
		}
	}
	return true
}

func (e *SchemaMalformed) Error() string {
	if len(e.Messages) == 0 {
		return "walbottle: schema malformed"
	}
	parts := make([]string, len(e.Messages))
	for i, m := range e.Messages {
		parts[i] = m.Error()
	}
	sort.Strings(parts)
	return "walbottle: schema malformed: " + strings.Join(parts, "; ")
}

// InstanceInvalid is the error-shaped view of an evaluation failure; most
// callers use the richer *EvaluationResult directly (see result.go), but
// this satisfies error for call sites that just want a Go error.
type InstanceInvalid struct {
	Result *EvaluationResult
}

func (e *InstanceInvalid) Error() string {
	return "walbottle: instance does not conform to schema"
}
