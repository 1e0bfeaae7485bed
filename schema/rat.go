package schema

import (
	"math/big"
	"strings"

	"github.com/pwithnall/walbottle/jsonvalue"
)

// Rat wraps a big.Rat so that numeric keywords (multipleOf, maximum,
// minimum) compare Int- and Num-typed JSON numbers exactly rather than via
// float tolerance. Trimmed to what this package needs (no custom
// (un)marshaling — schema loading goes through jsonvalue.Value, not
// encoding/json directly).
type Rat struct {
	*big.Rat
}

// NewRatFromValue builds a Rat from a jsonvalue.Value; ok is false if v is
// not numeric.
func NewRatFromValue(v jsonvalue.Value) (*Rat, bool) {
	r, ok := v.AsNum()
	if !ok {
		return nil, false
	}
	return &Rat{r}, true
}

// FormatRat renders r: plain integer
// text when exact, otherwise a trimmed decimal expansion.
func FormatRat(r *Rat) string {
	if r == nil {
		return "null"
	}
	if r.IsInt() {
		return r.Num().String()
	}
	dec := r.FloatString(10)
	dec = strings.TrimRight(dec, "0")
	dec = strings.TrimRight(dec, ".")
	if dec == "" {
		return "0"
	}
	return dec
}
