package domain

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// ShareValue is a raw, mode-ambiguous share as submitted by a client. It may
// arrive as a JSON number, a numeric string, null, or be absent entirely;
// absent and null both mean "no preference" and coerce to zero. Any other
// shape marks the value invalid so the batch validator can reject the whole
// batch while naming the offending entry.
//
// The zero ShareValue is a valid zero share, which is what an absent JSON
// field decodes to.
type ShareValue struct {
	Value   decimal.Decimal
	Invalid bool
}

func Share(v decimal.Decimal) ShareValue {
	return ShareValue{Value: v}
}

func (s *ShareValue) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*s = ShareValue{}
		return nil
	}

	if b[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			s.Invalid = true
			return nil
		}
		str = strings.TrimSpace(str)
		if str == "" {
			*s = ShareValue{}
			return nil
		}
		d, err := decimal.NewFromString(str)
		if err != nil {
			s.Invalid = true
			return nil
		}
		*s = ShareValue{Value: d}
		return nil
	}

	d, err := decimal.NewFromString(string(b))
	if err != nil {
		s.Invalid = true
		return nil
	}
	*s = ShareValue{Value: d}
	return nil
}

func (s ShareValue) MarshalJSON() ([]byte, error) {
	return []byte(s.Value.String()), nil
}
