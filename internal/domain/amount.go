package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FlexAmount accepts a JSON number, a numeric string, an empty string or null.
// Anything blank decodes to zero, which is how the booking form sends untouched
// charge fields.
type FlexAmount float64

func (a *FlexAmount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*a = 0
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*a = 0
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("%w: amount %q is not a number", ErrInvalidInput, s)
		}
		*a = FlexAmount(f)
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("%w: amount is not a number", ErrInvalidInput)
	}
	*a = FlexAmount(f)
	return nil
}

func (a FlexAmount) Float() float64 { return float64(a) }
