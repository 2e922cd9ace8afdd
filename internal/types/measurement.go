package types

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Measurement is one clinical input as the client sent it. It accepts JSON numbers,
// numeric strings and form values; parsing is left to the predictor so a bad value
// can be reported against its field name.
type Measurement struct {
	raw string
	set bool
}

// NewMeasurement returns a measurement holding v.
func NewMeasurement(v float64) Measurement {
	return Measurement{raw: strconv.FormatFloat(v, 'g', -1, 64), set: true}
}

// Present reports whether the field was supplied.
func (m Measurement) Present() bool {
	return m.set
}

// Raw returns the value as received.
func (m Measurement) Raw() string {
	return m.raw
}

// Float parses the value.
func (m Measurement) Float() (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(m.raw), 64)
}

func (m *Measurement) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*m = Measurement{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if strings.TrimSpace(s) == "" {
			*m = Measurement{}
			return nil
		}
		*m = Measurement{raw: s, set: true}
		return nil
	}
	*m = Measurement{raw: string(data), set: true}
	return nil
}

func (m Measurement) MarshalJSON() ([]byte, error) {
	if !m.set {
		return []byte("null"), nil
	}
	if _, err := m.Float(); err == nil {
		return []byte(strings.TrimSpace(m.raw)), nil
	}
	return json.Marshal(m.raw)
}

// UnmarshalParam lets gin bind the measurement from form and query values.
func (m *Measurement) UnmarshalParam(param string) error {
	if strings.TrimSpace(param) == "" {
		*m = Measurement{}
		return nil
	}
	*m = Measurement{raw: param, set: true}
	return nil
}
