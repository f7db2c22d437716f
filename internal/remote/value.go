package remote

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Value holds a scalar the API may send either as a JSON string or as a JSON
// number (ids, budgets, durations). It is kept in its textual form.
type Value string

func (v *Value) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*v = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = Value(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*v = Value(n.String())
	return nil
}

// MarshalJSON writes numeric values as JSON numbers so ids round-trip in the
// form the API issued them.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.IsNumber() {
		return []byte(v), nil
	}
	return json.Marshal(string(v))
}

func (v Value) IsNumber() bool {
	if v == "" || !(v[0] == '-' || (v[0] >= '0' && v[0] <= '9')) {
		return false
	}
	if _, err := strconv.ParseFloat(string(v), 64); err != nil {
		return false
	}
	return json.Valid([]byte(v))
}

func (v Value) String() string {
	return string(v)
}
