package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Flag is a boolean stored and served as 0/1. Decoding tolerates
// true/false, numbers (zero is false), quoted numbers, "on", "yes" and null.
type Flag bool

func (f Flag) MarshalJSON() ([]byte, error) {
	if f {
		return []byte("1"), nil
	}
	return []byte("0"), nil
}

func (f *Flag) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*f = false
		return nil
	}
	raw := string(b)
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		raw = s
	}
	raw = strings.TrimSpace(raw)
	if v, err := strconv.ParseFloat(raw, 64); err == nil {
		*f = v != 0
		return nil
	}
	switch strings.ToLower(raw) {
	case "", "0", "false", "off", "no":
		*f = false
	default:
		*f = true
	}
	return nil
}

// Int returns the TINYINT representation used by the trips table.
func (f Flag) Int() int {
	if f {
		return 1
	}
	return 0
}
