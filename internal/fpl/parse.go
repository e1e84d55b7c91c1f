package fpl

import "strconv"

// Num parses a numeric-as-string field from the FPL API. Empty or
// malformed values are treated as zero.
func Num(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// Chance returns a playing-chance percentage, defaulting to 100 when
// the API reports null (fully fit players carry no value).
func Chance(c *float64) float64 {
	if c == nil {
		return 100
	}
	return *c
}
