// FilePath: internal/validation/validation.go

// Package validation holds the pure payload-shape predicates applied to raw
// sensor payloads before anything reaches storage. All failure modes collapse
// to a boolean false; nothing here returns an error.
package validation

import (
	"strconv"
	"strings"
)

// IsNumericReading reports whether s is a well-formed decimal sensor payload,
// optionally prefixed with a "<id>:" sensor-identity tag. The numeric part
// must be a plain signed decimal; exponent or special-value forms are
// rejected. No range check is performed at this layer.
func IsNumericReading(s string) bool {
	_, value, _ := SplitTag(s)
	return isDecimal(value)
}

// IsBooleanReading reports whether s is a case-insensitive true/false
// payload, optionally prefixed with a "<id>:" sensor-identity tag.
func IsBooleanReading(s string) bool {
	_, value, _ := SplitTag(s)
	lower := strings.ToLower(value)
	return lower == "true" || lower == "false"
}

// ValueInRange parses s as a float and checks it is >= min. Returns false,
// never an error, for non-numeric input.
func ValueInRange(s string, min float64) bool {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return false
	}
	return v >= min
}

// SplitTag splits an optionally tagged payload "<id>:<value>" on the first
// colon. When the prefix is not a plain integer the whole string is treated
// as untagged and returned unchanged.
func SplitTag(s string) (id int64, value string, tagged bool) {
	idx := strings.Index(s, ":")
	if idx < 0 {
		return 0, s, false
	}
	id, err := strconv.ParseInt(s[:idx], 10, 64)
	if err != nil {
		return 0, s, false
	}
	return id, s[idx+1:], true
}

// isDecimal accepts an optional leading minus sign followed by digits with
// at most one decimal point. Unlike strconv.ParseFloat it rejects exponent
// notation, Inf and NaN, which are never legitimate sensor payloads.
func isDecimal(s string) bool {
	for _, r := range s {
		if (r < '0' || r > '9') && r != '.' && r != '-' {
			return false
		}
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}
