package errors

import (
	"strconv"
	"strings"
	"unicode"
)

const (
	maxTabIDLength     = 64
	maxChartTypeLength = 64
)

// ValidateChartID validates a widget identity as used by the store.
// Identities are the decimal form of a non-negative integer ("0", "1", ...).
func ValidateChartID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidChartID, "chart id cannot be empty")
	}
	n, err := strconv.Atoi(id)
	if err != nil {
		return New(ErrCodeInvalidChartID, "chart id must be a number: %q", id)
	}
	if n < 0 {
		return New(ErrCodeInvalidChartID, "chart id cannot be negative: %q", id)
	}
	if strconv.Itoa(n) != id {
		// Reject "01" and "+1" so that ids stay canonical across tiers.
		return New(ErrCodeInvalidChartID, "chart id is not canonical: %q", id)
	}
	return nil
}

// ValidateTabID validates a tab identifier.
//
// The validation rules are intentionally conservative:
//   - No empty ids
//   - No control characters or whitespace
//   - Maximum length of 64 characters
func ValidateTabID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidTabID, "tab id cannot be empty")
	}
	if len(id) > maxTabIDLength {
		return New(ErrCodeInvalidTabID, "tab id too long (max %d characters)", maxTabIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidTabID, "tab id contains invalid characters: %q", id)
		}
	}
	if strings.Contains(id, "/") {
		return New(ErrCodeInvalidTabID, "tab id cannot contain '/': %q", id)
	}
	return nil
}

// ValidateChartType validates the shape of a chart-type tag.
// Unrecognised tags are accepted (they render with the default chart);
// only empty or malformed strings are rejected.
func ValidateChartType(tag string) error {
	if tag == "" {
		return New(ErrCodeInvalidChartType, "chart type cannot be empty")
	}
	if len(tag) > maxChartTypeLength {
		return New(ErrCodeInvalidChartType, "chart type too long (max %d characters)", maxChartTypeLength)
	}
	for _, r := range tag {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidChartType, "chart type contains invalid characters: %q", tag)
		}
	}
	return nil
}
