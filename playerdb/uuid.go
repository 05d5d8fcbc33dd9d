package playerdb

import (
	"fmt"
	"math/big"
	"regexp"
	"strings"
)

// Canonical UUID grouping is 8-4-4-4-12, which means hyphens go after these
// offsets in the raw 32-character value
var hyphenPositions = [...]int{8, 12, 16, 20}

var hexValue = regexp.MustCompile(`^[0-9A-Fa-f]{32}$`)

// ValidationError is returned when an account identifier can not be converted
// into the canonical UUID form
type ValidationError struct {
	Value string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("Invalid account identifier %q: expected 32 hexadecimal characters", e.Value)
}

// ToUUID formats a string of exactly 32 hexadecimal characters into the
// hyphenated canonical UUID form
func ToUUID(value string) (string, error) {
	if !hexValue.MatchString(value) {
		return "", &ValidationError{Value: value}
	}
	var b strings.Builder
	prev := 0
	for _, pos := range hyphenPositions {
		b.WriteString(value[prev:pos])
		b.WriteByte('-')
		prev = pos
	}
	b.WriteString(value[prev:])
	return b.String(), nil
}

// XUIDToUUID converts the decimal account id returned by the cross-platform
// lookup for Bedrock players into the canonical hyphenated UUID form
func XUIDToUUID(id string) (string, error) {
	n, ok := new(big.Int).SetString(id, 10)
	if !ok || n.Sign() < 0 {
		return "", &ValidationError{Value: id}
	}
	return ToUUID(fmt.Sprintf("%032x", n))
}
