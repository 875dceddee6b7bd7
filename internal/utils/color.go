package utils

import "regexp"

var hexColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// IsHexColor reports whether s is a #RRGGBB color value.
func IsHexColor(s string) bool {
	return hexColorPattern.MatchString(s)
}
