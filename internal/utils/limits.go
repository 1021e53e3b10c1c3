// Package utils provides small generic helpers shared across layers. Nothing
// in here knows about the catalog domain.
package utils

import "strconv"

// AtoiDefault parses s as an integer, returning def when s is empty or not a
// valid int. Callers use it for optional numeric query parameters such as the
// admin listing limit, where a junk value should behave like an absent one.
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
