package prefs

import "strconv"

// formatZoom renders a virtual zoom as text with 4 decimal places, the
// on-disk representation spec.md §4.3 requires for "ZoomVirtual".
func formatZoom(z float64) string {
	return strconv.FormatFloat(z, 'f', 4, 64)
}
