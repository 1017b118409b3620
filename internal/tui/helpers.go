package tui

import "strings"

// truncate shortens a string to max runes with ellipsis
func truncate(s string, max int) string {
	r := []rune(s)
	if max < 4 || len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

// repeat creates a string by repeating s n times
func repeat(s string, n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(s, n)
}

// bar draws a filled/empty progress bar of width cells
func bar(percent, width int) string {
	percent = max(0, min(percent, 100))
	filled := percent * width / 100
	return repeat("█", filled) + repeat("░", width-filled)
}
