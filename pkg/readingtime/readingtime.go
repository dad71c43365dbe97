// Package readingtime estimates how long a post takes to read.
package readingtime

import "strings"

const wordsPerMinute = 200

// Estimate returns the reading time in whole minutes, rounded up, never
// less than 1.
func Estimate(body string) int {
	words := len(strings.Fields(body))

	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}
