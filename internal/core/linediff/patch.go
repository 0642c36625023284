package linediff

import "github.com/aymanbagabas/go-udiff"

// Patch renders the difference between oldText and newText as a unified diff
// with the given file labels. It returns an empty string when nothing changed.
func Patch(oldLabel, newLabel, oldText, newText string) string {
	if oldText == newText {
		return ""
	}
	return udiff.Unified(oldLabel, newLabel, oldText, newText)
}
