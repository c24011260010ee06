// Package extract detects URLs embedded in free-form message text.
package extract

import "regexp"

// urlPattern matches http(s):// followed by the character set commonly found
// in shared links, including %XX escapes. Deliberately broad: a trailing
// punctuation character that belongs to the sentence is still captured, which
// matches how links pasted into chat are usually shaped.
var urlPattern = regexp.MustCompile(`https?://(?:[a-zA-Z0-9$\-_@.&+!*'(),]|%[0-9a-fA-F]{2})+`)

// URLs returns every URL occurrence in text in order of first appearance.
// Duplicates are preserved: one logged event per occurrence.
func URLs(text string) []string {
	return urlPattern.FindAllString(text, -1)
}
