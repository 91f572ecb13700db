// Package compare decides when two titles denote the same work and pairs
// library records with reference records on that basis.
package compare

import "strings"

// leadingArticles are tried in order; the first that matches is stripped.
var leadingArticles = []string{"the ", "a ", "an "}

// Normalize converts a title to the key used for equivalence: trimmed,
// lower-cased and with at most one leading English article removed.
// Punctuation, diacritics and plurals are left alone.
func Normalize(title string) string {
	key := strings.ToLower(strings.TrimSpace(title))
	for _, article := range leadingArticles {
		if strings.HasPrefix(key, article) {
			return key[len(article):]
		}
	}
	return key
}
