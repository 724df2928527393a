package utils

import "github.com/microcosm-cc/bluemonday"

var (
	ugcPolicy   = bluemonday.UGCPolicy()
	plainPolicy = bluemonday.StrictPolicy()
)

// Sanitize cleans user-generated HTML to prevent XSS. Comment and recipe
// bodies go through this before storage.
func Sanitize(input string) string {
	return ugcPolicy.Sanitize(input)
}

// SanitizePlain strips all markup. Used for display names and titles.
func SanitizePlain(input string) string {
	return plainPolicy.Sanitize(input)
}
