package util

import (
	slug2 "github.com/gosimple/slug"
)

// Slugify maps a human name to a URL path segment. The result is stored on
// the record at creation time so lookups stay stable even if the name changes.
func Slugify(name string) string {
	return slug2.Make(name)
}

// IsSlug reports whether an identifier looks like a slug rather than a hex id.
func IsSlug(identifier string) bool {
	return slug2.IsSlug(identifier)
}
