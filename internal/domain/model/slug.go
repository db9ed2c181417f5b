package model

import (
	"strings"

	"github.com/gosimple/slug"
)

// DeriveSlug keeps an explicit slug and otherwise slugifies name.
func DeriveSlug(current, name string) string {
	if strings.TrimSpace(current) != "" {
		return current
	}
	return slug.Make(name)
}
