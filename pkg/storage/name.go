package storage

import (
	"path"
	"strings"

	"github.com/gosimple/slug"
)

// SafeName turns an uploaded filename into a path-safe name: the stem is
// slugified (lowercase ASCII, dashes) and the extension kept. It returns ""
// when nothing usable remains.
func SafeName(filename string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	ext := strings.ToLower(path.Ext(base))
	stem := slug.Make(strings.TrimSuffix(base, path.Ext(base)))

	ext = "." + slug.Make(strings.TrimPrefix(ext, "."))
	if ext == "." {
		ext = ""
	}
	if stem == "" {
		return ""
	}
	return stem + ext
}
