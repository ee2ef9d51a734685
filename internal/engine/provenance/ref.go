package provenance

import (
	"strings"

	"tokenlint/internal/engine/lint"
)

var refPrefixes = []string{"VariableID:", "S:"}

// SplitRef decomposes a style or variable id into its library id and key.
// Ids look like "S:<library>/<key>" or "VariableID:<library>/<key>"; an id without a
// library segment is a local definition and reports lint.LocalLibrary.
func SplitRef(id string) (libraryID, key string, ok bool) {
	id = strings.TrimSpace(id)
	for _, p := range refPrefixes {
		if strings.HasPrefix(id, p) {
			id = strings.TrimPrefix(id, p)
			break
		}
	}
	if id == "" {
		return "", "", false
	}
	lib, rest, found := strings.Cut(id, "/")
	if !found {
		return lint.LocalLibrary, id, true
	}
	if lib == "" || rest == "" {
		return "", "", false
	}
	return lib, rest, true
}

// InferCategory maps a bound property name to the category it affects.
func InferCategory(property string) lint.Category {
	p := strings.ToLower(property)
	switch {
	case strings.Contains(p, "padding"):
		return lint.CategoryPadding
	case strings.Contains(p, "radius"):
		return lint.CategoryRadius
	case strings.Contains(p, "itemspacing"), strings.Contains(p, "counteraxisspacing"), strings.Contains(p, "gap"):
		return lint.CategoryGap
	case strings.Contains(p, "stroke"):
		return lint.CategoryStroke
	case strings.Contains(p, "text"), strings.Contains(p, "font"), strings.Contains(p, "characters"),
		strings.Contains(p, "letterspacing"), strings.Contains(p, "lineheight"):
		return lint.CategoryText
	}
	return lint.CategoryFill
}
