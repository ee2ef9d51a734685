package lint

import (
	"tokenlint/internal/engine/exceptions"
)

// Settings controls one scan. It is read-only while the scan runs.
type Settings struct {
	ReferenceLibraryID string
	Exceptions         []string
	ExcludeLocked      bool
	ExcludeHidden      bool
	Categories         map[Category]bool
}

// DefaultSettings enables every category and filters nothing.
func DefaultSettings() Settings {
	cats := make(map[Category]bool, len(Categories))
	for _, c := range Categories {
		cats[c] = true
	}
	return Settings{Categories: cats}
}

// Enabled reports whether findings of c may be reported.
func (s Settings) Enabled(c Category) bool {
	return s.Categories[c]
}

// EnabledCategories lists the enabled categories in display order.
func (s Settings) EnabledCategories() []Category {
	out := make([]Category, 0, len(Categories))
	for _, c := range Categories {
		if s.Enabled(c) {
			out = append(out, c)
		}
	}
	return out
}

// HasReferenceLibrary reports whether provenance checks should run.
func (s Settings) HasReferenceLibrary() bool {
	return s.ReferenceLibraryID != ""
}

// WithExceptions returns a copy with the exception set replaced by the normalized patterns.
func (s Settings) WithExceptions(patterns []string) Settings {
	out := s.clone()
	out.Exceptions = exceptions.Normalize(patterns)
	return out
}

// WithCategory returns a copy with one category toggled.
func (s Settings) WithCategory(c Category, enabled bool) Settings {
	out := s.clone()
	out.Categories[c] = enabled
	return out
}

func (s Settings) clone() Settings {
	out := s
	out.Exceptions = append([]string(nil), s.Exceptions...)
	out.Categories = make(map[Category]bool, len(s.Categories))
	for k, v := range s.Categories {
		out.Categories[k] = v
	}
	return out
}
