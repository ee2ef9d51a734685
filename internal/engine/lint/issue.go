package lint

import (
	"fmt"

	"tokenlint/internal/engine/document"
)

type Category string

const (
	CategoryFill    Category = "fill"
	CategoryStroke  Category = "stroke"
	CategoryText    Category = "text"
	CategoryRadius  Category = "radius"
	CategoryGap     Category = "gap"
	CategoryPadding Category = "padding"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryFill,
	CategoryStroke,
	CategoryText,
	CategoryRadius,
	CategoryGap,
	CategoryPadding,
}

var categoryLabels = map[Category]string{
	CategoryFill:    "Color Fill",
	CategoryStroke:  "Stroke",
	CategoryText:    "Text",
	CategoryRadius:  "Corner Radius",
	CategoryGap:     "Gap",
	CategoryPadding: "Padding",
}

// Label is the human-readable category name used in messages and reports.
func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}

func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// ParseCategory maps a config or wire name to a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}

// Issue is one finding produced during a scan.
type Issue struct {
	NodeID            string
	NodeName          string
	NodeKind          document.Kind
	Category          Category
	Message           string
	Details           string
	SourceLibraryID   string
	SourceLibraryName string
	LayoutContext     string
}

// WrongLibraryMessage is the message used for provenance mismatches.
func WrongLibraryMessage(c Category) string {
	return "Wrong library/" + c.Label()
}

// NewIssue fills the node fields of an issue.
func NewIssue(n *document.Node, c Category, message string) Issue {
	return Issue{
		NodeID:   n.ID,
		NodeName: n.Name,
		NodeKind: n.Kind,
		Category: c,
		Message:  message,
	}
}
