package lint

import "strings"

// UnknownLibrary is the name reported when a library id is not in the catalog.
const UnknownLibrary = "Unknown library"

// LocalLibrary is the library id of definitions that live in the scanned document.
const LocalLibrary = "local"

type Library struct {
	ID   string
	Name string
}

// Catalog maps library ids to display names for one session.
type Catalog struct {
	names map[string]string
	order []string
}

// NewCatalog builds a catalog from the host list. The first entry for an id wins.
func NewCatalog(libs []Library) *Catalog {
	c := &Catalog{names: make(map[string]string, len(libs))}
	for _, l := range libs {
		id := strings.TrimSpace(l.ID)
		if id == "" {
			continue
		}
		if _, ok := c.names[id]; ok {
			continue
		}
		c.names[id] = l.Name
		c.order = append(c.order, id)
	}
	return c
}

// Name returns the display name of id, or UnknownLibrary.
func (c *Catalog) Name(id string) string {
	if c != nil {
		if n, ok := c.names[id]; ok && n != "" {
			return n
		}
	}
	return UnknownLibrary
}

func (c *Catalog) Has(id string) bool {
	if c == nil {
		return false
	}
	_, ok := c.names[id]
	return ok
}

// Libraries returns the catalog entries in insertion order.
func (c *Catalog) Libraries() []Library {
	if c == nil {
		return nil
	}
	out := make([]Library, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, Library{ID: id, Name: c.names[id]})
	}
	return out
}
