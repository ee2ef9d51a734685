package document

// Snapshot is an immutable view of the host document for the duration of one scan.
type Snapshot struct {
	Name      string
	Pages     []*Node
	Selection []string

	index map[string]*Node
}

func NewSnapshot(name string, pages []*Node, selection []string) *Snapshot {
	s := &Snapshot{
		Name:      name,
		Pages:     pages,
		Selection: selection,
		index:     make(map[string]*Node),
	}
	Walk(pages, func(n *Node) {
		if _, ok := s.index[n.ID]; !ok {
			s.index[n.ID] = n
		}
	})
	return s
}

// Lookup finds a node by id. It doubles as the main-component resolver for instances.
func (s *Snapshot) Lookup(id string) (*Node, bool) {
	if s == nil || id == "" {
		return nil, false
	}
	n, ok := s.index[id]
	return n, ok
}

// SelectedNodes returns the selected nodes in selection order, skipping unknown ids.
func (s *Snapshot) SelectedNodes() []*Node {
	out := make([]*Node, 0, len(s.Selection))
	for _, id := range s.Selection {
		if n, ok := s.Lookup(id); ok {
			out = append(out, n)
		}
	}
	return out
}

// PageNodes returns the top-level children of every page.
func (s *Snapshot) PageNodes() []*Node {
	out := make([]*Node, 0)
	for _, p := range s.Pages {
		if p == nil {
			continue
		}
		if p.Kind.IsContainer() {
			out = append(out, p.Children...)
			continue
		}
		out = append(out, p)
	}
	return out
}

// Walk visits every node depth-first, parent before children.
func Walk(roots []*Node, fn func(*Node)) {
	for _, n := range roots {
		if n == nil {
			continue
		}
		fn(n)
		Walk(n.Children, fn)
	}
}

// Count returns the number of nodes in roots including all descendants.
func Count(roots []*Node) int {
	total := 0
	Walk(roots, func(*Node) { total++ })
	return total
}
