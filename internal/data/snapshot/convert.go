package snapshot

import (
	"fmt"
	"strings"

	"tokenlint/internal/engine/document"
)

var styleKeys = map[string]string{
	"fill":   document.FillStyle,
	"stroke": document.StrokeStyle,
	"text":   document.TextStyleID,
	"effect": document.EffectStyle,
}

func convertNodes(in []wireNode, path string, seen map[string]bool) ([]*document.Node, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make([]*document.Node, 0, len(in))
	for i := range in {
		n, err := convertNode(&in[i], fmt.Sprintf("%s[%d]", path, i), seen)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func convertNode(w *wireNode, path string, seen map[string]bool) (*document.Node, error) {
	id := strings.TrimSpace(w.ID)
	if id == "" {
		return nil, fmt.Errorf("%s: node id must not be empty", path)
	}
	if seen[id] {
		return nil, fmt.Errorf("%s: duplicate node id %q", path, id)
	}
	seen[id] = true

	kind := document.Kind(strings.ToUpper(strings.TrimSpace(w.Type)))
	if kind == "" {
		return nil, fmt.Errorf("%s: node %q has no type", path, id)
	}

	n := &document.Node{
		ID:              id,
		Name:            w.Name,
		Kind:            kind,
		Locked:          w.Locked,
		Visible:         w.Visible == nil || *w.Visible,
		MainComponentID: strings.TrimSpace(w.MainComponentID),
	}
	if w.Fills != nil {
		n.Fills = convertPaints(*w.Fills)
	}
	if w.Strokes != nil {
		n.Strokes = convertPaints(*w.Strokes)
	}
	if w.Text != nil {
		n.Text = &document.TextStyle{FontFamily: w.Text.FontFamily, FontStyle: w.Text.FontStyle, FontSize: w.Text.FontSize}
	}
	n.Radius = convertRadius(w)
	if w.Layout != nil {
		n.Layout = &document.AutoLayout{
			Mode:             document.LayoutMode(strings.ToUpper(strings.TrimSpace(w.Layout.Mode))),
			ItemSpacing:      w.Layout.ItemSpacing,
			PaddingLeft:      w.Layout.PaddingLeft,
			PaddingRight:     w.Layout.PaddingRight,
			PaddingTop:       w.Layout.PaddingTop,
			PaddingBottom:    w.Layout.PaddingBottom,
			PrimaryAxisAlign: strings.ToUpper(strings.TrimSpace(w.Layout.PrimaryAxisAlign)),
			Wrap:             w.Layout.Wrap,
		}
		if n.Layout.Mode == "" {
			n.Layout.Mode = document.LayoutNone
		}
	}

	bindings, err := convertBindings(w, path)
	if err != nil {
		return nil, err
	}
	n.Bindings = bindings

	children, err := convertNodes(w.Children, path+".children", seen)
	if err != nil {
		return nil, err
	}
	n.Children = children
	return n, nil
}

func convertPaints(in []wirePaint) []document.Paint {
	out := make([]document.Paint, 0, len(in))
	for _, p := range in {
		out = append(out, document.Paint{
			Type:    strings.ToUpper(strings.TrimSpace(p.Type)),
			Color:   p.Color,
			Visible: p.Visible == nil || *p.Visible,
		})
	}
	return out
}

func convertRadius(w *wireNode) *document.CornerRadius {
	if w.CornerRadius == nil && w.TopLeft == nil && w.TopRight == nil && w.BottomLeft == nil && w.BottomRight == nil {
		return nil
	}
	r := &document.CornerRadius{
		TopLeft:     w.TopLeft,
		TopRight:    w.TopRight,
		BottomLeft:  w.BottomLeft,
		BottomRight: w.BottomRight,
	}
	if w.CornerRadius != nil {
		if w.CornerRadius.mixed {
			r.Aggregate = document.MixedRadius()
		} else {
			r.Aggregate = document.Radius(w.CornerRadius.value)
		}
	}
	return r
}

func convertBindings(w *wireNode, path string) (map[string]document.Binding, error) {
	if len(w.Styles) == 0 && len(w.BoundVariables) == 0 {
		return nil, nil
	}
	out := make(map[string]document.Binding, len(w.Styles)+len(w.BoundVariables))
	for slot, id := range w.Styles {
		key, ok := styleKeys[strings.ToLower(strings.TrimSpace(slot))]
		if !ok {
			return nil, fmt.Errorf("%s: unknown style slot %q", path, slot)
		}
		if strings.TrimSpace(id) == "" {
			continue
		}
		out[key] = document.StyleBinding(strings.TrimSpace(id))
	}
	for prop, id := range w.BoundVariables {
		prop = strings.TrimSpace(prop)
		if prop == "" || strings.TrimSpace(id) == "" {
			continue
		}
		out[prop] = document.VariableBinding(strings.TrimSpace(id))
	}
	return out, nil
}
