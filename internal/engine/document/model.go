package document

import (
	"strconv"
)

// Kind is the node variant reported by the host document.
type Kind string

const (
	KindDocument     Kind = "DOCUMENT"
	KindPage         Kind = "PAGE"
	KindFrame        Kind = "FRAME"
	KindSection      Kind = "SECTION"
	KindGroup        Kind = "GROUP"
	KindComponent    Kind = "COMPONENT"
	KindComponentSet Kind = "COMPONENT_SET"
	KindInstance     Kind = "INSTANCE"
	KindText         Kind = "TEXT"
	KindRectangle    Kind = "RECTANGLE"
	KindEllipse      Kind = "ELLIPSE"
	KindPolygon      Kind = "POLYGON"
	KindStar         Kind = "STAR"
	KindLine         Kind = "LINE"
	KindVector       Kind = "VECTOR"
	KindBoolean      Kind = "BOOLEAN_OPERATION"
)

// IsContainer reports whether the kind is a Page or Document, which are walked but never linted.
func (k Kind) IsContainer() bool {
	return k == KindPage || k == KindDocument
}

// Paint is one entry of a fill or stroke list.
type Paint struct {
	Type    string
	Color   string
	Visible bool
}

const PaintSolid = "SOLID"

func (p Paint) IsSolid() bool {
	return p.Type == PaintSolid
}

type TextStyle struct {
	FontFamily string
	FontStyle  string
	FontSize   float64
}

// RadiusValue is an aggregate corner radius: a number, mixed, or undefined.
type RadiusValue struct {
	Set   bool
	Mixed bool
	Value float64
}

func Radius(v float64) RadiusValue {
	return RadiusValue{Set: true, Value: v}
}

func MixedRadius() RadiusValue {
	return RadiusValue{Set: true, Mixed: true}
}

// Positive reports a numeric value greater than zero.
func (r RadiusValue) Positive() bool {
	return r.Set && !r.Mixed && r.Value > 0
}

func (r RadiusValue) String() string {
	switch {
	case !r.Set:
		return "undefined"
	case r.Mixed:
		return "mixed"
	default:
		return FormatNumber(r.Value)
	}
}

// Corner names one of the four individual corners.
type Corner string

const (
	TopLeft     Corner = "topLeft"
	TopRight    Corner = "topRight"
	BottomLeft  Corner = "bottomLeft"
	BottomRight Corner = "bottomRight"
)

// Corners lists the corners in reporting order.
var Corners = []Corner{TopLeft, TopRight, BottomLeft, BottomRight}

// Property returns the bound-variable key of the corner, e.g. topLeftRadius.
func (c Corner) Property() string {
	return string(c) + "Radius"
}

type CornerRadius struct {
	Aggregate   RadiusValue
	TopLeft     *float64
	TopRight    *float64
	BottomLeft  *float64
	BottomRight *float64
}

// Corner returns the individual value for c, or nil when undefined.
func (r *CornerRadius) Corner(c Corner) *float64 {
	if r == nil {
		return nil
	}
	switch c {
	case TopLeft:
		return r.TopLeft
	case TopRight:
		return r.TopRight
	case BottomLeft:
		return r.BottomLeft
	case BottomRight:
		return r.BottomRight
	}
	return nil
}

// HasIndividual reports whether any individual corner value is defined.
func (r *CornerRadius) HasIndividual() bool {
	for _, c := range Corners {
		if r.Corner(c) != nil {
			return true
		}
	}
	return false
}

type LayoutMode string

const (
	LayoutNone       LayoutMode = "NONE"
	LayoutHorizontal LayoutMode = "HORIZONTAL"
	LayoutVertical   LayoutMode = "VERTICAL"
)

// AlignSpaceBetween means spacing is computed by the host rather than authored.
const AlignSpaceBetween = "SPACE_BETWEEN"

type AutoLayout struct {
	Mode             LayoutMode
	ItemSpacing      float64
	PaddingLeft      float64
	PaddingRight     float64
	PaddingTop       float64
	PaddingBottom    float64
	PrimaryAxisAlign string
	Wrap             bool
}

func (l *AutoLayout) Active() bool {
	return l != nil && l.Mode != "" && l.Mode != LayoutNone
}

type BindingKind int

const (
	BindingNone BindingKind = iota
	BindingStyle
	BindingVariable
)

// Binding references an external style or variable from a node property.
type Binding struct {
	Kind BindingKind
	ID   string
}

func StyleBinding(id string) Binding {
	return Binding{Kind: BindingStyle, ID: id}
}

func VariableBinding(id string) Binding {
	return Binding{Kind: BindingVariable, ID: id}
}

func (b Binding) Present() bool {
	return b.Kind != BindingNone && b.ID != ""
}

// Style binding keys.
const (
	FillStyle   = "fillStyleId"
	StrokeStyle = "strokeStyleId"
	TextStyleID = "textStyleId"
	EffectStyle = "effectStyleId"
)

// StyleKeys lists style binding keys in checking order.
var StyleKeys = []string{FillStyle, StrokeStyle, TextStyleID, EffectStyle}

// Node is one element of a read-only document snapshot.
type Node struct {
	ID       string
	Name     string
	Kind     Kind
	Locked   bool
	Visible  bool
	Children []*Node

	Fills   []Paint
	Strokes []Paint
	Text    *TextStyle
	Radius  *CornerRadius
	Layout  *AutoLayout

	Bindings map[string]Binding

	// MainComponentID points at the component an instance was created from.
	MainComponentID string
}

// Style returns the style binding stored under key.
func (n *Node) Style(key string) (Binding, bool) {
	b, ok := n.Bindings[key]
	if !ok || b.Kind != BindingStyle || b.ID == "" {
		return Binding{}, false
	}
	return b, true
}

// Variable returns the variable binding for a property.
func (n *Node) Variable(property string) (Binding, bool) {
	b, ok := n.Bindings[property]
	if !ok || b.Kind != BindingVariable || b.ID == "" {
		return Binding{}, false
	}
	return b, true
}

func (n *Node) HasVariable(property string) bool {
	_, ok := n.Variable(property)
	return ok
}

func (n *Node) HasStyle(key string) bool {
	_, ok := n.Style(key)
	return ok
}

// FormatNumber renders a float without trailing zeros.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
