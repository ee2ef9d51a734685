package traversal

import (
	"context"
	"testing"

	"tokenlint/internal/engine/audit"
	"tokenlint/internal/engine/document"
	"tokenlint/internal/engine/lint"
	"tokenlint/internal/engine/provenance"
	"tokenlint/internal/engine/rules"
)

func solid() []document.Paint {
	return []document.Paint{{Type: document.PaintSolid, Visible: true}}
}

func rect(id, name string) *document.Node {
	return &document.Node{ID: id, Name: name, Kind: document.KindRectangle, Visible: true, Fills: solid()}
}

func newWalker(settings lint.Settings, checker *provenance.Checker) *Walker {
	return NewWalker(settings, rules.NewEvaluator(settings, nil), checker, 0)
}

func ids(nodes []*document.Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.ID)
	}
	return out
}

func TestPlanOrderAndFiltering(t *testing.T) {
	hiddenChild := rect("h1", "inside hidden")
	hidden := &document.Node{ID: "h", Name: "Hidden", Kind: document.KindFrame, Visible: false,
		Fills: solid(), Children: []*document.Node{hiddenChild}}
	lockedChild := rect("l1", "inside locked")
	locked := &document.Node{ID: "l", Name: "Locked", Kind: document.KindFrame, Visible: true, Locked: true,
		Fills: solid(), Children: []*document.Node{lockedChild}}
	group := &document.Node{ID: "g", Name: "Group", Kind: document.KindGroup, Visible: true,
		Children: []*document.Node{rect("g1", "a"), rect("g2", "b")}}
	excepted := &document.Node{ID: "x", Name: "Retail UI/border-banner", Kind: document.KindFrame, Visible: true,
		Fills: solid(), Children: []*document.Node{rect("x1", "child of excepted")}}
	page := &document.Node{ID: "p", Name: "Page", Kind: document.KindPage, Visible: true,
		Children: []*document.Node{rect("a", "first"), hidden, locked, group, excepted}}

	settings := lint.DefaultSettings().WithExceptions([]string{"Retail UI/*"})
	settings.ExcludeHidden = true
	settings.ExcludeLocked = true

	nodes, stats := newWalker(settings, nil).Plan([]*document.Node{page})
	got := ids(nodes)
	want := []string{"a", "g1", "g2", "x1"}
	if len(got) != len(want) {
		t.Fatalf("planned %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("planned %v, want %v", got, want)
		}
	}
	if stats.Pruned != 2 || stats.Excepted != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}

	settings.ExcludeHidden = false
	settings.ExcludeLocked = false
	nodes, _ = newWalker(settings, nil).Plan([]*document.Node{page})
	if len(nodes) != 8 {
		t.Fatalf("expected hidden and locked subtrees when not excluded, got %v", ids(nodes))
	}
}

func TestLintable(t *testing.T) {
	cases := []struct {
		name string
		node *document.Node
		want bool
	}{
		{"text", &document.Node{Kind: document.KindText}, true},
		{"fill group", &document.Node{Kind: document.KindVector, Fills: []document.Paint{}}, true},
		{"radius", &document.Node{Kind: document.KindFrame, Radius: &document.CornerRadius{}}, true},
		{"active layout", &document.Node{Kind: document.KindFrame, Layout: &document.AutoLayout{Mode: document.LayoutVertical}}, true},
		{"inactive layout", &document.Node{Kind: document.KindFrame, Layout: &document.AutoLayout{Mode: document.LayoutNone}}, false},
		{"bare group", &document.Node{Kind: document.KindGroup}, false},
		{"page", &document.Node{Kind: document.KindPage, Fills: solid()}, false},
	}
	for _, tc := range cases {
		if got := Lintable(tc.node); got != tc.want {
			t.Errorf("%s: Lintable = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestWalkNodeLimit(t *testing.T) {
	children := make([]*document.Node, 0, 10)
	for i := 0; i < 10; i++ {
		children = append(children, rect("c", "c"))
	}
	root := &document.Node{ID: "r", Kind: document.KindFrame, Visible: true, Children: children}
	settings := lint.DefaultSettings()
	w := NewWalker(settings, rules.NewEvaluator(settings, nil), nil, 10)
	log := audit.NewLog()

	issues, stats, err := w.Walk(context.Background(), []*document.Node{root}, log)
	limitErr, ok := err.(*NodeLimitError)
	if !ok {
		t.Fatalf("expected NodeLimitError, got %v", err)
	}
	if limitErr.Count != 11 || limitErr.Limit != 10 {
		t.Fatalf("unexpected limit error %+v", limitErr)
	}
	if issues != nil || stats.Evaluated != 0 || log.Len() != 0 {
		t.Fatal("nothing may be evaluated when the cap is exceeded")
	}
}

type panicResolver struct{ target string }

func (p panicResolver) Resolve(_ context.Context, b document.Binding) (provenance.Resolution, bool, error) {
	if b.ID == p.target {
		panic("unexpected binding shape")
	}
	return provenance.Resolution{Name: "ok", LibraryID: "other"}, true, nil
}

func TestWalkRecoversFromNodeFailure(t *testing.T) {
	bad := rect("bad", "bad")
	bad.Radius = &document.CornerRadius{Aggregate: document.Radius(4)}
	bad.Bindings = map[string]document.Binding{document.FillStyle: document.StyleBinding("S:boom/x")}
	bad.Fills = solid()
	child := rect("child", "child")
	bad.Children = []*document.Node{child}

	settings := lint.DefaultSettings()
	settings.ReferenceLibraryID = "ref"
	checker := provenance.NewChecker(settings, lint.NewCatalog(nil), panicResolver{target: "S:boom/x"})
	w := newWalker(settings, checker)
	log := audit.NewLog()

	issues, stats, err := w.Walk(context.Background(), []*document.Node{bad}, log)
	if err != nil {
		t.Fatalf("walk must not fail: %v", err)
	}
	if stats.Failed != 1 || stats.Evaluated != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	for _, issue := range issues {
		if issue.NodeID == "bad" {
			t.Fatalf("failed node must contribute no issues, got %+v", issue)
		}
	}
	if len(issues) != 1 || issues[0].NodeID != "child" {
		t.Fatalf("expected the child's fill issue, got %+v", issues)
	}
	if log.Len() != 0 {
		t.Fatal("failed node must not leave audit entries")
	}
}

func TestWalkStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := newWalker(lint.DefaultSettings(), nil)
	_, _, err := w.Walk(ctx, []*document.Node{rect("1:1", "A")}, audit.NewLog())
	if err == nil {
		t.Fatal("expected context error")
	}
}
