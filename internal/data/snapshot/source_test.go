package snapshot

import (
	"context"
	"path/filepath"
	"testing"

	"tokenlint/internal/core/errors"
	"tokenlint/internal/engine/document"
	"tokenlint/internal/engine/lint"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadJSONSnapshot(t *testing.T) {
	src, err := Load(filepath.Join("testdata", "document.json"))
	require.NoError(t, err)

	snap, err := src.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Retail App", snap.Name)
	assert.Equal(t, 6, document.Count(snap.Pages))

	sel := snap.SelectedNodes()
	require.Len(t, sel, 1)
	card := sel[0]
	assert.Equal(t, document.KindFrame, card.Kind)
	assert.True(t, card.Visible)
	require.NotNil(t, card.Radius)
	assert.True(t, card.Radius.Aggregate.Mixed)
	require.NotNil(t, card.Radius.BottomLeft)
	assert.Equal(t, 0.0, *card.Radius.BottomLeft)
	assert.Equal(t, document.LayoutVertical, card.Layout.Mode)
	assert.True(t, card.HasVariable("itemSpacing"))

	title := card.Children[0]
	assert.True(t, title.HasStyle(document.FillStyle))
	assert.True(t, title.HasStyle(document.TextStyleID))
	assert.False(t, card.Children[1].Visible)

	inst, ok := snap.Lookup("1:5")
	require.True(t, ok)
	assert.True(t, inst.Locked)
	main, ok := snap.Lookup(inst.MainComponentID)
	require.True(t, ok)
	assert.Equal(t, document.KindComponent, main.Kind)

	libs, err := src.Libraries(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []lint.Library{{ID: "core", Name: "Core Tokens"}, {ID: "legacy", Name: "Legacy Kit"}}, libs)
}

func TestResolve(t *testing.T) {
	src, err := Load(filepath.Join("testdata", "document.json"))
	require.NoError(t, err)
	ctx := context.Background()

	res, ok, err := src.Resolve(ctx, document.StyleBinding("S:legacy/red"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Brand/Red", res.Name)
	assert.Equal(t, "legacy", res.LibraryID)
	assert.Equal(t, "red", res.Key)

	res, ok, err = src.Resolve(ctx, document.StyleBinding("S:local-shadow"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, lint.LocalLibrary, res.LibraryID)

	res, ok, err = src.Resolve(ctx, document.VariableBinding("VariableID:abc"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "core", res.LibraryID, "explicit library overrides the id")

	_, ok, err = src.Resolve(ctx, document.VariableBinding("S:legacy/red"))
	require.NoError(t, err)
	assert.False(t, ok, "style ids are not variables")

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, _, err = src.Resolve(cancelled, document.StyleBinding("S:legacy/red"))
	assert.Error(t, err)
}

func TestLoadYAMLSnapshot(t *testing.T) {
	src, err := Load(filepath.Join("testdata", "document.yaml"))
	require.NoError(t, err)
	snap, err := src.Snapshot(context.Background())
	require.NoError(t, err)

	roots := snap.PageNodes()
	require.Len(t, roots, 2)
	chip := roots[0]
	assert.Equal(t, document.KindFrame, chip.Kind)
	assert.True(t, chip.Radius.Aggregate.Mixed)
	assert.Equal(t, document.PaintSolid, chip.Fills[0].Type)

	pill := roots[1]
	assert.Equal(t, 12.0, pill.Radius.Aggregate.Value)
	assert.NotNil(t, pill.Strokes, "an empty list is still a stroke group")
	assert.Nil(t, pill.Fills)
	assert.Empty(t, snap.SelectedNodes())
}

func TestParseErrors(t *testing.T) {
	cases := map[string]string{
		"missing id":   `{"pages":[{"type":"PAGE"}]}`,
		"duplicate id": `{"pages":[{"id":"1","type":"PAGE","children":[{"id":"1","type":"FRAME"}]}]}`,
		"bad radius":   `{"pages":[{"id":"1","type":"FRAME","cornerRadius":"round"}]}`,
		"bad style":    `{"pages":[{"id":"1","type":"FRAME","styles":{"grid":"S:x"}}]}`,
		"not json":     `{`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(body), FormatJSON)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.CodeValidationError))
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeNotFound))
}

func TestLoadLibraries(t *testing.T) {
	libs, err := LoadLibraries(filepath.Join("testdata", "libraries.yaml"))
	require.NoError(t, err)
	assert.Len(t, libs, 2)
	assert.Equal(t, "Retail UI", libs[1].Name)
}
