package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddTable_ShapeInvariant(t *testing.T) {
	doc := New(Settings{})

	_, err := doc.AddTable("S", []string{"a", "b", "c", "d", "e"}, 3, 2)
	require.ErrorIs(t, err, ErrTableShape)

	b, err := doc.AddTable("S", []string{"a", "b", "c", "d", "e", "f"}, 3, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, b.Columns)
	assert.Equal(t, 2, b.Rows)
	assert.Len(t, b.Cells, 6)
}

func TestAddTable_FailedAddDoesNotCount(t *testing.T) {
	doc := New(Settings{})
	_, err := doc.AddTable("", []string{"a"}, 2, 2)
	require.Error(t, err)

	assert.Zero(t, doc.Count(KindTable))
	assert.Zero(t, doc.TotalCount(KindTable))
	assert.Empty(t, doc.Keys())
}

func TestAddCheckbox_BroadcastsSingleBool(t *testing.T) {
	doc := New(Settings{})
	b := doc.AddCheckbox("", []string{"x", "y", "z"}, true)

	assert.Equal(t, []bool{true, true, true}, b.Checked)
}

func TestAddCheckboxItems_PerItemValues(t *testing.T) {
	doc := New(Settings{})
	b, err := doc.AddCheckboxItems("", []string{"x", "y"}, []bool{true, false})
	require.NoError(t, err)

	assert.Equal(t, []bool{true, false}, b.Checked)
}

func TestAddCheckboxItems_LengthMismatchFails(t *testing.T) {
	doc := New(Settings{})
	_, err := doc.AddCheckboxItems("", []string{"x", "y"}, []bool{true})
	require.ErrorIs(t, err, ErrCheckedLength)
}

func TestAddCheckboxItems_NilMeansAllUnchecked(t *testing.T) {
	doc := New(Settings{})
	b, err := doc.AddCheckboxItems("", []string{"x", "y"}, nil)
	require.NoError(t, err)

	assert.Equal(t, []bool{false, false}, b.Checked)
}

func TestAddLink_DisplayTextDefaultsToURL(t *testing.T) {
	doc := New(Settings{})
	b := doc.AddLink("", "https://example.com", "")
	assert.Equal(t, "https://example.com", b.Text)

	c := doc.AddLink("", "https://example.com", "Example")
	assert.Equal(t, "Example", c.Text)
}

func TestAddList_MarkerDefaultsToDash(t *testing.T) {
	doc := New(Settings{})
	assert.Equal(t, "-", doc.AddList("", []string{"a"}, "").Marker)
	assert.Equal(t, "*", doc.AddList("", []string{"a"}, "*").Marker)
}

func TestAddCode_LanguageDefaultsToPython(t *testing.T) {
	doc := New(Settings{})
	assert.Equal(t, "python", doc.AddCode("", "print(1)", "").Language)
	assert.Equal(t, "go", doc.AddCode("", "x := 1", "go").Language)
}

func TestCodeBlock_EmptyBodyIsInvalid(t *testing.T) {
	doc := New(Settings{})
	assert.False(t, doc.AddCode("", "", "go").IsValid())
	assert.True(t, doc.AddCode("", "x := 1", "").IsValid())
}

func TestBlocks_PathTracksOwningSection(t *testing.T) {
	doc := New(Settings{})
	b := doc.AddText("A/B", "body")
	assert.Equal(t, "A/B", b.Path())

	root := doc.AddText("", "root level")
	assert.Equal(t, "", root.Path())
}

func TestMatrix_FlattenSynthesizesHeader(t *testing.T) {
	doc := New(Settings{})
	b, err := doc.AddMatrix("", Matrix{{"1", "2"}, {"3", "4"}})
	require.NoError(t, err)

	assert.Equal(t, 2, b.Columns)
	assert.Equal(t, 3, b.Rows)
	assert.Equal(t, []string{"Column 1", "Column 2", "1", "2", "3", "4"}, b.Cells)
}

func TestMatrix_RaggedRowsFail(t *testing.T) {
	doc := New(Settings{})
	_, err := doc.AddMatrix("", Matrix{{"1", "2"}, {"3"}})
	require.ErrorIs(t, err, ErrTableShape)

	_, err = doc.AddMatrix("", Matrix{})
	require.ErrorIs(t, err, ErrTableShape)
}

func TestFrame_FlattenUsesLabeledColumns(t *testing.T) {
	doc := New(Settings{})
	b, err := doc.AddFrame("", Frame{
		Columns: []string{"Name", "Score"},
		Rows:    [][]string{{"a", "1"}, {"b", "2"}},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Name", "Score", "a", "1", "b", "2"}, b.Cells)
	assert.Equal(t, 2, b.Columns)
	assert.Equal(t, 3, b.Rows)
}
