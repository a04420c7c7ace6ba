package document

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSub_IsIdempotent(t *testing.T) {
	doc := New(Settings{})

	a := doc.Sub("A/B")
	b := doc.Sub("A/B")
	require.Same(t, a, b)

	// Mutations through either reference land on the same node.
	a.AddText("", "via a")
	assert.Equal(t, 1, b.Len())
}

func TestSub_AutoVivifiesIntermediates(t *testing.T) {
	doc := New(Settings{})
	sub := doc.Sub("A/B/C")

	assert.Equal(t, "A/B/C", sub.FullPath())
	assert.Equal(t, "A/B", sub.Path())
	assert.Equal(t, []string{"A", "A/B", "A/B/C"}, doc.SectionHeaders())

	// The intermediate nodes exist and chain together.
	n, ok := doc.Get("A/B")
	require.True(t, ok)
	mid, ok := n.(*Section)
	require.True(t, ok)
	assert.Equal(t, "A", mid.Path())
}

func TestSub_DoubleSlashCollapses(t *testing.T) {
	doc := New(Settings{})
	a := doc.Sub("Section 1//Subsection")
	b := doc.Sub("Section 1/Subsection")

	require.Same(t, a, b)
	assert.Equal(t, []string{"Section 1", "Section 1/Subsection"}, doc.SectionHeaders())
}

func TestSub_LeadingSlashStripped(t *testing.T) {
	doc := New(Settings{})
	require.Same(t, doc.Sub("/Section 1"), doc.Sub("Section 1"))
}

func TestSub_EmptyPathReturnsReceiver(t *testing.T) {
	doc := New(Settings{})
	require.Same(t, doc.Section, doc.Sub(""))
}

func TestSub_PanicsOnBlockKeyCollision(t *testing.T) {
	doc := New(Settings{})
	doc.AddText("", "x") // occupies key "text0"

	assert.Panics(t, func() { doc.Sub("text0/Child") })
}

func TestGet_DoesNotVivify(t *testing.T) {
	doc := New(Settings{})

	_, ok := doc.Get("Missing/Path")
	assert.False(t, ok)
	assert.Empty(t, doc.SectionHeaders())
}

func TestAdd_OrderIsPreservedAcrossKinds(t *testing.T) {
	doc := New(Settings{})
	doc.AddText("S", "alpha")
	doc.AddCode("S", "beta()", "go")
	doc.AddText("S", "gamma")

	sec := doc.Sub("S")
	assert.Equal(t, []string{"text0", "code0", "text1"}, sec.Keys())

	out := doc.Render()
	ia := strings.Index(out, "alpha")
	ib := strings.Index(out, "beta()")
	ic := strings.Index(out, "gamma")
	require.True(t, ia >= 0 && ib >= 0 && ic >= 0)
	assert.Less(t, ia, ib)
	assert.Less(t, ib, ic)
}

func TestAdd_SyntheticKeysScopePerSection(t *testing.T) {
	doc := New(Settings{})
	doc.AddText("A", "one")
	doc.AddText("B", "two")

	assert.Equal(t, []string{"text0"}, doc.Sub("A").Keys())
	assert.Equal(t, []string{"text0"}, doc.Sub("B").Keys())
	assert.Equal(t, 2, doc.TotalCount(KindText))
}

func TestAdd_CountersAreNeverReused(t *testing.T) {
	doc := New(Settings{})
	doc.AddText("", "first")
	require.True(t, doc.Delete("text0"))
	doc.AddText("", "second")

	assert.Equal(t, []string{"text1"}, doc.Keys())
	assert.Equal(t, 2, doc.Count(KindText))
}

func TestAdd_ExplicitPathEqualsResolveThenAdd(t *testing.T) {
	viaPath := New(Settings{})
	viaPath.AddText("A/B", "x")

	viaResolve := New(Settings{})
	viaResolve.Sub("A/B").AddText("", "x")

	assert.Equal(t, viaPath.Render(), viaResolve.Render())
	assert.Equal(t, viaPath.SectionHeaders(), viaResolve.SectionHeaders())
}

func TestDelete_CascadesRegistryCleanup(t *testing.T) {
	doc := New(Settings{})
	doc.Sub("A/B/C")
	doc.Sub("A/Other")

	require.True(t, doc.Delete("A/B"))

	assert.Equal(t, []string{"A", "A/Other"}, doc.SectionHeaders())
	_, ok := doc.Get("A/B")
	assert.False(t, ok)
	_, ok = doc.Get("A/Other")
	assert.True(t, ok)
}

func TestDelete_MissingKeyReportsFalse(t *testing.T) {
	doc := New(Settings{})
	assert.False(t, doc.Delete("nope"))
	assert.False(t, doc.Delete(""))
}

func TestRender_RootHasNoHeading(t *testing.T) {
	doc := New(Settings{})
	doc.AddText("Top", "body")

	out := doc.Render()
	assert.True(t, strings.HasPrefix(out, "# Top\n"), "rendered: %q", out)
}

func TestRender_NestedSectionsDeepenHeadings(t *testing.T) {
	doc := New(Settings{})
	doc.Sub("A/B").AddText("", "deep")

	out := doc.Render()
	assert.Contains(t, out, "# A\n")
	assert.Contains(t, out, "## B\n")
	assert.Contains(t, out, "deep\n")
}

func TestIsValid_RecursesIntoDescendants(t *testing.T) {
	doc := New(Settings{})
	doc.AddText("A", "fine")
	assert.True(t, doc.IsValid())

	doc.AddCode("A/B", "", "go") // empty body is the one invalid case
	assert.False(t, doc.IsValid())
	assert.False(t, doc.Sub("A").IsValid())
}
