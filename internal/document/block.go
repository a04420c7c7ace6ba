package document

import (
	"mdgen/internal/markdown"
)

// Node is a member of the document tree: either a *Section or one of the
// seven content blocks. Blocks are immutable after construction apart from
// their spacing flags.
type Node interface {
	Value

	// Render emits the node through the markdown writer. The level only
	// matters for sections; blocks occupy their parent's position.
	Render(w *markdown.Writer, level int)

	// IsValid reports whether the node may be rendered. Sections recurse
	// into their children.
	IsValid() bool

	setPath(path string)
}

// spacing controls blank lines around a rendered block. The default is no
// blank line above and one below.
type spacing struct {
	SpaceAbove bool
	SpaceBelow bool
}

func defaultSpacing() spacing {
	return spacing{SpaceAbove: false, SpaceBelow: true}
}

func (sp spacing) renderAbove(w *markdown.Writer) {
	if sp.SpaceAbove {
		w.NewLine("")
	}
}

func (sp spacing) renderBelow(w *markdown.Writer) {
	if sp.SpaceBelow {
		w.NewLine("")
	}
}

// base carries the fields common to every block kind: the owning section's
// full location and the spacing flags.
type base struct {
	spacing
	path string
}

func newBase(path string) base {
	return base{spacing: defaultSpacing(), path: path}
}

// Path returns the full path of the section owning this block.
func (b *base) Path() string { return b.path }

func (b *base) setPath(path string) { b.path = path }

func (b *base) sectionValue() {}

// TextBlock renders a plain paragraph.
type TextBlock struct {
	base
	Body string
}

func (b *TextBlock) Render(w *markdown.Writer, _ int) {
	b.renderAbove(w)
	w.NewParagraph(b.Body)
	b.renderBelow(w)
}

func (b *TextBlock) IsValid() bool { return true }

// CodeBlock renders a fenced code listing.
type CodeBlock struct {
	base
	Body     string
	Language string
}

func (b *CodeBlock) Render(w *markdown.Writer, _ int) {
	b.renderAbove(w)
	w.InsertCode(b.Body, b.Language)
	b.renderBelow(w)
}

// IsValid rejects empty listings. This is the only block kind with a
// validity check; the asymmetry is intentional.
func (b *CodeBlock) IsValid() bool { return len(b.Body) > 0 }

// ImageBlock renders an inline image reference. Source is either a
// caller-supplied path or the relative path of a materialized figure.
type ImageBlock struct {
	base
	Source  string
	Caption string
}

func (b *ImageBlock) Render(w *markdown.Writer, _ int) {
	b.renderAbove(w)
	w.NewLine(w.InlineImage(b.Caption, b.Source))
	b.renderBelow(w)
}

func (b *ImageBlock) IsValid() bool { return true }

// TableBlock renders a pipe table from row-major cells. The first row is the
// header row.
type TableBlock struct {
	base
	Cells   []string
	Columns int
	Rows    int
}

// NewTableBlock validates the columns*rows == len(cells) invariant.
func NewTableBlock(cells []string, columns, rows int) (*TableBlock, error) {
	if columns <= 0 || rows <= 0 || columns*rows != len(cells) {
		return nil, ErrTableShape
	}
	return &TableBlock{base: newBase(""), Cells: cells, Columns: columns, Rows: rows}, nil
}

func (b *TableBlock) Render(w *markdown.Writer, _ int) {
	b.renderAbove(w)
	w.NewTable(b.Columns, b.Rows, b.Cells)
	b.renderBelow(w)
}

func (b *TableBlock) IsValid() bool { return true }

// ListBlock renders a bulleted list.
type ListBlock struct {
	base
	Items  []string
	Marker string
}

func (b *ListBlock) Render(w *markdown.Writer, _ int) {
	b.renderAbove(w)
	w.NewList(b.Items, b.Marker)
	b.renderBelow(w)
}

func (b *ListBlock) IsValid() bool { return true }

// LinkBlock renders an inline link on its own line.
type LinkBlock struct {
	base
	URL  string
	Text string
}

func (b *LinkBlock) Render(w *markdown.Writer, _ int) {
	b.renderAbove(w)
	w.NewLine(w.InlineLink(b.Text, b.URL))
	b.renderBelow(w)
}

func (b *LinkBlock) IsValid() bool { return true }

// CheckboxBlock renders a task list. Checked always matches Items in length.
type CheckboxBlock struct {
	base
	Items   []string
	Checked []bool
}

// NewCheckboxBlock requires checked to be nil (all unchecked) or exactly as
// long as items. Use broadcastChecked for the single-bool form.
func NewCheckboxBlock(items []string, checked []bool) (*CheckboxBlock, error) {
	if checked == nil {
		checked = make([]bool, len(items))
	}
	if len(checked) != len(items) {
		return nil, ErrCheckedLength
	}
	return &CheckboxBlock{base: newBase(""), Items: items, Checked: checked}, nil
}

func broadcastChecked(v bool, n int) []bool {
	out := make([]bool, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func (b *CheckboxBlock) Render(w *markdown.Writer, _ int) {
	b.renderAbove(w)
	w.NewCheckbox(b.Items, b.Checked)
	b.renderBelow(w)
}

func (b *CheckboxBlock) IsValid() bool { return true }
