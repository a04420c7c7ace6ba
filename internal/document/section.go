package document

import (
	"fmt"
	"image"
	"strings"

	"mdgen/internal/figure"
	"mdgen/internal/markdown"
)

// docContext is shared by every section of one document. It owns the
// section-path registry and the document-wide kind counters, so counters
// never leak across unrelated documents.
type docContext struct {
	saveDir  string
	baseName string
	dpi      int
	headers  []string
	counts   [numKinds]int
}

func newDocContext(saveDir, baseName string, dpi int) *docContext {
	if saveDir == "" {
		saveDir = "."
	}
	if baseName == "" {
		baseName = DefaultFileName
	}
	return &docContext{saveDir: saveDir, baseName: baseName, dpi: dpi}
}

func (c *docContext) register(path string) {
	if path == "" {
		return
	}
	for _, h := range c.headers {
		if h == path {
			return
		}
	}
	c.headers = append(c.headers, path)
}

// unregister removes a section path and every descendant path.
func (c *docContext) unregister(path string) {
	if path == "" {
		return
	}
	kept := c.headers[:0]
	for _, h := range c.headers {
		if h == path || strings.HasPrefix(h, path+"/") {
			continue
		}
		kept = append(kept, h)
	}
	c.headers = kept
}

// Section is a named composite node: an ordered mapping from child key to
// Node. Keys are sibling section names or synthetic per-kind counters for
// anonymous blocks. Sections are not safe for concurrent use.
type Section struct {
	name     string
	path     string
	keys     []string
	children map[string]Node
	counts   [numKinds]int
	ctx      *docContext
}

// NewSection creates a detached section suitable for building a subtree that
// is later grafted into a document with Set. It carries its own context
// until adoption.
func NewSection(name string) *Section {
	return newSection(name, "", newDocContext("", "", 0))
}

func newSection(name, path string, ctx *docContext) *Section {
	return &Section{
		name:     name,
		path:     path,
		children: make(map[string]Node),
		ctx:      ctx,
	}
}

func (s *Section) sectionValue() {}

// Name returns the section's heading text. The document root has no name.
func (s *Section) Name() string { return s.name }

// Path returns the slash-joined ancestor names, excluding the section's own
// name. The root and its direct children have an empty path.
func (s *Section) Path() string { return s.path }

// FullPath returns the section's complete location from the document root.
func (s *Section) FullPath() string {
	return joinPath(s.path, s.name)
}

func joinPath(path, name string) string {
	switch {
	case name == "":
		return path
	case path == "":
		return name
	default:
		return path + "/" + name
	}
}

// Keys returns the child keys in insertion order.
func (s *Section) Keys() []string {
	return append([]string(nil), s.keys...)
}

// Len returns the number of direct children.
func (s *Section) Len() int { return len(s.keys) }

// Child looks up a direct child by exact key. No path resolution, no
// vivification.
func (s *Section) Child(key string) (Node, bool) {
	n, ok := s.children[key]
	return n, ok
}

// Count returns how many blocks of the given kind this section has created.
func (s *Section) Count(k Kind) int {
	if k < 0 || k >= numKinds {
		return 0
	}
	return s.counts[k]
}

// splitPath normalizes a slash path: the leading slash is stripped and empty
// segments collapse, so "A//B" and "/A/B" both walk A then B.
func splitPath(path string) []string {
	parts := strings.Split(path, "/")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Sub resolves a path to a section, creating every missing intermediate
// along the way. Resolving the same path twice without intervening mutation
// returns the same section. An empty path returns the receiver.
//
// Sub panics if a path segment names an existing block child: a key is never
// reassigned to a different child while that child exists.
func (s *Section) Sub(path string) *Section {
	cur := s
	for _, seg := range splitPath(path) {
		if child, ok := cur.children[seg]; ok {
			sub, ok := child.(*Section)
			if !ok {
				panic(fmt.Sprintf("document: path segment %q already holds a block", seg))
			}
			cur = sub
			continue
		}
		cur = cur.createChild(seg)
	}
	return cur
}

// Get resolves a path strictly: it never creates nodes and reports whether
// the full path exists. An empty path returns the receiver.
func (s *Section) Get(path string) (Node, bool) {
	var cur Node = s
	for _, seg := range splitPath(path) {
		sec, ok := cur.(*Section)
		if !ok {
			return nil, false
		}
		child, ok := sec.children[seg]
		if !ok {
			return nil, false
		}
		cur = child
	}
	return cur, true
}

func (s *Section) createChild(name string) *Section {
	child := newSection(name, s.FullPath(), s.ctx)
	s.put(name, child)
	s.ctx.register(child.FullPath())
	return child
}

func (s *Section) put(key string, n Node) {
	if _, exists := s.children[key]; !exists {
		s.keys = append(s.keys, key)
	}
	s.children[key] = n
}

// target resolves the optional path argument of the typed add operations.
func (s *Section) target(path string) *Section {
	if path == "" {
		return s
	}
	return s.Sub(path)
}

// attach stores a block under the next synthetic key for its kind and bumps
// both the section-local and the document-wide counter. Counters are
// monotonic; deleted keys are never reused.
func (s *Section) attach(k Kind, n Node) {
	key := fmt.Sprintf("%s%d", k, s.counts[k])
	for {
		if _, taken := s.children[key]; !taken {
			break
		}
		s.counts[k]++
		key = fmt.Sprintf("%s%d", k, s.counts[k])
	}
	s.counts[k]++
	s.ctx.counts[k]++
	s.put(key, n)
}

// AddText appends a paragraph block. A non-empty path is resolved first,
// auto-vivifying missing sections.
func (s *Section) AddText(path, text string) *TextBlock {
	t := s.target(path)
	b := &TextBlock{base: newBase(t.FullPath()), Body: text}
	t.attach(KindText, b)
	return b
}

// AddCode appends a fenced code block. An empty language defaults to
// "python".
func (s *Section) AddCode(path, code, language string) *CodeBlock {
	if language == "" {
		language = "python"
	}
	t := s.target(path)
	b := &CodeBlock{base: newBase(t.FullPath()), Body: code, Language: language}
	t.attach(KindCode, b)
	return b
}

// AddImage appends an image reference to an already materialized file.
func (s *Section) AddImage(path, source, caption string) *ImageBlock {
	t := s.target(path)
	b := &ImageBlock{base: newBase(t.FullPath()), Source: source, Caption: caption}
	t.attach(KindImage, b)
	return b
}

// AddFigure materializes a renderable image under the document's figures
// directory and appends a reference to it. Generated file names use the
// document-wide image count, so they stay unique across sections.
func (s *Section) AddFigure(path string, img image.Image, caption string) (*ImageBlock, error) {
	t := s.target(path)
	name := fmt.Sprintf("%s_image%d", s.ctx.baseName, s.ctx.counts[KindImage])
	saver := figure.NewSaver(s.ctx.saveDir, s.ctx.dpi)
	rel, err := saver.Save(img, name)
	if err != nil {
		return nil, err
	}
	return t.AddImage("", rel, caption), nil
}

// AddTable appends a table block after checking the shape invariant.
func (s *Section) AddTable(path string, cells []string, columns, rows int) (*TableBlock, error) {
	b, err := NewTableBlock(cells, columns, rows)
	if err != nil {
		return nil, err
	}
	t := s.target(path)
	b.setPath(t.FullPath())
	t.attach(KindTable, b)
	return b, nil
}

// AddMatrix flattens unlabeled rectangular data into a table with a
// synthesized header row.
func (s *Section) AddMatrix(path string, m Matrix) (*TableBlock, error) {
	cells, columns, rows, err := m.flatten()
	if err != nil {
		return nil, err
	}
	return s.AddTable(path, cells, columns, rows)
}

// AddFrame flattens labeled tabular data into a table.
func (s *Section) AddFrame(path string, f Frame) (*TableBlock, error) {
	cells, columns, rows, err := f.flatten()
	if err != nil {
		return nil, err
	}
	return s.AddTable(path, cells, columns, rows)
}

// AddList appends a bulleted list. An empty marker defaults to "-".
func (s *Section) AddList(path string, items []string, marker string) *ListBlock {
	if marker == "" {
		marker = "-"
	}
	t := s.target(path)
	b := &ListBlock{base: newBase(t.FullPath()), Items: items, Marker: marker}
	t.attach(KindList, b)
	return b
}

// AddLink appends an inline link. Empty display text defaults to the URL.
func (s *Section) AddLink(path, url, text string) *LinkBlock {
	if text == "" {
		text = url
	}
	t := s.target(path)
	b := &LinkBlock{base: newBase(t.FullPath()), URL: url, Text: text}
	t.attach(KindLink, b)
	return b
}

// AddCheckbox appends a task list with the checked state broadcast to every
// item.
func (s *Section) AddCheckbox(path string, items []string, checked bool) *CheckboxBlock {
	t := s.target(path)
	b := &CheckboxBlock{
		base:    newBase(t.FullPath()),
		Items:   items,
		Checked: broadcastChecked(checked, len(items)),
	}
	t.attach(KindCheckbox, b)
	return b
}

// AddCheckboxItems appends a task list with per-item checked state. A nil
// slice means all unchecked; any other length mismatch is an error.
func (s *Section) AddCheckboxItems(path string, items []string, checked []bool) (*CheckboxBlock, error) {
	b, err := NewCheckboxBlock(items, checked)
	if err != nil {
		return nil, err
	}
	t := s.target(path)
	b.setPath(t.FullPath())
	t.attach(KindCheckbox, b)
	return b, nil
}

// Set is the assignment shorthand. A Node value is grafted under the final
// key of keyPath; every other variant of the union maps to the matching
// typed add with keyPath as the target path.
func (s *Section) Set(keyPath string, v Value) error {
	switch val := v.(type) {
	case Node:
		return s.graft(keyPath, val)
	case Text:
		s.AddText(keyPath, string(val))
		return nil
	case List:
		s.AddList(keyPath, []string(val), "")
		return nil
	case Matrix:
		_, err := s.AddMatrix(keyPath, val)
		return err
	case Frame:
		_, err := s.AddFrame(keyPath, val)
		return err
	case Figure:
		_, err := s.AddFigure(keyPath, val.Image, val.Caption)
		return err
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
	}
}

// graft stores a prebuilt node under the final key, rehoming the whole
// subtree onto this document's context and registry. Assignment displaces an
// existing child at the key; a displaced section leaves the registry together
// with all its descendants, so the registry never lists a key the tree holds
// a block under.
func (s *Section) graft(keyPath string, n Node) error {
	segs := splitPath(keyPath)
	if len(segs) == 0 {
		return ErrEmptyKey
	}
	parent := s
	if len(segs) > 1 {
		parent = s.Sub(strings.Join(segs[:len(segs)-1], "/"))
	}
	key := segs[len(segs)-1]
	if old, ok := parent.children[key]; ok {
		if sec, ok := old.(*Section); ok {
			parent.ctx.unregister(sec.FullPath())
		}
	}
	parent.put(key, n)
	rehome(n, key, parent.FullPath(), parent.ctx)
	return nil
}

// rehome rewrites paths after a graft. Grafted sections take their key as
// name and register themselves and their descendants.
func rehome(n Node, key, parentPath string, ctx *docContext) {
	sec, ok := n.(*Section)
	if !ok {
		n.setPath(parentPath)
		return
	}
	sec.name = key
	sec.path = parentPath
	sec.ctx = ctx
	ctx.register(sec.FullPath())
	for _, k := range sec.keys {
		rehome(sec.children[k], k, sec.FullPath(), ctx)
	}
}

func (s *Section) setPath(path string) { s.path = path }

// Delete removes the child at keyPath. If the child is a section, its path
// and every descendant path are removed from the registry. Reports whether
// anything was removed.
func (s *Section) Delete(keyPath string) bool {
	segs := splitPath(keyPath)
	if len(segs) == 0 {
		return false
	}
	parent := s
	if len(segs) > 1 {
		n, ok := s.Get(strings.Join(segs[:len(segs)-1], "/"))
		if !ok {
			return false
		}
		parent, ok = n.(*Section)
		if !ok {
			return false
		}
	}
	key := segs[len(segs)-1]
	child, ok := parent.children[key]
	if !ok {
		return false
	}
	delete(parent.children, key)
	for i, k := range parent.keys {
		if k == key {
			parent.keys = append(parent.keys[:i], parent.keys[i+1:]...)
			break
		}
	}
	if sec, ok := child.(*Section); ok {
		s.ctx.unregister(sec.FullPath())
	}
	return true
}

// Render emits the section heading (the unnamed root emits none) followed by
// every child in insertion order. Nested sections render one level deeper.
func (s *Section) Render(w *markdown.Writer, level int) {
	next := level
	if s.name != "" {
		w.NewHeader(level, s.name)
		w.NewLine("")
		next = level + 1
	}
	for _, k := range s.keys {
		s.children[k].Render(w, next)
	}
}

// IsValid reports whether every descendant block is valid.
func (s *Section) IsValid() bool {
	for _, k := range s.keys {
		if !s.children[k].IsValid() {
			return false
		}
	}
	return true
}
