package document

import (
	"path/filepath"
	"strings"

	"mdgen/internal/markdown"
)

// DefaultFileName is used when no base file name is configured.
const DefaultFileName = "GeneratedMD"

// Settings configures a new document. SavePath may be a directory or a file
// path ending in a known extension, in which case the directory and base name
// are split out of it.
type Settings struct {
	SavePath string
	FileName string
	Title    string
	Author   string
	DPI      int
}

// Document is the root of a section tree plus the document-wide settings.
// The root section renders no heading of its own. Documents are built and
// saved from a single goroutine; concurrent use is the caller's problem.
type Document struct {
	*Section
	title  string
	author string
}

// New creates an empty document. The zero Settings value writes
// "GeneratedMD.md" into the current directory.
func New(s Settings) *Document {
	dir, name := splitSavePath(s.SavePath, s.FileName)
	ctx := newDocContext(dir, name, s.DPI)
	return &Document{
		Section: newSection("", "", ctx),
		title:   s.Title,
		author:  s.Author,
	}
}

// splitSavePath separates a directory from a base file name. A path whose
// last segment carries a known extension is treated as a file path.
func splitSavePath(savePath, fileName string) (string, string) {
	dir := savePath
	if base := filepath.Base(savePath); savePath != "" {
		switch ext := filepath.Ext(base); ext {
		case ".md", ".json":
			fileName = strings.TrimSuffix(base, ext)
			dir = filepath.Dir(savePath)
		}
	}
	if dir == "" {
		dir = "."
	}
	if fileName == "" {
		fileName = DefaultFileName
	}
	return dir, fileName
}

func (d *Document) Title() string   { return d.title }
func (d *Document) Author() string  { return d.author }
func (d *Document) SaveDir() string { return d.ctx.saveDir }
func (d *Document) FileName() string {
	return d.ctx.baseName
}
func (d *Document) DPI() int { return d.ctx.dpi }

// SectionHeaders returns the full path of every section ever created, in
// creation order.
func (d *Document) SectionHeaders() []string {
	return append([]string(nil), d.ctx.headers...)
}

// TotalCount returns the document-wide number of blocks added for a kind.
func (d *Document) TotalCount(k Kind) int {
	if k < 0 || k >= numKinds {
		return 0
	}
	return d.ctx.counts[k]
}

// MarkdownPath returns the target path of the rendered markdown file.
func (d *Document) MarkdownPath() string {
	return filepath.Join(d.ctx.saveDir, d.ctx.baseName+".md")
}

// JSONPath returns the target path of the interchange file.
func (d *Document) JSONPath() string {
	return filepath.Join(d.ctx.saveDir, d.ctx.baseName+".json")
}

// Render returns the whole document as markdown text without touching disk.
func (d *Document) Render() string {
	w := markdown.NewWriter(d.MarkdownPath(), d.title, d.author)
	d.Section.Render(w, 1)
	return w.String()
}

// Save renders the tree and writes <dir>/<name>.md.
func (d *Document) Save() error {
	return d.SaveAs("")
}

// SaveAs retargets the document (a file path updates both directory and base
// name, a directory only the former) and then saves. A file-write failure
// propagates as is; there is no internal recovery.
func (d *Document) SaveAs(path string) error {
	d.retarget(path)
	w := markdown.NewWriter(d.MarkdownPath(), d.title, d.author)
	d.Section.Render(w, 1)
	return w.Flush()
}

func (d *Document) retarget(path string) {
	if path == "" {
		return
	}
	d.ctx.saveDir, d.ctx.baseName = splitSavePath(path, d.ctx.baseName)
}
