package markdown

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Writer accumulates markdown blocks in memory and flushes them to a file on
// demand. It only generates markdown; it never parses it.
type Writer struct {
	path   string
	title  string
	author string
	body   strings.Builder
}

// NewWriter creates a writer targeting the given file path. Title and author
// may be empty, in which case no preamble is emitted.
func NewWriter(path, title, author string) *Writer {
	return &Writer{path: path, title: title, author: author}
}

func (w *Writer) Path() string { return w.path }

// SetPath retargets the writer without discarding accumulated content.
func (w *Writer) SetPath(path string) { w.path = path }

// NewHeader emits an ATX heading. Levels outside 1..6 are clamped.
func (w *Writer) NewHeader(level int, title string) {
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}
	w.body.WriteString(strings.Repeat("#", level) + " " + title + "\n")
}

// NewLine emits a single raw line. An empty string produces a blank line.
func (w *Writer) NewLine(text string) {
	w.body.WriteString(text + "\n")
}

// NewParagraph emits a paragraph line.
func (w *Writer) NewParagraph(text string) {
	w.body.WriteString(text + "\n")
}

// InsertCode emits a fenced code block. The language may be empty.
func (w *Writer) InsertCode(code, language string) {
	w.body.WriteString("```" + language + "\n")
	w.body.WriteString(strings.TrimRight(code, "\n") + "\n")
	w.body.WriteString("```\n")
}

// InlineImage returns the inline image reference without emitting it.
func (w *Writer) InlineImage(alt, path string) string {
	return fmt.Sprintf("![%s](%s)", alt, path)
}

// InlineLink returns the inline link reference without emitting it.
func (w *Writer) InlineLink(text, url string) string {
	return fmt.Sprintf("[%s](%s)", text, url)
}

// NewTable emits a pipe table from row-major cells. The first row is treated
// as the header row. Callers are expected to have validated the shape.
func (w *Writer) NewTable(columns, rows int, cells []string) {
	if columns <= 0 || rows <= 0 || len(cells) == 0 {
		return
	}
	for r := 0; r < rows; r++ {
		start := r * columns
		if start >= len(cells) {
			break
		}
		end := start + columns
		if end > len(cells) {
			end = len(cells)
		}
		w.body.WriteString("| " + strings.Join(cells[start:end], " | ") + " |\n")
		if r == 0 {
			sep := make([]string, columns)
			for i := range sep {
				sep[i] = "---"
			}
			w.body.WriteString("| " + strings.Join(sep, " | ") + " |\n")
		}
	}
}

// NewList emits a bulleted list. An empty marker defaults to "-".
func (w *Writer) NewList(items []string, marker string) {
	if marker == "" {
		marker = "-"
	}
	for _, item := range items {
		w.body.WriteString(marker + " " + item + "\n")
	}
}

// NewCheckbox emits one task-list line per item.
func (w *Writer) NewCheckbox(items []string, checked []bool) {
	for i, item := range items {
		box := "[ ]"
		if i < len(checked) && checked[i] {
			box = "[x]"
		}
		w.body.WriteString("- " + box + " " + item + "\n")
	}
}

// String returns the full document, preamble included.
func (w *Writer) String() string {
	var sb strings.Builder
	if w.title != "" {
		sb.WriteString("# " + w.title + "\n\n")
	}
	if w.author != "" {
		sb.WriteString("*" + w.author + "*\n\n")
	}
	sb.WriteString(w.body.String())
	return sb.String()
}

// Flush writes the accumulated document to the target path, creating parent
// directories as needed.
func (w *Writer) Flush() error {
	if dir := filepath.Dir(w.path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(w.path, []byte(w.String()), 0644)
}
