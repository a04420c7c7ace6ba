package document

import (
	"fmt"
	"image"
)

// Value is the sealed union accepted by Section.Set. Every Node is a Value
// (grafting a prebuilt subtree); the remaining variants map onto the typed
// add operations.
type Value interface {
	sectionValue()
}

// Text appends a paragraph when assigned.
type Text string

func (Text) sectionValue() {}

// List appends a bulleted list when assigned.
type List []string

func (List) sectionValue() {}

// Matrix is rectangular unlabeled tabular data. A "Column N" header row is
// synthesized when it is flattened into a table.
type Matrix [][]string

func (Matrix) sectionValue() {}

func (m Matrix) flatten() ([]string, int, int, error) {
	if len(m) == 0 || len(m[0]) == 0 {
		return nil, 0, 0, ErrTableShape
	}
	columns := len(m[0])
	cells := make([]string, 0, (len(m)+1)*columns)
	for i := 0; i < columns; i++ {
		cells = append(cells, fmt.Sprintf("Column %d", i+1))
	}
	for _, row := range m {
		if len(row) != columns {
			return nil, 0, 0, ErrTableShape
		}
		cells = append(cells, row...)
	}
	return cells, columns, len(m) + 1, nil
}

// Frame is labeled tabular data: a header row plus body rows.
type Frame struct {
	Columns []string
	Rows    [][]string
}

func (Frame) sectionValue() {}

func (f Frame) flatten() ([]string, int, int, error) {
	columns := len(f.Columns)
	if columns == 0 {
		return nil, 0, 0, ErrTableShape
	}
	cells := make([]string, 0, (len(f.Rows)+1)*columns)
	cells = append(cells, f.Columns...)
	for _, row := range f.Rows {
		if len(row) != columns {
			return nil, 0, 0, ErrTableShape
		}
		cells = append(cells, row...)
	}
	return cells, columns, len(f.Rows) + 1, nil
}

// Figure is a renderable image to materialize under the document's figures
// directory when assigned or added.
type Figure struct {
	Image   image.Image
	Caption string
}

func (Figure) sectionValue() {}
