package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// settingsKey is the reserved top-level key for document settings. The
// leading underscore keeps it out of the section namespace.
const settingsKey = "_settings"

type settingsRecord struct {
	SavePath       string         `json:"save_path"`
	FileName       string         `json:"file_name"`
	Title          string         `json:"title"`
	Author         string         `json:"author"`
	DPI            int            `json:"dpi"`
	SectionHeaders []string       `json:"section_headers"`
	Counts         map[string]int `json:"counts"`
}

// Block records. The first field of each is its kind discriminator; the
// exact keys are part of the interchange format.
type textRecord struct {
	Text string `json:"text"`
}

type codeRecord struct {
	Code     string `json:"code"`
	Language string `json:"language"`
}

type imageRecord struct {
	ImagePath string `json:"image_path"`
	Caption   string `json:"caption"`
}

type tableRecord struct {
	Table   []string `json:"table"`
	Columns int      `json:"columns"`
	Rows    int      `json:"rows"`
}

type listRecord struct {
	Items  []string `json:"items"`
	Marker string   `json:"marked_with"`
}

type linkRecord struct {
	Link string `json:"link"`
	Text string `json:"text"`
}

type checkboxRecord struct {
	TextList []string `json:"text_list"`
	Checked  []bool   `json:"checked"`
}

// orderedMap is a JSON object that remembers key order. encoding/json maps
// sort keys and forget file order; the tree's ordering guarantee has to
// survive the round trip.
type orderedMap struct {
	keys []string
	vals map[string]json.RawMessage
}

func (m *orderedMap) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected object, got %v", tok)
	}
	m.vals = make(map[string]json.RawMessage)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", keyTok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		if _, exists := m.vals[key]; !exists {
			m.keys = append(m.keys, key)
		}
		m.vals[key] = raw
	}
	_, err = dec.Token()
	return err
}

// writeOrdered appends `"key": value` pairs to buf in the given order.
func writeOrdered(buf *bytes.Buffer, pairs []string, value func(string) ([]byte, error)) error {
	buf.WriteByte('{')
	for i, key := range pairs {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := value(key)
		if err != nil {
			return err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return nil
}

func marshalNode(n Node) ([]byte, error) {
	switch v := n.(type) {
	case *Section:
		var buf bytes.Buffer
		err := writeOrdered(&buf, v.keys, func(key string) ([]byte, error) {
			return marshalNode(v.children[key])
		})
		return buf.Bytes(), err
	case *TextBlock:
		return json.Marshal(textRecord{Text: v.Body})
	case *CodeBlock:
		return json.Marshal(codeRecord{Code: v.Body, Language: v.Language})
	case *ImageBlock:
		return json.Marshal(imageRecord{ImagePath: v.Source, Caption: v.Caption})
	case *TableBlock:
		return json.Marshal(tableRecord{Table: v.Cells, Columns: v.Columns, Rows: v.Rows})
	case *ListBlock:
		return json.Marshal(listRecord{Items: v.Items, Marker: v.Marker})
	case *LinkBlock:
		return json.Marshal(linkRecord{Link: v.URL, Text: v.Text})
	case *CheckboxBlock:
		return json.Marshal(checkboxRecord{TextList: v.Items, Checked: v.Checked})
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownRecord, n)
	}
}

// MarshalJSON writes the settings record first, then every top-level child
// in insertion order.
func (d *Document) MarshalJSON() ([]byte, error) {
	counts := make(map[string]int, numKinds)
	for k := Kind(0); k < numKinds; k++ {
		counts[k.String()] = d.ctx.counts[k]
	}
	settings := settingsRecord{
		SavePath:       d.ctx.saveDir,
		FileName:       d.ctx.baseName,
		Title:          d.title,
		Author:         d.author,
		DPI:            d.ctx.dpi,
		SectionHeaders: d.SectionHeaders(),
		Counts:         counts,
	}

	var buf bytes.Buffer
	pairs := append([]string{settingsKey}, d.keys...)
	err := writeOrdered(&buf, pairs, func(key string) ([]byte, error) {
		if key == settingsKey {
			return json.Marshal(settings)
		}
		return marshalNode(d.children[key])
	})
	return buf.Bytes(), err
}

// SaveJSON writes the interchange file to <dir>/<name>.json.
func (d *Document) SaveJSON() error {
	return d.SaveJSONAs("")
}

// SaveJSONAs retargets the document like SaveAs and writes the interchange
// file.
func (d *Document) SaveJSONAs(path string) error {
	d.retarget(path)
	b, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	if err := os.MkdirAll(filepath.Dir(d.JSONPath()), 0755); err != nil {
		return err
	}
	return os.WriteFile(d.JSONPath(), b, 0644)
}

// Load reads an interchange file and reconstructs the document it encodes.
func Load(path string) (*Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(b)
}

// Decode reconstructs a document from interchange bytes. The result is
// structurally new but renders identically to the document that was saved.
func Decode(data []byte) (*Document, error) {
	var om orderedMap
	if err := json.Unmarshal(data, &om); err != nil {
		return nil, err
	}
	raw, ok := om.vals[settingsKey]
	if !ok {
		return nil, fmt.Errorf("interchange document is missing the %q record", settingsKey)
	}
	var st settingsRecord
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, fmt.Errorf("invalid settings record: %w", err)
	}

	d := New(Settings{
		SavePath: st.SavePath,
		FileName: st.FileName,
		Title:    st.Title,
		Author:   st.Author,
		DPI:      st.DPI,
	})

	headers := make(map[string]bool, len(st.SectionHeaders))
	for _, h := range st.SectionHeaders {
		headers[h] = true
	}

	for _, key := range om.keys {
		if key == settingsKey {
			continue
		}
		if err := decodeChild(d.Section, key, om.vals[key], headers); err != nil {
			return nil, err
		}
	}

	// Saved global counts can run ahead of the rebuilt ones (blocks deleted
	// after creation); keep the higher value so generated figure names stay
	// unique.
	for name, n := range st.Counts {
		if k, ok := kindFromString(name); ok && n > d.ctx.counts[k] {
			d.ctx.counts[k] = n
		}
	}
	return d, nil
}

// decodeChild rebuilds one child. A key whose full path appears in the saved
// header registry is a section; anything else must be a block record.
func decodeChild(parent *Section, key string, raw json.RawMessage, headers map[string]bool) error {
	full := joinPath(parent.FullPath(), key)
	if headers[full] {
		var om orderedMap
		if err := json.Unmarshal(raw, &om); err != nil {
			return fmt.Errorf("section %q: %w", full, err)
		}
		sec := parent.Sub(key)
		for _, childKey := range om.keys {
			if err := decodeChild(sec, childKey, om.vals[childKey], headers); err != nil {
				return err
			}
		}
		return nil
	}
	return decodeBlock(parent, key, raw)
}

func decodeBlock(parent *Section, key string, raw json.RawMessage) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return fmt.Errorf("record %q: %w", key, err)
	}

	// Discriminator checks go from most to least specific: link and checkbox
	// records also carry a "text" field.
	switch {
	case has(fields, "image_path"):
		var rec imageRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return err
		}
		parent.AddImage("", rec.ImagePath, rec.Caption)
	case has(fields, "code"):
		var rec codeRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return err
		}
		parent.AddCode("", rec.Code, rec.Language)
	case has(fields, "table"):
		var rec tableRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return err
		}
		if _, err := parent.AddTable("", rec.Table, rec.Columns, rec.Rows); err != nil {
			return fmt.Errorf("record %q: %w", key, err)
		}
	case has(fields, "text_list"):
		var rec checkboxRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return err
		}
		if _, err := parent.AddCheckboxItems("", rec.TextList, rec.Checked); err != nil {
			return fmt.Errorf("record %q: %w", key, err)
		}
	case has(fields, "items"):
		var rec listRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return err
		}
		parent.AddList("", rec.Items, rec.Marker)
	case has(fields, "link"):
		var rec linkRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return err
		}
		parent.AddLink("", rec.Link, rec.Text)
	case has(fields, "text"):
		var rec textRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return err
		}
		parent.AddText("", rec.Text)
	default:
		return fmt.Errorf("%w: record %q", ErrUnknownRecord, key)
	}
	return nil
}

func has(fields map[string]json.RawMessage, key string) bool {
	_, ok := fields[key]
	return ok
}
