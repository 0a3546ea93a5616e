package document

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Document is a single uploaded file as received at the input boundary.
type Document struct {
	Name   string
	Format Format
	Data   []byte
}

type Documents struct {
	Items []*Document
}

// ReadFile loads path into memory. An empty format detects it from the extension.
func ReadFile(path string, format Format) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading document %q: %w", path, err)
	}

	if format == "" {
		format = FromFilename(path)
	}

	return &Document{
		Name:   filepath.Base(path),
		Format: format,
		Data:   data,
	}, nil
}

func (d *Documents) Len() int {
	return len(d.Items)
}

func (d *Documents) Names() []string {
	names := make([]string, 0, len(d.Items))

	for _, doc := range d.Items {
		names = append(names, doc.Name)
	}

	return names
}

func (d *Documents) FindByName(name string) *Document {
	for _, doc := range d.Items {
		if doc.Name == name {
			return doc
		}
	}

	return nil
}

// Duplicates returns names used by more than one document, in first-seen order.
func (d *Documents) Duplicates() []string {
	seen := make(map[string]int, len(d.Items))
	var dups []string

	for _, doc := range d.Items {
		seen[doc.Name]++
		if seen[doc.Name] == 2 {
			dups = append(dups, doc.Name)
		}
	}

	return dups
}

// Append adds doc, renaming it with a numeric suffix when the name is already taken.
func (d *Documents) Append(doc *Document) {
	name := doc.Name
	for i := 2; d.FindByName(name) != nil; i++ {
		ext := filepath.Ext(doc.Name)
		name = fmt.Sprintf("%s (%d)%s", strings.TrimSuffix(doc.Name, ext), i, ext)
	}

	doc.Name = name
	d.Items = append(d.Items, doc)
}
