package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/journey/pkg/journey"
)

// Write encodes doc to w. Nil node and connection lists are written as
// empty lists.
func Write(w io.Writer, doc Document, format Format) error {
	doc.Nodes = journey.Clone(doc.Nodes)
	if doc.Nodes == nil {
		doc.Nodes = []journey.Node{}
	}
	for i := range doc.Nodes {
		if doc.Nodes[i].Connections == nil {
			doc.Nodes[i].Connections = []string{}
		}
	}

	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return nil
	}
}

// WriteJSON encodes doc as indented JSON.
func WriteJSON(w io.Writer, doc Document) error { return Write(w, doc, FormatJSON) }

// WriteYAML encodes doc as YAML.
func WriteYAML(w io.Writer, doc Document) error { return Write(w, doc, FormatYAML) }

// Export writes doc to path, choosing the format by extension.
func Export(doc Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(f, doc, FormatFromPath(path)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
