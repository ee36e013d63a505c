package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/journey/pkg/journey"
)

// Format is a document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts json, yaml or yml in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown format %q (want json or yaml)", s)
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// Document is a journey together with the request that produced it.
type Document struct {
	Description  string               `json:"description,omitempty" yaml:"description,omitempty"`
	Requirements journey.Requirements `json:"requirements" yaml:"requirements"`
	Nodes        []journey.Node       `json:"nodes" yaml:"nodes"`
}

// Read decodes a document from r.
func Read(r io.Reader, format Format) (Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Document{}, fmt.Errorf("read: %w", err)
	}
	var doc Document
	switch format {
	case FormatYAML:
		doc, err = decodeYAML(data)
	default:
		doc, err = decodeJSON(data)
	}
	if err != nil {
		return Document{}, err
	}
	if err := checkIDs(doc.Nodes); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// ReadJSON decodes a JSON document or a bare node array from r.
func ReadJSON(r io.Reader) (Document, error) { return Read(r, FormatJSON) }

// ReadYAML decodes a YAML document from r.
func ReadYAML(r io.Reader) (Document, error) { return Read(r, FormatYAML) }

// Import reads the document at path, choosing the format by extension.
func Import(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	doc, err := Read(f, FormatFromPath(path))
	if err != nil {
		return Document{}, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

func decodeJSON(data []byte) (Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		nodes, err := journey.Parse(string(trimmed))
		if err != nil {
			return Document{}, err
		}
		return Document{Nodes: nodes}, nil
	}

	var raw struct {
		Description  string               `json:"description"`
		Requirements journey.Requirements `json:"requirements"`
		Nodes        json.RawMessage      `json:"nodes"`
	}
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return Document{}, fmt.Errorf("decode: %w", err)
	}
	doc := Document{Description: raw.Description, Requirements: raw.Requirements, Nodes: []journey.Node{}}
	if len(raw.Nodes) > 0 && string(raw.Nodes) != "null" {
		nodes, err := journey.Parse(string(raw.Nodes))
		if err != nil {
			return Document{}, err
		}
		doc.Nodes = nodes
	}
	return doc, nil
}

func decodeYAML(data []byte) (Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("decode: %w", err)
	}
	if doc.Nodes == nil {
		doc.Nodes = []journey.Node{}
	}
	for i := range doc.Nodes {
		if !doc.Nodes[i].Type.Valid() {
			return Document{}, fmt.Errorf("node %s: unknown type %q", doc.Nodes[i].ID, doc.Nodes[i].Type)
		}
		if doc.Nodes[i].Connections == nil {
			doc.Nodes[i].Connections = []string{}
		}
	}
	return doc, nil
}

func checkIDs(nodes []journey.Node) error {
	seen := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		if n.ID == "" {
			return fmt.Errorf("node without id")
		}
		if seen[n.ID] {
			return fmt.Errorf("node %s: duplicate id", n.ID)
		}
		seen[n.ID] = true
	}
	return nil
}
