package main

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

// writeOutput prints v as indented JSON or as YAML. YAML keys follow the
// JSON field names.
func writeOutput(w io.Writer, format string, v interface{}) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		doc, err := toYAMLDocument(v)
		if err != nil {
			return err
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (want json or yaml)", format)
	}
}

// toYAMLDocument round-trips v through JSON into a yaml node so that json
// tags and key order are kept.
func toYAMLDocument(v interface{}) (*yaml.Node, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var node yaml.Node
	// JSON is a subset of YAML
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	resetStyle(&node)
	return &node, nil
}

// resetStyle drops the flow and quoting style the JSON input gives every
// node; the encoder still quotes strings that would read back as numbers.
func resetStyle(n *yaml.Node) {
	n.Style = 0
	for _, child := range n.Content {
		resetStyle(child)
	}
}
