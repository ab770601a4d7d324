// Package configdiff implements `rsyncwatch config diff`: a structural
// diff between two configuration documents, parsed generically so the
// diff survives field reordering and comment-only changes.
package configdiff

import (
	"fmt"

	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"
	yaml "go.yaml.in/yaml/v4"
)

// Diff parses a and b as generic YAML documents and returns a
// human-readable structural diff. An empty string means no differences.
func Diff(a, b []byte) (string, error) {
	left, err := toGeneric(a)
	if err != nil {
		return "", fmt.Errorf("configdiff: parse left: %w", err)
	}
	right, err := toGeneric(b)
	if err != nil {
		return "", fmt.Errorf("configdiff: parse right: %w", err)
	}

	d := gojsondiff.New().CompareObjects(left, right)
	if !d.Modified() {
		return "", nil
	}

	f := formatter.NewAsciiFormatter(left, formatter.AsciiFormatterConfig{
		ShowArrayIndex: true,
		Coloring:       false,
	})
	out, err := f.Format(d)
	if err != nil {
		return "", fmt.Errorf("configdiff: format: %w", err)
	}
	return out, nil
}

// toGeneric decodes YAML into a map[string]interface{} tree, the shape
// gojsondiff.CompareObjects expects.
func toGeneric(raw []byte) (map[string]interface{}, error) {
	var v map[string]interface{}
	if err := yaml.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}
