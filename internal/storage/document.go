package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yourname/blackholeescape/internal"
	"gopkg.in/yaml.v3"
)

// LoadScheduleFile reads a schedule document from a .json, .yaml or .yml file.
// Unknown keys are rejected in both formats to catch typos.
func LoadScheduleFile(path string) (*internal.ScheduleDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schedule file: %w", err)
	}

	var doc internal.ScheduleDocument
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to parse schedule file: %w", err)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to parse schedule file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported schedule file extension %q", filepath.Ext(path))
	}
	return &doc, nil
}
