package common

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// FilterFields converts v to a map through its JSON encoding and keeps only the comma-separated
// fields. An empty list keeps everything.
func FilterFields(v any, fieldsStr string) map[string]any {
	full := structToMap(v)
	if strings.TrimSpace(fieldsStr) == "" {
		return full
	}

	include := make(map[string]bool)
	for _, field := range strings.Split(fieldsStr, ",") {
		include[strings.TrimSpace(field)] = true
	}

	filtered := make(map[string]any)
	for key, value := range full {
		if include[key] {
			filtered[key] = value
		}
	}
	return filtered
}

// structToMap converts a struct to map[string]any using JSON marshaling.
func structToMap(obj any) map[string]any {
	data, _ := json.Marshal(obj)
	var result map[string]any
	_ = json.Unmarshal(data, &result)
	return result
}

// Write renders v as "json" or "yaml".
func Write(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml", "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown format %q (want json or yaml)", format)
}
