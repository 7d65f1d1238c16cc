package perf

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const defaultExportFilename = "lsk-perf.json"

type exportEvent struct {
	Name       string                 `json:"name"`
	Timestamp  time.Time              `json:"timestamp"`
	Attributes map[string]interface{} `json:"attributes,omitempty"`
}

type exportSpan struct {
	Name         string                 `json:"name"`
	SpanID       string                 `json:"span_id"`
	ParentSpanID string                 `json:"parent_span_id,omitempty"`
	Start        time.Time              `json:"start"`
	DurationNS   int64                  `json:"duration_ns"`
	Status       string                 `json:"status,omitempty"`
	Attributes   map[string]interface{} `json:"attributes,omitempty"`
	Events       []exportEvent          `json:"events,omitempty"`
}

// ExportToFile writes spans as JSON to <outDir>/lsk-perf.json. Absolute paths
// under path-like attribute keys are rewritten relative to baseDir so the
// artifact is portable. Callers should treat a returned error as non-fatal.
func ExportToFile(outDir string, baseDir string, spans []SpanSnapshot) (string, error) {
	if outDir == "" {
		outDir = "."
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", err
	}

	path := filepath.Join(outDir, defaultExportFilename)
	data, err := json.MarshalIndent(exportSpans(spans, baseDir), "", "  ")
	if err != nil {
		return "", err
	}

	return path, os.WriteFile(path, data, 0644)
}

func exportSpans(spans []SpanSnapshot, baseDir string) []exportSpan {
	if len(spans) == 0 {
		return nil
	}

	exported := make([]exportSpan, 0, len(spans))
	for _, span := range spans {
		out := exportSpan{
			Name:         span.Name,
			SpanID:       span.SpanID,
			ParentSpanID: span.ParentSpanID,
			Start:        span.StartTime,
			DurationNS:   span.Duration().Nanoseconds(),
			Status:       span.Status,
			Attributes:   normalizeAttributes(span.Attributes, baseDir),
		}
		for _, event := range span.Events {
			out.Events = append(out.Events, exportEvent{
				Name:       event.Name,
				Timestamp:  event.Timestamp,
				Attributes: normalizeAttributes(event.Attributes, baseDir),
			})
		}
		exported = append(exported, out)
	}
	return exported
}

func normalizeAttributes(attrs map[string]interface{}, baseDir string) map[string]interface{} {
	if len(attrs) == 0 {
		return attrs
	}

	normalized := make(map[string]interface{}, len(attrs))
	for key, value := range attrs {
		normalized[key] = normalizeValue(key, value, baseDir)
	}
	return normalized
}

func normalizeValue(key string, value interface{}, baseDir string) interface{} {
	stringValue, ok := value.(string)
	if !ok || !looksLikePathKey(key) {
		return value
	}

	if baseDir != "" && filepath.IsAbs(stringValue) {
		rel, err := filepath.Rel(baseDir, stringValue)
		if err == nil {
			return exportPath(rel)
		}
	}

	return exportPath(stringValue)
}

func looksLikePathKey(key string) bool {
	key = strings.ToLower(strings.TrimSpace(key))
	return key == "path" || key == "root" || strings.HasSuffix(key, "_path") || strings.HasSuffix(key, "path")
}

func trimLeadingDot(value string) string {
	if value == "." {
		return value
	}
	return strings.TrimPrefix(value, "./")
}

func exportPath(value string) string {
	cleaned := trimLeadingDot(filepath.Clean(value))
	if cleaned == "." {
		return cleaned
	}
	return filepath.ToSlash(cleaned)
}
