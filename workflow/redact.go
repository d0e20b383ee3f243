package workflow

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"
)

// piiDetector pairs a PII type label with its detection pattern.
type piiDetector struct {
	Type    string
	Pattern *regexp.Regexp
}

// piiDetectors run sequentially in table order against each string leaf.
// Each detector sees the string as modified by the detectors before it, so
// earlier redactions can shadow later patterns (a national-id-shaped substring
// inside an already-redacted region is never detected). This ordering is a
// design contract; do not reorder.
var piiDetectors = []piiDetector{
	{"email", regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`)},
	// The international alternative carries no leading \b (a word boundary
	// can never precede "+"), while the local forms stay anchored so a bare
	// 5\d{8} never matches inside a longer digit run such as a national id.
	{"phone", regexp.MustCompile(`(?:\+966|00966)5\d{8}\b|\b0?5\d{8}\b`)},
	{"national_id", regexp.MustCompile(`\b[12]\d{9}\b`)},
	{"credit_card", regexp.MustCompile(`\b\d{4}[-\s]?\d{4}[-\s]?\d{4}[-\s]?\d{4}\b`)},
	{"iban", regexp.MustCompile(`\b[A-Z]{2}\d{2}[A-Z0-9]{1,30}\b`)},
}

// Detection records a single PII hit at a dotted/bracketed path within the
// visited structure, e.g. "fields.email" or "transactions[2]".
type Detection struct {
	Type     string `json:"type"`
	Path     string `json:"location"`
	Redacted bool   `json:"redacted"`
}

// RedactResult holds the redacted deep copy of the input structure, the
// detections in traversal + detector order, and the stage output payload.
type RedactResult struct {
	Data       any
	Detections []Detection
	Output     map[string]any
}

// Redact walks an arbitrary structured value (maps, slices, scalars) and
// replaces PII substrings in string leaves with [REDACTED-<TYPE>] placeholder
// tokens. The input is never mutated; the result is a deep copy. Map keys are
// visited in sorted order so detection order is deterministic.
func Redact(data any) RedactResult {
	var detections []Detection
	redacted := redactValue(data, "", &detections)

	if detections == nil {
		detections = []Detection{}
	}

	return RedactResult{
		Data:       redacted,
		Detections: detections,
		Output: map[string]any{
			"redacted_data":       redacted,
			"pii_detected":        detections,
			"pii_detection_model": RedactorVersion,
			"redaction_timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	}
}

func redactValue(v any, path string, detections *[]Detection) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for _, k := range sortedKeys(val) {
			childPath := k
			if path != "" {
				childPath = path + "." + k
			}
			out[k] = redactValue(val[k], childPath, detections)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = redactValue(item, fmt.Sprintf("%s[%d]", path, i), detections)
		}
		return out
	case string:
		return redactString(val, path, detections)
	default:
		return val
	}
}

func redactString(s, path string, detections *[]Detection) string {
	for _, detector := range piiDetectors {
		matches := detector.Pattern.FindAllString(s, -1)
		if matches == nil {
			continue
		}

		for range matches {
			*detections = append(*detections, Detection{
				Type:     detector.Type,
				Path:     path,
				Redacted: true,
			})
		}

		placeholder := "[REDACTED-" + strings.ToUpper(detector.Type) + "]"
		s = detector.Pattern.ReplaceAllString(s, placeholder)
	}
	return s
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
