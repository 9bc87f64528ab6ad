package services

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// CleanModelJSON normalizes model output into a JSON object literal: code
// fences are stripped and the text between the first '{' and the last '}'
// is returned. Output without an object boundary is rejected with
// ErrMalformedModelResponse.
func CleanModelJSON(raw string) (string, error) {
	text := strings.TrimSpace(raw)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		// drop the language tag, if any, up to the end of the fence line
		if nl := strings.IndexByte(text, '\n'); nl != -1 && !strings.Contains(text[:nl], "{") {
			text = text[nl+1:]
		} else {
			text = strings.TrimPrefix(text, "json")
		}
	}
	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(text, "```")

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return "", fmt.Errorf("%w: no JSON object found", ErrMalformedModelResponse)
	}
	return text[start : end+1], nil
}

// DecodeModelJSON cleans raw model output and decodes it into target.
func DecodeModelJSON(raw string, target any) error {
	cleaned, err := CleanModelJSON(raw)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(cleaned), target); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedModelResponse, err)
	}
	return nil
}

// The coerce helpers read loosely typed model fields. Models routinely
// answer "5" for 5, a list for a sentence, or a comma list for an array.

func coerceString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case []any:
		return strings.Join(coerceStringSlice(val), ", ")
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(b)
	}
}

// coerceStringSlice returns nil when v carries no usable entries so that
// callers can tell a missing field from a present one.
func coerceStringSlice(v any) []string {
	var items []string
	switch val := v.(type) {
	case []any:
		for _, item := range val {
			if s := coerceString(item); s != "" {
				items = append(items, s)
			}
		}
	case string:
		for _, part := range strings.Split(val, ",") {
			if s := strings.TrimSpace(part); s != "" {
				items = append(items, s)
			}
		}
	}
	return items
}

// coerceNumber returns NaN when v holds no number.
func coerceNumber(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case string:
		trimmed := strings.TrimSuffix(strings.TrimSpace(val), "%")
		f, err := strconv.ParseFloat(strings.TrimSpace(trimmed), 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

// roundPercent clamps v to [0,100] before rounding; converting an
// out-of-range float to int is implementation-defined.
func roundPercent(v float64) int {
	return int(math.Round(math.Max(0, math.Min(100, v))))
}
