package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Placeholder shown for a missing time of day.
const NoTime = "—"

// TimeValue holds a due time in whatever JSON shape the backend sent it:
// a string ("14:30:00"), an [hour, minute] pair, or null.
type TimeValue struct {
	raw any
}

func TimeOf(v any) TimeValue {
	if tv, ok := v.(TimeValue); ok {
		return tv
	}
	return TimeValue{raw: v}
}

func (t TimeValue) Raw() any { return t.raw }

func (t TimeValue) IsZero() bool {
	_, ok := NormalizeTime(t.raw)
	return !ok
}

func (t TimeValue) String() string { return FormatTime(t.raw) }

func (t *TimeValue) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("model: due time: %w", err)
	}
	t.raw = v
	return nil
}

func (t TimeValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.raw)
}

// NormalizeTime reduces a time of day to "HH:MM". The boolean is false when
// the input carries no time.
//
// Strings longer than five characters are cut to five; shorter strings pass
// through untouched. Pairs are zero-padded per component. Anything else falls
// back to its plain text form.
func NormalizeTime(v any) (string, bool) {
	if tv, ok := v.(TimeValue); ok {
		v = tv.raw
	}
	var out string
	switch typed := v.(type) {
	case nil:
		return "", false
	case string:
		out = typed
		if len(out) > 5 {
			out = out[:5]
		}
	case []int:
		if len(typed) >= 2 {
			out = joinClock(strconv.Itoa(typed[0]), strconv.Itoa(typed[1]))
		} else {
			out = textOf(typed)
		}
	case []float64:
		if len(typed) >= 2 {
			out = joinClock(textOf(typed[0]), textOf(typed[1]))
		} else {
			out = textOf(typed)
		}
	case []any:
		if len(typed) >= 2 {
			out = joinClock(textOf(typed[0]), textOf(typed[1]))
		} else {
			out = textOf(typed)
		}
	default:
		out = textOf(typed)
	}
	if out == "" {
		return "", false
	}
	return out, true
}

// FormatTime is NormalizeTime for display.
func FormatTime(v any) string {
	if s, ok := NormalizeTime(v); ok {
		return s
	}
	return NoTime
}

func joinClock(hour, minute string) string {
	return padTwo(hour) + ":" + padTwo(minute)
}

func padTwo(s string) string {
	if len(s) >= 2 {
		return s
	}
	return strings.Repeat("0", 2-len(s)) + s
}

func textOf(v any) string {
	switch typed := v.(type) {
	case nil:
		return ""
	case string:
		return typed
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(typed), 'f', -1, 32)
	case json.Number:
		return typed.String()
	case []int:
		parts := make([]string, len(typed))
		for i, n := range typed {
			parts[i] = strconv.Itoa(n)
		}
		return strings.Join(parts, ",")
	case []float64:
		parts := make([]string, len(typed))
		for i, n := range typed {
			parts[i] = textOf(n)
		}
		return strings.Join(parts, ",")
	case []any:
		parts := make([]string, len(typed))
		for i, item := range typed {
			parts[i] = textOf(item)
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(typed)
	}
}
