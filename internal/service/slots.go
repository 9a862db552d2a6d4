package service

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"mobility/internal/model"
)

// ErrSlotValidation indicates a required slot that could not be bound
// and has no safe default. With a well-formed template table this is
// unreachable; the code path exists so a future template mistake fails
// loudly instead of rendering an unbound placeholder.
var ErrSlotValidation = errors.New("slot validation failed")

// weatherConditions is the closed category set for the weather slot.
// Slot values are matched against it case-insensitively and replaced
// by the exact member, which is the sole reason the renderer may
// interpolate them: user-typed text never survives this mapping.
var weatherConditions = []string{"sunny", "cloudy", "rainy", "snowy", "foggy"}

// Temperature bounds in °C; anything outside is treated as absent.
const (
	minTemp = -60.0
	maxTemp = 60.0
)

// ValidatedSlots holds the typed, bounded slot values for one request.
// A nil field means the slot is absent and its predicate is omitted.
type ValidatedSlots struct {
	Date    *string // canonical YYYY-MM-DD
	Start   *string
	End     *string
	Hour    *int
	Weather *string // exact member of weatherConditions
	Temp    *float64
}

// Map returns the bound slots for response serialization.
func (s *ValidatedSlots) Map() map[string]any {
	out := map[string]any{}
	if s == nil {
		return out
	}
	if s.Date != nil {
		out["date"] = *s.Date
	}
	if s.Start != nil {
		out["start"] = *s.Start
	}
	if s.End != nil {
		out["end"] = *s.End
	}
	if s.Hour != nil {
		out["hour"] = *s.Hour
	}
	if s.Weather != nil {
		out["weather"] = *s.Weather
	}
	if s.Temp != nil {
		out["temp"] = *s.Temp
	}
	return out
}

// SlotValidator coerces raw classifier slots into typed, bounded
// values and fills template defaults. It is the only defense between
// free-text input and the SQL renderer.
type SlotValidator struct {
	templates *TemplateSet
	now       func() time.Time
}

// NewSlotValidator creates a validator bound to the template table.
func NewSlotValidator(templates *TemplateSet) *SlotValidator {
	return &SlotValidator{
		templates: templates,
		now:       time.Now,
	}
}

// Validate types and bounds the raw slots for the given intent. A slot
// that is present but fails coercion is treated as absent. Required
// slots missing after coercion are filled with their safe default;
// date-typed slots default to the current date.
func (v *SlotValidator) Validate(intent model.Intent, raw model.RawSlots) (*ValidatedSlots, error) {
	slots := &ValidatedSlots{}

	for name, value := range raw {
		switch name {
		case "date":
			if d, ok := coerceDate(value); ok {
				slots.Date = &d
			}
		case "start":
			if d, ok := coerceDate(value); ok {
				slots.Start = &d
			}
		case "end":
			if d, ok := coerceDate(value); ok {
				slots.End = &d
			}
		case "hour":
			if h, ok := coerceInt(value); ok && h >= 0 && h <= 23 {
				slots.Hour = &h
			}
		case "weather":
			if w, ok := coerceWeather(value); ok {
				slots.Weather = &w
			}
		case "temp":
			if f, ok := coerceFloat(value); ok && f >= minTemp && f <= maxTemp {
				slots.Temp = &f
			}
		default:
			// extraneous classifier keys are dropped here
		}
	}

	for _, name := range v.templates.Required(intent) {
		if err := v.fillDefault(slots, name); err != nil {
			return nil, err
		}
	}

	return slots, nil
}

// fillDefault binds a required-but-absent slot to its safe default.
func (v *SlotValidator) fillDefault(slots *ValidatedSlots, name string) error {
	switch name {
	case "date":
		if slots.Date == nil {
			today := v.now().Format("2006-01-02")
			slots.Date = &today
		}
		return nil
	case "start", "end", "hour", "weather", "temp":
		// optional-only slots; templates must not require them
		return fmt.Errorf("%w: required slot %q has no safe default", ErrSlotValidation, name)
	default:
		return fmt.Errorf("%w: unrecognized required slot %q", ErrSlotValidation, name)
	}
}

// Coercion helpers. Classifier slots arrive as JSON values, so
// numbers decode as float64 and everything else is best-effort.

func coerceDate(v any) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	if len(s) > 10 {
		// tolerate full timestamps by keeping the date part
		s = s[:10]
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return "", false
	}
	return t.Format("2006-01-02"), true
}

func coerceInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	case int:
		return n, true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}

func coerceFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func coerceWeather(v any) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	s = strings.ToLower(strings.TrimSpace(s))
	for _, cond := range weatherConditions {
		if s == cond {
			return cond, true
		}
	}
	return "", false
}
