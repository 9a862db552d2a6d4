package service

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"mobility/internal/model"
)

// ErrTemplateRender indicates a template/slot mismatch while building
// the final SQL. Reaching it means the template table and the slot
// validator disagree, so it is surfaced as an internal failure rather
// than recovered.
var ErrTemplateRender = errors.New("template render failed")

// queryTemplate binds one intent to its fixed SQL shape. Placeholders
// use {name} syntax; required lists the slots that must be bound after
// validation (everything else renders to an empty fragment when the
// slot is absent).
type queryTemplate struct {
	sql      string
	required []string
}

var placeholderPattern = regexp.MustCompile(`\{([a-z_]+)\}`)

// knownPlaceholders is the full placeholder vocabulary. Anything else
// appearing in a template is a construction-time error.
var knownPlaceholders = map[string]bool{
	"date":           true,
	"hour_filter":    true,
	"range_filter":   true,
	"weather_filter": true,
	"temp_filter":    true,
}

// TemplateSet is the process-wide, read-only intent-to-SQL table.
// Built once at startup and never mutated afterward, so it is safe for
// concurrent reads.
type TemplateSet struct {
	templates map[model.Intent]queryTemplate
}

// NewTemplateSet builds and validates the template table. Every
// placeholder in every template must be in the known vocabulary, and
// every intent in the closed set must have a template.
func NewTemplateSet() (*TemplateSet, error) {
	templates := map[model.Intent]queryTemplate{
		model.IntentTotalVehiclesAnytime: {
			sql: "SELECT SUM(vehicles_count) AS total_vehicles FROM banff.city_mobility",
		},
		model.IntentVisitorsAnytime: {
			sql:      "SELECT SUM(visitors_count) AS visitors FROM banff.city_mobility WHERE datetime::date = {date}",
			required: []string{"date"},
		},
		model.IntentResidentsAnytime: {
			sql: "SELECT SUM(resident_count) AS residents FROM banff.city_mobility",
		},
		model.IntentTotalOccupancyAtTime: {
			sql:      "SELECT datetime, vehicles_count FROM banff.city_mobility WHERE datetime::date = {date}{hour_filter} ORDER BY datetime",
			required: []string{"date"},
		},
		model.IntentOccupancyByHour: {
			sql: "SELECT hour, AVG(vehicles_count) AS avg_vehicles FROM banff.city_mobility{range_filter} GROUP BY hour ORDER BY hour",
		},
		model.IntentPeakOccupancyDay: {
			sql: "SELECT datetime::date AS day, SUM(vehicles_count) AS vehicles FROM banff.city_mobility GROUP BY day ORDER BY vehicles DESC LIMIT 1",
		},
		model.IntentLowOccupancyDay: {
			sql: "SELECT datetime::date AS day, SUM(vehicles_count) AS vehicles FROM banff.city_mobility GROUP BY day ORDER BY vehicles ASC LIMIT 1",
		},
		model.IntentOccupancyByWeather: {
			sql: "SELECT weather_condition, AVG(vehicles_count) AS avg_vehicles FROM banff.city_mobility WHERE 1=1{weather_filter}{temp_filter} GROUP BY weather_condition ORDER BY avg_vehicles DESC",
		},
	}

	for _, intent := range model.Intents {
		tpl, ok := templates[intent]
		if !ok {
			return nil, fmt.Errorf("no template for intent %q", intent)
		}
		for _, match := range placeholderPattern.FindAllStringSubmatch(tpl.sql, -1) {
			if !knownPlaceholders[match[1]] {
				return nil, fmt.Errorf("template %q uses unknown placeholder %q", intent, match[1])
			}
		}
		for _, name := range tpl.required {
			if !strings.Contains(tpl.sql, "{"+name+"}") {
				return nil, fmt.Errorf("template %q requires slot %q but never uses it", intent, name)
			}
		}
	}

	return &TemplateSet{templates: templates}, nil
}

// Required returns the slot names that must be bound for the intent.
func (t *TemplateSet) Required(intent model.Intent) []string {
	return t.templates[intent].required
}

// Render substitutes validated slot values into the intent's template
// and returns the final SQL text. Values are rendered from their typed
// forms only; the raw user text never reaches this function.
func (t *TemplateSet) Render(intent model.Intent, slots *ValidatedSlots) (string, error) {
	tpl, ok := t.templates[intent]
	if !ok {
		return "", fmt.Errorf("%w: no template for intent %q", ErrTemplateRender, intent)
	}
	if slots == nil {
		slots = &ValidatedSlots{}
	}

	var renderErr error
	sqlText := placeholderPattern.ReplaceAllStringFunc(tpl.sql, func(match string) string {
		name := match[1 : len(match)-1]
		fragment, err := renderPlaceholder(name, slots)
		if err != nil && renderErr == nil {
			renderErr = fmt.Errorf("%w: intent %q: %v", ErrTemplateRender, intent, err)
		}
		return fragment
	})
	if renderErr != nil {
		return "", renderErr
	}

	return sqlText, nil
}

func renderPlaceholder(name string, slots *ValidatedSlots) (string, error) {
	switch name {
	case "date":
		if slots.Date == nil {
			return "", fmt.Errorf("required slot %q is unbound", name)
		}
		return dateLiteral(*slots.Date), nil

	case "hour_filter":
		if slots.Hour == nil {
			return "", nil
		}
		return fmt.Sprintf(" AND hour = %d", *slots.Hour), nil

	case "range_filter":
		switch {
		case slots.Start != nil && slots.End != nil:
			return fmt.Sprintf(" WHERE datetime::date BETWEEN %s AND %s", dateLiteral(*slots.Start), dateLiteral(*slots.End)), nil
		case slots.Start != nil:
			return fmt.Sprintf(" WHERE datetime::date >= %s", dateLiteral(*slots.Start)), nil
		case slots.End != nil:
			return fmt.Sprintf(" WHERE datetime::date <= %s", dateLiteral(*slots.End)), nil
		default:
			return "", nil
		}

	case "weather_filter":
		if slots.Weather == nil {
			return "", nil
		}
		// Weather carries an exact member of the closed category
		// set, never user text.
		return fmt.Sprintf(" AND weather_condition = '%s'", *slots.Weather), nil

	case "temp_filter":
		if slots.Temp == nil {
			return "", nil
		}
		return fmt.Sprintf(" AND temperature_c >= %.1f", *slots.Temp), nil

	default:
		return "", fmt.Errorf("unknown placeholder %q", name)
	}
}

// dateLiteral renders a canonical YYYY-MM-DD value as a SQL date
// literal. The validator guarantees the format.
func dateLiteral(isoDate string) string {
	return "DATE '" + isoDate + "'"
}
