package model

// Intent identifies which fixed analytical question the user is asking.
// The set is closed; anything the classifier returns outside it is
// replaced by DefaultIntent.
type Intent string

const (
	IntentTotalVehiclesAnytime Intent = "total_vehicles_anytime"
	IntentVisitorsAnytime      Intent = "visitors_anytime"
	IntentResidentsAnytime     Intent = "residents_anytime"
	IntentTotalOccupancyAtTime Intent = "total_occupancy_at_time"
	IntentOccupancyByHour      Intent = "occupancy_by_hour"
	IntentPeakOccupancyDay     Intent = "peak_occupancy_day"
	IntentLowOccupancyDay      Intent = "low_occupancy_day"
	IntentOccupancyByWeather   Intent = "occupancy_by_weather"
)

// DefaultIntent is the silent-recovery intent used whenever the
// classifier output cannot be trusted.
const DefaultIntent = IntentTotalVehiclesAnytime

// Intents lists every member of the closed intent set.
var Intents = []Intent{
	IntentTotalVehiclesAnytime,
	IntentVisitorsAnytime,
	IntentResidentsAnytime,
	IntentTotalOccupancyAtTime,
	IntentOccupancyByHour,
	IntentPeakOccupancyDay,
	IntentLowOccupancyDay,
	IntentOccupancyByWeather,
}

// ParseIntent maps a raw classifier string onto the closed intent set.
func ParseIntent(s string) (Intent, bool) {
	for _, it := range Intents {
		if string(it) == s {
			return it, true
		}
	}
	return DefaultIntent, false
}

// RawSlots holds untyped slot values as returned by the classifier.
// Values may be missing, malformed, or carry extraneous keys; typing
// happens later in the slot validator.
type RawSlots map[string]any

// ChatRequest represents a chat question request
type ChatRequest struct {
	Question string `json:"question" binding:"required"`
}

// ChatResponse represents the full pipeline output for one question
type ChatResponse struct {
	Answer string         `json:"answer"`
	SQL    string         `json:"sql"`
	Intent Intent         `json:"intent"`
	Slots  map[string]any `json:"slots"`
}

// QueryResult is a tabular result from the analytical store: ordered
// column names plus rows keyed by column name.
type QueryResult struct {
	Columns []string         `json:"columns"`
	Rows    []map[string]any `json:"rows"`
}

// Empty reports whether the result contains no rows.
func (r *QueryResult) Empty() bool {
	return r == nil || len(r.Rows) == 0
}

// Truncate returns a copy limited to the first n rows. The original
// result is left intact so callers can still show the full table.
func (r *QueryResult) Truncate(n int) *QueryResult {
	if r == nil || len(r.Rows) <= n {
		return r
	}
	return &QueryResult{Columns: r.Columns, Rows: r.Rows[:n]}
}
