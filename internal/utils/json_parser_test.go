package utils

import (
	"testing"
)

type intentPayload struct {
	Intent string         `json:"intent"`
	Slots  map[string]any `json:"slots"`
}

func TestParseLLMJSON(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantIntent string
		wantErr    bool
	}{
		{
			name:       "pure JSON",
			input:      `{"intent": "visitors_anytime", "slots": {"date": "2024-07-01"}}`,
			wantIntent: "visitors_anytime",
		},
		{
			name:       "json code fence",
			input:      "```json\n{\"intent\": \"occupancy_by_hour\", \"slots\": {}}\n```",
			wantIntent: "occupancy_by_hour",
		},
		{
			name:       "anonymous code fence",
			input:      "```\n{\"intent\": \"peak_occupancy_day\", \"slots\": {}}\n```",
			wantIntent: "peak_occupancy_day",
		},
		{
			name:       "JSON with surrounding prose",
			input:      "Sure! Here is the classification:\n{\"intent\": \"residents_anytime\", \"slots\": {}}\nLet me know if you need anything else.",
			wantIntent: "residents_anytime",
		},
		{
			name:       "trailing comma",
			input:      `{"intent": "visitors_anytime", "slots": {"hour": 14,},}`,
			wantIntent: "visitors_anytime",
		},
		{
			name:       "unquoted keys",
			input:      `{intent: "total_vehicles_anytime", slots: {}}`,
			wantIntent: "total_vehicles_anytime",
		},
		{
			name:       "nested braces in string value",
			input:      `The result {"intent": "occupancy_by_weather", "slots": {"weather": "snowy {heavy}"}} as requested`,
			wantIntent: "occupancy_by_weather",
		},
		{
			name:    "empty input",
			input:   "",
			wantErr: true,
		},
		{
			name:    "no JSON at all",
			input:   "I don't know how to answer that.",
			wantErr: true,
		},
		{
			name:    "unbalanced braces",
			input:   `{"intent": "visitors_anytime", "slots": {`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got intentPayload
			err := ParseLLMJSON(tt.input, &got)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", got)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Intent != tt.wantIntent {
				t.Errorf("intent = %q, want %q", got.Intent, tt.wantIntent)
			}
		})
	}
}

func TestParseLLMJSON_SlotValues(t *testing.T) {
	input := "```json\n{\"intent\": \"total_occupancy_at_time\", \"slots\": {\"date\": \"2024-08-15\", \"hour\": 14}}\n```"

	var got intentPayload
	if err := ParseLLMJSON(input, &got); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Slots["date"] != "2024-08-15" {
		t.Errorf("date slot = %v, want 2024-08-15", got.Slots["date"])
	}
	// JSON numbers decode as float64
	if got.Slots["hour"] != float64(14) {
		t.Errorf("hour slot = %v, want 14", got.Slots["hour"])
	}
}

func TestExtractBalanced_IgnoresBracesInStrings(t *testing.T) {
	input := `{"a": "value with } brace", "b": 1}`
	got := extractBalanced(input, '{', '}')
	if got != input {
		t.Errorf("extractBalanced = %q, want full input", got)
	}
}
