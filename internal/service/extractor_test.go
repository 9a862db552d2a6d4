package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"mobility/internal/model"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// stubLLM returns a canned completion (or error) and records the last
// prompt it was asked to complete.
type stubLLM struct {
	response   string
	err        error
	lastPrompt string
	calls      int
}

func (s *stubLLM) Generate(_ context.Context, prompt string) (string, error) {
	s.calls++
	s.lastPrompt = prompt
	return s.response, s.err
}

func TestExtractor_Extract(t *testing.T) {
	tests := []struct {
		name       string
		response   string
		err        error
		wantIntent model.Intent
		wantSlots  model.RawSlots
	}{
		{
			name:       "clean classifier JSON",
			response:   `{"intent": "visitors_anytime", "slots": {"date": "2025-07-01"}}`,
			wantIntent: model.IntentVisitorsAnytime,
			wantSlots:  model.RawSlots{"date": "2025-07-01"},
		},
		{
			name:       "JSON wrapped in a markdown fence",
			response:   "```json\n{\"intent\": \"peak_occupancy_day\", \"slots\": {}}\n```",
			wantIntent: model.IntentPeakOccupancyDay,
			wantSlots:  model.RawSlots{},
		},
		{
			name:       "unknown intent falls back to default",
			response:   `{"intent": "parking_fines", "slots": {"date": "2025-07-01"}}`,
			wantIntent: model.DefaultIntent,
			wantSlots:  model.RawSlots{},
		},
		{
			name:       "unparseable completion falls back to default",
			response:   "I think you are asking about vehicles.",
			wantIntent: model.DefaultIntent,
			wantSlots:  model.RawSlots{},
		},
		{
			name:       "transport error falls back to default",
			err:        errors.New("connection refused"),
			wantIntent: model.DefaultIntent,
			wantSlots:  model.RawSlots{},
		},
		{
			name:       "null slots normalized to an empty map",
			response:   `{"intent": "residents_anytime", "slots": null}`,
			wantIntent: model.IntentResidentsAnytime,
			wantSlots:  model.RawSlots{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := &stubLLM{response: tt.response, err: tt.err}
			extractor := NewExtractor(llm, 5*time.Second, zap.NewNop())

			intent, slots := extractor.Extract(context.Background(), "some question")

			assert.Equal(t, tt.wantIntent, intent)
			assert.Equal(t, tt.wantSlots, slots)
			assert.NotNil(t, slots)
		})
	}
}

func TestExtractor_PromptContainsQuestion(t *testing.T) {
	llm := &stubLLM{response: `{"intent": "total_vehicles_anytime", "slots": {}}`}
	extractor := NewExtractor(llm, 5*time.Second, zap.NewNop())

	extractor.Extract(context.Background(), "How busy was downtown yesterday?")

	assert.True(t, strings.Contains(llm.lastPrompt, "How busy was downtown yesterday?"))
	assert.True(t, strings.Contains(llm.lastPrompt, "total_vehicles_anytime"))
}
