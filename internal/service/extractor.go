package service

import (
	"context"
	"fmt"
	"time"

	"mobility/internal/metrics"
	"mobility/internal/model"
	"mobility/internal/utils"

	"go.uber.org/zap"
)

const classifierPromptFormat = `You are a SQL intent classifier for Banff parking analytics.
Your job: return a JSON with "intent" + "slots".

INTENTS:
- total_vehicles_anytime
- visitors_anytime
- residents_anytime
- total_occupancy_at_time
- occupancy_by_weather
- occupancy_by_hour
- peak_occupancy_day
- low_occupancy_day

SLOTS:
Extract: date, start, end, hour, weather, temp.

Return ONLY valid JSON.
Question: %s
`

// Extractor classifies a free-text question into an intent plus raw
// slots via one LLM call. It never fails: any transport, parse or
// enumeration problem recovers silently to the default intent with
// empty slots, so callers never see an error from this stage.
type Extractor struct {
	llm     LLMClient
	timeout time.Duration
	logger  *zap.Logger
}

// NewExtractor creates an extractor with a per-call timeout.
func NewExtractor(llm LLMClient, timeout time.Duration, logger *zap.Logger) *Extractor {
	return &Extractor{
		llm:     llm,
		timeout: timeout,
		logger:  logger,
	}
}

// classifierOutput mirrors the strict JSON shape the prompt asks for.
type classifierOutput struct {
	Intent string         `json:"intent"`
	Slots  map[string]any `json:"slots"`
}

// Extract runs the classifier for one question. Single attempt, no
// retry; a timeout is handled the same as a malformed completion.
func (e *Extractor) Extract(ctx context.Context, question string) (model.Intent, model.RawSlots) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	raw, err := e.llm.Generate(ctx, fmt.Sprintf(classifierPromptFormat, question))
	if err != nil {
		e.logger.Warn("intent classification call failed, using default intent",
			zap.Error(err))
		metrics.ExtractionFallbacks.Inc()
		return model.DefaultIntent, model.RawSlots{}
	}

	var out classifierOutput
	if err := utils.ParseLLMJSON(raw, &out); err != nil {
		e.logger.Warn("classifier returned unparseable JSON, using default intent",
			zap.Error(err))
		metrics.ExtractionFallbacks.Inc()
		return model.DefaultIntent, model.RawSlots{}
	}

	intent, ok := model.ParseIntent(out.Intent)
	if !ok {
		e.logger.Warn("classifier returned unknown intent, using default intent",
			zap.String("intent", out.Intent))
		metrics.ExtractionFallbacks.Inc()
		return model.DefaultIntent, model.RawSlots{}
	}

	slots := model.RawSlots(out.Slots)
	if slots == nil {
		slots = model.RawSlots{}
	}

	e.logger.Debug("intent classified",
		zap.String("intent", string(intent)),
		zap.Int("slotCount", len(slots)))

	return intent, slots
}
