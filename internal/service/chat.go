package service

import (
	"context"
	"fmt"

	"mobility/internal/metrics"
	"mobility/internal/model"

	"go.uber.org/zap"
)

// Store is the query-execution interface the pipeline needs from the
// analytical store.
type Store interface {
	Query(ctx context.Context, sqlText string) (*model.QueryResult, error)
}

// ChatService sequences the question-answering pipeline: extract →
// validate → render → execute → answer. It holds no per-request state;
// concurrent questions are fully independent.
type ChatService struct {
	extractor *Extractor
	validator *SlotValidator
	templates *TemplateSet
	store     Store
	answers   *AnswerGenerator
	logger    *zap.Logger
}

// NewChatService wires the pipeline stages together.
func NewChatService(
	extractor *Extractor,
	validator *SlotValidator,
	templates *TemplateSet,
	store Store,
	answers *AnswerGenerator,
	logger *zap.Logger,
) *ChatService {
	return &ChatService{
		extractor: extractor,
		validator: validator,
		templates: templates,
		store:     store,
		answers:   answers,
		logger:    logger,
	}
}

// Ask answers one free-text question. Extraction and answer-generation
// failures degrade gracefully inside their stages; only validation,
// render and store errors are returned, and those carry enough context
// (including the rendered SQL for store failures) to diagnose them.
func (s *ChatService) Ask(ctx context.Context, question string) (*model.ChatResponse, error) {
	metrics.ChatRequests.Inc()

	intent, rawSlots := s.extractor.Extract(ctx, question)

	slots, err := s.validator.Validate(intent, rawSlots)
	if err != nil {
		return nil, err
	}

	sqlText, err := s.templates.Render(intent, slots)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("rendered query",
		zap.String("intent", string(intent)),
		zap.String("sql", sqlText))

	result, err := s.store.Query(ctx, sqlText)
	if err != nil {
		metrics.QueryErrors.Inc()
		return nil, fmt.Errorf("query failed for sql %q: %w", sqlText, err)
	}

	slotMap := slots.Map()
	answer := s.answers.Generate(ctx, question, intent, result, slotMap)

	return &model.ChatResponse{
		Answer: answer,
		SQL:    sqlText,
		Intent: intent,
		Slots:  slotMap,
	}, nil
}
