package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"mobility/internal/metrics"
	"mobility/internal/model"

	"go.uber.org/zap"
)

// noDataMessage is returned without consulting the LLM: a model handed
// an empty table cannot be trusted not to fabricate content.
const noDataMessage = "I could not find any data in the database for that question."

const answerPromptFormat = `You are a data assistant for the Banff parking and mobility project.

You receive:
1) The user's natural language question.
2) The selected SQL intent.
3) A small table with the SQL result (rows + columns).
4) Some extracted slots (such as hour, date, weather).

Your job:
- Explain the answer in clear, simple English.
- Base your answer ONLY on the table data provided.
- Do NOT invent numbers or dates that are not in the table.
- If the table does not contain enough information, clearly say that.
- If the question is about occupancy, visitors, residents, or vehicles,
  make sure you mention the key numbers and any obvious pattern.
- Be concise (2-4 sentences).

USER QUESTION:
%s

INTENT:
%s

SLOTS:
%s

SQL RESULT COLUMNS:
%s

SQL RESULT ROWS (JSON list of records):
%s

Now, answer the user in English using only this data.
`

// AnswerGenerator turns a query result into a natural-language answer
// grounded in the retrieved rows.
type AnswerGenerator struct {
	llm     LLMClient
	rowCap  int
	timeout time.Duration
	logger  *zap.Logger
}

// NewAnswerGenerator creates a generator. rowCap bounds how many rows
// are serialized into the prompt; the result itself is not modified.
func NewAnswerGenerator(llm LLMClient, rowCap int, timeout time.Duration, logger *zap.Logger) *AnswerGenerator {
	if rowCap <= 0 {
		rowCap = 20
	}
	return &AnswerGenerator{
		llm:     llm,
		rowCap:  rowCap,
		timeout: timeout,
		logger:  logger,
	}
}

// Generate produces the answer for one request. On any LLM failure it
// falls back to a deterministic message built from the first result
// row, so the caller always receives a non-empty, data-grounded reply.
func (g *AnswerGenerator) Generate(ctx context.Context, question string, intent model.Intent, result *model.QueryResult, slots map[string]any) string {
	if result.Empty() {
		return noDataMessage
	}

	shown := result.Truncate(g.rowCap)
	prompt := g.buildPrompt(question, intent, shown, slots)

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	answer, err := g.llm.Generate(ctx, prompt)
	if err != nil || strings.TrimSpace(answer) == "" {
		g.logger.Warn("answer generation failed, using first-row fallback",
			zap.Error(err))
		metrics.AnswerFallbacks.Inc()
		return fallbackAnswer(shown)
	}

	return strings.TrimSpace(answer)
}

func (g *AnswerGenerator) buildPrompt(question string, intent model.Intent, shown *model.QueryResult, slots map[string]any) string {
	slotsJSON, err := json.Marshal(slots)
	if err != nil {
		slotsJSON = []byte("{}")
	}
	rowsJSON, err := json.Marshal(shown.Rows)
	if err != nil {
		rowsJSON = []byte("[]")
	}
	columnsJSON, err := json.Marshal(shown.Columns)
	if err != nil {
		columnsJSON = []byte("[]")
	}

	return fmt.Sprintf(answerPromptFormat,
		question,
		intent,
		slotsJSON,
		columnsJSON,
		rowsJSON,
	)
}

// fallbackAnswer builds a deterministic reply from the first result
// row. json.Marshal sorts map keys, which keeps the output stable.
func fallbackAnswer(result *model.QueryResult) string {
	firstRow, err := json.Marshal(result.Rows[0])
	if err != nil {
		firstRow = []byte("{}")
	}
	return fmt.Sprintf(
		"I had a problem contacting the language model, but here is the first row of data I found: %s",
		firstRow,
	)
}
