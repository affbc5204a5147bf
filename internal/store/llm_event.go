package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

// eventRepo implements EventRepo on top of sqlx.
type eventRepo struct {
	db  *sqlx.DB
	now func() time.Time
}

// llmEventRow mirrors the llm_request_events table.
type llmEventRow struct {
	ID           int    `db:"id"`
	CreatedAt    int64  `db:"created_at"`
	RequestID    string `db:"request_id"`
	Provider     string `db:"provider"`
	Model        string `db:"model"`
	Purpose      string `db:"purpose"`
	InputTokens  int    `db:"input_tokens"`
	OutputTokens int    `db:"output_tokens"`
	LatencyMs    int64  `db:"latency_ms"`
	Success      bool   `db:"success"`
	Outcome      string `db:"outcome"`
	ErrorMessage string `db:"error_message"`
	RequestBody  string `db:"request_body"`
	ResponseBody string `db:"response_body"`
}

func (r llmEventRow) toEvent() LLMEvent {
	return LLMEvent{
		ID:        r.ID,
		Timestamp: time.UnixMilli(r.CreatedAt).UTC(),
		LLMRequestEventData: LLMRequestEventData{
			RequestID:    r.RequestID,
			Provider:     r.Provider,
			Model:        r.Model,
			Purpose:      r.Purpose,
			InputTokens:  r.InputTokens,
			OutputTokens: r.OutputTokens,
			LatencyMs:    r.LatencyMs,
			Success:      r.Success,
			Outcome:      r.Outcome,
			ErrorMessage: r.ErrorMessage,
			RequestBody:  r.RequestBody,
			ResponseBody: r.ResponseBody,
		},
	}
}

const llmEventColumns = `id, created_at, request_id, provider, model, purpose,
	input_tokens, output_tokens, latency_ms, success, outcome,
	error_message, request_body, response_body`

func (r *eventRepo) timestamp() int64 {
	if r.now != nil {
		return r.now().UnixMilli()
	}
	return time.Now().UnixMilli()
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	row := llmEventRow{
		CreatedAt:    r.timestamp(),
		RequestID:    data.RequestID,
		Provider:     data.Provider,
		Model:        data.Model,
		Purpose:      data.Purpose,
		InputTokens:  data.InputTokens,
		OutputTokens: data.OutputTokens,
		LatencyMs:    data.LatencyMs,
		Success:      data.Success,
		Outcome:      data.Outcome,
		ErrorMessage: data.ErrorMessage,
		RequestBody:  data.RequestBody,
		ResponseBody: data.ResponseBody,
	}

	_, err := r.db.NamedExecContext(ctx, `INSERT INTO llm_request_events (
		created_at, request_id, provider, model, purpose,
		input_tokens, output_tokens, latency_ms, success, outcome,
		error_message, request_body, response_body
	) VALUES (
		:created_at, :request_id, :provider, :model, :purpose,
		:input_tokens, :output_tokens, :latency_ms, :success, :outcome,
		:error_message, :request_body, :response_body
	)`, row)
	if err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error) {
	var (
		where []string
		args  []any
	)
	if opts.Purpose != "" {
		where = append(where, "purpose = ?")
		args = append(args, opts.Purpose)
	}
	if opts.RequestID != "" {
		where = append(where, "request_id = ?")
		args = append(args, opts.RequestID)
	}

	query := "SELECT " + llmEventColumns + " FROM llm_request_events"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id DESC"
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	var rows []llmEventRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("query LLM events: %w", err)
	}

	events := make([]LLMEvent, len(rows))
	for i, row := range rows {
		events[i] = row.toEvent()
	}
	return events, nil
}

func (r *eventRepo) GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error) {
	var row llmEventRow
	err := r.db.GetContext(ctx, &row,
		"SELECT "+llmEventColumns+" FROM llm_request_events WHERE id = ?", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get LLM event %d: %w", id, err)
	}
	e := row.toEvent()
	return &e, nil
}

func (r *eventRepo) LLMUsageByPurpose(ctx context.Context) ([]LLMPurposeUsage, error) {
	var out []LLMPurposeUsage
	err := r.db.SelectContext(ctx, &out, `SELECT
		purpose,
		COUNT(*) AS calls,
		COALESCE(SUM(input_tokens), 0) AS input_tokens,
		COALESCE(SUM(output_tokens), 0) AS output_tokens,
		CAST(COALESCE(AVG(latency_ms), 0) AS INTEGER) AS avg_latency_ms
	FROM llm_request_events
	GROUP BY purpose
	ORDER BY calls DESC, purpose`)
	if err != nil {
		return nil, fmt.Errorf("usage by purpose: %w", err)
	}
	return out, nil
}

func (r *eventRepo) LLMUsageByModel(ctx context.Context) ([]LLMModelUsage, error) {
	var out []LLMModelUsage
	err := r.db.SelectContext(ctx, &out, `SELECT
		model,
		COUNT(*) AS calls,
		COALESCE(SUM(input_tokens), 0) AS input_tokens,
		COALESCE(SUM(output_tokens), 0) AS output_tokens
	FROM llm_request_events
	WHERE success = 1
	GROUP BY model
	ORDER BY calls DESC, model`)
	if err != nil {
		return nil, fmt.Errorf("usage by model: %w", err)
	}
	return out, nil
}
