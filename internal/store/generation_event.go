package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

var generationColumns = []string{
	"id", "sequence", "created_at", "request_id", "activity", "topic",
	"count", "prompt", "tier", "primary_words", "words", "success",
	"error_message", "latency_ms",
}

func (r *eventRepo) AppendGeneration(ctx context.Context, data GenerationEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := builder.Insert(generationTable).
		Columns(generationColumns[1:]...).
		Values(
			seqNum,
			time.Now().UnixMilli(),
			data.RequestID,
			data.Activity,
			data.Topic,
			data.Count,
			data.Prompt,
			data.Tier,
			data.PrimaryWords,
			data.Words,
			data.Success,
			data.ErrorMessage,
			data.LatencyMs,
		).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save generation event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryGenerations(ctx context.Context, opts QueryOpts) ([]GenerationEvent, error) {
	sel := builder.Select(generationColumns...).
		From(builder.Table(generationTable)).
		OrderBy(entsql.Desc("sequence"))
	if opts.After > 0 {
		sel.Where(entsql.GT("sequence", opts.After))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query generation events: %w", err)
	}
	defer rows.Close()

	var out []GenerationEvent
	for rows.Next() {
		var (
			e         GenerationEvent
			createdAt int64
		)
		err := rows.Scan(
			&e.ID, &e.Sequence, &createdAt,
			&e.RequestID, &e.Activity, &e.Topic, &e.Count, &e.Prompt,
			&e.Tier, &e.PrimaryWords, &e.Words, &e.Success,
			&e.ErrorMessage, &e.LatencyMs,
		)
		if err != nil {
			return nil, fmt.Errorf("scan generation event: %w", err)
		}
		e.Timestamp = time.UnixMilli(createdAt).UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}
