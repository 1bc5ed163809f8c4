package store

import "context"

// Discard returns an EventRepo that drops every event. It is used when no
// history database is configured.
func Discard() EventRepo { return discardRepo{} }

type discardRepo struct{}

func (discardRepo) AppendLLMRequest(context.Context, LLMRequestEventData) error { return nil }
func (discardRepo) AppendGeneration(context.Context, GenerationEventData) error { return nil }

func (discardRepo) QueryLLMEvents(context.Context, QueryOpts) ([]LLMEvent, error) {
	return nil, nil
}

func (discardRepo) GetLLMEvent(context.Context, int) (*LLMEvent, error) { return nil, nil }

func (discardRepo) LLMUsageByPurpose(context.Context) ([]UsageByPurpose, error) {
	return nil, nil
}

func (discardRepo) LLMUsageByModel(context.Context) ([]UsageByModel, error) { return nil, nil }

func (discardRepo) QueryGenerations(context.Context, QueryOpts) ([]GenerationEvent, error) {
	return nil, nil
}
