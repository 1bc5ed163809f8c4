package explore

import (
	"errors"
	"fmt"
	"strings"
)

// Count bounds for DIY project ideas.
const (
	MinCount     = 1
	MaxCount     = 10
	DefaultCount = 3
)

var (
	ErrEmptyTopic      = errors.New("topic is required")
	ErrUnknownActivity = errors.New("unknown activity type")
	ErrCountOutOfRange = fmt.Errorf("count must be between %d and %d", MinCount, MaxCount)
)

// GenerationRequest is one user action: what kind of content, about what,
// and (for DIY projects) how many ideas. Build it with NewRequest.
type GenerationRequest struct {
	Activity ActivityType
	Topic    string
	Count    int
}

// NewRequest validates its inputs and returns an immutable request. The
// topic is trimmed of surrounding whitespace.
func NewRequest(activity ActivityType, topic string, count int) (GenerationRequest, error) {
	if !activity.Valid() {
		return GenerationRequest{}, fmt.Errorf("%w: %d", ErrUnknownActivity, int(activity))
	}
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return GenerationRequest{}, ErrEmptyTopic
	}
	if count < MinCount || count > MaxCount {
		return GenerationRequest{}, fmt.Errorf("%w: got %d", ErrCountOutOfRange, count)
	}
	return GenerationRequest{Activity: activity, Topic: topic, Count: count}, nil
}
