package explore

import (
	"fmt"
	"strings"
)

// promptTemplates holds one template per activity type. Only the DIY
// template takes a count.
var promptTemplates = [activityCount]func(GenerationRequest) string{
	DIYProject: func(r GenerationRequest) string {
		return fmt.Sprintf("Generate %d DIY project ideas for the STEM topic: %s.", r.Count, r.Topic)
	},
	VirtualFieldTrip: func(r GenerationRequest) string {
		return fmt.Sprintf("Suggest virtual field trip ideas related to the STEM topic: %s.", r.Topic)
	},
	Challenge: func(r GenerationRequest) string {
		return fmt.Sprintf("Create a STEM challenge for the topic: %s.", r.Topic)
	},
}

// BuildPrompt renders the prompt for req. It is deterministic: the same
// request always yields the same prompt.
func BuildPrompt(req GenerationRequest) (string, error) {
	if !req.Activity.Valid() {
		return "", fmt.Errorf("%w: %d", ErrUnknownActivity, int(req.Activity))
	}
	if strings.TrimSpace(req.Topic) == "" {
		return "", ErrEmptyTopic
	}
	return promptTemplates[req.Activity](req), nil
}
