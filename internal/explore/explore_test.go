package explore

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPrompt(t *testing.T) {
	tests := []struct {
		name string
		req  GenerationRequest
		want string
	}{
		{
			name: "diy with count",
			req:  GenerationRequest{Activity: DIYProject, Topic: "solar ovens", Count: 3},
			want: "Generate 3 DIY project ideas for the STEM topic: solar ovens.",
		},
		{
			name: "virtual field trip ignores count",
			req:  GenerationRequest{Activity: VirtualFieldTrip, Topic: "volcanoes", Count: 7},
			want: "Suggest virtual field trip ideas related to the STEM topic: volcanoes.",
		},
		{
			name: "challenge ignores count",
			req:  GenerationRequest{Activity: Challenge, Topic: "bridges", Count: 1},
			want: "Create a STEM challenge for the topic: bridges.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildPrompt(tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			again, _ := BuildPrompt(tt.req)
			assert.Equal(t, got, again, "prompt must be deterministic")
		})
	}
}

func TestBuildPrompt_EveryActivityHasTemplate(t *testing.T) {
	for _, a := range Activities() {
		require.NotNil(t, promptTemplates[a], "missing template for %s", a)
		p, err := BuildPrompt(GenerationRequest{Activity: a, Topic: "magnets", Count: 2})
		require.NoError(t, err)
		assert.Contains(t, p, "magnets")
	}
}

func TestBuildPrompt_Rejects(t *testing.T) {
	_, err := BuildPrompt(GenerationRequest{Activity: DIYProject, Topic: "  ", Count: 3})
	assert.ErrorIs(t, err, ErrEmptyTopic)

	_, err = BuildPrompt(GenerationRequest{Activity: ActivityType(42), Topic: "x", Count: 3})
	assert.ErrorIs(t, err, ErrUnknownActivity)
}

func TestNewRequest(t *testing.T) {
	req, err := NewRequest(DIYProject, "  robotics ", DefaultCount)
	require.NoError(t, err)
	assert.Equal(t, GenerationRequest{Activity: DIYProject, Topic: "robotics", Count: 3}, req)

	_, err = NewRequest(Challenge, "", 3)
	assert.ErrorIs(t, err, ErrEmptyTopic)

	_, err = NewRequest(activityCount, "x", 3)
	assert.ErrorIs(t, err, ErrUnknownActivity)

	for _, n := range []int{0, -1, 11} {
		_, err = NewRequest(DIYProject, "x", n)
		assert.ErrorIs(t, err, ErrCountOutOfRange, "count %d", n)
	}
	for _, n := range []int{MinCount, MaxCount} {
		_, err = NewRequest(DIYProject, "x", n)
		assert.NoError(t, err, "count %d", n)
	}
}

func TestActivityNames(t *testing.T) {
	assert.Equal(t, []ActivityType{DIYProject, VirtualFieldTrip, Challenge}, Activities())
	assert.Equal(t, "DIY Project", DIYProject.String())
	assert.Equal(t, "Virtual Field Trip", VirtualFieldTrip.String())
	assert.Equal(t, "Challenge", Challenge.String())
	assert.Equal(t, "ActivityType(9)", ActivityType(9).String())
}

func TestParseActivity(t *testing.T) {
	tests := map[string]ActivityType{
		"DIY Project":        DIYProject,
		"diy":                DIYProject,
		"diy-project":        DIYProject,
		"virtual field trip": VirtualFieldTrip,
		"Field-Trip":         VirtualFieldTrip,
		"virtual-field-trip": VirtualFieldTrip,
		" CHALLENGE ":        Challenge,
	}
	for in, want := range tests {
		got, err := ParseActivity(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseActivity("quiz")
	assert.True(t, errors.Is(err, ErrUnknownActivity))
}

func TestActivityJSON(t *testing.T) {
	var payload struct {
		Activity ActivityType `json:"activity"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"activity":"Virtual Field Trip"}`), &payload))
	assert.Equal(t, VirtualFieldTrip, payload.Activity)

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"activity":"field-trip"}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"activity":"quiz"}`), &payload))
}

func TestWordCount(t *testing.T) {
	assert.Equal(t, 0, WordCount(""))
	assert.Equal(t, 0, WordCount("   \n\t"))
	assert.Equal(t, 3, WordCount("a b c"))
	assert.Equal(t, 3, WordCount("  a\n\nb\tc  "))
	assert.Equal(t, 3, WordCount(NoResponseText))
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "fallback_called", PhaseFallbackCalled.String())
	assert.Equal(t, "unknown", Phase(99).String())
}
