package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourname/blackholeescape/internal"
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name     string
		profile  internal.UserProfile
		analysis internal.AnalysisResult
		want     string
	}{
		{
			name:     "out of balance",
			profile:  internal.UserProfile{FocusArea: internal.FocusOther},
			analysis: internal.AnalysisResult{Hours: internal.CategoryHours{Coding: 30, Break: 2}, BalanceScore: 0.42},
			want:     "Your week is out of balance (42%). 30.0 of 32.0 planned hours go to coding, so rebuild the schedule around breaks and recovery before adding more work.",
		},
		{
			name:     "well balanced with project",
			profile:  internal.UserProfile{FocusArea: internal.FocusWebDev, CurrentProject: "webserv"},
			analysis: internal.AnalysisResult{Hours: internal.CategoryHours{Coding: 16, Break: 8}, BalanceScore: 0.9},
			want:     "Your week is well balanced (90%). Keep the rhythm of 16.0 coding hours and 8.0 hours of breaks. Focus on shipping web features while you finish webserv.",
		},
		{
			name:     "middle band without project",
			profile:  internal.UserProfile{FocusArea: internal.FocusAIML},
			analysis: internal.AnalysisResult{Hours: internal.CategoryHours{Coding: 12}, BalanceScore: 0.8},
			want:     "Your week is reasonably balanced (80%). Small adjustments to breaks and social time will make 12.0 coding hours more sustainable. Focus on experiments and model fundamentals.",
		},
		{
			name:     "lower bound of middle band",
			profile:  internal.UserProfile{},
			analysis: internal.AnalysisResult{BalanceScore: 0.5},
			want:     "Your week is reasonably balanced (50%). Small adjustments to breaks and social time will make 0.0 coding hours more sustainable.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Summarize(tt.profile, tt.analysis))
		})
	}
}

func TestAdvise(t *testing.T) {
	profile := internal.UserProfile{FocusArea: internal.FocusAlgorithms, SleepPattern: internal.SleepNightOwl}

	advice := Advise(profile, nightOwlSchedule())

	assert.Equal(t, 4, advice.Analysis.LateNightSessionCount)
	require.NotEmpty(t, advice.Suggestions)
	assert.LessOrEqual(t, len(advice.Suggestions), MaxSuggestions)
	assert.Contains(t, advice.Summary, "Focus on steady algorithm practice.")
}

func TestAdvise_DefaultScheduleIsWellFormed(t *testing.T) {
	doc := DefaultSchedule("jdoe")

	for _, slot := range doc.Slots {
		assert.Len(t, slot.Days, 7, slot.Time)
	}
	req := ScheduleRequest{Profile: doc.Profile, Slots: doc.Slots}
	assert.NoError(t, ValidateScheduleRequest(&req))

	advice := Advise(doc.Profile, doc.Slots)
	assert.Greater(t, advice.Analysis.Hours.Total(), 0.0)
	assert.LessOrEqual(t, len(advice.Suggestions), MaxSuggestions)
}
