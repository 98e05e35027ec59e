package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yourname/blackholeescape/internal"
)

func days(entries ...internal.Category) []internal.DayEntry {
	out := make([]internal.DayEntry, 7)
	for i, c := range entries {
		out[i] = internal.DayEntry{Category: c}
	}
	return out
}

func allDays(c internal.Category) []internal.DayEntry {
	return days(c, c, c, c, c, c, c)
}

func nightOwlSchedule() internal.Schedule {
	coding := internal.CategoryCoding
	return internal.Schedule{
		{Time: "22:00-23:00", Days: days(coding)},
		{Time: "23:00-24:00", Days: days(coding)},
		{Time: "0:00-1:00", Days: days(coding)},
		{Time: "1:00-2:00", Days: days(coding)},
	}
}

func TestAnalyze_LateNightCoding(t *testing.T) {
	res := Analyze(internal.UserProfile{}, nightOwlSchedule())

	assert.Equal(t, 4, res.LateNightSessionCount)
	assert.Equal(t, 1, res.MaxConsecutiveCodingStreak)
	assert.InDelta(t, 4.0, res.Hours.Coding, 1e-9)
	assert.InDelta(t, 4.0, res.Hours.Total(), 1e-9)
	assert.Equal(t, 0, res.MealSlotConsistency)
	assert.InDelta(t, 0.76, res.BalanceScore, 1e-9)
}

func TestAnalyze_EmptySchedule(t *testing.T) {
	res := Analyze(internal.UserProfile{}, nil)
	assert.Equal(t, internal.AnalysisResult{}, res)
}

func TestAnalyze_AllBreaks(t *testing.T) {
	res := Analyze(internal.UserProfile{}, internal.Schedule{
		{Time: "10:00-11:00", Days: allDays(internal.CategoryBreak)},
	})

	assert.InDelta(t, 7.0, res.Hours.Break, 1e-9)
	assert.InDelta(t, 0.68, res.BalanceScore, 1e-9)
	assert.Equal(t, 0, res.MealSlotConsistency)
}

func TestAnalyze_StreakRunsAcrossDays(t *testing.T) {
	res := Analyze(internal.UserProfile{}, internal.Schedule{
		{Time: "09:00-10:00", Days: allDays(internal.CategoryCoding)},
	})
	assert.Equal(t, 7, res.MaxConsecutiveCodingStreak)
}

func TestAnalyze_StreakCarriesIntoNextSlot(t *testing.T) {
	coding := internal.CategoryCoding
	res := Analyze(internal.UserProfile{}, internal.Schedule{
		{Time: "09:00-10:00", Days: days("", "", "", "", "", "", coding)},
		{Time: "10:00-11:00", Days: days(coding)},
	})
	assert.Equal(t, 2, res.MaxConsecutiveCodingStreak)
}

func TestAnalyze_EmptyCellBreaksStreak(t *testing.T) {
	coding := internal.CategoryCoding
	res := Analyze(internal.UserProfile{}, internal.Schedule{
		{Time: "09:00-10:00", Days: days(coding, coding, "", coding, coding, coding, "")},
	})
	assert.Equal(t, 3, res.MaxConsecutiveCodingStreak)
	assert.InDelta(t, 5.0, res.Hours.Total(), 1e-9)
}

func TestAnalyze_MealSlots(t *testing.T) {
	res := Analyze(internal.UserProfile{}, internal.Schedule{
		{Time: "12:00-13:00", Days: allDays(internal.CategoryBreak)},
		{Time: "19:00-20:00", Days: days(internal.CategoryBreak, internal.CategorySocial)},
		{Time: "15:00-15:30", Days: allDays(internal.CategoryBreak)},
	})
	assert.Equal(t, 8, res.MealSlotConsistency)
	assert.InDelta(t, 7+1+3.5, res.Hours.Break, 1e-9)
}

func TestIsMealSlot_SubstringMatch(t *testing.T) {
	assert.True(t, isMealSlot("08:00-09:00"))
	assert.True(t, isMealSlot("13:00-14:00"))
	// "17:00" contains "7:00"
	assert.True(t, isMealSlot("16:00-17:00"))
	assert.False(t, isMealSlot("10:00-11:00"))
	assert.False(t, isMealSlot("20:00-21:00"))
}

func TestParseTimeRange(t *testing.T) {
	tests := []struct {
		in         string
		start, end float64
		ok         bool
	}{
		{"09:00-10:30", 9, 10.5, true},
		{" 10:00 – 11:30 ", 10, 11.5, true},
		{"9-11", 9, 11, true},
		{"9:15-9:45", 9.25, 9.75, true},
		{"9:00", 9, 0, false},
		{"9:00-", 9, 0, false},
		{"-10:00", 0, 10, false},
		{"abc-def", 0, 0, false},
		{"", 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			start, end, ok := ParseTimeRange(tt.in)
			assert.InDelta(t, tt.start, start, 1e-9)
			assert.InDelta(t, tt.end, end, 1e-9)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestAnalyze_UnparsedRangeCountsNoHours(t *testing.T) {
	coding := internal.CategoryCoding
	for _, tm := range []string{"9:00", "23:00-", "abc"} {
		t.Run(tm, func(t *testing.T) {
			res := Analyze(internal.UserProfile{}, internal.Schedule{
				{Time: tm, Days: allDays(coding)},
				{Time: "10:00-11:00", Days: days(coding)},
			})
			assert.InDelta(t, 1.0, res.Hours.Coding, 1e-9)
			assert.Equal(t, 0, res.LateNightSessionCount)
			assert.Equal(t, 8, res.MaxConsecutiveCodingStreak)
		})
	}
}

func TestAnalyze_Idempotent(t *testing.T) {
	profile := internal.UserProfile{SleepPattern: internal.SleepNightOwl}
	schedule := append(nightOwlSchedule(), internal.ScheduleSlot{
		Time: "12:00-13:00", Days: days(internal.CategoryBreak, internal.CategorySocial, internal.CategoryWellness),
	})

	first := Analyze(profile, schedule)
	second := Analyze(profile, schedule)
	assert.Equal(t, first, second)
	assert.Equal(t, GenerateSuggestions(profile, first), GenerateSuggestions(profile, second))
}

func TestAnalyze_SlotWrapsPastMidnight(t *testing.T) {
	res := Analyze(internal.UserProfile{}, internal.Schedule{
		{Time: "23:00-01:00", Days: days(internal.CategoryCoding)},
	})
	assert.InDelta(t, 2.0, res.Hours.Coding, 1e-9)
	assert.Equal(t, 1, res.LateNightSessionCount)
}

func TestIsLateNight(t *testing.T) {
	for _, h := range []int{22, 23, 0, 1, 2, 24} {
		assert.True(t, isLateNight(h), "hour %d", h)
	}
	for _, h := range []int{3, 8, 12, 21} {
		assert.False(t, isLateNight(h), "hour %d", h)
	}
}

func TestBalanceScore(t *testing.T) {
	assert.Equal(t, 0.0, BalanceScore(internal.CategoryHours{}))

	ideal := internal.CategoryHours{Coding: 40, Break: 20, Social: 15, Learning: 15, Wellness: 10}
	assert.InDelta(t, 1.0, BalanceScore(ideal), 1e-9)

	score := BalanceScore(internal.CategoryHours{Coding: 100})
	assert.GreaterOrEqual(t, score, 0.0)
	assert.LessOrEqual(t, score, 1.0)
}
