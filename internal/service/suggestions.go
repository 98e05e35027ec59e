package service

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/yourname/blackholeescape/internal"
)

const (
	MaxSuggestions = 5

	streakLimit         = 3
	pomodoroStreakLimit = 4
	weeklyCodingCap     = 35.0
	lateNightLimit      = 2
	nightOwlLateLimit   = 3
	idealMealSlots      = 14 // two meals a day for a week
	mealSlotMinimum     = 10
	wellnessMinimum     = 5.0
	lowSocialMinimum    = 2.0
	highSocialMinimum   = 8.0
	breakMinimum        = 10.0
	heavyCodingHours    = 20.0
	balanceThreshold    = 0.6
)

// suggestionNamespace seeds the deterministic suggestion IDs.
var suggestionNamespace = uuid.MustParse("8d0c6f3e-5d8a-4a4e-9a57-2f0f4f1a9b21")

// SuggestionID derives a stable ID from the suggestion text, so acceptance
// state survives regeneration.
func SuggestionID(text string) string {
	return uuid.NewSHA1(suggestionNamespace, []byte(text)).String()
}

func newSuggestion(text string, p internal.Priority, c internal.SuggestionCategory) internal.Suggestion {
	return internal.Suggestion{ID: SuggestionID(text), Text: text, Priority: p, Category: c}
}

type suggestionRule func(internal.UserProfile, internal.AnalysisResult) []internal.Suggestion

var suggestionRules = []suggestionRule{
	codingSuggestions,
	wellnessSuggestions,
	socialSuggestions,
	productivitySuggestions,
	goalSuggestions,
}

// GenerateSuggestions runs every rule group and returns at most MaxSuggestions
// unique suggestions, highest priority first.
func GenerateSuggestions(profile internal.UserProfile, analysis internal.AnalysisResult) []internal.Suggestion {
	var candidates []internal.Suggestion
	for _, rule := range suggestionRules {
		candidates = append(candidates, rule(profile, analysis)...)
	}
	return RankSuggestions(candidates)
}

// RankSuggestions drops repeated texts (first occurrence wins), stable-sorts by
// priority and truncates to MaxSuggestions.
func RankSuggestions(candidates []internal.Suggestion) []internal.Suggestion {
	seen := make(map[string]bool, len(candidates))
	out := make([]internal.Suggestion, 0, len(candidates))
	for _, s := range candidates {
		if seen[s.Text] {
			continue
		}
		seen[s.Text] = true
		out = append(out, s)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority.Weight() > out[j].Priority.Weight()
	})

	if len(out) > MaxSuggestions {
		out = out[:MaxSuggestions]
	}
	return out
}

func codingSuggestions(p internal.UserProfile, a internal.AnalysisResult) []internal.Suggestion {
	var out []internal.Suggestion
	if a.MaxConsecutiveCodingStreak > streakLimit {
		out = append(out, newSuggestion(
			fmt.Sprintf("You have %d consecutive coding sessions. Take a short break every two sessions to keep your focus sharp.", a.MaxConsecutiveCodingStreak),
			internal.PriorityHigh, internal.SuggestProductivity))
	}
	if a.Hours.Coding > weeklyCodingCap {
		out = append(out, newSuggestion(
			fmt.Sprintf("You are coding %.1f hours this week. Keeping it around 35 hours helps you avoid burnout.", a.Hours.Coding),
			internal.PriorityMedium, internal.SuggestWellness))
	}
	if a.LateNightSessionCount > lateNightLimit {
		out = append(out, newSuggestion(
			fmt.Sprintf("You have %d late-night coding sessions. Move deep work earlier in the day to protect your sleep.", a.LateNightSessionCount),
			internal.PriorityHigh, internal.SuggestWellness))
	}
	if p.CurrentProject != "" && p.FocusArea == internal.FocusWebDev {
		out = append(out, newSuggestion(
			fmt.Sprintf("Split %s into small features and ship one of them every day.", p.CurrentProject),
			internal.PriorityLow, internal.SuggestCoding))
	}
	return out
}

func wellnessSuggestions(p internal.UserProfile, a internal.AnalysisResult) []internal.Suggestion {
	var out []internal.Suggestion
	if a.MealSlotConsistency < mealSlotMinimum {
		out = append(out, newSuggestion(
			fmt.Sprintf("Your week is missing %d regular meal breaks. Block time for meals at consistent hours.", idealMealSlots-a.MealSlotConsistency),
			internal.PriorityMedium, internal.SuggestWellness))
	}
	if a.Hours.Wellness < wellnessMinimum {
		out = append(out, newSuggestion(
			fmt.Sprintf("Only %.1f hours of wellness activities are planned. Aim for at least 5 hours of exercise or rest per week.", a.Hours.Wellness),
			internal.PriorityMedium, internal.SuggestWellness))
	}
	if p.SleepPattern == internal.SleepNightOwl && a.LateNightSessionCount > nightOwlLateLimit {
		out = append(out, newSuggestion(
			"As a night owl, keep a fixed wake-up time even after late sessions so your rhythm stays stable.",
			internal.PriorityMedium, internal.SuggestWellness))
	}
	return out
}

func socialSuggestions(p internal.UserProfile, a internal.AnalysisResult) []internal.Suggestion {
	var out []internal.Suggestion
	switch p.SocialPreference {
	case internal.SocialLow:
		if a.Hours.Social < lowSocialMinimum {
			out = append(out, newSuggestion(
				"Even one peer session a week helps. Try an hour of pair programming or code review.",
				internal.PriorityLow, internal.SuggestSocial))
		}
	case internal.SocialHigh:
		if a.Hours.Social < highSocialMinimum {
			out = append(out, newSuggestion(
				fmt.Sprintf("You enjoy working with others but only %.1f social hours are planned. Schedule group study or peer evaluations.", a.Hours.Social),
				internal.PriorityMedium, internal.SuggestSocial))
		}
	}
	return out
}

func productivitySuggestions(p internal.UserProfile, a internal.AnalysisResult) []internal.Suggestion {
	var out []internal.Suggestion
	if a.Hours.Break < breakMinimum && a.Hours.Coding > heavyCodingHours {
		out = append(out, newSuggestion(
			fmt.Sprintf("You plan %.1f coding hours with only %.1f hours of breaks. Add regular breaks to sustain your pace.", a.Hours.Coding, a.Hours.Break),
			internal.PriorityHigh, internal.SuggestProductivity))
	}
	if p.BreakStyle == internal.BreakPomodoro && a.MaxConsecutiveCodingStreak > pomodoroStreakLimit {
		out = append(out, newSuggestion(
			"Your coding runs are longer than a pomodoro cycle. Take a 5-minute break after every 25-minute block.",
			internal.PriorityMedium, internal.SuggestProductivity))
	}
	return out
}

var focusGoals = map[internal.FocusArea]string{
	internal.FocusWebDev:     "Build one small full-stack feature each week to connect front-end and back-end skills.",
	internal.FocusAlgorithms: "Solve one algorithm problem a day and revisit a classic data structure every week.",
	internal.FocusAIML:       "Reserve weekly time for reading a paper and reproducing a small experiment.",
}

func goalSuggestions(p internal.UserProfile, a internal.AnalysisResult) []internal.Suggestion {
	var out []internal.Suggestion
	if text, ok := focusGoals[p.FocusArea]; ok {
		out = append(out, newSuggestion(text, internal.PriorityMedium, internal.SuggestLearning))
	}
	if a.BalanceScore < balanceThreshold {
		out = append(out, newSuggestion(
			fmt.Sprintf("Your schedule balance score is %.0f%%. Shift time toward breaks, social and wellness activities.", a.BalanceScore*100),
			internal.PriorityHigh, internal.SuggestProductivity))
	}
	return out
}
