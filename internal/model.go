package internal

import "time"

// Category classifies a single schedule cell.
type Category string

const (
	CategoryCoding   Category = "coding"
	CategoryBreak    Category = "break"
	CategorySocial   Category = "social"
	CategoryLearning Category = "learning"
	CategoryWellness Category = "wellness"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryCoding,
	CategoryBreak,
	CategorySocial,
	CategoryLearning,
	CategoryWellness,
}

type FocusArea string

const (
	FocusWebDev     FocusArea = "web-dev"
	FocusAlgorithms FocusArea = "algorithms"
	FocusAIML       FocusArea = "ai-ml"
	FocusOther      FocusArea = "other"
)

type SleepPattern string

const (
	SleepNightOwl  SleepPattern = "night-owl"
	SleepBalanced  SleepPattern = "balanced"
	SleepEarlyBird SleepPattern = "early-bird"
)

type SocialPreference string

const (
	SocialLow    SocialPreference = "low"
	SocialMedium SocialPreference = "medium"
	SocialHigh   SocialPreference = "high"
)

type BreakStyle string

const (
	BreakPomodoro BreakStyle = "pomodoro"
	BreakFlexible BreakStyle = "flexible"
)

type UserProfile struct {
	FocusArea        FocusArea        `json:"focus_area" yaml:"focus_area" validate:"omitempty,oneof=web-dev algorithms ai-ml other"`
	CurrentProject   string           `json:"current_project,omitempty" yaml:"current_project" validate:"max=120"`
	SleepPattern     SleepPattern     `json:"sleep_pattern" yaml:"sleep_pattern" validate:"omitempty,oneof=night-owl balanced early-bird"`
	SocialPreference SocialPreference `json:"social_preference" yaml:"social_preference" validate:"omitempty,oneof=low medium high"`
	BreakStyle       BreakStyle       `json:"break_style" yaml:"break_style" validate:"omitempty,oneof=pomodoro flexible"`
}

// DayEntry is one cell of the weekly grid. An empty Category is a free cell.
type DayEntry struct {
	Category    Category `json:"category" yaml:"category" validate:"omitempty,oneof=coding break social learning wellness"`
	Label       string   `json:"label,omitempty" yaml:"label"`
	IsSuggested bool     `json:"is_suggested,omitempty" yaml:"is_suggested"`
}

// ScheduleSlot is one row of the weekly grid: a time range shared by all days.
type ScheduleSlot struct {
	Time string     `json:"time" yaml:"time" validate:"required,timerange"`
	Days []DayEntry `json:"days" yaml:"days" validate:"len=7,dive"`
}

type Schedule []ScheduleSlot

// ScheduleDocument is what gets persisted per login.
type ScheduleDocument struct {
	Login     string      `json:"login" yaml:"login"`
	Profile   UserProfile `json:"profile" yaml:"profile"`
	Slots     Schedule    `json:"slots" yaml:"slots"`
	UpdatedAt time.Time   `json:"updated_at" yaml:"updated_at"`
}

// CategoryHours holds total hours per category.
type CategoryHours struct {
	Coding   float64 `json:"coding"`
	Break    float64 `json:"break"`
	Social   float64 `json:"social"`
	Learning float64 `json:"learning"`
	Wellness float64 `json:"wellness"`
}

// Add credits hours to c. Unknown and empty categories are ignored.
func (h *CategoryHours) Add(c Category, hours float64) {
	switch c {
	case CategoryCoding:
		h.Coding += hours
	case CategoryBreak:
		h.Break += hours
	case CategorySocial:
		h.Social += hours
	case CategoryLearning:
		h.Learning += hours
	case CategoryWellness:
		h.Wellness += hours
	}
}

func (h CategoryHours) Get(c Category) float64 {
	switch c {
	case CategoryCoding:
		return h.Coding
	case CategoryBreak:
		return h.Break
	case CategorySocial:
		return h.Social
	case CategoryLearning:
		return h.Learning
	case CategoryWellness:
		return h.Wellness
	}
	return 0
}

func (h CategoryHours) Total() float64 {
	return h.Coding + h.Break + h.Social + h.Learning + h.Wellness
}

type AnalysisResult struct {
	Hours                      CategoryHours `json:"hours"`
	MaxConsecutiveCodingStreak int           `json:"max_consecutive_coding_streak"`
	LateNightSessionCount      int           `json:"late_night_session_count"`
	MealSlotConsistency        int           `json:"meal_slot_consistency"`
	BalanceScore               float64       `json:"balance_score"`
}

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Weight orders priorities; higher sorts first.
func (p Priority) Weight() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

type SuggestionCategory string

const (
	SuggestProductivity SuggestionCategory = "productivity"
	SuggestWellness     SuggestionCategory = "wellness"
	SuggestSocial       SuggestionCategory = "social"
	SuggestCoding       SuggestionCategory = "coding"
	SuggestLearning     SuggestionCategory = "learning"
)

type Suggestion struct {
	ID       string             `json:"id"`
	Text     string             `json:"text"`
	Priority Priority           `json:"priority"`
	Category SuggestionCategory `json:"category"`
	Accepted bool               `json:"accepted"`
}

// Advice bundles one full pass of the suggestion pipeline.
type Advice struct {
	Analysis    AnalysisResult `json:"analysis"`
	Suggestions []Suggestion   `json:"suggestions"`
	Summary     string         `json:"summary"`
}
