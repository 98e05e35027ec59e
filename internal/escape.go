package internal

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// DefaultRiskScore replaces risk values that are missing or not numeric.
const DefaultRiskScore = 0.5

// RiskScore is a risk level in [0,1]. Decoding never fails: numbers and numeric
// strings are clamped, anything else becomes DefaultRiskScore.
type RiskScore float64

// CoerceRiskScore turns an arbitrary decoded JSON value into a risk score.
func CoerceRiskScore(v any) RiskScore {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return DefaultRiskScore
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return DefaultRiskScore
		}
		f = parsed
	default:
		return DefaultRiskScore
	}
	return clampRisk(f)
}

func clampRisk(f float64) RiskScore {
	if math.IsNaN(f) {
		return DefaultRiskScore
	}
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return RiskScore(f)
}

func (r *RiskScore) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		*r = DefaultRiskScore
		return nil
	}
	*r = CoerceRiskScore(v)
	return nil
}

type RiskCategory string

const (
	RiskUnknown    RiskCategory = "UNKNOWN"
	RiskBlackHoled RiskCategory = "BLACK_HOLED"
	RiskCritical   RiskCategory = "CRITICAL"
	RiskHigh       RiskCategory = "HIGH"
	RiskMedium     RiskCategory = "MEDIUM"
	RiskLow        RiskCategory = "LOW"
	RiskSafe       RiskCategory = "SAFE"
)

// Score maps a risk category onto the numeric scale the dashboard expects.
func (c RiskCategory) Score() RiskScore {
	switch c {
	case RiskBlackHoled:
		return 1
	case RiskCritical:
		return 0.9
	case RiskHigh:
		return 0.7
	case RiskMedium:
		return 0.5
	case RiskLow:
		return 0.3
	case RiskSafe:
		return 0.1
	}
	return DefaultRiskScore
}

type CircleInfo struct {
	CurrentCircle        int     `json:"current_circle"`
	CircleName           string  `json:"circle_name"`
	NextCircle           *int    `json:"next_circle"`
	ProjectsToNextCircle int     `json:"projects_to_next_circle"`
	LevelToNextCircle    float64 `json:"level_to_next_circle"`
	LevelProgress        float64 `json:"level_progress"`
}

type Project struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Difficulty  int        `json:"difficulty"`
	Description string     `json:"description,omitempty"`
	FinalMark   int        `json:"final_mark,omitempty"`
	Status      string     `json:"status,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

type EscapeStatus struct {
	UserLogin          string       `json:"user_login"`
	UserName           string       `json:"user_name"`
	Cursus             string       `json:"cursus"`
	Grade              string       `json:"grade,omitempty"`
	Level              float64      `json:"level"`
	BeginAt            string       `json:"begin_at,omitempty"`
	BlackholedAt       string       `json:"blackholed_at,omitempty"`
	DaysUntilBlackhole *int         `json:"days_until_blackhole"`
	IsBlackholed       bool         `json:"is_blackholed"`
	TotalCompleted     int          `json:"total_completed"`
	CircleInfo         CircleInfo   `json:"circle_info"`
	RemainingProjects  []Project    `json:"remaining_projects"`
	RiskCategory       RiskCategory `json:"risk_category"`
	RiskLevel          RiskScore    `json:"risk_level"`
}

type WeeklyTarget struct {
	Week           int       `json:"week"`
	TargetProjects int       `json:"target_projects"`
	Projects       []Project `json:"projects"`
	WeeklyGoals    []string  `json:"weekly_goals"`
}

type EscapePlan struct {
	Message                  string         `json:"message,omitempty"`
	BlackholeDate            *time.Time     `json:"blackhole_date,omitempty"`
	DaysRemaining            *int           `json:"days_remaining,omitempty"`
	CurrentCircle            int            `json:"current_circle"`
	NextCircle               *int           `json:"next_circle,omitempty"`
	ProjectsToNextCircle     int            `json:"projects_to_next_circle"`
	ProjectsRemainingCurrent int            `json:"projects_remaining_current"`
	LevelToNextCircle        float64        `json:"level_to_next_circle"`
	RequiredProjects         int            `json:"required_projects,omitempty"`
	RecommendedWeeklyPace    int            `json:"recommended_weekly_pace,omitempty"`
	RecommendedDailyPace     string         `json:"recommended_daily_pace,omitempty"`
	TimelineFeasible         bool           `json:"timeline_feasible"`
	WeeklySchedule           []WeeklyTarget `json:"weekly_schedule,omitempty"`
	PriorityProjects         []string       `json:"priority_projects"`
	Recommendations          []string       `json:"recommendations"`
}

// EscapeReport is the document served at /api/escape/:login.
type EscapeReport struct {
	Status     EscapeStatus `json:"status"`
	EscapePlan EscapePlan   `json:"escape_plan"`
}
