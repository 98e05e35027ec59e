package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/yourname/blackholeescape/internal"
	"github.com/yourname/blackholeescape/internal/intra"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrNoCursus     = errors.New("no cursus information found")
)

// IntraSource is the part of the intra API the status builder needs.
type IntraSource interface {
	User(ctx context.Context, login string) (*intra.User, error)
	CursusUsers(ctx context.Context, userID int) ([]intra.CursusUser, error)
	CursusProjects(ctx context.Context, cursusID int) ([]intra.Project, error)
	ProjectsUsers(ctx context.Context, userID int) ([]intra.ProjectUser, error)
}

const (
	passingMark     = 50
	priorityCount   = 5
	feasibleWeekly  = 2
	maxPlannedWeeks = 52
)

type circleThreshold struct {
	circle   int
	level    float64
	projects int
}

var circleThresholds = []circleThreshold{
	{0, 0, 0},
	{1, 3.0, 5},
	{2, 7.0, 10},
	{3, 10.0, 15},
	{4, 13.0, 20},
	{5, 16.0, 25},
}

var excludedProjectWords = []string{"exam", "piscine", "rush", "interview"}

// FetchEscapeReport pulls everything the intra API knows about login and turns
// it into a status plus escape plan.
func FetchEscapeReport(ctx context.Context, src IntraSource, login string, now time.Time) (*internal.EscapeReport, error) {
	user, err := src.User(ctx, login)
	if err != nil {
		if errors.Is(err, intra.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUserNotFound, login)
		}
		return nil, fmt.Errorf("fetch user %s: %w", login, err)
	}
	if user.ID == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, login)
	}

	cursusUsers, err := src.CursusUsers(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("fetch cursus users: %w", err)
	}
	cu, ok := MainCursus(cursusUsers)
	if !ok {
		return nil, ErrNoCursus
	}

	projectsUsers, err := src.ProjectsUsers(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("fetch projects users: %w", err)
	}
	var cursusProjects []intra.Project
	if cu.CursusID != 0 {
		cursusProjects, err = src.CursusProjects(ctx, cu.CursusID)
		if err != nil {
			return nil, fmt.Errorf("fetch cursus projects: %w", err)
		}
	}

	status := BuildStatus(*user, cu, projectsUsers, cursusProjects, now)
	return &internal.EscapeReport{
		Status:     status,
		EscapePlan: BuildEscapePlan(status, now),
	}, nil
}

// MainCursus picks the 42 cursus, falling back to the first enrolment.
func MainCursus(cursusUsers []intra.CursusUser) (intra.CursusUser, bool) {
	if len(cursusUsers) == 0 {
		return intra.CursusUser{}, false
	}
	for _, cu := range cursusUsers {
		if strings.Contains(strings.ToLower(cu.Cursus.Name), "42") || cu.CursusID == 1 {
			return cu, true
		}
	}
	return cursusUsers[0], true
}

func BuildStatus(user intra.User, cu intra.CursusUser, projectsUsers []intra.ProjectUser, cursusProjects []intra.Project, now time.Time) internal.EscapeStatus {
	completed := CompletedProjects(projectsUsers)
	remaining := RemainingProjects(completed, cursusProjects)

	st := internal.EscapeStatus{
		UserLogin:         user.Login,
		UserName:          user.DisplayName,
		Cursus:            cu.Cursus.Name,
		Level:             cu.Level,
		TotalCompleted:    len(completed),
		CircleInfo:        CalculateCircleProgress(len(completed), cu.Level),
		RemainingProjects: remaining,
	}
	if st.Cursus == "" {
		st.Cursus = "Unknown Cursus"
	}
	if cu.Grade != nil {
		st.Grade = *cu.Grade
	}
	if cu.BeginAt != nil {
		st.BeginAt = *cu.BeginAt
	}
	if cu.BlackholedAt != nil {
		st.BlackholedAt = *cu.BlackholedAt
		if bh, err := time.Parse(time.RFC3339, *cu.BlackholedAt); err == nil {
			days := DaysUntil(bh, now)
			st.DaysUntilBlackhole = &days
			st.IsBlackholed = days <= 0
		}
	}

	st.RiskCategory = ClassifyRisk(st.DaysUntilBlackhole, st.Level)
	st.RiskLevel = st.RiskCategory.Score()
	return st
}

// DaysUntil counts whole days from now to t, flooring like a calendar countdown.
func DaysUntil(t, now time.Time) int {
	return int(math.Floor(t.Sub(now).Hours() / 24))
}

// CompletedProjects keeps finished attempts with a passing mark.
func CompletedProjects(projectsUsers []intra.ProjectUser) []internal.Project {
	var out []internal.Project
	for _, pu := range projectsUsers {
		if pu.Status != "finished" && pu.Status != "success" {
			continue
		}
		if pu.FinalMark == nil || *pu.FinalMark < passingMark || pu.Project.ID == 0 {
			continue
		}
		out = append(out, internal.Project{
			ID:          pu.Project.ID,
			Name:        pu.Project.Name,
			Slug:        pu.Project.Slug,
			FinalMark:   *pu.FinalMark,
			Status:      pu.Status,
			CompletedAt: pu.MarkedAt,
		})
	}
	return out
}

// RemainingProjects lists cursus projects not yet completed, easiest first.
// Exams, piscines, rushes and interviews are left out.
func RemainingProjects(completed []internal.Project, cursusProjects []intra.Project) []internal.Project {
	done := make(map[int]bool, len(completed))
	for _, p := range completed {
		done[p.ID] = true
	}

	out := []internal.Project{}
	for _, p := range cursusProjects {
		if p.ID == 0 || done[p.ID] || isExcludedProject(p.Name) {
			continue
		}
		out = append(out, internal.Project{
			ID:          p.ID,
			Name:        p.Name,
			Slug:        p.Slug,
			Difficulty:  p.Difficulty,
			Description: p.Description,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Difficulty < out[j].Difficulty
	})
	return out
}

func isExcludedProject(name string) bool {
	lower := strings.ToLower(name)
	for _, w := range excludedProjectWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// CalculateCircleProgress places a student on the circle ladder from their
// level and number of completed projects.
func CalculateCircleProgress(completedCount int, level float64) internal.CircleInfo {
	info := internal.CircleInfo{}

	for i, th := range circleThresholds {
		if level < th.level {
			break
		}
		info.CurrentCircle = th.circle
		info.NextCircle = nil
		info.ProjectsToNextCircle = 0
		info.LevelToNextCircle = 0
		if i+1 < len(circleThresholds) {
			next := circleThresholds[i+1]
			n := next.circle
			info.NextCircle = &n
			info.ProjectsToNextCircle = max(0, next.projects-completedCount)
			info.LevelToNextCircle = round(next.level-level, 2)
		}
	}

	info.CircleName = fmt.Sprintf("Circle %d", info.CurrentCircle)
	if level > 0 {
		_, frac := math.Modf(level)
		info.LevelProgress = round(frac*100, 1)
	}
	return info
}

func ClassifyRisk(days *int, level float64) internal.RiskCategory {
	if days == nil {
		return internal.RiskUnknown
	}
	d := *days
	switch {
	case d <= 0:
		return internal.RiskBlackHoled
	case d <= 30:
		return internal.RiskCritical
	case d <= 90:
		return internal.RiskHigh
	case d <= 180:
		return internal.RiskMedium
	case level < 3.0 && d <= 270:
		return internal.RiskLow
	}
	return internal.RiskSafe
}

// BuildEscapePlan derives the pace, weekly targets and advice for a status.
func BuildEscapePlan(st internal.EscapeStatus, now time.Time) internal.EscapePlan {
	ci := st.CircleInfo
	plan := internal.EscapePlan{
		CurrentCircle:            ci.CurrentCircle,
		NextCircle:               ci.NextCircle,
		ProjectsToNextCircle:     ci.ProjectsToNextCircle,
		ProjectsRemainingCurrent: ci.ProjectsToNextCircle,
		LevelToNextCircle:        ci.LevelToNextCircle,
		PriorityProjects:         priorityProjects(st.RemainingProjects),
	}

	if st.IsBlackholed {
		plan.Message = "EMERGENCY: You have been black holed!"
		plan.Recommendations = []string{
			"Immediately contact your campus staff",
			"Speak with your assigned tutor or referent",
			"Discuss options for appeal or re-entry",
			"Prepare a detailed progress report",
			"Create a recovery plan with staff guidance",
		}
		return plan
	}

	if st.DaysUntilBlackhole == nil {
		plan.Message = "No black hole date set, you are safe for now."
		plan.TimelineFeasible = true
		plan.Recommendations = []string{
			"Focus on consistent project completion",
			"Aim for at least 1 project per week",
			"Collaborate with peers on difficult projects",
			"Use available learning resources",
			"Maintain steady progress to avoid future risks",
		}
		return plan
	}

	days := *st.DaysUntilBlackhole
	needed := ci.ProjectsToNextCircle
	if ci.NextCircle == nil {
		needed = max(5, len(st.RemainingProjects)/2)
	}
	safeDays := max(1, days)
	safeNeeded := max(1, needed)

	weekly := int(math.Ceil(float64(safeNeeded) / math.Max(1, float64(safeDays)/7)))
	daily := float64(safeNeeded) / float64(safeDays)

	bh := now.AddDate(0, 0, days)
	if t, err := time.Parse(time.RFC3339, st.BlackholedAt); err == nil {
		bh = t
	}
	plan.BlackholeDate = &bh
	plan.DaysRemaining = &days
	plan.RequiredProjects = safeNeeded
	plan.RecommendedWeeklyPace = weekly
	plan.RecommendedDailyPace = fmt.Sprintf("%.2f projects per day", daily)
	plan.TimelineFeasible = weekly <= feasibleWeekly
	plan.WeeklySchedule = WeeklySchedule(st.RemainingProjects, safeDays, safeNeeded)
	plan.Recommendations = Recommendations(st.RiskCategory, st.Level)
	return plan
}

// WeeklySchedule spreads the remaining projects over the weeks left, stopping
// when the project list runs out.
func WeeklySchedule(projects []internal.Project, daysRemaining, required int) []internal.WeeklyTarget {
	weeks := 4
	if daysRemaining > 0 {
		weeks = int(math.Ceil(float64(daysRemaining) / 7))
	}
	weeks = min(weeks, maxPlannedWeeks)
	perWeek := int(math.Ceil(float64(required) / float64(max(1, weeks))))
	if perWeek < 1 {
		return nil
	}

	var out []internal.WeeklyTarget
	idx := 0
	for week := 1; week <= weeks && idx < len(projects); week++ {
		end := min(idx+perWeek, len(projects))
		batch := projects[idx:end]
		idx = end

		names := make([]string, 0, 2)
		planned := make([]internal.Project, len(batch))
		for i, p := range batch {
			planned[i] = internal.Project{Name: p.Name, Difficulty: p.Difficulty}
			if i < 2 {
				names = append(names, p.Name)
			}
		}
		out = append(out, internal.WeeklyTarget{
			Week:           week,
			TargetProjects: len(batch),
			Projects:       planned,
			WeeklyGoals: []string{
				fmt.Sprintf("Complete %d projects", len(batch)),
				"Focus on: " + strings.Join(names, ", "),
				"Attend peer learning sessions",
				"Review progress mid-week",
			},
		})
	}
	return out
}

var riskAdvice = map[internal.RiskCategory][]string{
	internal.RiskCritical: {
		"CRITICAL: Maximum effort required!",
		"Focus exclusively on project completion",
		"Dedicate 6-8 hours daily to coding",
		"Seek immediate help from staff and peers",
		"Schedule regular check-ins with your tutor",
	},
	internal.RiskHigh: {
		"HIGH RISK: Significant effort needed",
		"Prioritize project completion over everything",
		"Dedicate 4-6 hours daily to coding",
		"Form study groups for accountability",
		"Track progress daily",
	},
	internal.RiskMedium: {
		"MEDIUM RISK: Stay consistent and focused",
		"Maintain steady project completion pace",
		"Dedicate 3-4 hours daily to coding",
		"Regular peer programming sessions",
		"Weekly progress reviews",
	},
}

var onTrackAdvice = []string{
	"You are on track! Maintain consistency",
	"Focus on quality project completion",
	"2-3 hours of focused coding daily",
	"Help peers and reinforce learning",
	"Challenge yourself with advanced projects",
}

// Recommendations combines risk advice with advice for the student's level.
func Recommendations(risk internal.RiskCategory, level float64) []string {
	out := append([]string{}, onTrackAdvice...)
	if advice, ok := riskAdvice[risk]; ok {
		out = append([]string{}, advice...)
	}

	switch {
	case level < 3.0:
		out = append(out,
			"Beginner: Master the fundamentals",
			"Focus on understanding core concepts",
			"Practice with small exercises daily")
	case level < 7.0:
		out = append(out,
			"Intermediate: Build complex systems",
			"Focus on architecture and design",
			"Learn debugging and optimization")
	default:
		out = append(out,
			"Advanced: Specialize and excel",
			"Focus on advanced concepts",
			"Consider mentoring newer students")
	}
	return out
}

func priorityProjects(remaining []internal.Project) []string {
	out := []string{}
	for i, p := range remaining {
		if i == priorityCount {
			break
		}
		name := p.Name
		if name == "" {
			name = "Unknown"
		}
		out = append(out, name)
	}
	return out
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
