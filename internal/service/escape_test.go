package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourname/blackholeescape/internal"
	"github.com/yourname/blackholeescape/internal/intra"
)

var testNow = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func intPtr(v int) *int              { return &v }
func strPtr(v string) *string        { return &v }
func timePtr(t time.Time) *time.Time { return &t }

type fakeIntra struct {
	user           *intra.User
	userErr        error
	cursusUsers    []intra.CursusUser
	projectsUsers  []intra.ProjectUser
	cursusProjects map[int][]intra.Project
}

func (f *fakeIntra) User(ctx context.Context, login string) (*intra.User, error) {
	if f.userErr != nil {
		return nil, f.userErr
	}
	return f.user, nil
}

func (f *fakeIntra) CursusUsers(ctx context.Context, userID int) ([]intra.CursusUser, error) {
	return f.cursusUsers, nil
}

func (f *fakeIntra) CursusProjects(ctx context.Context, cursusID int) ([]intra.Project, error) {
	return f.cursusProjects[cursusID], nil
}

func (f *fakeIntra) ProjectsUsers(ctx context.Context, userID int) ([]intra.ProjectUser, error) {
	return f.projectsUsers, nil
}

func TestCalculateCircleProgress(t *testing.T) {
	tests := []struct {
		name      string
		completed int
		level     float64
		current   int
		next      *int
		projects  int
		levelTo   float64
		progress  float64
	}{
		{"newcomer", 0, 0, 0, intPtr(1), 5, 3, 0},
		{"circle one", 3, 5.42, 1, intPtr(2), 7, 1.58, 42},
		{"enough projects", 12, 7.5, 2, intPtr(3), 3, 2.5, 50},
		{"last circle", 30, 20.25, 5, nil, 0, 0, 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := CalculateCircleProgress(tt.completed, tt.level)
			assert.Equal(t, tt.current, info.CurrentCircle)
			assert.Equal(t, tt.next, info.NextCircle)
			assert.Equal(t, tt.projects, info.ProjectsToNextCircle)
			assert.InDelta(t, tt.levelTo, info.LevelToNextCircle, 1e-9)
			assert.InDelta(t, tt.progress, info.LevelProgress, 1e-9)
			assert.Equal(t, "Circle "+string(rune('0'+tt.current)), info.CircleName)
		})
	}
}

func TestClassifyRisk(t *testing.T) {
	assert.Equal(t, internal.RiskUnknown, ClassifyRisk(nil, 2))
	assert.Equal(t, internal.RiskBlackHoled, ClassifyRisk(intPtr(0), 2))
	assert.Equal(t, internal.RiskBlackHoled, ClassifyRisk(intPtr(-4), 2))
	assert.Equal(t, internal.RiskCritical, ClassifyRisk(intPtr(30), 2))
	assert.Equal(t, internal.RiskHigh, ClassifyRisk(intPtr(31), 2))
	assert.Equal(t, internal.RiskHigh, ClassifyRisk(intPtr(90), 9))
	assert.Equal(t, internal.RiskMedium, ClassifyRisk(intPtr(180), 9))
	assert.Equal(t, internal.RiskLow, ClassifyRisk(intPtr(200), 2.9))
	assert.Equal(t, internal.RiskSafe, ClassifyRisk(intPtr(200), 3))
	assert.Equal(t, internal.RiskSafe, ClassifyRisk(intPtr(271), 1))
}

func TestCompletedProjects(t *testing.T) {
	got := CompletedProjects([]intra.ProjectUser{
		{Status: "finished", FinalMark: intPtr(100), MarkedAt: timePtr(testNow), Project: intra.Project{ID: 1, Name: "Libft"}},
		{Status: "finished", FinalMark: intPtr(40), Project: intra.Project{ID: 2, Name: "get_next_line"}},
		{Status: "in_progress", FinalMark: intPtr(90), Project: intra.Project{ID: 3, Name: "ft_printf"}},
		{Status: "success", FinalMark: nil, Project: intra.Project{ID: 4, Name: "Born2beroot"}},
		{Status: "success", FinalMark: intPtr(50), Project: intra.Project{ID: 5, Name: "push_swap"}},
	})

	require.Len(t, got, 2)
	assert.Equal(t, "Libft", got[0].Name)
	assert.Equal(t, 100, got[0].FinalMark)
	assert.Equal(t, testNow, *got[0].CompletedAt)
	assert.Equal(t, "push_swap", got[1].Name)
}

func TestRemainingProjects(t *testing.T) {
	completed := []internal.Project{{ID: 1, Name: "Libft"}}
	got := RemainingProjects(completed, []intra.Project{
		{ID: 1, Name: "Libft", Difficulty: 70},
		{ID: 2, Name: "minishell", Difficulty: 2100},
		{ID: 3, Name: "Exam Rank 02", Difficulty: 0},
		{ID: 4, Name: "C Piscine Shell 00", Difficulty: 0},
		{ID: 5, Name: "push_swap", Difficulty: 1855},
		{ID: 6, Name: "so_long", Difficulty: 1000},
		{ID: 7, Name: "fract-ol", Difficulty: 1000},
		{ID: 0, Name: "broken"},
	})

	names := make([]string, len(got))
	for i, p := range got {
		names[i] = p.Name
	}
	assert.Equal(t, []string{"so_long", "fract-ol", "push_swap", "minishell"}, names)
}

func TestMainCursus(t *testing.T) {
	_, ok := MainCursus(nil)
	assert.False(t, ok)

	cu, ok := MainCursus([]intra.CursusUser{
		{CursusID: 9, Cursus: intra.Cursus{Name: "C Piscine"}},
		{CursusID: 21, Cursus: intra.Cursus{Name: "42cursus"}},
	})
	require.True(t, ok)
	assert.Equal(t, 21, cu.CursusID)

	cu, ok = MainCursus([]intra.CursusUser{{CursusID: 9, Cursus: intra.Cursus{Name: "C Piscine"}}})
	require.True(t, ok)
	assert.Equal(t, 9, cu.CursusID)
}

func TestBuildStatus(t *testing.T) {
	cu := intra.CursusUser{
		CursusID:     21,
		Cursus:       intra.Cursus{Name: "42cursus"},
		Grade:        strPtr("Learner"),
		Level:        5.42,
		BeginAt:      strPtr("2023-10-02T08:00:00.000Z"),
		BlackholedAt: strPtr("2024-03-31T00:00:00.000Z"),
	}

	st := BuildStatus(intra.User{ID: 7, Login: "jdoe", DisplayName: "John Doe"}, cu, nil, nil, testNow)

	assert.Equal(t, "jdoe", st.UserLogin)
	assert.Equal(t, "John Doe", st.UserName)
	assert.Equal(t, "Learner", st.Grade)
	require.NotNil(t, st.DaysUntilBlackhole)
	assert.Equal(t, 30, *st.DaysUntilBlackhole)
	assert.False(t, st.IsBlackholed)
	assert.Equal(t, internal.RiskCritical, st.RiskCategory)
	assert.InDelta(t, 0.9, float64(st.RiskLevel), 1e-9)
	assert.Equal(t, "Circle 1", st.CircleInfo.CircleName)
	assert.NotNil(t, st.RemainingProjects)
}

func TestBuildStatus_NoBlackholeDate(t *testing.T) {
	st := BuildStatus(intra.User{ID: 7, Login: "jdoe"}, intra.CursusUser{Level: 1}, nil, nil, testNow)

	assert.Nil(t, st.DaysUntilBlackhole)
	assert.Equal(t, "Unknown Cursus", st.Cursus)
	assert.Equal(t, internal.RiskUnknown, st.RiskCategory)
	assert.InDelta(t, 0.5, float64(st.RiskLevel), 1e-9)
}

func TestBuildEscapePlan_Pace(t *testing.T) {
	st := internal.EscapeStatus{
		Level:              5.42,
		BlackholedAt:       "2024-03-31T00:00:00Z",
		DaysUntilBlackhole: intPtr(30),
		CircleInfo:         CalculateCircleProgress(3, 5.42),
		RiskCategory:       internal.RiskCritical,
		RemainingProjects: []internal.Project{
			{Name: "so_long", Difficulty: 1000},
			{Name: "push_swap", Difficulty: 1855},
			{Name: "minishell", Difficulty: 2100},
		},
	}

	plan := BuildEscapePlan(st, testNow)

	assert.Empty(t, plan.Message)
	assert.Equal(t, 7, plan.RequiredProjects)
	assert.Equal(t, 7, plan.ProjectsRemainingCurrent)
	assert.Equal(t, 2, plan.RecommendedWeeklyPace)
	assert.Equal(t, "0.23 projects per day", plan.RecommendedDailyPace)
	assert.True(t, plan.TimelineFeasible)
	require.NotNil(t, plan.BlackholeDate)
	assert.Equal(t, time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), plan.BlackholeDate.UTC())
	assert.Equal(t, []string{"so_long", "push_swap", "minishell"}, plan.PriorityProjects)

	require.Len(t, plan.WeeklySchedule, 2)
	assert.Equal(t, 2, plan.WeeklySchedule[0].TargetProjects)
	assert.Equal(t, "Focus on: so_long, push_swap", plan.WeeklySchedule[0].WeeklyGoals[1])
	assert.Equal(t, 1, plan.WeeklySchedule[1].TargetProjects)

	assert.Equal(t, "CRITICAL: Maximum effort required!", plan.Recommendations[0])
	assert.Equal(t, "Intermediate: Build complex systems", plan.Recommendations[5])
}

func TestBuildEscapePlan_TightTimelineIsNotFeasible(t *testing.T) {
	st := internal.EscapeStatus{
		DaysUntilBlackhole: intPtr(7),
		CircleInfo:         CalculateCircleProgress(0, 0),
		RiskCategory:       internal.RiskCritical,
	}

	plan := BuildEscapePlan(st, testNow)

	assert.Equal(t, 5, plan.RecommendedWeeklyPace)
	assert.False(t, plan.TimelineFeasible)
	assert.Empty(t, plan.WeeklySchedule)
	assert.Equal(t, []string{}, plan.PriorityProjects)
}

func TestBuildEscapePlan_LastCircleUsesRemainingCount(t *testing.T) {
	remaining := make([]internal.Project, 14)
	st := internal.EscapeStatus{
		Level:              18,
		DaysUntilBlackhole: intPtr(365),
		CircleInfo:         CalculateCircleProgress(40, 18),
		RiskCategory:       internal.RiskSafe,
		RemainingProjects:  remaining,
	}

	plan := BuildEscapePlan(st, testNow)

	assert.Equal(t, 7, plan.RequiredProjects)
	assert.Equal(t, 1, plan.RecommendedWeeklyPace)
	assert.Equal(t, "You are on track! Maintain consistency", plan.Recommendations[0])
	assert.Equal(t, "Advanced: Specialize and excel", plan.Recommendations[5])
}

func TestBuildEscapePlan_BlackHoled(t *testing.T) {
	st := internal.EscapeStatus{IsBlackholed: true, DaysUntilBlackhole: intPtr(-3), RiskCategory: internal.RiskBlackHoled}

	plan := BuildEscapePlan(st, testNow)

	assert.Equal(t, "EMERGENCY: You have been black holed!", plan.Message)
	assert.False(t, plan.TimelineFeasible)
	assert.Len(t, plan.Recommendations, 5)
	assert.Nil(t, plan.WeeklySchedule)
}

func TestBuildEscapePlan_NoDate(t *testing.T) {
	plan := BuildEscapePlan(internal.EscapeStatus{RiskCategory: internal.RiskUnknown}, testNow)

	assert.Contains(t, plan.Message, "No black hole date")
	assert.True(t, plan.TimelineFeasible)
	assert.Len(t, plan.Recommendations, 5)
}

func TestFetchEscapeReport(t *testing.T) {
	src := &fakeIntra{
		user: &intra.User{ID: 7, Login: "jdoe", DisplayName: "John Doe"},
		cursusUsers: []intra.CursusUser{{
			CursusID:     21,
			Cursus:       intra.Cursus{Name: "42cursus"},
			Level:        3.5,
			BlackholedAt: strPtr("2024-05-01T00:00:00Z"),
		}},
		projectsUsers: []intra.ProjectUser{
			{Status: "finished", FinalMark: intPtr(125), Project: intra.Project{ID: 1, Name: "Libft"}},
		},
		cursusProjects: map[int][]intra.Project{
			21: {{ID: 1, Name: "Libft"}, {ID: 2, Name: "ft_printf", Difficulty: 882}},
		},
	}

	report, err := FetchEscapeReport(context.Background(), src, "jdoe", testNow)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Status.TotalCompleted)
	require.Len(t, report.Status.RemainingProjects, 1)
	assert.Equal(t, "ft_printf", report.Status.RemainingProjects[0].Name)
	assert.Equal(t, internal.RiskHigh, report.Status.RiskCategory)
	assert.Equal(t, []string{"ft_printf"}, report.EscapePlan.PriorityProjects)
}

func TestFetchEscapeReport_Errors(t *testing.T) {
	_, err := FetchEscapeReport(context.Background(), &fakeIntra{userErr: intra.ErrNotFound}, "ghost", testNow)
	assert.True(t, errors.Is(err, ErrUserNotFound))

	_, err = FetchEscapeReport(context.Background(), &fakeIntra{user: &intra.User{ID: 7}}, "jdoe", testNow)
	assert.True(t, errors.Is(err, ErrNoCursus))

	boom := errors.New("boom")
	_, err = FetchEscapeReport(context.Background(), &fakeIntra{userErr: boom}, "jdoe", testNow)
	assert.True(t, errors.Is(err, boom))
	assert.False(t, errors.Is(err, ErrUserNotFound))
}
