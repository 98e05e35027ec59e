// Package dashboard renders the terminal view of the escape planner.
package dashboard

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/yourname/blackholeescape/internal"
)

const rule = "═══════════════════════════════════════════════════════"

// View is everything the dashboard prints. Report is nil when the escape
// service could not be reached; ReportErr then says why.
type View struct {
	Login     string
	Report    *internal.EscapeReport
	ReportErr error
	Schedule  *internal.ScheduleDocument
	Advice    internal.Advice
}

func Render(w io.Writer, v View) error {
	ew := &errWriter{w: w}

	ew.printf("%s\n  BLACK HOLE ESCAPE: %s\n%s\n\n", rule, v.Login, rule)
	if v.Report == nil {
		ew.printf("Escape status unavailable: %v\n\n", v.ReportErr)
	} else {
		renderStatus(ew, v.Report.Status)
		renderPlan(ew, v.Report.EscapePlan)
	}
	if v.Schedule != nil {
		renderGrid(ew, v.Schedule)
	}
	renderAdvice(ew, v.Advice)
	return ew.err
}

func renderStatus(ew *errWriter, st internal.EscapeStatus) {
	ew.printf("STATUS\n")
	ew.printf("  %s (%s), %s level %.2f\n", st.UserName, st.UserLogin, st.Cursus, st.Level)
	switch {
	case st.DaysUntilBlackhole == nil:
		ew.printf("  Black hole: no date\n")
	case st.IsBlackholed:
		ew.printf("  Black hole: reached on %s\n", st.BlackholedAt)
	default:
		ew.printf("  Black hole: %d days left\n", *st.DaysUntilBlackhole)
	}
	ew.printf("  Risk: %s (%.0f%%)\n", st.RiskCategory, float64(st.RiskLevel)*100)
	ew.printf("  %s, %d projects completed, %.1f%% into the level\n\n",
		st.CircleInfo.CircleName, st.TotalCompleted, st.CircleInfo.LevelProgress)
}

func renderPlan(ew *errWriter, p internal.EscapePlan) {
	ew.printf("ESCAPE PLAN\n")
	if p.Message != "" {
		ew.printf("  %s\n", p.Message)
	}
	if p.RequiredProjects > 0 {
		ew.printf("  %d projects needed, %d per week (%s)\n", p.RequiredProjects, p.RecommendedWeeklyPace, p.RecommendedDailyPace)
	}
	if p.TimelineFeasible {
		ew.printf("  Timeline: feasible\n")
	} else {
		ew.printf("  Timeline: at risk\n")
	}
	if len(p.PriorityProjects) > 0 {
		ew.printf("  Next up: %s\n", strings.Join(p.PriorityProjects, ", "))
	}
	for _, r := range p.Recommendations {
		ew.printf("  - %s\n", r)
	}
	ew.printf("\n")
}

var dayNames = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

func renderGrid(ew *errWriter, doc *internal.ScheduleDocument) {
	ew.printf("WEEK\n")
	tw := tabwriter.NewWriter(ew, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "  Time\t%s\t\n", strings.Join(dayNames, "\t"))
	for _, slot := range doc.Slots {
		cells := make([]string, len(dayNames))
		for i := range cells {
			cells[i] = "-"
			if i < len(slot.Days) && slot.Days[i].Category != "" {
				cells[i] = string(slot.Days[i].Category)
			}
		}
		fmt.Fprintf(tw, "  %s\t%s\t\n", slot.Time, strings.Join(cells, "\t"))
	}
	if err := tw.Flush(); err != nil && ew.err == nil {
		ew.err = err
	}
	ew.printf("\n")
}

func renderAdvice(ew *errWriter, a internal.Advice) {
	h := a.Analysis.Hours
	ew.printf("METRICS\n")
	ew.printf("  Coding %.1fh  Break %.1fh  Social %.1fh  Learning %.1fh  Wellness %.1fh\n",
		h.Coding, h.Break, h.Social, h.Learning, h.Wellness)
	ew.printf("  Longest coding streak %d, late-night sessions %d, meal slots %d\n",
		a.Analysis.MaxConsecutiveCodingStreak, a.Analysis.LateNightSessionCount, a.Analysis.MealSlotConsistency)
	ew.printf("  Balance %.0f%%\n\n", a.Analysis.BalanceScore*100)

	ew.printf("SUGGESTIONS\n")
	if len(a.Suggestions) == 0 {
		ew.printf("  Nothing to change.\n")
	}
	for _, s := range a.Suggestions {
		mark := " "
		if s.Accepted {
			mark = "x"
		}
		ew.printf("  [%s] (%s) %s\n", mark, s.Priority, s.Text)
	}
	ew.printf("\n%s\n", a.Summary)
}

// errWriter keeps the first write error so rendering code can stay linear.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}

func (e *errWriter) printf(format string, args ...any) {
	fmt.Fprintf(e, format, args...)
}
