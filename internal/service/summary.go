package service

import (
	"fmt"
	"strings"

	"github.com/yourname/blackholeescape/internal"
)

// Summarize condenses an analysis into one short narrative paragraph.
func Summarize(profile internal.UserProfile, a internal.AnalysisResult) string {
	var b strings.Builder
	score := a.BalanceScore * 100

	switch {
	case a.BalanceScore < 0.5:
		fmt.Fprintf(&b, "Your week is out of balance (%.0f%%). %.1f of %.1f planned hours go to coding, so rebuild the schedule around breaks and recovery before adding more work.",
			score, a.Hours.Coding, a.Hours.Total())
	case a.BalanceScore > 0.8:
		fmt.Fprintf(&b, "Your week is well balanced (%.0f%%). Keep the rhythm of %.1f coding hours and %.1f hours of breaks.",
			score, a.Hours.Coding, a.Hours.Break)
	default:
		fmt.Fprintf(&b, "Your week is reasonably balanced (%.0f%%). Small adjustments to breaks and social time will make %.1f coding hours more sustainable.",
			score, a.Hours.Coding)
	}

	switch profile.FocusArea {
	case internal.FocusWebDev:
		b.WriteString(" Focus on shipping web features")
	case internal.FocusAlgorithms:
		b.WriteString(" Focus on steady algorithm practice")
	case internal.FocusAIML:
		b.WriteString(" Focus on experiments and model fundamentals")
	default:
		return b.String()
	}
	if profile.CurrentProject != "" {
		fmt.Fprintf(&b, " while you finish %s", profile.CurrentProject)
	}
	b.WriteString(".")
	return b.String()
}

// Advise runs the whole pipeline: analyze, generate suggestions, summarize.
func Advise(profile internal.UserProfile, schedule internal.Schedule) internal.Advice {
	analysis := Analyze(profile, schedule)
	return internal.Advice{
		Analysis:    analysis,
		Suggestions: GenerateSuggestions(profile, analysis),
		Summary:     Summarize(profile, analysis),
	}
}
