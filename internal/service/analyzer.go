package service

import (
	"math"
	"strconv"
	"strings"

	"github.com/yourname/blackholeescape/internal"
)

// Ideal share of weekly hours per category. The balance score measures the
// distance from this distribution.
var idealRatios = map[internal.Category]float64{
	internal.CategoryCoding:   0.40,
	internal.CategoryBreak:    0.20,
	internal.CategorySocial:   0.15,
	internal.CategoryLearning: 0.15,
	internal.CategoryWellness: 0.10,
}

// Substrings of a slot time that mark a meal break.
var mealTimes = []string{"7:00", "8:00", "12:00", "13:00", "18:00", "19:00"}

// Analyze aggregates a weekly schedule into metrics. It is pure and never fails;
// a slot whose time range does not parse counts zero hours.
//
// The coding streak counter is shared across day columns and walks the grid
// slot by slot, so a run ending on Sunday of one slot continues into Monday of
// the next.
func Analyze(profile internal.UserProfile, schedule internal.Schedule) internal.AnalysisResult {
	var res internal.AnalysisResult
	streak := 0

	for _, slot := range schedule {
		start, end, ok := ParseTimeRange(slot.Time)
		duration := 0.0
		if ok {
			duration = slotDuration(start, end)
		}
		startHour := int(math.Floor(start))

		for _, day := range slot.Days {
			if day.Category == internal.CategoryCoding {
				streak++
				if streak > res.MaxConsecutiveCodingStreak {
					res.MaxConsecutiveCodingStreak = streak
				}
			} else {
				streak = 0
			}

			res.Hours.Add(day.Category, duration)

			switch day.Category {
			case internal.CategoryCoding:
				if ok && isLateNight(startHour) {
					res.LateNightSessionCount++
				}
			case internal.CategoryBreak:
				if isMealSlot(slot.Time) {
					res.MealSlotConsistency++
				}
			}
		}
	}

	res.BalanceScore = BalanceScore(res.Hours)
	return res
}

// BalanceScore returns the mean of 1-|ideal-actual| over all categories, in [0,1].
func BalanceScore(hours internal.CategoryHours) float64 {
	total := hours.Total()
	if total == 0 {
		return 0
	}

	similarity := 0.0
	for _, c := range internal.Categories {
		actual := hours.Get(c) / total
		similarity += 1 - math.Abs(idealRatios[c]-actual)
	}
	score := similarity / float64(len(internal.Categories))

	return math.Max(0, math.Min(1, score))
}

// ParseTimeRange reads "HH:MM-HH:MM" into fractional start and end hours.
// Missing minutes count as zero. ok is false unless both ends start with an
// hour.
func ParseTimeRange(s string) (start, end float64, ok bool) {
	s = strings.ReplaceAll(s, "–", "-")
	parts := strings.SplitN(s, "-", 2)
	start, okStart := parseClock(parts[0])
	if len(parts) < 2 {
		return start, 0, false
	}
	end, okEnd := parseClock(parts[1])
	return start, end, okStart && okEnd
}

func parseClock(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	hm := strings.SplitN(s, ":", 2)
	hours, ok := leadingInt(hm[0])
	if !ok {
		return 0, false
	}
	minutes := 0
	if len(hm) == 2 {
		minutes, _ = leadingInt(hm[1])
	}
	return float64(hours) + float64(minutes)/60, true
}

// leadingInt parses the leading digits of s, ignoring anything after them.
func leadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	n, err := strconv.Atoi(s[:i])
	if err != nil {
		return 0, false
	}
	return n, true
}

// slotDuration wraps past midnight when the slot ends before it starts. Both
// ends must have parsed.
func slotDuration(start, end float64) float64 {
	d := end - start
	if d < 0 {
		d += 24
	}
	return d
}

func isLateNight(hour int) bool {
	hour %= 24
	return hour >= 22 || hour <= 2
}

func isMealSlot(timeLabel string) bool {
	for _, m := range mealTimes {
		if strings.Contains(timeLabel, m) {
			return true
		}
	}
	return false
}
