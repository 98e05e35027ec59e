package service

import "github.com/yourname/blackholeescape/internal"

var DefaultProfile = internal.UserProfile{
	FocusArea:        internal.FocusOther,
	SleepPattern:     internal.SleepBalanced,
	SocialPreference: internal.SocialMedium,
	BreakStyle:       internal.BreakFlexible,
}

func cell(c internal.Category, label string) internal.DayEntry {
	return internal.DayEntry{Category: c, Label: label}
}

// week repeats weekday on Monday to Friday and weekend on Saturday and Sunday.
func week(weekday, weekend internal.DayEntry) []internal.DayEntry {
	days := make([]internal.DayEntry, 7)
	for i := range days {
		if i < 5 {
			days[i] = weekday
		} else {
			days[i] = weekend
		}
	}
	return days
}

// DefaultSchedule is served for logins that never stored a schedule.
func DefaultSchedule(login string) internal.ScheduleDocument {
	var (
		free      = internal.DayEntry{}
		breakfast = cell(internal.CategoryBreak, "Breakfast")
		lunch     = cell(internal.CategoryBreak, "Lunch")
		dinner    = cell(internal.CategoryBreak, "Dinner")
	)

	return internal.ScheduleDocument{
		Login:   login,
		Profile: DefaultProfile,
		Slots: internal.Schedule{
			{Time: "08:00-09:00", Days: week(breakfast, breakfast)},
			{Time: "09:00-10:00", Days: week(cell(internal.CategoryLearning, "Review"), free)},
			{Time: "10:00-12:00", Days: week(cell(internal.CategoryCoding, "Project work"), cell(internal.CategoryCoding, "Side project"))},
			{Time: "12:00-13:00", Days: week(lunch, lunch)},
			{Time: "13:00-15:00", Days: week(cell(internal.CategoryCoding, "Project work"), cell(internal.CategorySocial, "Friends"))},
			{Time: "15:00-16:00", Days: week(cell(internal.CategorySocial, "Peer evaluations"), free)},
			{Time: "16:00-17:00", Days: week(cell(internal.CategoryLearning, "Documentation"), cell(internal.CategoryLearning, "Reading"))},
			{Time: "18:00-19:00", Days: week(cell(internal.CategoryWellness, "Sport"), cell(internal.CategoryWellness, "Walk"))},
			{Time: "19:00-20:00", Days: week(dinner, dinner)},
			{Time: "20:00-21:00", Days: week(cell(internal.CategoryCoding, "Exercises"), free)},
		},
	}
}
