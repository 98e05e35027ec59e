package service

import (
	"fmt"
	"time"

	"github.com/johnfercher/maroto/pkg/color"
	"github.com/johnfercher/maroto/pkg/consts"
	"github.com/johnfercher/maroto/pkg/pdf"
	"github.com/johnfercher/maroto/pkg/props"
	"github.com/yourname/blackholeescape/internal"
)

var weekdays = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

var tableBackground = &color.Color{Red: 240, Green: 240, Blue: 240}

// RenderScheduleReport builds a PDF with the weekly grid, the metrics and the
// suggestions of one advice pass.
func RenderScheduleReport(doc *internal.ScheduleDocument, advice internal.Advice, generatedAt time.Time) ([]byte, error) {
	m := pdf.NewMaroto(consts.Landscape, consts.A4)
	m.SetPageMargins(15, 10, 15)

	m.RegisterHeader(func() {
		m.Row(10, func() {
			m.Col(12, func() {
				m.Text("Weekly schedule: "+doc.Login, props.Text{
					Top:   3,
					Style: consts.Bold,
					Align: consts.Center,
					Size:  16,
				})
			})
		})
		m.Row(8, func() {
			m.Col(12, func() {
				m.Text("Generated "+generatedAt.Format("2006-01-02 15:04"), props.Text{
					Align: consts.Center,
					Size:  10,
				})
			})
		})
	})

	header := append([]string{"Time"}, weekdays...)
	rows := make([][]string, 0, len(doc.Slots))
	for _, slot := range doc.Slots {
		row := []string{slot.Time}
		for i := range weekdays {
			row = append(row, cellText(slot, i))
		}
		rows = append(rows, row)
	}
	m.TableList(header, rows, props.TableList{
		HeaderProp:           props.TableListContent{Size: 9},
		ContentProp:          props.TableListContent{Size: 8},
		Align:                consts.Center,
		AlternatedBackground: tableBackground,
		HeaderContentSpace:   1,
	})

	a := advice.Analysis
	sectionTitle(m, "Metrics")
	m.TableList([]string{"Metric", "Value"}, [][]string{
		{"Coding hours", fmt.Sprintf("%.1f", a.Hours.Coding)},
		{"Break hours", fmt.Sprintf("%.1f", a.Hours.Break)},
		{"Social hours", fmt.Sprintf("%.1f", a.Hours.Social)},
		{"Learning hours", fmt.Sprintf("%.1f", a.Hours.Learning)},
		{"Wellness hours", fmt.Sprintf("%.1f", a.Hours.Wellness)},
		{"Longest coding streak", fmt.Sprintf("%d", a.MaxConsecutiveCodingStreak)},
		{"Late-night sessions", fmt.Sprintf("%d", a.LateNightSessionCount)},
		{"Meal breaks", fmt.Sprintf("%d", a.MealSlotConsistency)},
		{"Balance score", fmt.Sprintf("%.0f%%", a.BalanceScore*100)},
	}, props.TableList{
		HeaderProp:           props.TableListContent{Size: 10, GridSizes: []uint{6, 6}},
		ContentProp:          props.TableListContent{Size: 10, GridSizes: []uint{6, 6}},
		AlternatedBackground: tableBackground,
		HeaderContentSpace:   1,
	})

	sectionTitle(m, "Suggestions")
	suggestionRows := make([][]string, 0, len(advice.Suggestions))
	for _, s := range advice.Suggestions {
		accepted := ""
		if s.Accepted {
			accepted = "yes"
		}
		suggestionRows = append(suggestionRows, []string{string(s.Priority), s.Text, accepted})
	}
	if len(suggestionRows) > 0 {
		m.TableList([]string{"Priority", "Suggestion", "Accepted"}, suggestionRows, props.TableList{
			HeaderProp:         props.TableListContent{Size: 10, GridSizes: []uint{2, 8, 2}},
			ContentProp:        props.TableListContent{Size: 9, GridSizes: []uint{2, 8, 2}},
			HeaderContentSpace: 1,
		})
	}

	m.Row(20, func() {
		m.Col(12, func() {
			m.Text(advice.Summary, props.Text{Top: 5, Size: 10})
		})
	})

	buf, err := m.Output()
	if err != nil {
		return nil, fmt.Errorf("render schedule report: %w", err)
	}
	return buf.Bytes(), nil
}

func sectionTitle(m pdf.Maroto, title string) {
	m.Row(12, func() {
		m.Col(12, func() {
			m.Text(title, props.Text{Top: 5, Style: consts.Bold, Size: 12})
		})
	})
}

func cellText(slot internal.ScheduleSlot, day int) string {
	if day >= len(slot.Days) {
		return ""
	}
	d := slot.Days[day]
	if d.Label != "" {
		return d.Label
	}
	return string(d.Category)
}
