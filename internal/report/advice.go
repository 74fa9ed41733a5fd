package report

import (
	"fmt"
	"math"
	"strings"
	"text/template"

	"github.com/kidsread/kidsread-api/internal/models"
)

// adviceTemplate renders the long-form narrative. Every numeric field is
// pre-formatted so the output is byte-stable for identical inputs.
var adviceTemplate = template.Must(template.New("advice").Parse(`Hi {{.StudentName}}!

{{.Opening}}

Results: you read {{.TotalReadings}} books and finished {{.CompletedReadings}} of them, with an average score of {{.AverageScore}} out of 10. Your completion rate was {{.CompletionRate}}% and your pass rate was {{.PassRate}}%.

Strengths: your best reading day was {{.BestDay}}, and you read best {{.BestTimeSlot}}. Altogether you spent {{.StudyHours}} hours with your books.

{{.TrendLine}} A good next target is an average score of {{.NextTarget}}.

{{.Outlook}}

You are ranked {{.ClassRank}} of {{.TotalClassmates}} in your class, ahead of {{.Percentile}}% of your classmates. Keep it up!`))

type adviceContext struct {
	StudentName       string
	Opening           string
	TotalReadings     int
	CompletedReadings int
	AverageScore      string
	CompletionRate    string
	PassRate          string
	BestDay           string
	BestTimeSlot      string
	StudyHours        string
	TrendLine         string
	NextTarget        string
	Outlook           string
	ClassRank         int
	TotalClassmates   int
	Percentile        string
}

var openings = map[Kind]string{
	KindWeek:   "Here is how your reading week went.",
	KindMonth:  "Here is your reading summary for the month.",
	KindYear:   "What a year of reading! Here is your yearly summary.",
	KindCustom: "Here is your reading summary for the selected dates.",
}

var outlooks = map[Kind]string{
	KindWeek:   "Next week, try to pick one new book and finish every quiz you start.",
	KindMonth:  "Next month, aim for a steady rhythm: a few pages every day beats one long session.",
	KindYear:   "Next year, mix familiar favourites with books one grade level up to keep growing.",
	KindCustom: "For the days ahead, keep a steady pace and revisit the stories you enjoyed most.",
}

// RenderAdvice produces the multi-paragraph narrative for a period report.
// It is a pure function of its inputs; timestamps are the caller's concern.
func RenderAdvice(studentName string, kind Kind, sum models.LearningSummary, cmp models.ClassComparison) (string, error) {
	ctx := adviceContext{
		StudentName:       studentName,
		Opening:           openings[kind],
		TotalReadings:     sum.TotalReadings,
		CompletedReadings: sum.CompletedReadings,
		AverageScore:      formatScore(sum.AverageScore),
		CompletionRate:    formatScore(sum.CompletionRate),
		PassRate:          formatScore(sum.PassRate),
		BestDay:           orUnknown(sum.BestDay),
		BestTimeSlot:      orUnknown(sum.BestTimeSlot),
		StudyHours:        formatScore(sum.TotalStudyTime),
		TrendLine:         trendLine(sum.ImprovementTrend),
		NextTarget:        formatScore(nextTargetScore(sum.AverageScore)),
		Outlook:           outlooks[kind],
		ClassRank:         cmp.ClassRank,
		TotalClassmates:   cmp.TotalClassmates,
		Percentile:        formatScore(cmp.Percentile),
	}
	if ctx.Opening == "" {
		ctx.Opening = openings[KindCustom]
	}
	if ctx.Outlook == "" {
		ctx.Outlook = outlooks[KindCustom]
	}

	var builder strings.Builder
	if err := adviceTemplate.Execute(&builder, ctx); err != nil {
		return "", fmt.Errorf("render advice: %w", err)
	}
	return builder.String(), nil
}

// RenderShortAdvice picks a single-sentence advisory. Rules apply in priority
// order: improvement first, then sustained high performance, then
// encouragement.
func RenderShortAdvice(sum models.LearningSummary) (string, models.ShortAdviceStats) {
	stats := models.ShortAdviceStats{
		TotalReadings:    sum.TotalReadings,
		AverageScore:     sum.AverageScore,
		CompletionRate:   sum.CompletionRate,
		ImprovementTrend: sum.ImprovementTrend,
	}

	switch {
	case sum.ImprovementTrend > 0:
		return fmt.Sprintf("Great job! Your average score improved by %.1f points. Keep up the momentum!", sum.ImprovementTrend), stats
	case sum.AverageScore >= 8:
		return "Excellent work! You are reading at a high level. Keep your streak going!", stats
	default:
		return "Take your time and read each story carefully. A slower, careful read will lift your scores.", stats
	}
}

func trendLine(trend float64) string {
	switch {
	case trend > 0:
		return fmt.Sprintf("Your average score went up by %.1f points since the last period. Great progress!", trend)
	case trend < 0:
		return fmt.Sprintf("Your average score slipped by %.1f points since the last period. A little extra practice will turn that around.", -trend)
	default:
		return "Your average score held steady since the last period."
	}
}

// nextTargetScore suggests the next target: half a point above the current
// average, rounded to one decimal and capped at a perfect 10.
func nextTargetScore(average float64) float64 {
	target := math.Round((average+0.5)*10) / 10
	if target > 10 {
		return 10
	}
	return target
}

func formatScore(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

func orUnknown(label string) string {
	if label == "" {
		return "not recorded yet"
	}
	return label
}
