package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kidsread/kidsread-api/internal/models"
)

func sampleSummary() models.LearningSummary {
	return models.LearningSummary{
		TotalReadings:     12,
		CompletedReadings: 10,
		PassedReadings:    8,
		AverageScore:      7.5,
		AverageStars:      7.0,
		CompletionRate:    83.3,
		PassRate:          66.7,
		TotalStudyTime:    6.5,
		ImprovementTrend:  0.4,
		BestDay:           "Saturday",
		BestTimeSlot:      "in the evening",
	}
}

func sampleComparison() models.ClassComparison {
	return models.ClassComparison{
		ClassAverage:    6.8,
		ClassRank:       3,
		TotalClassmates: 24,
		Percentile:      87.5,
		StudentAvgScore: 7.5,
	}
}

func TestRenderAdviceIsDeterministic(t *testing.T) {
	first, err := RenderAdvice("Mia", KindWeek, sampleSummary(), sampleComparison())
	require.NoError(t, err)
	second, err := RenderAdvice("Mia", KindWeek, sampleSummary(), sampleComparison())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRenderAdviceSections(t *testing.T) {
	advice, err := RenderAdvice("Mia", KindWeek, sampleSummary(), sampleComparison())
	require.NoError(t, err)

	assert.Contains(t, advice, "Hi Mia!")
	assert.Contains(t, advice, "average score of 7.5 out of 10")
	assert.Contains(t, advice, "completion rate was 83.3%")
	assert.Contains(t, advice, "pass rate was 66.7%")
	assert.Contains(t, advice, "best reading day was Saturday")
	assert.Contains(t, advice, "you read best in the evening")
	assert.Contains(t, advice, "6.5 hours")
	assert.Contains(t, advice, "went up by 0.4 points")
	assert.Contains(t, advice, "next target is an average score of 8.0")
	assert.Contains(t, advice, "ranked 3 of 24")
	assert.Contains(t, advice, "ahead of 87.5%")
}

func TestRenderAdvicePeriodOpeningsDiffer(t *testing.T) {
	sum, cmp := sampleSummary(), sampleComparison()
	week, err := RenderAdvice("Mia", KindWeek, sum, cmp)
	require.NoError(t, err)
	month, err := RenderAdvice("Mia", KindMonth, sum, cmp)
	require.NoError(t, err)
	year, err := RenderAdvice("Mia", KindYear, sum, cmp)
	require.NoError(t, err)

	assert.NotEqual(t, week, month)
	assert.NotEqual(t, month, year)
	assert.Contains(t, week, "reading week")
	assert.Contains(t, month, "for the month")
	assert.Contains(t, year, "yearly summary")
}

func TestRenderAdviceTrendWording(t *testing.T) {
	sum := sampleSummary()

	sum.ImprovementTrend = -1.2
	advice, err := RenderAdvice("Mia", KindMonth, sum, sampleComparison())
	require.NoError(t, err)
	assert.Contains(t, advice, "slipped by 1.2 points")

	sum.ImprovementTrend = 0
	advice, err = RenderAdvice("Mia", KindMonth, sum, sampleComparison())
	require.NoError(t, err)
	assert.Contains(t, advice, "held steady")
}

func TestRenderAdviceNextTargetCappedAtTen(t *testing.T) {
	sum := sampleSummary()
	sum.AverageScore = 9.8
	advice, err := RenderAdvice("Mia", KindYear, sum, sampleComparison())
	require.NoError(t, err)
	assert.Contains(t, advice, "next target is an average score of 10.0")
}

func TestRenderShortAdviceImprovementWinsOverLowScore(t *testing.T) {
	sum := sampleSummary()
	sum.ImprovementTrend = 0.8
	sum.AverageScore = 6.0

	advice, stats := RenderShortAdvice(sum)
	assert.Contains(t, advice, "improved by 0.8 points")
	assert.Equal(t, 0.8, stats.ImprovementTrend)
	assert.Equal(t, 6.0, stats.AverageScore)
}

func TestRenderShortAdviceHighPerformance(t *testing.T) {
	sum := sampleSummary()
	sum.ImprovementTrend = 0
	sum.AverageScore = 8.5

	advice, _ := RenderShortAdvice(sum)
	assert.True(t, strings.Contains(advice, "high level"))
}

func TestRenderShortAdviceEncouragement(t *testing.T) {
	sum := sampleSummary()
	sum.ImprovementTrend = -0.3
	sum.AverageScore = 5.2

	advice, stats := RenderShortAdvice(sum)
	assert.Contains(t, advice, "read each story carefully")
	assert.Equal(t, sum.TotalReadings, stats.TotalReadings)
	assert.Equal(t, sum.CompletionRate, stats.CompletionRate)
}
