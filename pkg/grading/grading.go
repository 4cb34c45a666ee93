package grading

import (
	"github.com/shopspring/decimal"

	"github.com/kylethumm90/solar-review-hub-sub000/pkg/enums"
)

// RatedAnswer is one per-category rating paired with its question weight.
type RatedAnswer struct {
	Rating int
	Weight float64
}

// threshold maps a minimum average score (inclusive) onto a letter grade.
// The table is the single source of truth for grade cutoffs and is ordered
// from best to worst; ForScore walks it top-down.
type threshold struct {
	min   decimal.Decimal
	grade enums.Grade
}

var gradeThresholds = []threshold{
	{decimal.RequireFromString("4.8"), enums.GradeAPlus},
	{decimal.RequireFromString("4.5"), enums.GradeA},
	{decimal.RequireFromString("4.2"), enums.GradeAMinus},
	{decimal.RequireFromString("3.9"), enums.GradeBPlus},
	{decimal.RequireFromString("3.6"), enums.GradeB},
	{decimal.RequireFromString("3.3"), enums.GradeBMinus},
	{decimal.RequireFromString("3.0"), enums.GradeCPlus},
	{decimal.RequireFromString("2.7"), enums.GradeC},
	{decimal.RequireFromString("2.4"), enums.GradeCMinus},
	{decimal.RequireFromString("2.1"), enums.GradeDPlus},
	{decimal.RequireFromString("1.8"), enums.GradeD},
	{decimal.RequireFromString("1.5"), enums.GradeDMinus},
}

// WeightedAverage computes Σ(rating×weight)/Σ(weight) over the provided
// answers, rounded to two decimal places. Answers with non-positive weights
// contribute nothing to the weighted form; when no positive weight exists the
// computation degrades to the unweighted arithmetic mean. The second return
// value is false when there are no answers at all, which callers must render
// as the NR sentinel rather than a zero score.
func WeightedAverage(answers []RatedAnswer) (float64, bool) {
	if len(answers) == 0 {
		return 0, false
	}

	weightedSum := decimal.Zero
	weightTotal := decimal.Zero
	plainSum := decimal.Zero

	for _, a := range answers {
		rating := decimal.NewFromInt(int64(a.Rating))
		plainSum = plainSum.Add(rating)
		if a.Weight > 0 {
			weight := decimal.NewFromFloat(a.Weight)
			weightedSum = weightedSum.Add(rating.Mul(weight))
			weightTotal = weightTotal.Add(weight)
		}
	}

	var avg decimal.Decimal
	if weightTotal.IsPositive() {
		avg = weightedSum.DivRound(weightTotal, 2)
	} else {
		avg = plainSum.DivRound(decimal.NewFromInt(int64(len(answers))), 2)
	}

	result, _ := avg.Float64()
	return result, true
}

// ForScore buckets a numeric average into its letter grade. Scores below the
// lowest cutoff grade as F.
func ForScore(avg float64) enums.Grade {
	score := decimal.NewFromFloat(avg).Round(2)
	for _, t := range gradeThresholds {
		if score.GreaterThanOrEqual(t.min) {
			return t.grade
		}
	}
	return enums.GradeF
}

// ForAverage folds WeightedAverage and ForScore together: an empty answer set
// yields the NR sentinel and no numeric score.
func ForAverage(answers []RatedAnswer) (enums.Grade, float64, bool) {
	avg, ok := WeightedAverage(answers)
	if !ok {
		return enums.GradeNotRated, 0, false
	}
	return ForScore(avg), avg, true
}

// ForCompanyScores grades a company from the average scores of its approved
// reviews. Each review average carries equal weight.
func ForCompanyScores(reviewAverages []float64) (enums.Grade, float64, bool) {
	if len(reviewAverages) == 0 {
		return enums.GradeNotRated, 0, false
	}
	sum := decimal.Zero
	for _, avg := range reviewAverages {
		sum = sum.Add(decimal.NewFromFloat(avg))
	}
	overall := sum.DivRound(decimal.NewFromInt(int64(len(reviewAverages))), 2)
	result, _ := overall.Float64()
	return ForScore(result), result, true
}
