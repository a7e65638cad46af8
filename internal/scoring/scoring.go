// Package scoring turns a session's recorded answers into percentage
// rollups. Everything here is a pure function over its inputs: no
// database, no clock, recomputable at any time. Result tables elsewhere
// are views over these functions, never a second source of truth.
package scoring

import (
	"math"

	"github.com/Harshad932/Infinova-sub000/internal/models"
)

// QuestionInfo is the slice of a question the calculator needs. Callers
// fill CategoryName/SubcategoryName with display fallbacks ("Unknown
// category") when authoring data was deleted after the fact.
type QuestionInfo struct {
	ID              uint
	CategoryID      uint
	CategoryName    string
	SubcategoryID   uint
	SubcategoryName string
}

// ScoreRow is one rollup line at category or subcategory granularity.
type ScoreRow struct {
	ID             uint    `json:"id"`
	Name           string  `json:"name"`
	TotalQuestions int     `json:"totalQuestions"`
	MarksObtained  int     `json:"marksObtained"`
	MaxMarks       int     `json:"maxMarks"`
	Percentage     float64 `json:"percentage"`
}

// Summary is the full rollup for one session.
type Summary struct {
	Subcategories []ScoreRow `json:"subcategories"`
	Categories    []ScoreRow `json:"categories"`
	// Overall is the unweighted arithmetic mean of category
	// percentages: each category counts equally regardless of how many
	// questions it holds. Inherited from the source design, on purpose.
	Overall float64 `json:"overallPercentage"`
}

// Distribution buckets completed-session overall percentages.
type Distribution struct {
	Excellent int `json:"excellent"` // >= 80
	Good      int `json:"good"`      // 60-79
	Average   int `json:"average"`   // 40-59
	Poor      int `json:"poor"`      // < 40
}

// Rollup aggregates marks over the full question set of a test. An
// unanswered question contributes zero marks but still counts toward the
// denominator, so percentages reflect the whole test, not just the
// answered part.
func Rollup(questions []QuestionInfo, marksByQuestion map[uint]int) Summary {
	type acc struct {
		row ScoreRow
	}
	var (
		subOrder []uint
		catOrder []uint
		subs     = make(map[uint]*acc)
		cats     = make(map[uint]*acc)
	)

	for _, q := range questions {
		marks := marksByQuestion[q.ID]

		s, ok := subs[q.SubcategoryID]
		if !ok {
			s = &acc{row: ScoreRow{ID: q.SubcategoryID, Name: q.SubcategoryName}}
			subs[q.SubcategoryID] = s
			subOrder = append(subOrder, q.SubcategoryID)
		}
		s.row.TotalQuestions++
		s.row.MarksObtained += marks

		c, ok := cats[q.CategoryID]
		if !ok {
			c = &acc{row: ScoreRow{ID: q.CategoryID, Name: q.CategoryName}}
			cats[q.CategoryID] = c
			catOrder = append(catOrder, q.CategoryID)
		}
		c.row.TotalQuestions++
		c.row.MarksObtained += marks
	}

	finish := func(order []uint, m map[uint]*acc) []ScoreRow {
		rows := make([]ScoreRow, 0, len(order))
		for _, id := range order {
			row := m[id].row
			row.MaxMarks = row.TotalQuestions * models.MaxMarksPerQuestion
			row.Percentage = percentage(row.MarksObtained, row.MaxMarks)
			rows = append(rows, row)
		}
		return rows
	}

	summary := Summary{
		Subcategories: finish(subOrder, subs),
		Categories:    finish(catOrder, cats),
	}

	var sum float64
	for _, row := range summary.Categories {
		sum += row.Percentage
	}
	if n := len(summary.Categories); n > 0 {
		summary.Overall = round2(sum / float64(n))
	}
	return summary
}

// MeanOverall is the cross-session mean of overall percentages.
func MeanOverall(overalls []float64) float64 {
	if len(overalls) == 0 {
		return 0
	}
	var sum float64
	for _, v := range overalls {
		sum += v
	}
	return round2(sum / float64(len(overalls)))
}

// Distribute buckets overall percentages into the four performance
// bands used by the admin results view.
func Distribute(overalls []float64) Distribution {
	var d Distribution
	for _, v := range overalls {
		switch {
		case v >= 80:
			d.Excellent++
		case v >= 60:
			d.Good++
		case v >= 40:
			d.Average++
		default:
			d.Poor++
		}
	}
	return d
}

func percentage(obtained, max int) float64 {
	if max == 0 {
		return 0
	}
	return round2(float64(obtained) / float64(max) * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
