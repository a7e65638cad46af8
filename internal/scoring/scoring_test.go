package scoring

import "testing"

func q(id, catID uint, catName string, subID uint, subName string) QuestionInfo {
	return QuestionInfo{ID: id, CategoryID: catID, CategoryName: catName, SubcategoryID: subID, SubcategoryName: subName}
}

func TestRollup_SingleSubcategory(t *testing.T) {
	questions := []QuestionInfo{
		q(1, 10, "Verbal", 100, "Vocabulary"),
		q(2, 10, "Verbal", 100, "Vocabulary"),
		q(3, 10, "Verbal", 100, "Vocabulary"),
	}
	marks := map[uint]int{1: 5, 2: 3, 3: 4}

	got := Rollup(questions, marks)

	if len(got.Subcategories) != 1 || len(got.Categories) != 1 {
		t.Fatalf("expected 1 subcategory and 1 category, got %d/%d", len(got.Subcategories), len(got.Categories))
	}
	sub := got.Subcategories[0]
	if sub.MarksObtained != 12 || sub.MaxMarks != 15 {
		t.Errorf("subcategory marks = %d/%d, want 12/15", sub.MarksObtained, sub.MaxMarks)
	}
	if sub.Percentage != 80.0 {
		t.Errorf("subcategory percentage = %v, want 80.0", sub.Percentage)
	}
	if got.Overall != 80.0 {
		t.Errorf("overall = %v, want 80.0", got.Overall)
	}
}

func TestRollup_OverallIsUnweightedCategoryMean(t *testing.T) {
	// Category A has 4 questions, category B has 1. The overall must
	// average the two category percentages, not the raw marks.
	questions := []QuestionInfo{
		q(1, 1, "A", 11, "A1"),
		q(2, 1, "A", 11, "A1"),
		q(3, 1, "A", 12, "A2"),
		q(4, 1, "A", 12, "A2"),
		q(5, 2, "B", 21, "B1"),
	}
	marks := map[uint]int{1: 4, 2: 4, 3: 4, 4: 4, 5: 2}

	got := Rollup(questions, marks)

	if len(got.Categories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(got.Categories))
	}
	if got.Categories[0].Percentage != 80.0 {
		t.Errorf("category A percentage = %v, want 80.0", got.Categories[0].Percentage)
	}
	if got.Categories[1].Percentage != 40.0 {
		t.Errorf("category B percentage = %v, want 40.0", got.Categories[1].Percentage)
	}
	if got.Overall != 60.0 {
		t.Errorf("overall = %v, want 60.0 (mean of 80 and 40)", got.Overall)
	}
}

func TestRollup_UnansweredCountsTowardDenominator(t *testing.T) {
	questions := []QuestionInfo{
		q(1, 1, "A", 11, "A1"),
		q(2, 1, "A", 11, "A1"),
	}
	// Question 2 was never answered.
	marks := map[uint]int{1: 5}

	got := Rollup(questions, marks)

	sub := got.Subcategories[0]
	if sub.TotalQuestions != 2 || sub.MaxMarks != 10 {
		t.Errorf("denominator = %d questions / %d max marks, want 2/10", sub.TotalQuestions, sub.MaxMarks)
	}
	if sub.Percentage != 50.0 {
		t.Errorf("percentage = %v, want 50.0", sub.Percentage)
	}
}

func TestRollup_EmptyInputs(t *testing.T) {
	got := Rollup(nil, nil)
	if len(got.Subcategories) != 0 || len(got.Categories) != 0 || got.Overall != 0 {
		t.Errorf("empty rollup not zero-valued: %+v", got)
	}
}

func TestRollup_PreservesFirstEncounterOrder(t *testing.T) {
	questions := []QuestionInfo{
		q(1, 2, "Second", 20, "S1"),
		q(2, 1, "First", 10, "F1"),
		q(3, 2, "Second", 20, "S1"),
	}
	got := Rollup(questions, map[uint]int{})

	if got.Categories[0].Name != "Second" || got.Categories[1].Name != "First" {
		t.Errorf("category order = %q, %q; want first-encounter order", got.Categories[0].Name, got.Categories[1].Name)
	}
}

func TestRollup_RoundsToTwoDecimals(t *testing.T) {
	questions := []QuestionInfo{
		q(1, 1, "A", 11, "A1"),
		q(2, 1, "A", 11, "A1"),
		q(3, 1, "A", 11, "A1"),
	}
	marks := map[uint]int{1: 1, 2: 1, 3: 3} // 5/15
	got := Rollup(questions, marks)

	if got.Subcategories[0].Percentage != 33.33 {
		t.Errorf("percentage = %v, want 33.33", got.Subcategories[0].Percentage)
	}
}

func TestMeanOverall(t *testing.T) {
	tests := []struct {
		name     string
		overalls []float64
		want     float64
	}{
		{name: "empty", overalls: nil, want: 0},
		{name: "single", overalls: []float64{72.5}, want: 72.5},
		{name: "several", overalls: []float64{80, 40, 60}, want: 60},
		{name: "rounds", overalls: []float64{50, 50, 100}, want: 66.67},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := MeanOverall(tc.overalls); got != tc.want {
				t.Errorf("MeanOverall(%v) = %v, want %v", tc.overalls, got, tc.want)
			}
		})
	}
}

func TestDistribute(t *testing.T) {
	overalls := []float64{95, 80, 79.99, 60, 59.99, 40, 39.99, 0}
	got := Distribute(overalls)
	want := Distribution{Excellent: 2, Good: 2, Average: 2, Poor: 2}
	if got != want {
		t.Errorf("Distribute = %+v, want %+v", got, want)
	}
}
