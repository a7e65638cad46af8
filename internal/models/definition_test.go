package models

import (
	"strings"
	"testing"
)

const validDefinition = `
title: Aptitude Assessment
description: General aptitude screening
time_per_question: 30
categories:
  - name: Verbal
    subcategories:
      - name: Vocabulary
        questions:
          - I enjoy learning new words.
          - I read regularly.
      - name: Comprehension
        questions:
          - I can summarize a passage quickly.
  - name: Numerical
    subcategories:
      - name: Arithmetic
        questions:
          - I am comfortable with mental math.
`

func TestParseTestDefinition(t *testing.T) {
	def, err := ParseTestDefinition([]byte(validDefinition))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if def.Title != "Aptitude Assessment" {
		t.Errorf("title = %q", def.Title)
	}
	if def.TimePerQuestion != 30 {
		t.Errorf("time_per_question = %d, want 30", def.TimePerQuestion)
	}
	if got := def.TotalQuestions(); got != 4 {
		t.Errorf("TotalQuestions = %d, want 4", got)
	}
	if len(def.Categories) != 2 {
		t.Fatalf("categories = %d, want 2", len(def.Categories))
	}
	if len(def.Categories[0].Subcategories) != 2 {
		t.Errorf("Verbal subcategories = %d, want 2", len(def.Categories[0].Subcategories))
	}
}

func TestParseTestDefinition_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "not yaml",
			yaml:    "title: [unclosed",
			wantErr: "unmarshal",
		},
		{
			name:    "missing title",
			yaml:    "time_per_question: 30\ncategories:\n  - name: A\n    subcategories:\n      - name: B\n        questions: [q]",
			wantErr: "no title",
		},
		{
			name:    "zero time per question",
			yaml:    "title: T\ncategories:\n  - name: A\n    subcategories:\n      - name: B\n        questions: [q]",
			wantErr: "time_per_question",
		},
		{
			name:    "no categories",
			yaml:    "title: T\ntime_per_question: 30",
			wantErr: "no categories",
		},
		{
			name:    "category without subcategories",
			yaml:    "title: T\ntime_per_question: 30\ncategories:\n  - name: A",
			wantErr: "no subcategories",
		},
		{
			name:    "subcategory without questions",
			yaml:    "title: T\ntime_per_question: 30\ncategories:\n  - name: A\n    subcategories:\n      - name: B",
			wantErr: "no questions",
		},
		{
			name:    "empty question text",
			yaml:    "title: T\ntime_per_question: 30\ncategories:\n  - name: A\n    subcategories:\n      - name: B\n        questions: [\"\"]",
			wantErr: "is empty",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseTestDefinition([]byte(tc.yaml))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error %q does not mention %q", err, tc.wantErr)
			}
		})
	}
}
