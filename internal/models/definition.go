package models

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// TestDefinition is the YAML authoring format for a whole test:
// categories, subcategories and questions in one file. Import creates
// the full graph in a single transaction.
type TestDefinition struct {
	Title            string               `yaml:"title"`
	Description      string               `yaml:"description"`
	TimePerQuestion  int                  `yaml:"time_per_question"`
	RegistrationOpen *bool                `yaml:"registration_open,omitempty"`
	Categories       []CategoryDefinition `yaml:"categories"`
}

type CategoryDefinition struct {
	Name          string                  `yaml:"name"`
	Description   string                  `yaml:"description,omitempty"`
	Subcategories []SubcategoryDefinition `yaml:"subcategories"`
}

type SubcategoryDefinition struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description,omitempty"`
	Questions   []string `yaml:"questions"`
}

// LoadTestDefinition reads and parses a test definition YAML file.
func LoadTestDefinition(path string) (*TestDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read test definition: %w", err)
	}
	return ParseTestDefinition(data)
}

// ParseTestDefinition parses and validates raw YAML.
func ParseTestDefinition(data []byte) (*TestDefinition, error) {
	var def TestDefinition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("failed to unmarshal test definition YAML: %w", err)
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// Validate checks the shape the core relies on: a title, a positive
// per-question time, and at least one question under every subcategory.
func (d *TestDefinition) Validate() error {
	if d.Title == "" {
		return fmt.Errorf("test definition has no title")
	}
	if d.TimePerQuestion <= 0 {
		return fmt.Errorf("time_per_question must be positive, got %d", d.TimePerQuestion)
	}
	if len(d.Categories) == 0 {
		return fmt.Errorf("test definition has no categories")
	}
	for ci, cat := range d.Categories {
		if cat.Name == "" {
			return fmt.Errorf("category %d has no name", ci+1)
		}
		if len(cat.Subcategories) == 0 {
			return fmt.Errorf("category %q has no subcategories", cat.Name)
		}
		for _, sub := range cat.Subcategories {
			if sub.Name == "" {
				return fmt.Errorf("category %q has a subcategory with no name", cat.Name)
			}
			if len(sub.Questions) == 0 {
				return fmt.Errorf("subcategory %q has no questions", sub.Name)
			}
			for qi, text := range sub.Questions {
				if text == "" {
					return fmt.Errorf("subcategory %q question %d is empty", sub.Name, qi+1)
				}
			}
		}
	}
	return nil
}

// TotalQuestions counts every question in the definition.
func (d *TestDefinition) TotalQuestions() int {
	n := 0
	for _, cat := range d.Categories {
		for _, sub := range cat.Subcategories {
			n += len(sub.Questions)
		}
	}
	return n
}
