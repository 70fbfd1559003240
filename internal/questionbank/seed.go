package questionbank

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type seedFile struct {
	Questions []Question `yaml:"questions"`
}

// LoadSeedFile reads and validates a YAML question bank file.
func LoadSeedFile(filename string) ([]Question, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read seed file %s: %w", filename, err)
	}

	var sf seedFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parse seed YAML: %w", err)
	}
	if err := validateSeed(sf.Questions); err != nil {
		return nil, fmt.Errorf("invalid seed file: %w", err)
	}
	return sf.Questions, nil
}

func validateSeed(questions []Question) error {
	if len(questions) == 0 {
		return fmt.Errorf("seed file contains no questions")
	}
	for i, q := range questions {
		if q.Title == "" {
			return fmt.Errorf("question %d is missing a title", i)
		}
		if q.Description == "" {
			return fmt.Errorf("question %q is missing a description", q.Title)
		}
		switch q.Difficulty {
		case "Easy", "Medium", "Hard":
		default:
			return fmt.Errorf("question %q has unknown difficulty %q", q.Title, q.Difficulty)
		}
		if len(q.TestCases) == 0 {
			return fmt.Errorf("question %q has no test cases", q.Title)
		}
		for j, tc := range q.TestCases {
			if tc.Output == "" {
				return fmt.Errorf("question %q test case %d has no expected output", q.Title, j)
			}
		}
	}
	return nil
}
