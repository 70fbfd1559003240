package questionbank

// Example is a worked input/output pair shown to the candidate.
type Example struct {
	Input       string `json:"input" yaml:"input"`
	Output      string `json:"output" yaml:"output"`
	Explanation string `json:"explanation,omitempty" yaml:"explanation,omitempty"`
}

// TestCase is a hidden test case used for execution, never shown in full.
type TestCase struct {
	Input  string `json:"input" yaml:"input"`
	Output string `json:"output" yaml:"output"`
}

// Question is one DSA problem in the bank.
type Question struct {
	ID          string     `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description" yaml:"description"`
	Difficulty  string     `json:"difficulty" yaml:"difficulty"` // Easy, Medium, Hard
	Company     string     `json:"company,omitempty" yaml:"company,omitempty"`
	Examples    []Example  `json:"examples,omitempty" yaml:"examples,omitempty"`
	TestCases   []TestCase `json:"test_cases" yaml:"test_cases"`
	Constraints string     `json:"constraints,omitempty" yaml:"constraints,omitempty"`
}
