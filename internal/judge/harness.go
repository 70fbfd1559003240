package judge

import (
	"context"
	"strings"
)

// TestCase is one hidden input/expected-output pair from the question bank.
type TestCase struct {
	Input    string `json:"input"`
	Expected string `json:"output"`
}

// Verdict is the outcome for a single test case. One is recorded per input
// case no matter what fails along the way.
type Verdict struct {
	Index    int    `json:"test_case"` // 1-based, matches input order
	Input    string `json:"input"`
	Expected string `json:"expected_output"`
	Actual   string `json:"actual_output"`
	Status   string `json:"status"`
	Passed   bool   `json:"passed"`
	Error    string `json:"error,omitempty"`
}

// Summary aggregates the verdicts of one execution run. Recomputed wholesale
// on every run, never patched incrementally.
type Summary struct {
	AllPassed bool      `json:"all_passed"`
	Verdicts  []Verdict `json:"results"`
	Total     int       `json:"total_tests"`
	Passed    int       `json:"passed_tests"`
}

// Harness executes submitted source against test cases on a remote judge.
type Harness struct {
	submitter Submitter
}

func NewHarness(s Submitter) *Harness {
	return &Harness{submitter: s}
}

// Run adapts, submits and scores every test case sequentially. Transport
// and judge errors are folded into failed verdicts; the batch always
// completes with exactly len(cases) verdicts in input order.
func (h *Harness) Run(ctx context.Context, source, language string, cases []TestCase) Summary {
	verdicts := make([]Verdict, 0, len(cases))
	allPassed := true

	for i, tc := range cases {
		v := h.runOne(ctx, source, language, i, tc)
		if !v.Passed {
			allPassed = false
		}
		verdicts = append(verdicts, v)
	}

	passed := 0
	for _, v := range verdicts {
		if v.Passed {
			passed++
		}
	}
	return Summary{
		AllPassed: allPassed,
		Verdicts:  verdicts,
		Total:     len(cases),
		Passed:    passed,
	}
}

func (h *Harness) runOne(ctx context.Context, source, language string, i int, tc TestCase) Verdict {
	expected := strings.TrimSpace(tc.Expected)
	v := Verdict{
		Index:    i + 1,
		Input:    tc.Input,
		Expected: expected,
	}

	adapted := Adapt(source, language, tc.Input)
	result, err := h.submitter.Submit(ctx, Submission{
		SourceCode:     adapted,
		LanguageID:     LanguageID(language),
		Stdin:          tc.Input,
		ExpectedOutput: expected,
	})
	if err != nil {
		v.Status = "Error"
		v.Error = err.Error()
		return v
	}

	stdout := strings.TrimSpace(result.Stdout)
	v.Actual = stdout
	v.Status = result.Status.Description

	normExpected := Normalize(expected)
	normActual := Normalize(stdout)

	switch result.Status.ID {
	case StatusAccepted:
		v.Passed = true
	case StatusWrongAnswer:
		// Expected strings are human-authored, so a byte-exact miss at the
		// judge still counts when the canonical forms agree.
		if strings.EqualFold(normExpected, normActual) || normExpected == normActual {
			v.Passed = true
		}
	}
	if v.Passed {
		return v
	}

	v.Error = diagnostic(result)
	if result.Status.ID == StatusWrongAnswer && normExpected != normActual {
		got := stdout
		truncated := ""
		if len(got) > 200 {
			got = got[:200]
			truncated = "... (truncated)"
		}
		v.Error = "Output mismatch. Expected: " + expected + ", Got: " + got + truncated
	}
	return v
}

// diagnostic surfaces the most specific judge output available.
func diagnostic(r SubmissionResult) string {
	if s := strings.TrimSpace(r.Stderr); s != "" {
		return s
	}
	if s := strings.TrimSpace(r.CompileOutput); s != "" {
		return s
	}
	return strings.TrimSpace(r.Message)
}
