package judge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Judge0 terminal status ids. Earlier ids (1,2) are queue states and never
// appear on a wait=true submission.
const (
	StatusAccepted    = 3
	StatusWrongAnswer = 4
)

// Submission is the request body for a Judge0 run.
type Submission struct {
	SourceCode     string `json:"source_code"`
	LanguageID     int    `json:"language_id"`
	Stdin          string `json:"stdin"`
	ExpectedOutput string `json:"expected_output"`
}

type SubmissionStatus struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
}

// SubmissionResult is Judge0's synchronous response.
type SubmissionResult struct {
	Token         string           `json:"token"`
	Status        SubmissionStatus `json:"status"`
	Stdout        string           `json:"stdout"`
	Stderr        string           `json:"stderr"`
	CompileOutput string           `json:"compile_output"`
	Message       string           `json:"message"`
}

// Submitter dispatches one submission and blocks for its terminal result.
type Submitter interface {
	Submit(ctx context.Context, sub Submission) (SubmissionResult, error)
}

// Client talks to a Judge0-compatible API over HTTP.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Submit posts the submission with wait=true so the terminal result comes
// back in one round trip. The client timeout bounds the whole call.
func (c *Client) Submit(ctx context.Context, sub Submission) (SubmissionResult, error) {
	body, err := json.Marshal(sub)
	if err != nil {
		return SubmissionResult{}, fmt.Errorf("marshal submission: %w", err)
	}
	url := c.baseURL + "/submissions?base64_encoded=false&wait=true"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return SubmissionResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-rapidapi-key", c.apiKey)
		req.Header.Set("x-rapidapi-host", "judge0-ce.p.rapidapi.com")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return SubmissionResult{}, fmt.Errorf("judge request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return SubmissionResult{}, fmt.Errorf("read judge response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return SubmissionResult{}, fmt.Errorf("judge returned status %d: %s", resp.StatusCode, string(data))
	}

	var result SubmissionResult
	if err := json.Unmarshal(data, &result); err != nil {
		return SubmissionResult{}, fmt.Errorf("parse judge response: %w", err)
	}
	return result, nil
}
