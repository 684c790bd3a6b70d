package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/parallax/internal/model"
)

// Checker defines the interface for checking one piece of claim text
type Checker interface {
	Check(ctx context.Context, text string) (*model.Verdict, error)
}

// CheckJob represents a single claim-text check job
type CheckJob struct {
	Text    string
	Checker Checker
}

// Execute executes the check job
func (j *CheckJob) Execute(ctx context.Context) Result {
	verdict, err := j.Checker.Check(ctx, j.Text)
	return &CheckResult{
		Text:    j.Text,
		Verdict: verdict,
		Error:   err,
	}
}

// CheckResult represents the result of a check job
type CheckResult struct {
	Text    string
	Verdict *model.Verdict
	Error   error
}

// GetError returns the error from the check result
func (r *CheckResult) GetError() error {
	return r.Error
}

// BatchProcessor checks multiple claim texts concurrently
type BatchProcessor struct {
	checker     Checker
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(checker Checker, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		checker:     checker,
		concurrency: concurrency,
	}
}

// ProcessTexts checks multiple claim texts concurrently
func (b *BatchProcessor) ProcessTexts(ctx context.Context, texts []string) []*CheckResult {
	if len(texts) == 0 {
		return []*CheckResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for _, text := range texts {
		job := &CheckJob{
			Text:    text,
			Checker: b.checker,
		}
		pool.Submit(job)
	}

	results := pool.Wait()

	checkResults := make([]*CheckResult, len(results))
	for i, result := range results {
		checkResults[i] = result.(*CheckResult)
	}

	return checkResults
}

// ProcessFile reads claim texts from a file and checks them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*CheckResult, error) {
	texts, err := ReadTextsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read claims: %w", err)
	}

	return b.ProcessTexts(ctx, texts), nil
}

// ReadTextsFromFile reads claim texts from a file (one per line)
func ReadTextsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var texts []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Deduplicate identical claim lines
		if !seen[line] {
			seen[line] = true
			texts = append(texts, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return texts, nil
}
