package worker

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/ppiankov/parallax/internal/model"
)

// MockChecker implements Checker interface
type MockChecker struct {
	ShouldError bool
}

func (m *MockChecker) Check(ctx context.Context, text string) (*model.Verdict, error) {
	time.Sleep(10 * time.Millisecond) // Simulate work
	if m.ShouldError {
		return nil, errors.New("check error")
	}
	return &model.Verdict{
		Input: text,
		Label: model.LabelMixed,
	}, nil
}

func TestBatchProcessor_ProcessTexts(t *testing.T) {
	checker := &MockChecker{}
	processor := NewBatchProcessor(checker, 2)

	texts := []string{
		"Unemployment fell to 3.9 percent in 2024.",
		"The dam produces 22,500 megawatts.",
		"Turnout rose by 12 points since 2016.",
	}
	ctx := context.Background()

	results := processor.ProcessTexts(ctx, texts)

	if len(results) != 3 {
		t.Errorf("expected 3 results, got %d", len(results))
	}

	successCount := 0
	for _, res := range results {
		if res.Error == nil {
			successCount++
			if res.Verdict == nil {
				t.Error("expected verdict for successful check")
			}
		} else {
			t.Errorf("unexpected error for %q: %v", res.Text, res.Error)
		}
	}

	if successCount != 3 {
		t.Errorf("expected 3 successes, got %d", successCount)
	}
}

func TestBatchProcessor_ProcessTexts_Error(t *testing.T) {
	checker := &MockChecker{ShouldError: true}
	processor := NewBatchProcessor(checker, 2)

	texts := []string{"Inflation doubled last year."}
	ctx := context.Background()

	results := processor.ProcessTexts(ctx, texts)

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}

	if results[0].Error == nil {
		t.Error("expected error, got nil")
	}
	if results[0].Verdict != nil {
		t.Error("expected nil verdict on error")
	}
}

func TestBatchProcessor_ProcessTexts_Empty(t *testing.T) {
	checker := &MockChecker{}
	processor := NewBatchProcessor(checker, 2)

	results := processor.ProcessTexts(context.Background(), []string{})
	if len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}

func TestReadTextsFromFile(t *testing.T) {
	content := `Unemployment fell to 3.9 percent in 2024.
# comment
The dam produces 22,500 megawatts.

Turnout rose by 12 points since 2016.   `

	tmpfile, err := os.CreateTemp("", "claims")
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		_ = os.Remove(tmpfile.Name())
	}()

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	texts, err := ReadTextsFromFile(tmpfile.Name())
	if err != nil {
		t.Fatalf("ReadTextsFromFile failed: %v", err)
	}

	expected := []string{
		"Unemployment fell to 3.9 percent in 2024.",
		"The dam produces 22,500 megawatts.",
		"Turnout rose by 12 points since 2016.",
	}
	if len(texts) != len(expected) {
		t.Fatalf("expected %d texts, got %d", len(expected), len(texts))
	}

	for i, text := range texts {
		if text != expected[i] {
			t.Errorf("expected %q at index %d, got %q", expected[i], i, text)
		}
	}
}

func TestReadTextsFromFile_NonExistent(t *testing.T) {
	_, err := ReadTextsFromFile("non_existent_file.txt")
	if err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}

func TestCheckResult_GetError(t *testing.T) {
	r1 := &CheckResult{Text: "claim", Error: nil}
	if r1.GetError() != nil {
		t.Errorf("expected nil error, got %v", r1.GetError())
	}

	expected := errors.New("check failed")
	r2 := &CheckResult{Text: "claim", Error: expected}
	if r2.GetError() != expected {
		t.Errorf("expected %v, got %v", expected, r2.GetError())
	}
}

func TestBatchProcessor_ProcessFile(t *testing.T) {
	content := "Claim one is about 40 percent.\nClaim two cites 2019 data.\n# comment\n\nClaim three quotes the minister.\n"

	tmpfile, err := os.CreateTemp("", "batch_claims")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Remove(tmpfile.Name()) }()

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	checker := &MockChecker{}
	processor := NewBatchProcessor(checker, 2)

	results, err := processor.ProcessFile(context.Background(), tmpfile.Name())
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}

	if len(results) != 3 {
		t.Errorf("expected 3 results, got %d", len(results))
	}
}

func TestBatchProcessor_ProcessFile_NonExistent(t *testing.T) {
	checker := &MockChecker{}
	processor := NewBatchProcessor(checker, 2)

	_, err := processor.ProcessFile(context.Background(), "no_such_file.txt")
	if err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}

func TestBatchProcessor_ProcessFile_Empty(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "empty_claims")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Remove(tmpfile.Name()) }()
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	checker := &MockChecker{}
	processor := NewBatchProcessor(checker, 2)

	results, err := processor.ProcessFile(context.Background(), tmpfile.Name())
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected 0 results for empty file, got %d", len(results))
	}
}

func TestReadTextsFromFile_Deduplication(t *testing.T) {
	content := `Unemployment fell to 3.9 percent in 2024.
Unemployment fell to 3.9 percent in 2024.`

	tmpfile, err := os.CreateTemp("", "claims_dedup")
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		_ = os.Remove(tmpfile.Name())
	}()

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	texts, err := ReadTextsFromFile(tmpfile.Name())
	if err != nil {
		t.Fatalf("ReadTextsFromFile failed: %v", err)
	}

	if len(texts) != 1 {
		t.Errorf("expected 1 text after deduplication, got %d", len(texts))
	}
}
