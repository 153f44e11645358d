package worker

import (
	"context"
	"errors"
	"os"
	"reflect"
	"testing"
	"time"

	"github.com/ppiankov/claimguard/internal/model"
)

// MockAnswerer implements Answerer
type MockAnswerer struct {
	ShouldError bool
}

func (m *MockAnswerer) Answer(ctx context.Context, query string) (*model.Report, error) {
	time.Sleep(10 * time.Millisecond) // Simulate work
	if m.ShouldError {
		return nil, errors.New("answer error")
	}
	return &model.Report{
		Query:       query,
		FinalAnswer: "An answer to: " + query,
	}, nil
}

func TestBatchProcessor_ProcessQueries(t *testing.T) {
	answerer := &MockAnswerer{}
	processor := NewBatchProcessor(answerer, 2)

	queries := []string{"first question", "second question", "third question"}
	ctx := context.Background()

	results := processor.ProcessQueries(ctx, queries)

	if len(results) != 3 {
		t.Errorf("expected 3 results, got %d", len(results))
	}

	successCount := 0
	for _, res := range results {
		if res.Error == nil {
			successCount++
			if res.Report == nil {
				t.Error("expected report for successful run")
			}
		} else {
			t.Errorf("unexpected error for %q: %v", res.Query, res.Error)
		}
	}

	if successCount != 3 {
		t.Errorf("expected 3 successes, got %d", successCount)
	}
}

func TestBatchProcessor_ProcessQueries_Error(t *testing.T) {
	answerer := &MockAnswerer{ShouldError: true}
	processor := NewBatchProcessor(answerer, 2)

	results := processor.ProcessQueries(context.Background(), []string{"doomed question"})

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}

	if results[0].Error == nil {
		t.Error("expected error, got nil")
	}
	if results[0].Report != nil {
		t.Error("expected nil report on error")
	}
}

func TestBatchProcessor_ProcessQueries_Empty(t *testing.T) {
	processor := NewBatchProcessor(&MockAnswerer{}, 2)

	results := processor.ProcessQueries(context.Background(), []string{})
	if len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}

func TestReadQueriesFromFile(t *testing.T) {
	content := `What is the capital of France?
# comment
How tall is the Eiffel Tower?

What is the capital of France?
When was the treaty signed?   `

	tmpfile, err := os.CreateTemp("", "queries")
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

	queries, err := ReadQueriesFromFile(tmpfile.Name())
	if err != nil {
		t.Fatalf("ReadQueriesFromFile failed: %v", err)
	}

	expected := []string{
		"What is the capital of France?",
		"How tall is the Eiffel Tower?",
		"When was the treaty signed?",
	}
	if !reflect.DeepEqual(queries, expected) {
		t.Errorf("expected %v, got %v", expected, queries)
	}
}

func TestReadQueriesFromFile_Missing(t *testing.T) {
	if _, err := ReadQueriesFromFile("/nonexistent/queries.txt"); err == nil {
		t.Error("expected error for missing file")
	}
}
