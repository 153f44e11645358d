package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/claimguard/internal/model"
)

// Answerer defines the interface for answering one query
type Answerer interface {
	Answer(ctx context.Context, query string) (*model.Report, error)
}

// AskJob represents one query to answer
type AskJob struct {
	Query    string
	Answerer Answerer
}

// Execute runs the query through the pipeline
func (j *AskJob) Execute(ctx context.Context) Result {
	report, err := j.Answerer.Answer(ctx, j.Query)
	return &AskResult{
		Query:  j.Query,
		Report: report,
		Error:  err,
	}
}

// AskResult represents the result of an ask job
type AskResult struct {
	Query  string
	Report *model.Report
	Error  error
}

// GetError returns the error from the ask result
func (r *AskResult) GetError() error {
	return r.Error
}

// BatchProcessor answers multiple queries concurrently.
// Each query gets its own pipeline run; the shared ledger and cache are
// the only state crossing runs.
type BatchProcessor struct {
	answerer    Answerer
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(answerer Answerer, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		answerer:    answerer,
		concurrency: concurrency,
	}
}

// ProcessQueries answers multiple queries concurrently
func (b *BatchProcessor) ProcessQueries(ctx context.Context, queries []string) []*AskResult {
	if len(queries) == 0 {
		return []*AskResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	for _, query := range queries {
		pool.Submit(&AskJob{
			Query:    query,
			Answerer: b.answerer,
		})
	}

	results := pool.Wait()

	askResults := make([]*AskResult, len(results))
	for i, result := range results {
		askResults[i] = result.(*AskResult)
	}

	return askResults
}

// ReadQueriesFromFile reads queries from a file (one per line)
func ReadQueriesFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var queries []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Deduplicate queries
		if !seen[line] {
			seen[line] = true
			queries = append(queries, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return queries, nil
}
