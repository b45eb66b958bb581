package document

import (
	"context"
	"runtime"
	"sync"

	"github.com/framecut/framecut/internal/geometry"
	"github.com/framecut/framecut/internal/model"
)

// BatchItem is one row of a batch generation run.
type BatchItem struct {
	Name    string
	Request geometry.BuildRequest
}

// BatchResult pairs a batch item with its outcome. Exactly one of Doc and
// Err is set.
type BatchResult struct {
	Name string
	Doc  *model.GeometryDocument
	Err  error
}

// RunBatch builds the documents for all items concurrently. Failures are
// per-item: a bad row yields a BatchResult with Err set and never aborts the
// rest of the batch. Results come back in input order. Context cancellation
// stops scheduling new items; already running ones finish.
func RunBatch(ctx context.Context, eng *geometry.Engine, items []BatchItem, workers int) []BatchResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]BatchResult, len(items))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i, item := range items {
		if ctx.Err() != nil {
			results[i] = BatchResult{Name: item.Name, Err: ctx.Err()}
			continue
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, item BatchItem) {
			defer wg.Done()
			defer func() { <-sem }()
			doc, err := eng.Build(item.Request)
			results[i] = BatchResult{Name: item.Name, Doc: doc, Err: err}
		}(i, item)
	}
	wg.Wait()
	return results
}

// Succeeded splits batch results into built documents and failed items.
func Succeeded(results []BatchResult) (docs []*model.GeometryDocument, failed []BatchResult) {
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r)
			continue
		}
		docs = append(docs, r.Doc)
	}
	return docs, failed
}
