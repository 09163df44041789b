package tsxreview

import (
	"context"
	"sort"
	"sync"

	"github.com/arjunmahishi/tsxreview/engine"
	"github.com/arjunmahishi/tsxreview/lang"
	"github.com/arjunmahishi/tsxreview/parser"
	"github.com/arjunmahishi/tsxreview/types"
)

type queryResult struct {
	path    string
	matches []types.QueryMatch
}

// runQueryWorkers runs q over inputs on a bounded pool, one parser per
// worker. Matches are returned grouped by file in path order.
func runQueryWorkers(ctx context.Context, language lang.Language, q string, inputs []engine.Input, jobs int) ([]types.QueryMatch, error) {
	query, err := parser.NewQuery(q, language)
	if err != nil {
		return nil, err
	}

	results := make(chan queryResult, 128)
	jobQueue := make(chan engine.Input, 128)
	var wg sync.WaitGroup

	workerCount := jobs
	if workerCount < 1 {
		workerCount = 1
	}
	if workerCount > len(inputs) {
		workerCount = len(inputs)
	}

	worker := func() {
		defer wg.Done()
		p := parser.New(language)
		for in := range jobQueue {
			if ctx.Err() != nil {
				continue
			}
			tree, err := p.ParseTree(ctx, in.Text)
			if err != nil {
				continue
			}
			results <- queryResult{path: in.Path, matches: query.Run(tree, in.Text, in.Path)}
		}
	}

	wg.Add(workerCount)
	for i := 0; i < workerCount; i++ {
		go worker()
	}

	go func() {
		for _, in := range inputs {
			jobQueue <- in
		}
		close(jobQueue)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var all []queryResult
	for res := range results {
		all = append(all, res)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Slice(all, func(i, j int) bool { return all[i].path < all[j].path })
	matches := []types.QueryMatch{}
	for _, res := range all {
		matches = append(matches, res.matches...)
	}
	return matches, nil
}
