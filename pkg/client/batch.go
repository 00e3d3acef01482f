package client

import (
	"context"
	"sync"

	"nn-visualizer/pkg/api"
)

type BatchResult struct {
	Input    string
	Response api.ActivationsResponse
	Error    error
}

type batchTask struct {
	index int
	input string
}

// GetActivationsBatch requests activations for each input using at most
// maxWorkers concurrent requests. Results are returned in input order; a failed
// request sets Error on its result and does not stop the others.
func (c *Client) GetActivationsBatch(ctx context.Context, inputs []string, maxWorkers int) []BatchResult {
	results := make([]BatchResult, len(inputs))

	queue := make(chan batchTask, len(inputs))
	for i, input := range inputs {
		queue <- batchTask{index: i, input: input}
	}
	close(queue)

	workers := min(len(inputs), max(maxWorkers, 1))

	wg := sync.WaitGroup{}
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()

			for task := range queue {
				res, err := c.GetActivations(ctx, task.input)
				results[task.index] = BatchResult{Input: task.input, Response: res, Error: err}
			}
		}()
	}
	wg.Wait()

	return results
}
