// Package executor runs a batch of named tasks with bounded concurrency.
//
// The cluster facade uses it to fan out the independent list calls behind an
// aggregate metrics request and then inspect every outcome together:
//
//	pool := executor.NewPool(5, logger)
//	pool.Submit(executor.Task{Name: "nodes", Execute: listNodes})
//	pool.Submit(executor.Task{Name: "pods", Execute: listPods})
//
//	results := pool.Execute(ctx)
//	if executor.HasErrors(results) {
//	    failed := executor.FailedNames(results)
//	    ...
//	}
//
// Results come back in submission order, one per task. A task error never
// stops the other tasks. Cancelling ctx stops tasks that have not started.
package executor
