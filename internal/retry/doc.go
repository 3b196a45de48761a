// Package retry retries connection establishment with exponential backoff.
//
// Only opening the pool is retried. Statements executed during a load are
// never retried: a failed file is rolled back and handled by the batch
// driver's error policy instead.
//
//	executor := retry.NewExecutor(retry.NewPostgreSQLErrorClassifier(), retry.NewExponentialBackoff(3))
//	err := executor.Execute(ctx, func(ctx context.Context) error {
//	    return pool.Ping(ctx)
//	})
package retry
