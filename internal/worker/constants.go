package worker

import "time"

// DefaultJobTimeout bounds a single job run
const DefaultJobTimeout = 10 * time.Minute

// Log messages - worker pool
const (
	LogMsgWorkerJobFailed    = "Worker job failed"
	LogMsgWorkerJobCompleted = "Worker job completed"
	LogMsgWorkerQueueFull    = "Worker queue full, job dropped"
	LogMsgWorkerPoolStopping = "Worker pool stopping"
)

// Test pool configuration values used in pool_test.go
const (
	TestWorkerCount = 2
	TestQueueSize   = 10
	TestWaitTimeout = time.Second
)
