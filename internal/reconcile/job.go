package reconcile

import "context"

// Job runs a full reconciliation pass on the worker pool
type Job struct {
	service Service
}

// NewJob creates a reconciliation job
func NewJob(service Service) *Job {
	return &Job{service: service}
}

// Process executes one pass
func (j *Job) Process(ctx context.Context) error {
	_, err := j.service.RunOnce(ctx)
	return err
}

// Name identifies the job in worker logs
func (j *Job) Name() string { return "reconcile" }
