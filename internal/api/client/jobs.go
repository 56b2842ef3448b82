package client

import (
	"context"
	"net/url"

	domain "github.com/dmreiland/bookrank/pkg/types"
)

// ListJobs returns the most recent run for each distinct ranking job.
func (c *Client) ListJobs(ctx context.Context) ([]domain.JobRun, error) {
	var runs []domain.JobRun
	if err := c.get(ctx, "/api/v1/jobs", &runs); err != nil {
		return nil, err
	}
	return runs, nil
}

// GetJobHistory returns the run history for a specific ranking job.
func (c *Client) GetJobHistory(ctx context.Context, jobName string) ([]domain.JobRun, error) {
	var runs []domain.JobRun
	if err := c.get(ctx, "/api/v1/jobs/"+url.PathEscape(jobName), &runs); err != nil {
		return nil, err
	}
	return runs, nil
}
