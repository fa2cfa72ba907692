package girder

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// JobStatus mirrors the Girder jobs plugin status codes, including the codes
// added by the worker plugin.
type JobStatus int

const (
	JobInactive         JobStatus = 0
	JobQueued           JobStatus = 1
	JobRunning          JobStatus = 2
	JobSuccess          JobStatus = 3
	JobError            JobStatus = 4
	JobCanceled         JobStatus = 5
	JobFetchingInput    JobStatus = 820
	JobConvertingInput  JobStatus = 821
	JobConvertingOutput JobStatus = 822
	JobPushingOutput    JobStatus = 823
	JobWorkerCanceling  JobStatus = 824
)

var jobStatusNames = map[JobStatus]string{
	JobInactive:         "inactive",
	JobQueued:           "queued",
	JobRunning:          "running",
	JobSuccess:          "success",
	JobError:            "error",
	JobCanceled:         "canceled",
	JobFetchingInput:    "fetching input",
	JobConvertingInput:  "converting input",
	JobConvertingOutput: "converting output",
	JobPushingOutput:    "pushing output",
	JobWorkerCanceling:  "canceling",
}

func (s JobStatus) String() string {
	if name, ok := jobStatusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Terminal reports whether the job has finished.
func (s JobStatus) Terminal() bool {
	return s == JobSuccess || s == JobError || s == JobCanceled
}

// BatchJobPrefix marks jobs that fan a CLI out over many inputs.
const BatchJobPrefix = "slicer_cli_web_batch"

// Job is the subset of a Girder job document the CLI tooling reads.
type Job struct {
	ID      string    `json:"_id"`
	Title   string    `json:"title"`
	Type    string    `json:"type"`
	Status  JobStatus `json:"status"`
	Created string    `json:"created,omitempty"`
	Updated string    `json:"updated,omitempty"`
}

// Cancelable reports whether a cancel request makes sense for the job. Batch
// jobs stay cancelable through the worker statuses; other jobs only while
// inactive, queued or running.
func (j Job) Cancelable() bool {
	if strings.HasPrefix(j.Type, BatchJobPrefix) {
		switch j.Status {
		case JobCanceled, JobWorkerCanceling, JobSuccess, JobError:
			return false
		}
		return true
	}
	switch j.Status {
	case JobInactive, JobQueued, JobRunning:
		return true
	}
	return false
}

// SubmitJob posts flattened parameter values to `<restPath>/run`.
func (c *Client) SubmitJob(ctx context.Context, restPath string, values map[string]string) (Job, error) {
	form := url.Values{}
	for k, v := range values {
		form.Set(k, v)
	}
	var job Job
	path := strings.TrimSuffix(restPath, "/") + "/run"
	if err := c.do(ctx, http.MethodPost, path, nil, form, &job); err != nil {
		return Job{}, err
	}
	c.logger.Info("girder job submitted", "job", job.ID, "path", path)
	return job, nil
}

// Job fetches a job by id.
func (c *Client) Job(ctx context.Context, id string) (Job, error) {
	if id == "" {
		return Job{}, fmt.Errorf("girder: job id is required")
	}
	var job Job
	if err := c.do(ctx, http.MethodGet, "job/"+id, nil, nil, &job); err != nil {
		return Job{}, err
	}
	return job, nil
}

// CancelJob asks Girder to cancel a job.
func (c *Client) CancelJob(ctx context.Context, id string) (Job, error) {
	if id == "" {
		return Job{}, fmt.Errorf("girder: job id is required")
	}
	var job Job
	if err := c.do(ctx, http.MethodPut, "job/"+id+"/cancel", nil, url.Values{}, &job); err != nil {
		return Job{}, err
	}
	return job, nil
}
