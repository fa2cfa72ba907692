package girder

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
)

// UploadOption tunes UploadDockerImages.
type UploadOption func(url.Values)

// WithPull asks the server to pull the latest image before importing it.
func WithPull() UploadOption {
	return func(form url.Values) {
		form.Set("pull", "true")
	}
}

// SplitImageNames splits a comma separated list of image names, trimming
// whitespace and dropping empty entries.
func SplitImageNames(names ...string) []string {
	var out []string
	for _, entry := range names {
		for _, name := range strings.Split(entry, ",") {
			if name = strings.TrimSpace(name); name != "" {
				out = append(out, name)
			}
		}
	}
	return out
}

// UploadDockerImages imports CLI docker images into folderID (the task
// folder when empty). The server answers with the import job.
func (c *Client) UploadDockerImages(ctx context.Context, names []string, folderID string, opts ...UploadOption) (Job, error) {
	images := SplitImageNames(names...)
	if len(images) == 0 {
		return Job{}, errors.New("girder: at least one image name is required")
	}
	list, err := jsonList(images)
	if err != nil {
		return Job{}, err
	}
	form := url.Values{"name": {list}}
	if folderID != "" {
		form.Set("folder", folderID)
	}
	for _, opt := range opts {
		if opt != nil {
			opt(form)
		}
	}
	var job Job
	if err := c.do(ctx, http.MethodPut, "slicer_cli_web/docker_image", nil, form, &job); err != nil {
		return Job{}, err
	}
	return job, nil
}
