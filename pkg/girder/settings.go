package girder

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
)

// TaskFolderKey is the setting naming the folder CLI images are imported to.
const TaskFolderKey = "slicer_cli_web.task_folder"

// Setting is one key/value pair for system/setting.
type Setting struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// Settings reads the given system settings.
func (c *Client) Settings(ctx context.Context, keys ...string) (map[string]any, error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("girder: at least one setting key is required")
	}
	list, err := jsonList(keys)
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	if err := c.do(ctx, http.MethodGet, "system/setting", url.Values{"list": {list}}, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetSettings writes settings in one request.
func (c *Client) SetSettings(ctx context.Context, settings ...Setting) error {
	if len(settings) == 0 {
		return nil
	}
	list, err := jsonList(settings)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPut, "system/setting", nil, url.Values{"list": {list}}, nil)
}

// SettingsCache memoises plugin settings for one client. It is scoped to
// whoever owns it; call Invalidate after writes made elsewhere.
type SettingsCache struct {
	client *Client

	mu         sync.Mutex
	loaded     bool
	taskFolder string
}

// NewSettingsCache returns an empty cache backed by client.
func NewSettingsCache(client *Client) *SettingsCache {
	return &SettingsCache{client: client}
}

// TaskFolder returns the configured task folder id, fetching it on first use.
// An unset setting yields the empty string.
func (s *SettingsCache) TaskFolder(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return s.taskFolder, nil
	}
	settings, err := s.client.Settings(ctx, TaskFolderKey)
	if err != nil {
		return "", err
	}
	if v, ok := settings[TaskFolderKey].(string); ok {
		s.taskFolder = v
	}
	s.loaded = true
	return s.taskFolder, nil
}

// Invalidate drops cached values.
func (s *SettingsCache) Invalidate() {
	s.mu.Lock()
	s.loaded = false
	s.taskFolder = ""
	s.mu.Unlock()
}

// SaveTaskFolder stores folderID as the task folder and invalidates the cache.
func (s *SettingsCache) SaveTaskFolder(ctx context.Context, folderID string) error {
	if err := s.client.SetSettings(ctx, Setting{Key: TaskFolderKey, Value: folderID}); err != nil {
		return err
	}
	s.Invalidate()
	return nil
}
