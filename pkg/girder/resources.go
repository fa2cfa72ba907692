package girder

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/goliatone/go-slicerform/pkg/schema"
	"github.com/goliatone/go-slicerform/pkg/spec"
	"github.com/goliatone/go-slicerform/pkg/widget"
)

// User is the authenticated Girder user.
type User struct {
	ID    string `json:"_id"`
	Login string `json:"login"`
	Admin bool   `json:"admin"`
}

// Folder is a Girder folder.
type Folder struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	ParentID string `json:"parentId"`
	Public   bool   `json:"public"`
}

// Resource converts the folder into a widget resource.
func (f Folder) Resource() widget.Resource {
	return widget.Resource{ID: f.ID, Name: f.Name, Type: "folder"}
}

// Me returns the user owning the token.
func (c *Client) Me(ctx context.Context) (User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "user/me", nil, nil, &user); err != nil {
		return User{}, err
	}
	if user.ID == "" {
		return User{}, fmt.Errorf("girder: not authenticated")
	}
	return user, nil
}

// XMLSpec downloads the CLI description served at `<restPath>/xml`.
func (c *Client) XMLSpec(ctx context.Context, restPath string) (schema.Document, error) {
	path := strings.TrimSuffix(restPath, "/") + "/xml"
	data, err := c.raw(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return schema.Document{}, err
	}
	return schema.NewDocument(schema.SourceFromURL(c.endpoint(path, nil)), data)
}

// PathMatchType maps a widget type onto the resource type path_match expects.
func PathMatchType(t spec.Type) string {
	switch t {
	case spec.TypeImage, spec.TypeItem:
		return "item"
	case spec.TypeFile:
		return "file"
	case spec.TypeDirectory:
		return "folder"
	}
	return ""
}

// PathMatch finds the first resource of type whose name or path matches the
// given regular expressions.
func (c *Client) PathMatch(ctx context.Context, resourceType, name, path string) (widget.Resource, error) {
	query := url.Values{"type": {resourceType}}
	if name != "" {
		query.Set("name", name)
	}
	if path != "" {
		query.Set("path", path)
	}
	var doc struct {
		ID   string `json:"_id"`
		Name string `json:"name"`
	}
	if err := c.do(ctx, http.MethodGet, "slicer_cli_web/path_match", query, nil, &doc); err != nil {
		return widget.Resource{}, err
	}
	if doc.ID == "" {
		return widget.Resource{}, fmt.Errorf("girder: path_match: %w", ErrNotFound)
	}
	return widget.Resource{ID: doc.ID, Name: doc.Name, Type: resourceType}, nil
}

// ApplyDefaultInputs resolves defaultNameMatch/defaultPathMatch for input
// models that have no resource yet. Unmatched parameters are left empty.
func (c *Client) ApplyDefaultInputs(ctx context.Context, coll *widget.Collection) error {
	for _, m := range coll.Models() {
		p := m.Parameter()
		if p.Channel != spec.ChannelInput || (p.DefaultNameMatch == "" && p.DefaultPathMatch == "") {
			continue
		}
		if _, ok := m.Resource(); ok {
			continue
		}
		kind := PathMatchType(p.Type)
		if kind == "" {
			continue
		}
		res, err := c.PathMatch(ctx, kind, p.DefaultNameMatch, p.DefaultPathMatch)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		m.Set(res)
	}
	return nil
}

// DefaultOutputFolder returns the user's first private folder, falling back
// to the first folder of any visibility. The boolean is false when the user
// owns no folders.
func (c *Client) DefaultOutputFolder(ctx context.Context, userID string) (Folder, bool, error) {
	query := url.Values{
		"parentType": {"user"},
		"parentId":   {userID},
		"public":     {"false"},
		"limit":      {"1"},
	}
	var folders []Folder
	if err := c.do(ctx, http.MethodGet, "folder", query, nil, &folders); err != nil {
		return Folder{}, false, err
	}
	if len(folders) == 0 {
		query.Del("public")
		if err := c.do(ctx, http.MethodGet, "folder", query, nil, &folders); err != nil {
			return Folder{}, false, err
		}
	}
	if len(folders) == 0 {
		return Folder{}, false, nil
	}
	return folders[0], true, nil
}
