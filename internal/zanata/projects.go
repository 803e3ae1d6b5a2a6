package zanata

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// ProjectType selects how the server handles a project's documents.
type ProjectType string

const (
	TypeFile           ProjectType = "file"
	TypeGettext        ProjectType = "gettext"
	TypePodir          ProjectType = "podir"
	TypeProperties     ProjectType = "properties"
	TypeUTF8Properties ProjectType = "utf8properties"
	TypeXliff          ProjectType = "xliff"
	TypeXML            ProjectType = "xml"
)

// ProjectTypes lists every accepted type in documentation order.
var ProjectTypes = []ProjectType{
	TypeFile, TypeGettext, TypePodir, TypeProperties, TypeUTF8Properties, TypeXliff, TypeXML,
}

// ParseProjectType validates s against ProjectTypes.
func ParseProjectType(s string) (ProjectType, error) {
	for _, t := range ProjectTypes {
		if string(t) == s {
			return t, nil
		}
	}
	names := make([]string, len(ProjectTypes))
	for i, t := range ProjectTypes {
		names[i] = string(t)
	}
	return "", fmt.Errorf("must be one of: %s; got: %s", strings.Join(names, ", "), s)
}

// Project is the body sent when creating or modifying a project.
type Project struct {
	Name        string      `json:"name"`
	ID          string      `json:"id"`
	Description string      `json:"description"`
	Type        ProjectType `json:"type"`
}

// Version is the body sent when creating a project version.
type Version struct {
	ID string `json:"id"`
}

func projectPath(projectID string) string {
	return "/projects/p/" + url.PathEscape(projectID)
}

func versionPath(projectID, version string) string {
	return "/project/" + url.PathEscape(projectID) + "/version/" + url.PathEscape(version)
}

func statsPath(projectID, version string) string {
	return "/stats/proj/" + url.PathEscape(projectID) + "/iter/" + url.PathEscape(version)
}

// CreateProject creates a project. On a 201 the reply carries MsgCreated.
func (c *Client) CreateProject(ctx context.Context, creds *Credentials, p Project) (*Reply, error) {
	return c.Do(ctx, Call{
		Method: http.MethodPut,
		Path:   projectPath(p.ID),
		Body:   p,
		Auth:   creds,
		Intent: IntentCreate,
	})
}

// ModifyProject updates an existing project. Same request as CreateProject,
// but a 200 is reported as a modification.
func (c *Client) ModifyProject(ctx context.Context, creds *Credentials, p Project) (*Reply, error) {
	return c.Do(ctx, Call{
		Method: http.MethodPut,
		Path:   projectPath(p.ID),
		Body:   p,
		Auth:   creds,
		Intent: IntentModify,
	})
}

// CreateVersion creates a version of a project.
func (c *Client) CreateVersion(ctx context.Context, creds *Credentials, projectID, version string) (*Reply, error) {
	return c.Do(ctx, Call{
		Method: http.MethodPut,
		Path:   versionPath(projectID, version),
		Body:   Version{ID: version},
		Auth:   creds,
		Intent: IntentCreate,
	})
}

// GetProject fetches project details as decoded JSON.
func (c *Client) GetProject(ctx context.Context, projectID string) (interface{}, error) {
	reply, err := c.Do(ctx, Call{Method: http.MethodGet, Path: projectPath(projectID)})
	if err != nil {
		return nil, err
	}
	return reply.Data, nil
}

// GetStats fetches translation statistics for a project version.
func (c *Client) GetStats(ctx context.Context, projectID, version string) (interface{}, error) {
	reply, err := c.Do(ctx, Call{Method: http.MethodGet, Path: statsPath(projectID, version)})
	if err != nil {
		return nil, err
	}
	return reply.Data, nil
}

// GetConfig fetches the zanata.xml client config for a project version. The
// body is returned untouched; an empty body yields an empty mapping.
func (c *Client) GetConfig(ctx context.Context, projectID, version string) (interface{}, error) {
	reply, err := c.Do(ctx, Call{
		Method: http.MethodGet,
		Path:   versionPath(projectID, version) + "/config",
		Intent: IntentConfig,
	})
	if err != nil {
		return nil, err
	}
	return reply.Data, nil
}
