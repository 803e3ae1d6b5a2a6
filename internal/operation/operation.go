// Package operation validates a zanatactl request and dispatches it to the
// matching Zanata API call.
package operation

import (
	"fmt"
	"strings"

	perrors "github.com/p-blackswan/zanatactl/internal/errors"
	"github.com/p-blackswan/zanatactl/internal/zanata"
)

// Operation is one of the supported actions against the server.
type Operation string

const (
	CreateProject Operation = "create_project"
	CreateVersion Operation = "create_version"
	Detail        Operation = "detail"
	Modify        Operation = "modify"
	Stats         Operation = "stats"
	Config        Operation = "config"
)

// All lists the operations in documentation order.
var All = []Operation{CreateProject, CreateVersion, Detail, Modify, Stats, Config}

// Mutating reports whether op changes server state.
func (op Operation) Mutating() bool {
	switch op {
	case CreateProject, CreateVersion, Modify:
		return true
	}
	return false
}

// ParseOperation validates s against All.
func ParseOperation(s string) (Operation, error) {
	for _, op := range All {
		if string(op) == s {
			return op, nil
		}
	}
	names := make([]string, len(All))
	for i, op := range All {
		names[i] = string(op)
	}
	return "", perrors.NewInvalidParam("operation",
		fmt.Sprintf("must be one of: %s; got: %s", strings.Join(names, ", "), s))
}

// Params is the flat parameter set of one invocation.
type Params struct {
	URL         string
	ProjectID   string
	ProjectName string
	Username    string
	Token       string
	Description string
	Type        string
	Version     string
}

// get returns the value of the named param.
func (p Params) get(name string) string {
	switch name {
	case "url":
		return p.URL
	case "project_id":
		return p.ProjectID
	case "project_name":
		return p.ProjectName
	case "username":
		return p.Username
	case "token":
		return p.Token
	case "description":
		return p.Description
	case "type":
		return p.Type
	case "version":
		return p.Version
	}
	return ""
}

// Set assigns the named param. It reports false for an unknown name.
func (p *Params) Set(name, value string) bool {
	switch name {
	case "url":
		p.URL = value
	case "project_id":
		p.ProjectID = value
	case "project_name":
		p.ProjectName = value
	case "username":
		p.Username = value
	case "token":
		p.Token = value
	case "description":
		p.Description = value
	case "type":
		p.Type = value
	case "version":
		p.Version = value
	default:
		return false
	}
	return true
}

// Credentials returns the username/token pair for write calls.
func (p Params) Credentials() *zanata.Credentials {
	return &zanata.Credentials{Username: p.Username, Token: p.Token}
}

// required lists, per operation, the params that must be non-empty.
var required = map[Operation][]string{
	CreateProject: {"url", "project_id", "project_name", "username", "token", "description", "type"},
	CreateVersion: {"url", "project_id", "version", "username", "token"},
	Detail:        {"url", "project_id"},
	Modify:        {"url", "project_id", "project_name", "username", "token", "description", "type"},
	Stats:         {"url", "project_id", "version"},
	Config:        {"url", "project_id", "version"},
}

// Required returns the params op needs, in reporting order.
func Required(op Operation) []string {
	return append([]string(nil), required[op]...)
}

// Validate checks p against op's required set. Every missing param is
// reported, not just the first.
func Validate(op Operation, p Params) error {
	if _, ok := required[op]; !ok {
		_, err := ParseOperation(string(op))
		return err
	}
	if p.Type != "" {
		if _, err := zanata.ParseProjectType(p.Type); err != nil {
			return perrors.NewInvalidParam("type", err.Error())
		}
	}

	var missing []string
	for _, name := range required[op] {
		if strings.TrimSpace(p.get(name)) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return perrors.NewMissingParams(string(op), missing)
	}
	return nil
}

// NormalizeBaseURL ends url with exactly one "/" and appends the REST segment.
func NormalizeBaseURL(url string) string {
	return strings.TrimRight(url, "/") + "/rest"
}
