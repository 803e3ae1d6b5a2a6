package cli

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	perrors "github.com/p-blackswan/zanatactl/internal/errors"
)

// moduleArgsKey wraps the params when the file is written by Ansible.
const moduleArgsKey = "ANSIBLE_MODULE_ARGS"

// aliases maps alternative param names to their canonical name.
var aliases = map[string]string{
	"command": "operation",
	"prj":     "project_id",
	"desc":    "description",
	"ver":     "version",
	"iter":    "version",
}

var knownParams = map[string]bool{
	"operation":    true,
	"url":          true,
	"project_id":   true,
	"project_name": true,
	"username":     true,
	"token":        true,
	"description":  true,
	"type":         true,
	"version":      true,
}

// loadArgsFile reads a YAML (or JSON) mapping of params from path. Scalars are
// kept as written, so a version like 1.0 is not turned into a number.
func loadArgsFile(path string) (map[string]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading args file: %w", err)
	}
	return parseArgs(raw)
}

func parseArgs(raw []byte) (map[string]string, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parsing args file: %w", err)
	}
	args := map[string]string{}
	if len(doc.Content) == 0 {
		return args, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parsing args file: expected a mapping at the top level")
	}
	if inner := lookup(root, moduleArgsKey); inner != nil {
		if inner.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("parsing args file: %s must be a mapping", moduleArgsKey)
		}
		root = inner
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i].Value, root.Content[i+1]
		if strings.HasPrefix(key, "_ansible_") {
			continue
		}
		if canonical, ok := aliases[key]; ok {
			key = canonical
		}
		if !knownParams[key] {
			return nil, perrors.NewInvalidParam(key, "unsupported parameter")
		}
		if val.Kind != yaml.ScalarNode {
			return nil, perrors.NewInvalidParam(key, "expected a scalar value")
		}
		if val.Tag == "!!null" {
			continue
		}
		args[key] = val.Value
	}
	return args, nil
}

func lookup(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}
