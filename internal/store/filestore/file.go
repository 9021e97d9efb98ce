package filestore

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/twiced-technology-gmbh/projtrack/internal/project"
)

const fileMode = 0o600

// readProject parses a project file: YAML frontmatter with the project's
// fields and tasks, followed by its markdown description.
func readProject(path string) (project.Project, error) {
	data, err := os.ReadFile(path) //nolint:gosec // project path from trusted tracker dir
	if err != nil {
		return project.Project{}, fmt.Errorf("reading project file: %w", err)
	}

	fm, body, err := splitFrontmatter(data)
	if err != nil {
		return project.Project{}, fmt.Errorf("parsing %s: %w", path, err)
	}

	var p project.Project
	if err := yaml.Unmarshal(fm, &p); err != nil {
		return project.Project{}, fmt.Errorf("parsing frontmatter in %s: %w", path, err)
	}
	if p.ID == "" {
		return project.Project{}, fmt.Errorf("parsing frontmatter in %s: missing id", path)
	}
	p.Description = strings.TrimRight(body, "\n")
	if p.Tasks == nil {
		p.Tasks = []project.Task{}
	}
	return p, nil
}

// encodeProject serializes a project to a markdown document with YAML
// frontmatter.
func encodeProject(p project.Project) ([]byte, error) {
	fm, err := yaml.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshaling frontmatter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(fm)
	buf.WriteString("---\n")
	if p.Description != "" {
		buf.WriteString("\n")
		buf.WriteString(p.Description)
		if !strings.HasSuffix(p.Description, "\n") {
			buf.WriteString("\n")
		}
	}
	return buf.Bytes(), nil
}

// splitFrontmatter splits a markdown file into YAML frontmatter and body.
// The file must start with "---\n". Returns frontmatter bytes and body string.
func splitFrontmatter(data []byte) ([]byte, string, error) {
	content := strings.ReplaceAll(string(data), "\r\n", "\n")

	if !strings.HasPrefix(content, "---\n") {
		return nil, "", errors.New("file does not start with YAML frontmatter (---)")
	}

	rest := content[4:]
	idx := strings.Index(rest, "\n---\n")
	if idx < 0 {
		closingLen := len("---")
		if strings.HasSuffix(rest, "\n---") {
			idx = len(rest) - closingLen
		} else {
			return nil, "", errors.New("unclosed frontmatter (missing closing ---)")
		}
	}

	fm := rest[:idx]
	body := ""
	closingEnd := idx + len("\n---\n")
	if closingEnd < len(rest) {
		body = strings.TrimLeft(rest[closingEnd:], "\n")
	}

	return []byte(fm), body, nil
}
