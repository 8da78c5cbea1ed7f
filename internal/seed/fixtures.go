// Package seed loads a board from a YAML fixture file: tags, projects and
// their tasks, created in dependency order through the Mover.
package seed

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Fixture is the top level of a seed file.
type Fixture struct {
	Tags     []TagFixture     `yaml:"tags"`
	Projects []ProjectFixture `yaml:"projects"`
}

// TagFixture declares a tag ahead of use, typically to fix its color.
type TagFixture struct {
	Name  string `yaml:"name"`
	Color string `yaml:"color"`
}

// ProjectFixture is a project and the tasks to create in it.
type ProjectFixture struct {
	Code        string        `yaml:"code"`
	Title       string        `yaml:"title"`
	Description string        `yaml:"description"`
	Tasks       []TaskFixture `yaml:"tasks"`
}

// TaskFixture is one task. Key names the task within the file so other
// tasks of the same project can be listed After it; tasks are created in an
// order that honours those edges, which decides their display IDs.
type TaskFixture struct {
	Key           string   `yaml:"key"`
	After         []string `yaml:"after"`
	Title         string   `yaml:"title"`
	Description   string   `yaml:"description"`
	Status        string   `yaml:"status"`
	Priority      string   `yaml:"priority"`
	StoryPoints   *int     `yaml:"story_points"`
	Prompt        string   `yaml:"prompt"`
	Branch        string   `yaml:"branch"`
	PullRequest   string   `yaml:"pull_request"`
	Blocked       bool     `yaml:"blocked"`
	BlockedReason string   `yaml:"blocked_reason"`
	Tags          []string `yaml:"tags"`
}

// Parse decodes a fixture. Unknown keys are errors so typos do not
// silently drop data.
func Parse(r io.Reader) (*Fixture, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f Fixture
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, fmt.Errorf("failed to parse fixture: %w", err)
	}
	return &f, nil
}

// LoadFile reads and parses a fixture file.
func LoadFile(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture %s: %w", path, err)
	}
	f, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}
