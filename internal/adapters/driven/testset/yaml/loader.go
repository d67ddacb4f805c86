// Package yaml loads evaluation test sets from YAML files.
//
// A file is either a bare list of cases or a mapping with a "cases" key:
//
//	cases:
//	  - question: Which treaty bans chemical weapons?
//	    expected_answer: The Chemical Weapons Convention.
//	    expected_treaties: [Chemical Weapons Convention]
package yaml

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	yamlv3 "gopkg.in/yaml.v3"

	"github.com/custodia-labs/treatyrag/internal/core/domain"
	"github.com/custodia-labs/treatyrag/internal/core/ports/driven"
)

// Ensure Loader implements the interface.
var _ driven.TestSetLoader = (*Loader)(nil)

// Loader reads test sets from disk.
type Loader struct{}

// NewLoader creates a YAML test set loader.
func NewLoader() *Loader {
	return &Loader{}
}

type document struct {
	Cases []domain.TestCase `yaml:"cases"`
}

// Load returns the test cases in the file at path.
func (l *Loader) Load(path string) ([]domain.TestCase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read test set %s: %w", path, err)
	}
	cases, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("test set %s: %w", path, err)
	}
	return cases, nil
}

// Parse decodes a test set. Every case needs a question; treaty names
// are trimmed and blanks dropped.
func Parse(data []byte) ([]domain.TestCase, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty test set", domain.ErrInvalidInput)
	}

	var node yamlv3.Node
	if err := yamlv3.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}

	var cases []domain.TestCase
	root := node.Content[0]
	switch root.Kind {
	case yamlv3.SequenceNode:
		if err := root.Decode(&cases); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
		}
	case yamlv3.MappingNode:
		var doc document
		if err := root.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
		}
		cases = doc.Cases
	default:
		return nil, fmt.Errorf("%w: expected a list of cases", domain.ErrInvalidInput)
	}

	for i := range cases {
		c := &cases[i]
		c.Question = strings.TrimSpace(c.Question)
		if c.Question == "" {
			return nil, fmt.Errorf("%w: case %d has no question", domain.ErrInvalidInput, i+1)
		}
		c.ExpectedAnswer = strings.TrimSpace(c.ExpectedAnswer)
		treaties := c.ExpectedTreaties[:0]
		for _, t := range c.ExpectedTreaties {
			if t = strings.TrimSpace(t); t != "" {
				treaties = append(treaties, t)
			}
		}
		c.ExpectedTreaties = treaties
	}
	if len(cases) == 0 {
		return nil, fmt.Errorf("%w: no cases", domain.ErrInvalidInput)
	}
	return cases, nil
}
