// ABOUTME: Prompt files: Markdown instruction body with YAML frontmatter
// ABOUTME: Frontmatter carries name/description; body is the instruction

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const frontmatterDelimiter = "---"

// Prompt is a combine instruction loaded from a Markdown file.
type Prompt struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Body        string `yaml:"-"`
}

// LoadPrompt reads and parses a prompt file.
func LoadPrompt(path string) (Prompt, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Prompt{}, fmt.Errorf("reading prompt %s: %w", path, err)
	}
	p, err := ParsePrompt(string(data))
	if err != nil {
		return Prompt{}, fmt.Errorf("parsing prompt %s: %w", path, err)
	}
	return p, nil
}

// ParsePrompt extracts YAML frontmatter from prompt file content. Content
// without frontmatter is taken wholesale as the instruction body. An opening
// delimiter without a closing one is an error.
func ParsePrompt(content string) (Prompt, error) {
	normalized := strings.ReplaceAll(content, "\r\n", "\n")

	if !strings.HasPrefix(normalized, frontmatterDelimiter+"\n") {
		return Prompt{Body: strings.TrimSpace(normalized)}, nil
	}

	rest := normalized[len(frontmatterDelimiter)+1:]

	var head, body string
	if strings.HasPrefix(rest, frontmatterDelimiter+"\n") || rest == frontmatterDelimiter {
		// Empty frontmatter block.
		body = strings.TrimPrefix(rest[len(frontmatterDelimiter):], "\n")
	} else {
		before, after, ok := strings.Cut(rest, "\n"+frontmatterDelimiter)
		if !ok {
			return Prompt{}, errors.New("unterminated frontmatter: missing closing ---")
		}
		head = before
		body = strings.TrimPrefix(after, "\n")
	}

	var p Prompt
	if err := yaml.Unmarshal([]byte(head), &p); err != nil {
		return Prompt{}, fmt.Errorf("parse frontmatter YAML: %w", err)
	}
	p.Body = strings.TrimSpace(body)
	return p, nil
}
