// ABOUTME: Settings loading with global + project config deep merge
// ABOUTME: JSON-based configuration; project values override global ones

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Settings holds the merged reducer configuration.
type Settings struct {
	Model            string            `json:"model,omitempty"`
	BaseURL          string            `json:"base_url,omitempty"`
	TokenMax         int               `json:"token_max,omitempty"`
	Concurrency      int               `json:"concurrency,omitempty"`
	Separator        string            `json:"separator,omitempty"`
	DocumentTemplate string            `json:"document_template,omitempty"`
	Length           string            `json:"length,omitempty"` // runes, graphemes, tokens
	CollapsePrompt   string            `json:"collapse_prompt,omitempty"`
	FinalPrompt      string            `json:"final_prompt,omitempty"`
	Env              map[string]string `json:"env,omitempty"`
}

// GlobalConfigFile returns the path of the user-level settings file.
func GlobalConfigFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".docreduce", "settings.json")
}

// ProjectConfigFile returns the path of the project-local settings file.
func ProjectConfigFile(projectRoot string) string {
	return filepath.Join(projectRoot, ".docreduce", "settings.json")
}

// Load reads and merges global and project-local settings.
// Project settings override global settings.
func Load(projectRoot string) (*Settings, error) {
	global, err := loadFile(GlobalConfigFile())
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading global config: %w", err)
	}

	project, err := loadFile(ProjectConfigFile(projectRoot))
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	return merge(global, project), nil
}

// loadFile reads a Settings from a JSON file. Returns zero Settings if the
// file does not exist.
func loadFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return &Settings{}, err
	}
	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &s, nil
}

// merge deep-merges project settings onto global settings.
// Non-zero project values override global values.
func merge(global, project *Settings) *Settings {
	if global == nil {
		global = &Settings{}
	}
	if project == nil {
		return global
	}

	result := *global

	if project.Model != "" {
		result.Model = project.Model
	}
	if project.BaseURL != "" {
		result.BaseURL = project.BaseURL
	}
	if project.TokenMax != 0 {
		result.TokenMax = project.TokenMax
	}
	if project.Concurrency != 0 {
		result.Concurrency = project.Concurrency
	}
	if project.Separator != "" {
		result.Separator = project.Separator
	}
	if project.DocumentTemplate != "" {
		result.DocumentTemplate = project.DocumentTemplate
	}
	if project.Length != "" {
		result.Length = project.Length
	}
	if project.CollapsePrompt != "" {
		result.CollapsePrompt = project.CollapsePrompt
	}
	if project.FinalPrompt != "" {
		result.FinalPrompt = project.FinalPrompt
	}

	if len(project.Env) > 0 {
		if result.Env == nil {
			result.Env = make(map[string]string)
		}
		for k, v := range project.Env {
			result.Env[k] = v
		}
	}

	return &result
}
