package tasks

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Task is one entry in the earn catalog. The catalog is static: completing a
// task is reported by the visitor, never verified.
type Task struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

type catalog struct {
	Tasks []Task `yaml:"tasks"`
}

// Default returns the built-in catalog.
func Default() []Task {
	return []Task{
		{Name: "Join Telegram Channel", URL: "https://t.me/zapdashcommunity"},
		{Name: "Follow Instagram", URL: "https://www.instagram.com/yourprofile"},
		{Name: "Join Tiiny Verse", URL: "https://www.tiinyverse.com"},
		{Name: "Join Cube", URL: "https://www.cube.com"},
		{Name: "Join Bit U Mine", URL: "https://www.bitumines.com"},
		{Name: "Join Match3", URL: "https://www.match3.com"},
		{Name: "Join ChatGPT", URL: "https://www.openai.com"},
	}
}

// Load reads a catalog from a YAML file. An empty path returns the built-in
// default catalog.
func Load(path string) ([]Task, error) {
	if path == "" {
		return Default(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read task catalog: %w", err)
	}

	var c catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse task catalog: %w", err)
	}
	if len(c.Tasks) == 0 {
		return nil, fmt.Errorf("task catalog %s is empty", path)
	}

	return c.Tasks, nil
}
