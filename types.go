package main

import "time"

// Example is one demo document from examples.yaml.
type Example struct {
	Title        string `yaml:"title"`
	File         string `yaml:"file"`
	Text         string `yaml:"text"`
	SystemPrompt string `yaml:"system_prompt"`
	ShowDetails  bool   `yaml:"show_details"`
	MissingHint  string `yaml:"missing_hint"`
}

type examplesFile struct {
	Examples []Example `yaml:"examples"`
}

// AppConfig is the demo configuration read from the environment.
type AppConfig struct {
	APIKey             string
	BaseURL            string
	Timeout            time.Duration
	ExamplesConfigPath string
}
