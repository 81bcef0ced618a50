package main

import (
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

func defaultExamples() []Example {
	return []Example{
		{
			Title:        "Processing Medical Image",
			File:         "sample_files/chest_xray.jpg",
			Text:         "Chest X-ray examination",
			SystemPrompt: "Extract key clinical findings and abnormalities",
			ShowDetails:  true,
			MissingHint:  "Please add a sample medical document to test with.",
		},
		{
			Title:        "Processing PDF Document",
			File:         "sample_files/prescription.pdf",
			Text:         "Prescription document",
			SystemPrompt: "Extract medication names, dosages, and doctor information",
			MissingHint:  "Please add a sample PDF document to test with.",
		},
	}
}

// loadExamples reads the demo document list. A missing file falls back to
// the built-in examples.
func loadExamples(path string) ([]Example, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		log.Printf("WARNING: Examples file %s not found, using built-in examples", path)
		return defaultExamples(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read examples file: %w", err)
	}

	var file examplesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse examples file: %w", err)
	}

	for i, ex := range file.Examples {
		if ex.File == "" {
			return nil, fmt.Errorf("example %d has no file", i+1)
		}
		if ex.Title == "" {
			file.Examples[i].Title = "Processing " + ex.File
		}
	}

	if len(file.Examples) == 0 {
		log.Printf("WARNING: Examples file %s is empty, using built-in examples", path)
		return defaultExamples(), nil
	}

	return file.Examples, nil
}
