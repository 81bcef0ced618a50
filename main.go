package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"meditrail-ocr/pkg/meditrail"
)

type documentProcessor interface {
	ProcessDocument(ctx context.Context, filePath, text, systemPrompt string) (*meditrail.Result, error)
}

func main() {
	cfg, err := loadAppConfig()
	if err != nil {
		log.Fatalf("ERROR: Configuration failed: %v", err)
	}

	client, err := meditrail.NewClient(meditrail.Config{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
	})
	if err != nil {
		log.Fatalf("ERROR: Could not create OCR client: %v", err)
	}

	examples, err := loadExamples(cfg.ExamplesConfigPath)
	if err != nil {
		log.Fatalf("ERROR: Could not load examples: %v", err)
	}

	log.Printf("INFO: Meditrail OCR demo against %s", client.BaseURL())
	runExamples(context.Background(), os.Stdout, client, examples)
}

func runExamples(ctx context.Context, out io.Writer, processor documentProcessor, examples []Example) {
	for i, ex := range examples {
		if i > 0 {
			fmt.Fprintf(out, "\n%s\n\n", strings.Repeat("=", 50))
		}
		fmt.Fprintf(out, "=== Example %d: %s ===\n", i+1, ex.Title)

		if err := runExample(ctx, out, processor, ex); err != nil {
			fmt.Fprintf(out, "Error processing document: %v\n", err)
		}
	}
}

func runExample(ctx context.Context, out io.Writer, processor documentProcessor, ex Example) error {
	if _, err := os.Stat(ex.File); err != nil {
		fmt.Fprintf(out, "Sample file not found: %s\n", ex.File)
		if ex.MissingHint != "" {
			fmt.Fprintln(out, ex.MissingHint)
		}
		return nil
	}

	result, err := processor.ProcessDocument(ctx, ex.File, ex.Text, ex.SystemPrompt)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Success! Document ID: %s\n", result.ID())
	fmt.Fprintf(out, "Clinical Relevance: %t\n", result.ClinicalRelevance())
	if ex.ShowDetails {
		fmt.Fprintf(out, "Doctor Names: %s\n", orNA(strings.Join(result.DoctorNames(), ", ")))
	}

	// "response" is a JSON document encoded as a string
	extraction, err := result.Extraction()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Document Type: %s\n", orNA(extraction.DocumentType))
	fmt.Fprintf(out, "Summary: %s\n", orNA(extraction.Summary))

	if ex.ShowDetails {
		meta := result.Metadata()
		fmt.Fprintf(out, "Original File: %s\n", meta.OriginalFileName)
		fmt.Fprintf(out, "File Size: %s\n", meta.FileSize)
		fmt.Fprintf(out, "Page Count: %d\n", meta.PageCount)
	}

	return nil
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
