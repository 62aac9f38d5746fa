// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdftext extracts plain text from PDF bids by piping them through
// a containerized pdftotext. Page boundaries come from the form feeds
// pdftotext emits between pages.
package pdftext

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/meshintel/procure-engine/internal/container"
	"github.com/meshintel/procure-engine/pkg/types"
)

const imagePdftext = "pdftext:latest"

// Extractor turns a PDF file into document text. Implementations may shell
// out, call a service, or return canned text in tests.
type Extractor interface {
	// Extract reads the PDF at pdfPath and returns its full text along
	// with per-page texts.
	Extract(pdfPath string) (types.DocumentText, error)
}

// ContainerExtractor runs pdftotext inside a container image through an
// injected container.Runtime.
type ContainerExtractor struct {
	runtime container.Runtime
}

// NewContainerExtractor creates an extractor backed by the pdftext image.
// It verifies that the image exists locally before returning.
func NewContainerExtractor(rt container.Runtime) (*ContainerExtractor, error) {
	if err := rt.ImageExists(imagePdftext); err != nil {
		return nil, fmt.Errorf("pdftext image not available in %s: %w", rt.Name(), err)
	}
	return &ContainerExtractor{runtime: rt}, nil
}

// Extract pipes the PDF through pdftotext and splits the output into pages.
func (e *ContainerExtractor) Extract(pdfPath string) (types.DocumentText, error) {
	f, err := os.Open(pdfPath)
	if err != nil {
		return types.DocumentText{}, fmt.Errorf("opening PDF %s: %w", pdfPath, err)
	}
	defer f.Close()

	var out bytes.Buffer
	args := []string{"pdftotext", "-layout", "-", "-"}
	if err := e.runtime.Run(imagePdftext, args, f, &out); err != nil {
		return types.DocumentText{}, fmt.Errorf("extracting text from %s: %w", pdfPath, err)
	}

	if out.Len() == 0 {
		return types.DocumentText{}, fmt.Errorf("pdftotext produced empty output for %s", pdfPath)
	}

	return SplitPages(out.String()), nil
}

// SplitPages builds a DocumentText from raw pdftotext output. Pages are
// separated by form feeds; a trailing empty page from the final form feed
// is dropped. Full text keeps the original content with form feeds replaced
// by newlines.
func SplitPages(raw string) types.DocumentText {
	parts := strings.Split(raw, "\f")
	if n := len(parts); n > 1 && strings.TrimSpace(parts[n-1]) == "" {
		parts = parts[:n-1]
	}

	pages := make([]string, len(parts))
	for i, p := range parts {
		pages[i] = strings.TrimSpace(p)
	}

	return types.DocumentText{
		Full:  strings.TrimSpace(strings.ReplaceAll(raw, "\f", "\n")),
		Pages: pages,
	}
}
