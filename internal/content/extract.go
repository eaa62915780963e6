// Package content extracts searchable text from files. PDF and HTML inputs
// are converted to plain text before matching; everything else is read raw.
package content

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	readability "github.com/go-shiori/go-readability"
	"github.com/ledongthuc/pdf"
)

// maxRawBytes caps how much of a plain file is read for content matching.
const maxRawBytes = 5 << 20 // 5 MiB

// Text returns the extracted text of the file at path, dispatching on the
// file extension. The result may be truncated for large plain files.
func Text(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return pdfText(path)
	case ".html", ".htm":
		return htmlText(path)
	default:
		return rawText(path)
	}
}

// Contains reports whether the extracted text of the file at path contains
// the given substring. An empty substring matches everything.
func Contains(path, substr string) (bool, error) {
	if substr == "" {
		return true, nil
	}
	text, err := Text(path)
	if err != nil {
		return false, err
	}
	return strings.Contains(text, substr), nil
}

func rawText(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			_ = err
		}
	}()
	b, err := io.ReadAll(io.LimitReader(f, maxRawBytes))
	if err != nil {
		return "", fmt.Errorf("read: %w", err)
	}
	return string(b), nil
}

func pdfText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			_ = err
		}
	}()
	rd, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("pdf text: %w", err)
	}
	b, err := io.ReadAll(rd)
	if err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	return string(b), nil
}

// htmlBase is a synthetic base URL; readability requires an absolute base
// even for local documents.
var htmlBase = &url.URL{Scheme: "http", Host: "localhost"}

func htmlText(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			_ = err
		}
	}()
	art, err := readability.FromReader(io.LimitReader(f, maxRawBytes), htmlBase)
	if err != nil {
		return "", fmt.Errorf("readability extract: %w", err)
	}
	return art.TextContent, nil
}
