package fetch

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

// LocalFileFetcher reads documents off the local filesystem for the
// LocalFileStrategy crawl policy (spec §4.D): a directory of pre-existing
// Markdown, HTML, or PDF files rather than a live site. "url" here is a
// filesystem path, optionally prefixed with "file://".
type LocalFileFetcher struct{}

func NewLocalFileFetcher() *LocalFileFetcher { return &LocalFileFetcher{} }

func (f *LocalFileFetcher) Fetch(ctx context.Context, path string, opts Options) (*Result, error) {
	path = strings.TrimPrefix(path, "file://")

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".pdf" {
		text, err := extractPDFText(path)
		if err != nil {
			return nil, err
		}
		return &Result{
			Body:        []byte(text),
			ContentType: "application/pdf",
			StatusCode:  200,
			FinalURL:    path,
		}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fetch: read local file %s: %w", path, err)
	}

	ct := mime.TypeByExtension(ext)
	if ct == "" {
		ct = contentTypeByExt(ext)
	}

	return &Result{
		Body:        data,
		ContentType: ct,
		StatusCode:  200,
		FinalURL:    path,
	}, nil
}

func (f *LocalFileFetcher) Close() error { return nil }

func contentTypeByExt(ext string) string {
	switch ext {
	case ".md", ".markdown":
		return "text/markdown; charset=utf-8"
	case ".html", ".htm":
		return "text/html; charset=utf-8"
	case ".txt":
		return "text/plain; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}
