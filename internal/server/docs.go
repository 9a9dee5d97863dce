package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/blevesearch/bleve/v2"
)

// DocsUnavailableMessage answers /doc-chat when no document index is loaded.
const DocsUnavailableMessage = "Document search functionality is currently unavailable."

const docsNoMatchMessage = "I could not find anything about that in the documents."

// DocSearcher answers a query from indexed documents.
type DocSearcher interface {
	Search(ctx context.Context, query string) (string, error)
}

type UnavailableDocs struct{}

func (UnavailableDocs) Search(context.Context, string) (string, error) {
	return DocsUnavailableMessage, nil
}

// DocIndex is an in-memory full-text index over the paragraphs of the
// .txt and .md files in a directory.
type DocIndex struct {
	index      bleve.Index
	paragraphs map[string]string
}

type docParagraph struct {
	Source string `json:"source"`
	Text   string `json:"text"`
}

// LoadDocIndex indexes every paragraph of the text files directly under dir.
func LoadDocIndex(dir string) (*DocIndex, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read docs dir %s: %w", dir, err)
	}

	index, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create docs index: %w", err)
	}

	d := &DocIndex{index: index, paragraphs: make(map[string]string)}
	for _, entry := range entries {
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if entry.IsDir() || (ext != ".txt" && ext != ".md") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read doc %s: %w", entry.Name(), err)
		}
		for i, text := range strings.Split(string(data), "\n\n") {
			text = strings.TrimSpace(text)
			if text == "" {
				continue
			}
			id := entry.Name() + "#" + strconv.Itoa(i)
			if err := index.Index(id, docParagraph{Source: entry.Name(), Text: text}); err != nil {
				return nil, fmt.Errorf("failed to index %s: %w", id, err)
			}
			d.paragraphs[id] = text
		}
	}

	slog.Info("document index loaded",
		slog.String("dir", dir),
		slog.Int("paragraphs", len(d.paragraphs)),
	)
	return d, nil
}

// Search returns the best matching paragraph.
func (d *DocIndex) Search(ctx context.Context, query string) (string, error) {
	req := bleve.NewSearchRequest(bleve.NewMatchQuery(query))
	req.Size = 1

	res, err := d.index.SearchInContext(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to search docs: %w", err)
	}
	if len(res.Hits) == 0 {
		return docsNoMatchMessage, nil
	}
	return d.paragraphs[res.Hits[0].ID], nil
}

func (d *DocIndex) Close() error {
	return d.index.Close()
}
