// Package sink persists rendered documents.
package sink

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"coursedesc/internal/document"
)

// Sink stores rendered documents, a failing sink aborts the run.
type Sink interface {
	Write(ctx context.Context, docs ...document.Document) error
	Close() error
}

// FileSink writes every document to its own file inside a directory.
type FileSink struct {
	dir string
}

// NewFileSink creates dir if it does not exist yet.
func NewFileSink(dir string) (FileSink, error) {
	err := os.MkdirAll(dir, 0777)
	if err != nil {
		return FileSink{}, fmt.Errorf("create output directory: %w", err)
	}
	return FileSink{dir: dir}, nil
}

func (s FileSink) Dir() string {
	return s.dir
}

func (s FileSink) Write(ctx context.Context, docs ...document.Document) error {
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if doc.Filename == "" || filepath.Base(doc.Filename) != doc.Filename {
			return fmt.Errorf("invalid document filename %q", doc.Filename)
		}
		err := os.WriteFile(filepath.Join(s.dir, doc.Filename), []byte(doc.Content), 0644)
		if err != nil {
			return fmt.Errorf("write %s: %w", doc.Filename, err)
		}
	}
	return nil
}

func (s FileSink) Close() error {
	return nil
}

// Multi writes every document to all of its sinks in order, it stops at the
// first sink that fails.
type Multi []Sink

func (m Multi) Write(ctx context.Context, docs ...document.Document) error {
	for _, s := range m {
		err := s.Write(ctx, docs...)
		if err != nil {
			return err
		}
	}
	return nil
}

func (m Multi) Close() error {
	var errs []error
	for _, s := range m {
		errs = append(errs, s.Close())
	}
	return errors.Join(errs...)
}
