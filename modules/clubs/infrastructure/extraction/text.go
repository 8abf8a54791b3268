package extraction

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/iota-uz/clubs/modules/clubs/domain/reconcile"
)

// TextExtractor treats every non-blank line as one name.
type TextExtractor struct{}

func NewTextExtractor() *TextExtractor {
	return &TextExtractor{}
}

func (e *TextExtractor) Extract(_ context.Context, doc Document) ([]reconcile.RawName, error) {
	f, err := os.Open(doc.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	defer func() { _ = f.Close() }()

	var out []reconcile.RawName
	scanner := bufio.NewScanner(f)
	for first := true; scanner.Scan(); first = false {
		line := scanner.Text()
		if first {
			line = stripBOM(line)
		}
		if name, ok := reconcile.NewRawName(line); ok {
			out = append(out, name)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	return out, nil
}
