package convert

import (
	"context"
	"fmt"

	"github.com/torosent/legalpub/internal/shell"
)

// Converter turns a source document into HTML.
type Converter interface {
	Convert(ctx context.Context, path string) ([]byte, error)
}

// PandocConverter runs pandoc (or a compatible binary) and reads HTML from its stdout.
type PandocConverter struct {
	Runner shell.Runner
	Binary string
	From   string
}

// NewPandocConverter returns a converter invoking binary through runner.
func NewPandocConverter(runner shell.Runner, binary, from string) *PandocConverter {
	return &PandocConverter{Runner: runner, Binary: binary, From: from}
}

// Command returns the invocation used for path.
func (p *PandocConverter) Command(path string) shell.Command {
	binary := p.Binary
	if binary == "" {
		binary = "pandoc"
	}
	from := p.From
	if from == "" {
		from = "docx"
	}
	return shell.Command{Name: binary, Args: []string{"-f", from, "-t", "html", path}}
}

// Convert runs the converter on path. A non-zero exit is returned as an error
// carrying the converter's stderr.
func (p *PandocConverter) Convert(ctx context.Context, path string) ([]byte, error) {
	if p.Runner == nil {
		return nil, fmt.Errorf("converter runner is not configured")
	}
	res, err := p.Runner.Run(ctx, p.Command(path))
	if err != nil {
		return nil, fmt.Errorf("convert %s: %w", path, err)
	}
	return []byte(res.Stdout), nil
}
