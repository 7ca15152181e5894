// Package convert turns a word-processor contract into HTML and fills in the
// contract-specific placeholder values.
package convert

import (
	"context"
	"fmt"
	"os"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/torosent/legalpub/internal/tags"
	"github.com/torosent/legalpub/internal/tracing"
)

// Request describes one conversion. Values is keyed by argument name and must
// contain every entry of RequiredArguments.
type Request struct {
	Dir    string
	Values map[string]string
}

// Result is the outcome of a successful conversion.
type Result struct {
	Input      string           `json:"input" yaml:"input"`
	Output     string           `json:"output" yaml:"output"`
	Stats      tags.Stats       `json:"stats" yaml:"stats"`
	Invalid    []string         `json:"invalid,omitempty" yaml:"invalid,omitempty"`
	Collisions []tags.Collision `json:"collisions,omitempty" yaml:"collisions,omitempty"`
}

// Service runs conversions.
type Service struct {
	converter Converter
	logger    *zap.Logger
	tracer    trace.Tracer
}

// NewService returns a Service. logger and tracer may be nil.
func NewService(converter Converter, logger *zap.Logger, tracer trace.Tracer) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{converter: converter, logger: logger, tracer: tracer}
}

// Run converts the document named by the file-name argument, validates the
// HTML and writes <file-name>.html next to it with every placeholder replaced.
// Nothing is written if an argument or the input file is missing, or if the
// converter or validator reports a problem.
func (s *Service) Run(ctx context.Context, req Request) (Result, error) {
	ctx, span := tracing.StartStep(ctx, s.tracer, "convert")
	res, err := s.run(ctx, req)
	tracing.EndSpan(span, err, attribute.Int("legalpub.replacements", res.Stats.Total))
	return res, err
}

func (s *Service) run(ctx context.Context, req Request) (Result, error) {
	missing, invalid := CheckArguments(req.Values)
	if len(missing) > 0 {
		return Result{}, &ArgumentError{Missing: missing}
	}
	for _, name := range invalid {
		s.logger.Warn("ignoring unrecognised argument", zap.String("argument", name))
	}

	fileName := req.Values[FileNameArgument]
	if err := tags.RequireFiles(req.Dir, fileName); err != nil {
		return Result{}, err
	}

	values := make(map[string]string, len(RequiredArguments)-1)
	for _, name := range PlaceholderArguments() {
		values[TagFor(name)] = req.Values[name]
	}
	dict, err := tags.FromMap(values)
	if err != nil {
		return Result{}, err
	}
	collisions := dict.Collisions(tags.StyleBare)
	for _, c := range collisions {
		s.logger.Warn("placeholder value contains another placeholder",
			zap.String("placeholder", c.Key), zap.String("contains", c.Contains))
	}

	input := tags.Resolve(req.Dir, fileName)
	s.logger.Debug("converting document", zap.String("input", input))
	raw, err := s.converter.Convert(ctx, input)
	if err != nil {
		return Result{}, err
	}

	_, vspan := tracing.StartStep(ctx, s.tracer, "validate")
	diags := Validate(raw)
	var verr error
	if len(diags) > 0 {
		verr = &ValidationError{Diagnostics: diags}
	}
	tracing.EndSpan(vspan, verr, attribute.Int("legalpub.diagnostics", len(diags)))
	if verr != nil {
		return Result{}, verr
	}

	doc, err := Normalize(raw)
	if err != nil {
		return Result{}, err
	}

	text, stats := dict.Apply(string(doc), tags.StyleBare)
	for _, key := range stats.Unused {
		s.logger.Debug("placeholder not found in document", zap.String("tag", key))
	}

	output := input + ".html"
	if err := os.WriteFile(output, []byte(text), 0o644); err != nil {
		return Result{}, fmt.Errorf("write %s: %w", output, err)
	}
	s.logger.Info("document converted",
		zap.String("output", output),
		zap.Int("replacements", stats.Total))

	return Result{
		Input:      input,
		Output:     output,
		Stats:      stats,
		Invalid:    invalid,
		Collisions: collisions,
	}, nil
}
