// Package publish fills the tag dictionary into a batch of HTML documents,
// copies each edited document to the document host and adds it to the store.
package publish

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/torosent/legalpub/internal/config"
	"github.com/torosent/legalpub/internal/remote"
	"github.com/torosent/legalpub/internal/shell"
	"github.com/torosent/legalpub/internal/tags"
	"github.com/torosent/legalpub/internal/tracing"
)

// Status lines printed as each file moves through the workflow.
const (
	StatusSaved    = "File saved locally"
	StatusUploaded = "File uploaded remotely"
	StatusFinished = "Finished"
)

const editedSuffix = "-edited.html"

// FileResult records how far one file got.
type FileResult struct {
	Name         string   `json:"name" yaml:"name"`
	Edited       string   `json:"edited,omitempty" yaml:"edited,omitempty"`
	Replacements int      `json:"replacements" yaml:"replacements"`
	Uploaded     bool     `json:"uploaded" yaml:"uploaded"`
	Stored       bool     `json:"stored" yaml:"stored"`
	CID          string   `json:"cid,omitempty" yaml:"cid,omitempty"`
	Errors       []string `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// Failed reports whether any step of the file failed.
func (f FileResult) Failed() bool {
	return len(f.Errors) > 0
}

// Report summarises a publish run.
type Report struct {
	RunID    string        `json:"run_id" yaml:"run_id"`
	Started  time.Time     `json:"started" yaml:"started"`
	Duration time.Duration `json:"-" yaml:"duration"`
	DryRun   bool          `json:"dry_run" yaml:"dry_run"`
	Files    []FileResult  `json:"files" yaml:"files"`

	// JSON-friendly millisecond field.
	DurationMs float64 `json:"duration_ms" yaml:"-"`
}

func (r *Report) finish(d time.Duration) {
	r.Duration = d
	r.DurationMs = float64(d) / float64(time.Millisecond)
}

// Failures counts files with at least one error.
func (r Report) Failures() int {
	n := 0
	for _, f := range r.Files {
		if f.Failed() {
			n++
		}
	}
	return n
}

// FailedError is returned in strict mode when any file failed.
type FailedError struct {
	Failed int
	Total  int
}

func (e *FailedError) Error() string {
	return fmt.Sprintf("%d of %d files failed to publish", e.Failed, e.Total)
}

// Publisher runs the workflow described by a config.Config.
type Publisher struct {
	cfg    config.Config
	client *remote.Client
	status io.Writer
	logger *zap.Logger
	tracer trace.Tracer
	now    func() time.Time
}

// New returns a Publisher that runs remote commands through runner and writes
// status lines to status. logger and tracer may be nil.
func New(cfg config.Config, runner shell.Runner, status io.Writer, logger *zap.Logger, tracer trace.Tracer) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if status == nil {
		status = io.Discard
	}
	target := remote.Target{
		SSHUser:     cfg.SSHUser,
		Destination: cfg.Destination,
		Container:   cfg.Container,
		StorePath:   cfg.StorePath,
	}
	return &Publisher{
		cfg:    cfg,
		client: remote.NewClient(runner, target, logger, tracer),
		status: status,
		logger: logger,
		tracer: tracer,
		now:    time.Now,
	}
}

// Run loads the tag dictionary and publishes every configured file in order.
// A failing file does not stop the batch. The returned error is non-nil when
// the dictionary cannot be loaded, or in strict mode when any file failed.
func (p *Publisher) Run(ctx context.Context) (Report, error) {
	started := p.now()
	report := Report{
		RunID:   ulid.Make().String(),
		Started: started,
		DryRun:  p.cfg.DryRun,
	}
	logger := p.logger.With(zap.String("run_id", report.RunID))

	ctx, span := tracing.StartStep(ctx, p.tracer, "publish",
		attribute.String("legalpub.run_id", report.RunID),
		attribute.Int("legalpub.files", len(p.cfg.Files)))

	dict, err := p.loadTags()
	if err != nil {
		tracing.EndSpan(span, err)
		return report, err
	}

	for _, name := range p.cfg.Files {
		if err := ctx.Err(); err != nil {
			tracing.EndSpan(span, err)
			report.finish(p.now().Sub(started))
			return report, err
		}
		res := p.publishFile(ctx, logger, dict, name)
		report.Files = append(report.Files, res)
	}
	report.finish(p.now().Sub(started))

	failed := report.Failures()
	var runErr error
	if failed > 0 && p.cfg.Strict {
		runErr = &FailedError{Failed: failed, Total: len(report.Files)}
	}
	tracing.EndSpan(span, runErr, attribute.Int("legalpub.failed", failed))
	logger.Info("publish finished",
		zap.Int("files", len(report.Files)),
		zap.Int("failed", failed),
		zap.Duration("duration", report.Duration))
	return report, runErr
}

func (p *Publisher) loadTags() (*tags.Dictionary, error) {
	if err := tags.RequireFiles(p.cfg.Dir, p.cfg.TagsFile); err != nil {
		return nil, err
	}
	dict, err := tags.Load(tags.Resolve(p.cfg.Dir, p.cfg.TagsFile))
	if err != nil {
		return nil, err
	}
	p.logger.Debug("loaded tags", zap.Strings("keys", dict.Keys()))
	for _, c := range dict.Collisions(tags.StyleBare) {
		p.logger.Warn("tag value contains another tag",
			zap.String("tag", c.Key), zap.String("contains", c.Contains))
	}
	return dict, nil
}

func (p *Publisher) publishFile(ctx context.Context, logger *zap.Logger, dict *tags.Dictionary, name string) FileResult {
	res := FileResult{Name: name}
	logger = logger.With(zap.String("file", name))

	ctx, span := tracing.StartStep(ctx, p.tracer, "file", attribute.String("legalpub.file", name))
	defer func() {
		var err error
		if res.Failed() {
			err = errors.New(res.Errors[0])
		}
		tracing.EndSpan(span, err,
			attribute.Int("legalpub.replacements", res.Replacements),
			attribute.String("legalpub.cid", res.CID))
	}()

	edited, replacements, err := p.edit(dict, name)
	if err != nil {
		logger.Warn("edit failed", zap.Error(err))
		res.Errors = append(res.Errors, err.Error())
		return res
	}
	res.Edited = edited
	res.Replacements = replacements
	fmt.Fprintln(p.status, StatusSaved)

	if err := p.client.Copy(ctx, edited); err != nil {
		logger.Warn("upload failed", zap.Error(err))
		res.Errors = append(res.Errors, err.Error())
	} else {
		res.Uploaded = true
		fmt.Fprintln(p.status, StatusUploaded)
	}

	cid, err := p.client.Add(ctx, filepath.Base(edited))
	if err != nil {
		logger.Warn("store add failed", zap.Error(err))
		res.Errors = append(res.Errors, err.Error())
	} else {
		res.Stored = true
		res.CID = cid
	}
	fmt.Fprintln(p.status, StatusFinished)
	return res
}

// edit writes <name>-edited.html next to <name>.html.
func (p *Publisher) edit(dict *tags.Dictionary, name string) (string, int, error) {
	source := name + ".html"
	if err := tags.RequireFiles(p.cfg.Dir, source); err != nil {
		return "", 0, err
	}
	data, err := os.ReadFile(tags.Resolve(p.cfg.Dir, source))
	if err != nil {
		return "", 0, fmt.Errorf("read %s: %w", source, err)
	}
	text, stats := dict.Apply(string(data), tags.StyleBare)

	edited := tags.Resolve(p.cfg.Dir, name+editedSuffix)
	if err := os.WriteFile(edited, []byte(text), 0o644); err != nil {
		return "", 0, fmt.Errorf("write %s: %w", edited, err)
	}
	return edited, stats.Total, nil
}
