// Package remote copies published documents to the document host and adds them
// to the content-addressed store running in a container there.
package remote

import (
	"bufio"
	"context"
	"fmt"
	"path"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/torosent/legalpub/internal/shell"
	"github.com/torosent/legalpub/internal/tracing"
)

// Target identifies the remote host and store.
type Target struct {
	// SSHUser is the user@host passed to scp and ssh.
	SSHUser     string
	Destination string
	Container   string
	// StorePath is where Destination is mounted inside the container.
	StorePath string
}

// Client runs the upload commands through a shell.Runner.
type Client struct {
	runner shell.Runner
	target Target
	logger *zap.Logger
	tracer trace.Tracer
}

// NewClient returns a Client. logger and tracer may be nil.
func NewClient(runner shell.Runner, target Target, logger *zap.Logger, tracer trace.Tracer) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{runner: runner, target: target, logger: logger, tracer: tracer}
}

// CopyCommand returns the scp invocation for localPath.
func (c *Client) CopyCommand(localPath string) shell.Command {
	return shell.Command{
		Name: "scp",
		Args: []string{localPath, c.target.SSHUser + ":" + c.target.Destination},
	}
}

// AddCommand returns the ssh invocation that adds fileName to the store.
func (c *Client) AddCommand(fileName string) shell.Command {
	return shell.Command{
		Name: "ssh",
		Args: []string{
			c.target.SSHUser,
			"docker", "exec", "-i", c.target.Container,
			"ipfs", "add", path.Join(c.target.StorePath, fileName),
		},
	}
}

// Copy uploads localPath to the remote destination directory.
func (c *Client) Copy(ctx context.Context, localPath string) error {
	cmd := c.CopyCommand(localPath)
	ctx, span := tracing.StartStep(ctx, c.tracer, "scp", attribute.String("legalpub.path", localPath))
	_, err := c.run(ctx, cmd)
	tracing.EndSpan(span, err)
	return err
}

// Add adds the copied fileName to the store and returns the content identifier
// reported by the daemon, or "" when its output carried none.
func (c *Client) Add(ctx context.Context, fileName string) (string, error) {
	cmd := c.AddCommand(fileName)
	ctx, span := tracing.StartStep(ctx, c.tracer, "store-add", attribute.String("legalpub.file", fileName))
	res, err := c.run(ctx, cmd)
	cid := ParseAddOutput(res.Stdout)
	tracing.EndSpan(span, err, attribute.String("legalpub.cid", cid))
	return cid, err
}

func (c *Client) run(ctx context.Context, cmd shell.Command) (shell.Result, error) {
	c.logger.Debug("running remote command", zap.Stringer("command", cmd))
	res, err := c.runner.Run(ctx, cmd)
	if err != nil {
		return res, fmt.Errorf("%s: %w", cmd.Name, err)
	}
	return res, nil
}

// ParseAddOutput extracts the identifier from the last "added <cid> <name>"
// line of the store's add output.
func ParseAddOutput(out string) string {
	var cid string
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) >= 2 && fields[0] == "added" {
			cid = fields[1]
		}
	}
	return cid
}
