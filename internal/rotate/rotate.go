// Package rotate changes the network egress the scrapers use once an
// upstream starts blocking them, typically by reconnecting a VPN.
package rotate

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

const defaultSettle = 5 * time.Second

// Command runs an operator-configured shell command, e.g.
// "nordvpn connect --group p2p", then waits for the new route to settle.
type Command struct {
	Line   string
	Settle time.Duration
	logger *slog.Logger
}

func NewCommand(line string, logger *slog.Logger) *Command {
	return &Command{Line: line, Settle: defaultSettle, logger: logger}
}

func (c *Command) Rotate(ctx context.Context) error {
	c.logger.Info("rotating egress", "command", c.Line)

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "sh", "-c", c.Line) //nolint:gosec // operator-supplied command
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("running %q: %w: %s", c.Line, err, strings.TrimSpace(stderr.String()))
	}

	if c.Settle <= 0 {
		return nil
	}
	select {
	case <-time.After(c.Settle):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Noop is used when no rotation command is configured: retries go out
// through the same route.
type Noop struct {
	logger *slog.Logger
}

func NewNoop(logger *slog.Logger) Noop {
	return Noop{logger: logger}
}

func (n Noop) Rotate(ctx context.Context) error {
	n.logger.Warn("no rotate_command configured, retrying through the same route")
	return ctx.Err()
}
