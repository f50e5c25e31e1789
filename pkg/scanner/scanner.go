// Package scanner runs the external Veracode CLI and captures its result.
package scanner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/raudyagdel/veracli/pkg/defaults"
	"github.com/raudyagdel/veracli/pkg/finding"
)

// Exit codes reported for runs that never produced a process status.
const (
	ExitTimeout  = 124
	ExitNotFound = 127
)

// ExitCheck decides which process exit statuses count as a failed scan.
type ExitCheck string

const (
	// ExitCheckInverted treats exit status 0 as failure and any other
	// status as success. This matches the behaviour scripts built around
	// the CLI have always relied on.
	ExitCheckInverted ExitCheck = defaults.ExitCheckInverted

	// ExitCheckConventional treats only exit status 0 as success.
	ExitCheckConventional ExitCheck = defaults.ExitCheckConventional
)

// ParseExitCheck converts a flag or config value to an ExitCheck.
func ParseExitCheck(s string) (ExitCheck, error) {
	switch c := ExitCheck(strings.ToLower(strings.TrimSpace(s))); c {
	case ExitCheckInverted, ExitCheckConventional:
		return c, nil
	}
	return "", fmt.Errorf("unknown exit check %q: must be inverted or conventional", s)
}

// Failed reports whether exit code counts as a failed scan.
func (c ExitCheck) Failed(code int) bool {
	if c == ExitCheckConventional {
		return code != 0
	}
	return code == 0
}

// Request describes one scan.
type Request struct {
	Type   string
	Source string
	Output string
}

// Result holds the execution result.
type Result struct {
	Stdout   string
	Stderr   string
	Duration time.Duration
	ExitCode int
	Output   string
}

// Scanner runs scans with a fixed executable and policy.
type Scanner struct {
	executable string
	check      ExitCheck
	timeout    time.Duration
	waitDelay  time.Duration
	logger     *slog.Logger
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithExecutable sets the CLI name or path.
func WithExecutable(name string) Option {
	return func(s *Scanner) { s.executable = name }
}

// WithExitCheck sets the exit status policy.
func WithExitCheck(c ExitCheck) Option {
	return func(s *Scanner) { s.check = c }
}

// WithTimeout bounds each scan. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(s *Scanner) { s.timeout = d }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scanner) { s.logger = l }
}

// New returns a Scanner for the default executable and inverted check.
func New(opts ...Option) *Scanner {
	s := &Scanner{
		executable: defaults.ScannerExecutable,
		check:      ExitCheckInverted,
		timeout:    defaults.ScanTimeout,
		waitDelay:  defaults.ShutdownGrace,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Args returns the CLI arguments for req.
func Args(req Request) []string {
	return []string{
		"scan",
		"--type", req.Type,
		"--source", req.Source,
		"--format", defaults.ScanFormat,
		"--output", req.Output,
	}
}

// Scan runs the CLI for req and waits for it to exit. The returned Result
// is populated even when an error is returned.
//
// A missing executable returns finding.ErrToolMissing. A failed status
// under the configured ExitCheck, a timeout, or cancellation returns
// finding.ErrToolFailure.
func (s *Scanner) Scan(ctx context.Context, req Request) (Result, error) {
	if req.Type == "" || req.Source == "" {
		return Result{}, errors.New("scanner: type and source are required")
	}
	if req.Output == "" {
		req.Output = defaults.ScanOutputFile
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	args := Args(req)
	s.logger.Debug("running scanner",
		slog.String("executable", s.executable),
		slog.Any("args", args))

	start := time.Now()
	cmd := exec.CommandContext(ctx, s.executable, args...)
	cmd.WaitDelay = s.waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
		Output:   req.Output,
	}

	if err != nil {
		var exitErr *exec.ExitError
		switch {
		case errors.Is(err, exec.ErrNotFound), errors.Is(err, fs.ErrNotExist):
			res.ExitCode = ExitNotFound
			return res, fmt.Errorf("%w: %s: %v", finding.ErrToolMissing, s.executable, err)
		case errors.Is(ctx.Err(), context.DeadlineExceeded):
			res.ExitCode = ExitTimeout
			return res, fmt.Errorf("%w: timed out after %s", finding.ErrToolFailure, s.timeout)
		case ctx.Err() != nil:
			res.ExitCode = 1
			return res, fmt.Errorf("%w: %v", finding.ErrToolFailure, ctx.Err())
		case errors.As(err, &exitErr):
			res.ExitCode = exitErr.ExitCode()
		default:
			res.ExitCode = 1
			return res, fmt.Errorf("%w: %v", finding.ErrToolFailure, err)
		}
	}

	s.logger.Debug("scanner finished",
		slog.Int("exit_code", res.ExitCode),
		slog.Duration("duration", res.Duration))

	if s.check.Failed(res.ExitCode) {
		return res, fmt.Errorf("%w: exit status %d (%s check): %s",
			finding.ErrToolFailure, res.ExitCode, s.check, strings.TrimSpace(res.Stderr))
	}
	return res, nil
}
