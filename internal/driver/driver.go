package driver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"github.com/acarl005/stripansi"

	"github.com/roach88/mutest/internal/ir"
)

// DefaultGracePeriod is how long a timed-out child has between SIGTERM and SIGKILL.
const DefaultGracePeriod = 5 * time.Second

// Driver executes test cases against the runtime.
//
// A Driver is not safe for concurrent use; the harness drives cases one at a time.
type Driver struct {
	cfg     RuntimeInvocationConfig
	logger  *slog.Logger
	clock   Clock
	grace   time.Duration
	storage Probe
	timing  Probe
}

// Option configures a Driver.
type Option func(*Driver)

// WithLogger sets the logger for process lifecycle events.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Driver) {
		d.logger = logger
	}
}

// WithClock sets the clock used to measure wall time.
func WithClock(clock Clock) Option {
	return func(d *Driver) {
		d.clock = clock
	}
}

// WithGracePeriod sets the delay between SIGTERM and SIGKILL on timeout.
func WithGracePeriod(grace time.Duration) Option {
	return func(d *Driver) {
		d.grace = grace
	}
}

// WithProbes sets the storage and timing probe templates. Empty values keep
// the defaults.
func WithProbes(storage, timing string) Option {
	return func(d *Driver) {
		if storage != "" {
			d.storage = Probe(storage)
		}
		if timing != "" {
			d.timing = Probe(timing)
		}
	}
}

// New creates a Driver for cfg.
func New(cfg RuntimeInvocationConfig, opts ...Option) (*Driver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	d := &Driver{
		cfg:     cfg,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		clock:   SystemClock(),
		grace:   DefaultGracePeriod,
		storage: DefaultStorageProbe,
		timing:  DefaultTimingProbe,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Config returns the invocation config the Driver launches with.
func (d *Driver) Config() RuntimeInvocationConfig {
	return d.cfg
}

// Execute evaluates tc.Expression and captures the printed value.
//
// The returned error is non-nil only when the runtime cannot be started
// (*LaunchError) or ctx is done. Non-zero exits and timeouts are recorded in
// the result.
func (d *Driver) Execute(ctx context.Context, tc ir.TestCase) (ir.ExecutionResult, error) {
	p, err := d.launch(ctx, tc, tc.Expression)
	if err != nil {
		return ir.ExecutionResult{Case: tc}, err
	}
	return p.result(tc, d.cfg.Timeout), nil
}

// process is the raw outcome of one child.
type process struct {
	stdout   string
	stderr   string
	exit     int
	wall     time.Duration
	timedOut bool
}

func (p process) result(tc ir.TestCase, timeout time.Duration) ir.ExecutionResult {
	r := ir.ExecutionResult{
		Case:       tc,
		Observed:   trimNewline(p.stdout),
		Error:      trimNewline(stripansi.Strip(p.stderr)),
		ExitStatus: p.exit,
		Wall:       p.wall,
	}
	if p.timedOut {
		r.ExitStatus = -1
		r.Error = timeoutText(timeout, r.Error)
	}
	return r
}

// launch runs the runtime once with expr as the evaluated form.
//
// Lifecycle: spawned, running, completed{exit}. The child is always joined
// before launch returns.
func (d *Driver) launch(ctx context.Context, tc ir.TestCase, expr string) (process, error) {
	if err := ctx.Err(); err != nil {
		return process{}, err
	}

	runCtx := ctx
	if d.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, d.cfg.Timeout)
		defer cancel()
	}

	args := d.cfg.Args(expr)
	c := exec.CommandContext(runCtx, d.cfg.Executable, args...) //nolint:gosec // launching the runtime is the purpose of this package
	c.Dir = d.cfg.Dir
	c.Env = mergeEnv(d.cfg.Env)

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	// Own process group so a timeout reaches anything the runtime forks.
	c.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	c.Cancel = func() error {
		if c.Process == nil {
			return nil
		}
		return syscall.Kill(-c.Process.Pid, syscall.SIGTERM)
	}
	c.WaitDelay = d.grace

	start := d.clock.Now()
	if err := c.Start(); err != nil {
		if ctx.Err() != nil {
			return process{}, ctx.Err()
		}
		return process{}, &LaunchError{Executable: d.cfg.Executable, Args: args, Err: err}
	}
	d.logger.Debug("runtime spawned",
		"case", tc.Label(),
		"line", tc.SourceLine,
		"pid", c.Process.Pid)

	waitErr := c.Wait()
	p := process{
		stdout: stdout.String(),
		stderr: stderr.String(),
		exit:   c.ProcessState.ExitCode(),
		wall:   d.clock.Now().Sub(start),
	}

	if ctx.Err() != nil {
		return p, ctx.Err()
	}
	if runCtx.Err() != nil {
		p.timedOut = true
		d.logger.Warn("runtime timed out",
			"case", tc.Label(),
			"line", tc.SourceLine,
			"timeout", d.cfg.Timeout)
		return p, nil
	}
	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) && !errors.Is(waitErr, exec.ErrWaitDelay) {
			return p, fmt.Errorf("wait for runtime: %w", waitErr)
		}
	}

	d.logger.Debug("runtime completed",
		"case", tc.Label(),
		"line", tc.SourceLine,
		"exit", p.exit,
		"wall", p.wall)
	return p, nil
}

// trimNewline removes exactly one trailing newline.
func trimNewline(s string) string {
	return strings.TrimSuffix(s, "\n")
}

// mergeEnv appends extra KEY=value pairs to the current environment.
func mergeEnv(extra []string) []string {
	if len(extra) == 0 {
		return nil // inherit parent env
	}
	env := os.Environ()
	return append(env, extra...)
}
