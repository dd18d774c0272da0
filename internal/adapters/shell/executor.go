// Package shell provides the process executor used to drive cmake.
package shell

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/GrinlexGH/deps/internal/core/domain"
	"github.com/GrinlexGH/deps/internal/core/ports"
	"github.com/creack/pty"
	"go.trai.ch/zerr"
)

var _ ports.Executor = (*Executor)(nil)

// Executor implements ports.Executor using os/exec.
// With a PTY enabled, child tools see a terminal and keep their colored output;
// stdout and stderr are then merged into stdout.
type Executor struct {
	logger ports.Logger
	usePTY bool
}

// NewExecutor creates a new Executor.
func NewExecutor(logger ports.Logger, usePTY bool) *Executor {
	return &Executor{
		logger: logger,
		usePTY: usePTY,
	}
}

// Execute runs the command and waits for it to complete.
func (e *Executor) Execute(ctx context.Context, c *domain.Command, stdout, stderr io.Writer) error {
	if c == nil || c.Name == "" {
		return nil
	}
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}

	e.logger.Debug(c.String())

	cmdEnv := resolveEnvironment(os.Environ(), c.Env)

	executable := c.Name
	if !filepath.IsAbs(c.Name) {
		if lp, err := lookPath(c.Name, cmdEnv); err == nil {
			executable = lp
		}
	}

	cmd := exec.CommandContext(ctx, executable, c.Args...) //nolint:gosec // user provided command
	if len(cmd.Args) > 0 {
		cmd.Args[0] = c.Name
	}
	cmd.Dir = c.Dir
	cmd.Env = cmdEnv

	var err error
	if e.usePTY {
		err = runPTY(cmd, stdout)
		if errors.Is(err, errPTYUnavailable) {
			cmd = cloneCmd(ctx, cmd)
			err = runPipes(cmd, stdout, stderr)
		}
	} else {
		err = runPipes(cmd, stdout, stderr)
	}

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return zerr.Wrap(ctxErr, "command canceled")
		}
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return zerr.With(zerr.Wrap(err, "command failed"), "exit_code", exitCode)
	}

	return nil
}

var errPTYUnavailable = errors.New("pty unavailable")

func runPTY(cmd *exec.Cmd, stdout io.Writer) error {
	ptmx, err := pty.Start(cmd)
	if err != nil {
		if cmd.Process == nil {
			return errors.Join(errPTYUnavailable, err)
		}
		return err
	}

	ioDone := make(chan struct{})
	go func() {
		defer close(ioDone)
		// Reading the master returns EIO once the child exits on Linux.
		_, _ = io.Copy(&crlfWriter{w: stdout}, ptmx)
	}()

	err = cmd.Wait()
	<-ioDone
	_ = ptmx.Close()
	return err
}

func runPipes(cmd *exec.Cmd, stdout, stderr io.Writer) error {
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

// cloneCmd rebuilds a command after a failed PTY start; an exec.Cmd cannot be started twice.
func cloneCmd(ctx context.Context, cmd *exec.Cmd) *exec.Cmd {
	clone := exec.CommandContext(ctx, cmd.Path, cmd.Args[1:]...) //nolint:gosec // same command
	clone.Args = cmd.Args
	clone.Dir = cmd.Dir
	clone.Env = cmd.Env
	return clone
}

// crlfWriter turns the PTY's \r\n line endings back into \n.
type crlfWriter struct {
	w       io.Writer
	pending bool
}

func (c *crlfWriter) Write(p []byte) (int, error) {
	out := make([]byte, 0, len(p)+1)
	if c.pending {
		if len(p) == 0 || p[0] != '\n' {
			out = append(out, '\r')
		}
		c.pending = false
	}
	for i, b := range p {
		if b == '\r' {
			if i == len(p)-1 {
				c.pending = true
				continue
			}
			if p[i+1] == '\n' {
				continue
			}
		}
		out = append(out, b)
	}
	if _, err := c.w.Write(out); err != nil {
		return 0, err
	}
	return len(p), nil
}

// resolveEnvironment overlays KEY=VALUE pairs on the inherited environment.
func resolveEnvironment(sysEnv, extra []string) []string {
	envMap := make(map[string]string, len(sysEnv)+len(extra))
	for _, entries := range [][]string{sysEnv, extra} {
		for _, entry := range entries {
			if k, v, ok := strings.Cut(entry, "="); ok {
				envMap[k] = v
			}
		}
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	sort.Strings(result)
	return result
}

// lookPath searches for an executable in the directories named by the PATH environment variable.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if strings.HasPrefix(e, "PATH=") {
			path = strings.TrimPrefix(e, "PATH=")
			break
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		path := filepath.Join(dir, file)
		if err := findExecutable(path); err == nil {
			return path, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
