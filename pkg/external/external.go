package external

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/netplot/pkg/errors"
	"github.com/matzehuels/netplot/pkg/network"
)

const (
	// NetworkFile is the name of the exported Pajek file.
	NetworkFile = "network.net"
	// JarFile is the VOSviewer jar expected in the tool directory.
	JarFile = "VOSviewer.jar"
	// DefaultJava is the Java launcher used when none is configured.
	DefaultJava = "java"
	// DefaultTimeout bounds a VOSviewer session.
	DefaultTimeout = 30 * time.Minute

	// waitDelay bounds how long Invoke waits for output pipes after the
	// process was killed.
	waitDelay = 2 * time.Second
)

// ErrToolMissing is returned when the tool directory holds no VOSviewer jar.
var ErrToolMissing = stderrors.New("external tool not found")

// Renderer is the port to an external visualization tool.
type Renderer interface {
	// Export writes g into dir and returns the written file's path.
	Export(g *network.Graph, dir string) (string, error)

	// Invoke starts exe on file and blocks until it exits, returning the
	// process exit status.
	Invoke(ctx context.Context, exe, file string) (int, error)
}

// VOSviewer runs the VOSviewer jar through a Java launcher.
type VOSviewer struct {
	// Java is the launcher executable. Defaults to DefaultJava.
	Java string
	// Timeout bounds Invoke. Zero means DefaultTimeout; negative disables it.
	Timeout time.Duration
	// Logger receives progress messages. Defaults to a discard logger.
	Logger *log.Logger
}

var _ Renderer = (*VOSviewer)(nil)

func (v *VOSviewer) java() string {
	if v.Java == "" {
		return DefaultJava
	}
	return v.Java
}

func (v *VOSviewer) logger() *log.Logger {
	if v.Logger == nil {
		return log.NewWithOptions(io.Discard, log.Options{})
	}
	return v.Logger
}

// JarPath returns the expected jar location in dir. An empty dir means the
// working directory.
func JarPath(dir string) string {
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, JarFile)
}

// Available reports whether dir holds the VOSviewer jar.
func Available(dir string) bool {
	info, err := os.Stat(JarPath(dir))
	return err == nil && !info.IsDir()
}

// Export implements [Renderer] by writing g as dir/network.net.
func (v *VOSviewer) Export(g *network.Graph, dir string) (string, error) {
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, NetworkFile)
	if err := network.WritePajekFile(g, path); err != nil {
		return "", errors.Wrap(errors.ErrCodeExternalTool, err, "export network")
	}
	v.logger().Debug("exported network", "path", path, "vertices", g.VertexCount(), "edges", g.EdgeCount())
	return path, nil
}

// Invoke implements [Renderer]: it runs `java -jar exe -pajek_network file`.
//
// A non-zero exit yields the status and an EXTERNAL_TOOL error wrapping
// [errors.ExitError]. Exceeding the timeout yields a TIMEOUT error; a
// canceled ctx returns the context error.
func (v *VOSviewer) Invoke(ctx context.Context, exe, file string) (int, error) {
	timeout := v.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	java := v.java()
	if _, err := exec.LookPath(java); err != nil {
		return -1, errors.Wrap(errors.ErrCodeExternalTool, err, "java launcher %q not found", java)
	}

	cmd := exec.CommandContext(ctx, java, "-jar", exe, "-pajek_network", file)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	killGroup(cmd)
	cmd.WaitDelay = waitDelay
	v.logger().Info("starting external tool", "cmd", cmd.String())

	err := cmd.Run()
	status := -1
	if cmd.ProcessState != nil {
		status = cmd.ProcessState.ExitCode()
	}

	switch {
	case stderrors.Is(ctx.Err(), context.DeadlineExceeded):
		return status, errors.Wrap(errors.ErrCodeTimeout, ctx.Err(), "external tool exceeded %s", timeout)
	case ctx.Err() != nil:
		return status, ctx.Err()
	case err == nil:
		v.logger().Info("external tool finished", "status", status)
		return status, nil
	}

	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) {
		return status, errors.Wrap(errors.ErrCodeExternalTool,
			&errors.ExitError{Tool: filepath.Base(exe), ExitStatus: status, Stderr: lastLine(stderr.String())},
			"run %s", filepath.Base(exe))
	}
	return status, errors.Wrap(errors.ErrCodeExternalTool, err, "start %s", filepath.Base(exe))
}

// lastLine returns the last non-blank line of s.
func lastLine(s string) string {
	s = strings.TrimRight(s, "\r\n\t ")
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSpace(s)
}

// Run exports g into dir through r and starts the jar in dir on the
// exported file. It returns the exported path and the exit status. When
// the jar is missing it returns ErrToolMissing before writing anything.
func Run(ctx context.Context, r Renderer, g *network.Graph, dir string) (file string, status int, err error) {
	jar := JarPath(dir)
	if !Available(dir) {
		return "", -1, fmt.Errorf("%w: %s", ErrToolMissing, jar)
	}
	if file, err = r.Export(g, dir); err != nil {
		return "", -1, err
	}
	status, err = r.Invoke(ctx, jar, file)
	return file, status, err
}
