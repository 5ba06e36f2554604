// Package browser manages a locally launched browser with remote debugging
// enabled. The handle is an explicit, scoped resource: whoever starts it
// stops it, there is no process-wide browser state.
package browser

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

type Options struct {
	// Binary is the browser executable, e.g. "google-chrome".
	Binary string
	// DebugPort is the devtools port. Defaults to 9222.
	DebugPort int
	// ProfileDir holds the browser profile. Defaults to a fresh temp dir
	// removed on Stop.
	ProfileDir string
	// StartupTimeout bounds the wait for the devtools port to open.
	StartupTimeout time.Duration
}

type Handle struct {
	cmd         *exec.Cmd
	debugPort   int
	profileDir  string
	ownsProfile bool
}

// Start launches the browser and waits until its devtools port accepts
// connections.
func Start(ctx context.Context, opts Options) (*Handle, error) {
	if opts.Binary == "" {
		return nil, errors.New("browser binary is not configured")
	}
	port := opts.DebugPort
	if port == 0 {
		port = 9222
	}
	timeout := opts.StartupTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	profileDir := opts.ProfileDir
	ownsProfile := false
	if profileDir == "" {
		dir, err := os.MkdirTemp("", "contestctl-browser-*")
		if err != nil {
			return nil, fmt.Errorf("create browser profile dir: %w", err)
		}
		profileDir = dir
		ownsProfile = true
	}

	cmd := exec.CommandContext(ctx, opts.Binary,
		fmt.Sprintf("--remote-debugging-port=%d", port),
		"--user-data-dir="+filepath.Clean(profileDir),
	)
	if err := cmd.Start(); err != nil {
		if ownsProfile {
			_ = os.RemoveAll(profileDir)
		}
		return nil, fmt.Errorf("start browser: %w", err)
	}

	h := &Handle{cmd: cmd, debugPort: port, profileDir: profileDir, ownsProfile: ownsProfile}
	if err := h.awaitDevtools(ctx, timeout); err != nil {
		_ = h.Stop()
		return nil, err
	}
	return h, nil
}

func (h *Handle) DebuggerAddr() string {
	return fmt.Sprintf("127.0.0.1:%d", h.debugPort)
}

// Stop terminates the browser process and removes the profile dir if the
// handle created it. Safe to call more than once.
func (h *Handle) Stop() error {
	if h.cmd == nil || h.cmd.Process == nil {
		return nil
	}
	killErr := h.cmd.Process.Kill()
	_ = h.cmd.Wait()
	h.cmd = nil

	if h.ownsProfile {
		_ = os.RemoveAll(h.profileDir)
	}
	if killErr != nil && !errors.Is(killErr, os.ErrProcessDone) {
		return fmt.Errorf("stop browser: %w", killErr)
	}
	return nil
}

func (h *Handle) awaitDevtools(ctx context.Context, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if err := ctx.Err(); err != nil {
			return err
		}
		conn, err := net.DialTimeout("tcp", h.DebuggerAddr(), time.Second)
		if err == nil {
			return conn.Close()
		}
		time.Sleep(200 * time.Millisecond)
	}
	return fmt.Errorf("browser devtools port %d did not open within %s", h.debugPort, timeout)
}
