package pty

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	ptyDevice "github.com/creack/pty"
	"github.com/popsh-dev/popsh/internal/procutil"
	"golang.org/x/crypto/ssh/terminal"
)

// StartOptions contains options for starting a PTY session.
type StartOptions struct {
	Command    string   // Command to execute; empty means the user's shell
	Args       []string // Command arguments
	WorkingDir string   // Working directory; empty means the process cwd
	Env        []string // Environment variables; empty means os.Environ
	Rows       uint16   // Terminal rows; 0 means probe or fall back to 24
	Cols       uint16   // Terminal columns; 0 means probe or fall back to 80
}

// OutputSink consumes raw PTY output. Process is handed the entire
// accumulated buffer since the last successful call, never a partial
// escape sequence boundary of the supervisor's choosing; returning nil
// marks the chunk absorbed and resets the accumulator.
type OutputSink interface {
	Process(p []byte) error
}

type winSize struct {
	rows, cols int
}

// Session supervises one child process attached to a pseudo-terminal.
// Input bytes flow through a bounded channel into a writer goroutine,
// output flows from a reader goroutine into the registered sink, and
// death is announced exactly once on the Done channel regardless of
// which failure (EOF, child exit, resize error) is observed first.
type Session struct {
	ptyFile *os.File
	command *exec.Cmd
	sink    OutputSink

	input  chan []byte
	resize chan winSize

	done     chan struct{}
	doneOnce sync.Once

	inputOnce    sync.Once
	ptyCloseOnce sync.Once
	waitOnce     sync.Once

	currentRows atomic.Int32
	currentCols atomic.Int32
	exitCode    atomic.Int32
	running     atomic.Bool

	pid       int
	startTime time.Time
}

// DefaultShell returns the user's configured shell, falling back to
// /bin/bash.
func DefaultShell() string {
	if shell := os.Getenv("SHELL"); shell != "" {
		return shell
	}
	return "/bin/bash"
}

// Start spawns the command on a fresh pseudo-terminal and begins the
// background reader, writer, resize, and child-watcher loops. Spawn
// failure is the only synchronous error; everything after a successful
// return is reported through Done.
func Start(opts StartOptions, sink OutputSink) (*Session, error) {
	command := opts.Command
	if command == "" {
		command = DefaultShell()
	}
	if _, err := exec.LookPath(command); err != nil {
		return nil, fmt.Errorf("command not found: %s", command)
	}

	cmd := exec.Command(command, opts.Args...)
	if opts.WorkingDir != "" {
		cmd.Dir = opts.WorkingDir
	} else if cwd, err := os.Getwd(); err == nil {
		cmd.Dir = cwd
	}

	env := opts.Env
	if len(env) == 0 {
		env = os.Environ()
	}
	cmd.Env = withTerminalEnv(env)

	s := &Session{
		command: cmd,
		sink:    sink,
		input:   make(chan []byte, 32),
		resize:  make(chan winSize, 8),
		done:    make(chan struct{}),
	}
	s.exitCode.Store(-1)

	ptyFile, err := ptyDevice.Start(cmd)
	if err != nil {
		return nil, err
	}
	s.ptyFile = ptyFile

	rows := int(opts.Rows)
	cols := int(opts.Cols)
	if rows == 0 || cols == 0 {
		if terminal.IsTerminal(0) {
			if c, r, err := terminal.GetSize(0); err == nil {
				cols, rows = c, r
			}
		}
		if cols == 0 {
			cols = 80
		}
		if rows == 0 {
			rows = 24
		}
	}
	if err := s.setSize(rows, cols); err != nil {
		log.Printf("[PTY] initial resize failed: %v", err)
	}

	s.running.Store(true)
	s.startTime = time.Now()
	if cmd.Process != nil {
		s.pid = cmd.Process.Pid
	}

	go s.readLoop()
	go s.writeLoop()
	go s.resizeLoop()
	go s.watchChild()

	return s, nil
}

// withTerminalEnv forces TERM so the child's terminal-aware programs
// negotiate capabilities correctly, and defaults LANG when unset.
func withTerminalEnv(env []string) []string {
	out := make([]string, 0, len(env)+2)
	langSet := false
	for _, kv := range env {
		if strings.HasPrefix(kv, "TERM=") {
			continue
		}
		if strings.HasPrefix(kv, "LANG=") || strings.HasPrefix(kv, "LC_ALL=") {
			langSet = true
		}
		out = append(out, kv)
	}
	out = append(out, "TERM=xterm-256color")
	if !langSet {
		out = append(out, "LANG=C.UTF-8")
	}
	return out
}

// readLoop pumps PTY output into the sink. Partial reads accumulate
// until the sink absorbs them, so escape sequences split across read
// boundaries are always replayed in full.
func (s *Session) readLoop() {
	buf := make([]byte, 4096)
	var pending []byte
	for {
		n, err := s.ptyFile.Read(buf)
		if n > 0 && s.sink != nil {
			pending = append(pending, buf[:n]...)
			if perr := s.sink.Process(pending); perr == nil {
				pending = pending[:0]
			}
		}
		if err != nil {
			if err != io.EOF && !errors.Is(err, os.ErrClosed) {
				log.Printf("[PTY] read ended: %v", err)
			}
			s.closePTY()
			s.running.Store(false)
			_ = s.reapChild()
			s.die()
			return
		}
	}
}

// writeLoop drains the input channel into the PTY. Write errors end the
// loop silently; the session is already dead or dying.
func (s *Session) writeLoop() {
	for {
		select {
		case data, ok := <-s.input:
			if !ok {
				return
			}
			if _, err := s.ptyFile.Write(data); err != nil {
				return
			}
		case <-s.done:
			return
		}
	}
}

// resizeLoop applies geometry changes to the PTY device. A pty that
// cannot resize is assumed wedged, so failure is fatal to the session.
func (s *Session) resizeLoop() {
	for {
		select {
		case ws := <-s.resize:
			if err := s.setSize(ws.rows, ws.cols); err != nil {
				log.Printf("[PTY] resize failed: %v", err)
				s.die()
				return
			}
		case <-s.done:
			return
		}
	}
}

func (s *Session) watchChild() {
	_ = s.reapChild()
	s.running.Store(false)
	s.die()
}

func (s *Session) reapChild() error {
	var waitErr error
	s.waitOnce.Do(func() {
		waitErr = s.command.Wait()
		if state := s.command.ProcessState; state != nil {
			s.exitCode.Store(int32(state.ExitCode()))
		}
	})
	return waitErr
}

func (s *Session) setSize(rows, cols int) error {
	ws := &ptyDevice.Winsize{Rows: uint16(rows), Cols: uint16(cols)}
	if err := ptyDevice.Setsize(s.ptyFile, ws); err != nil {
		return err
	}
	s.currentRows.Store(int32(rows))
	s.currentCols.Store(int32(cols))
	return nil
}

func (s *Session) closePTY() {
	s.ptyCloseOnce.Do(func() {
		if s.ptyFile != nil {
			s.ptyFile.Close()
		}
	})
}

// die announces session death. Safe to call from any goroutine, any
// number of times; consumers see the first announcement only.
func (s *Session) die() {
	s.doneOnce.Do(func() {
		close(s.done)
	})
}

// Done is closed once the session is dead, whichever of EOF, child
// exit, or resize failure came first.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Send queues raw bytes for the child's stdin. Input is dropped once
// the session is dead.
func (s *Session) Send(data []byte) {
	d := append([]byte(nil), data...)
	select {
	case s.input <- d:
	case <-s.done:
	}
}

// Resize requests a PTY geometry change. Applied asynchronously, in
// order, by the resize loop.
func (s *Session) Resize(rows, cols int) {
	select {
	case s.resize <- winSize{rows: rows, cols: cols}:
	case <-s.done:
	}
}

// Size returns the last applied PTY geometry.
func (s *Session) Size() (rows, cols int) {
	return int(s.currentRows.Load()), int(s.currentCols.Load())
}

// IsRunning reports whether the child process is still alive.
func (s *Session) IsRunning() bool {
	return s.running.Load()
}

// PID returns the child process ID.
func (s *Session) PID() int {
	return s.pid
}

// ExitCode returns the child's exit code, or -1 while running.
func (s *Session) ExitCode() int {
	return int(s.exitCode.Load())
}

// Close drops the input sink and the PTY handle. The writer loop exits,
// the OS hangs up the child, and the reader observes EOF.
func (s *Session) Close() {
	s.inputOnce.Do(func() {
		close(s.input)
	})
	s.closePTY()
}

// isExpectedTerminationError reports whether err is a normal process
// exit caused by graceful termination. Called only after
// GracefulTerminate succeeded, so any ExitError is expected.
func isExpectedTerminationError(err error) bool {
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr)
}

// Stop terminates the child gracefully, escalating to SIGKILL after the
// timeout.
func (s *Session) Stop(timeout time.Duration) error {
	if !s.running.Load() {
		s.closePTY()
		return nil
	}
	defer s.closePTY()

	proc := s.command.Process
	if proc == nil {
		return nil
	}
	if err := procutil.GracefulTerminate(proc); err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() {
		done <- s.reapChild()
	}()

	select {
	case err := <-done:
		s.running.Store(false)
		if err != nil && isExpectedTerminationError(err) {
			return nil
		}
		return err
	case <-time.After(timeout):
		if err := proc.Kill(); err != nil {
			return err
		}
		s.running.Store(false)
		err := <-done
		if err != nil && isExpectedTerminationError(err) {
			return nil
		}
		return err
	}
}
