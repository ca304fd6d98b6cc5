package sbar

import (
	"bytes"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sys/unix"
)

// IOLoop is the single-threaded cooperative scheduler of §5: one poll loop,
// no locks, all mutation happening between wakes. It owns stdin/stdout and
// drives the Driver and Renderer together.
type IOLoop struct {
	Driver   *Driver
	Renderer *Renderer
	Repaint  *Repainter

	stdin  *os.File
	stdout *os.File

	inBuf  []byte // grow-as-needed stdin accumulator, split on '\n'
	outBuf bytes.Buffer

	sig chan os.Signal
}

// NewIOLoop wires stdin/stdout to loop, matching §4.I's three-fd poll set
// (stdin, stdout, the Wayland connection fd).
func NewIOLoop(driver *Driver, renderer *Renderer) *IOLoop {
	l := &IOLoop{
		Driver:   driver,
		Renderer: renderer,
		Repaint:  &Repainter{Factory: driver},
		stdin:    os.Stdin,
		stdout:   os.Stdout,
		sig:      make(chan os.Signal, 4),
	}
	signal.Notify(l.sig, os.Interrupt, syscall.SIGTERM, syscall.SIGPIPE)
	unix.SetNonblock(int(l.stdin.Fd()), true)
	unix.SetNonblock(int(l.stdout.Fd()), true)
	return l
}

// Run is the loop of §4.I/§5: poll, drain stdin, dispatch Wayland, emit one
// state report when dirty, flush stdout, repeat until a clean-exit signal.
func (l *IOLoop) Run() error {
	defer signal.Stop(l.sig)

	for {
		select {
		case <-l.sig:
			return l.shutdown()
		default:
		}

		fds := l.buildPollFds()
		n, err := unix.Poll(fds, -1)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return newErr(FatalEnvironmentError, "poll", err)
		}
		if n == 0 {
			continue
		}

		stdinFd, stdoutFd, waylandFd := fds[0], fds[1], fds[2]

		exit, err := l.handleStdin(stdinFd)
		if err != nil {
			return err
		}
		if exit {
			return l.shutdown()
		}

		if waylandFd.Revents&(unix.POLLIN|unix.POLLOUT) != 0 {
			if err := l.Driver.Dispatch(); err != nil {
				return newErr(CompositorProtocolError, "dispatch wayland events", err)
			}
		}

		l.repaintAll()

		if l.Renderer.Dirty() && l.Renderer.StateEvents {
			l.emitReport()
		}
		l.Renderer.ClearDirty()

		if l.flushStdout(stdoutFd) {
			return l.shutdown()
		}

		if err := l.Driver.Flush(); err != nil {
			log.Printf("wayland flush: %v (retrying next iteration)", err)
		}
	}
}

// buildPollFds assembles the three-entry pollfd set §4.I names: stdin is
// always POLLIN, stdout only gets POLLOUT while outBuf is non-empty
// (back-pressure), Wayland always POLLIN (events may always arrive).
func (l *IOLoop) buildPollFds() []unix.PollFd {
	stdoutEvents := int16(0)
	if l.outBuf.Len() > 0 {
		stdoutEvents = unix.POLLOUT
	}
	return []unix.PollFd{
		{Fd: int32(l.stdin.Fd()), Events: unix.POLLIN},
		{Fd: int32(l.stdout.Fd()), Events: stdoutEvents},
		{Fd: int32(l.Driver.Fd()), Events: unix.POLLIN},
	}
}

// handleStdin drains whatever is currently readable, splits complete lines
// on '\n', and hands each to the reconciler (§4.I, §5 step 1). Returns
// exit=true on EOF.
func (l *IOLoop) handleStdin(pfd unix.PollFd) (exit bool, err error) {
	if pfd.Revents&unix.POLLIN == 0 {
		return false, nil
	}

	chunk := make([]byte, 64*1024)
	for {
		n, rerr := unix.Read(int(l.stdin.Fd()), chunk)
		if n > 0 {
			l.inBuf = append(l.inBuf, chunk[:n]...)
		}
		if rerr == unix.EAGAIN {
			break
		}
		if n == 0 && rerr == nil {
			exit = true
			break
		}
		if rerr != nil {
			if rerr == unix.EINTR {
				continue
			}
			return false, newErr(FatalEnvironmentError, "read stdin", rerr)
		}
		if n < len(chunk) {
			break
		}
	}

	for {
		idx := bytes.IndexByte(l.inBuf, '\n')
		if idx < 0 {
			break
		}
		line := l.inBuf[:idx]
		l.inBuf = l.inBuf[idx+1:]
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		ws, perr := ParseStateLine(line)
		if perr != nil {
			log.Printf("controller protocol error: %v", perr)
			continue
		}
		l.Renderer.Reconcile(ws)
	}
	return exit, nil
}

// repaintAll drives the Painting half of §4.F for every surface currently
// marked needsRepaint (set by the reconciler) across every output.
func (l *IOLoop) repaintAll() {
	for _, out := range l.Renderer.Outputs {
		for _, bar := range out.Bars {
			if bar != nil {
				l.Repaint.RepaintDirtySurfaces(bar)
			}
		}
	}
}

// emitReport serialises and queues one state report line (§4.J); actual
// byte delivery happens in flushStdout, respecting back-pressure.
func (l *IOLoop) emitReport() {
	report := l.Renderer.BuildReport()
	data, err := marshalReport(report)
	if err != nil {
		log.Printf("marshal state report: %v", err)
		return
	}
	l.outBuf.Write(data)
	l.outBuf.WriteByte('\n')
}

// flushStdout writes as much of outBuf as the fd will currently accept.
// Returns true if stdout hung up (exit cleanly per §4.I).
func (l *IOLoop) flushStdout(pfd unix.PollFd) (hangup bool) {
	if pfd.Revents&(unix.POLLHUP|unix.POLLERR) != 0 {
		return true
	}
	for l.outBuf.Len() > 0 {
		n, err := unix.Write(int(l.stdout.Fd()), l.outBuf.Bytes())
		if n > 0 {
			l.outBuf.Next(n)
		}
		if err == unix.EAGAIN {
			break
		}
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return true
		}
		if n == 0 {
			break
		}
	}
	return false
}

// shutdown flushes any pending Wayland state once more (§5 "Pending Wayland
// state is flushed once on exit") and returns nil for a clean exit.
func (l *IOLoop) shutdown() error {
	if err := l.Driver.Flush(); err != nil {
		log.Printf("final wayland flush: %v", err)
	}
	return nil
}

func marshalReport(report StateReport) ([]byte, error) {
	return json.Marshal(report)
}
