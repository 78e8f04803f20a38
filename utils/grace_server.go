package utils

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

const (
	defaultReadTimeout     = 60 * time.Second
	defaultWriteTimeout    = defaultReadTimeout
	defaultShutdownTimeout = 30 * time.Second

	gracefulEnvKey   = "EDUQUEST_GRACEFUL"
	gracefulEnvValue = gracefulEnvKey + "=1"
	// fd 3 is the first descriptor after stdin, stdout and stderr
	inheritedListenerFd = 3
)

// Server wraps http.Server with signal driven shutdown and zero-downtime restart.
// SIGINT/SIGTERM drain and exit, SIGUSR2 forks a child that inherits the listener.
type Server struct {
	*http.Server

	ShutdownTimeout time.Duration

	listener  net.Listener
	inherited bool
	signals   chan os.Signal
	done      chan struct{}
	// cleanup runs once after the HTTP server has drained
	cleanup []func()
}

// NewServer creates a Server. cleanup functions run in order after shutdown,
// unless the process is handing its listener over to a child.
func NewServer(addr string, handler http.Handler, readTimeout, writeTimeout time.Duration, cleanup ...func()) *Server {
	return &Server{
		Server: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadTimeout:       readTimeout,
			ReadHeaderTimeout: readTimeout,
			WriteTimeout:      writeTimeout,
		},
		ShutdownTimeout: defaultShutdownTimeout,
		inherited:       os.Getenv(gracefulEnvKey) != "",
		signals:         make(chan os.Signal, 1),
		done:            make(chan struct{}),
		cleanup:         cleanup,
	}
}

// ListenAndServe opens or inherits the listener and blocks until shutdown finished.
func (srv *Server) ListenAndServe() error {
	ln, err := srv.listen()
	if err != nil {
		return err
	}
	srv.listener = ln
	Logger.Info("http server listening",
		zap.String("addr", ln.Addr().String()),
		zap.Bool("inherited", srv.inherited),
		zap.Int("pid", os.Getpid()),
	)

	go srv.watchSignals()
	err = srv.Server.Serve(ln)
	<-srv.done
	return err
}

func (srv *Server) listen() (net.Listener, error) {
	if srv.inherited {
		ln, err := net.FileListener(os.NewFile(inheritedListenerFd, "listener"))
		if err != nil {
			return nil, fmt.Errorf("inherit listener: %w", err)
		}
		return ln, nil
	}
	addr := srv.Addr
	if addr == "" {
		addr = ":http"
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	return ln, nil
}

func (srv *Server) watchSignals() {
	signal.Notify(srv.signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGUSR2)
	defer signal.Stop(srv.signals)

	for sig := range srv.signals {
		switch sig {
		case syscall.SIGINT, syscall.SIGTERM:
			Logger.Info("shutting down http server", zap.Stringer("signal", sig))
			srv.shutdown(true)
			return
		case syscall.SIGUSR2:
			pid, err := srv.forkChild()
			if err != nil {
				Logger.Error("graceful restart failed, still serving", zap.Error(err))
				continue
			}
			Logger.Info("child process started, draining old server", zap.Int("child_pid", pid))
			// the child owns the store and broker connections from here on
			srv.shutdown(false)
			return
		}
	}
}

func (srv *Server) shutdown(runCleanup bool) {
	ctx, cancel := context.WithTimeout(context.Background(), srv.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		Logger.Error("http server shutdown", zap.Error(err))
	} else {
		Logger.Info("http server drained")
	}
	if runCleanup {
		for _, fn := range srv.cleanup {
			fn()
		}
	}
	close(srv.done)
}

// forkChild re-executes the binary with the listener passed as fd 3.
func (srv *Server) forkChild() (int, error) {
	tcpLn, ok := srv.listener.(*net.TCPListener)
	if !ok {
		return 0, errors.New("listener is not a TCP listener")
	}
	file, err := tcpLn.File()
	if err != nil {
		return 0, fmt.Errorf("listener file: %w", err)
	}
	defer file.Close()

	env := make([]string, 0, len(os.Environ())+1)
	for _, e := range os.Environ() {
		if e != gracefulEnvValue {
			env = append(env, e)
		}
	}
	env = append(env, gracefulEnvValue)

	pid, err := syscall.ForkExec(os.Args[0], os.Args, &syscall.ProcAttr{
		Env:   env,
		Files: []uintptr{os.Stdin.Fd(), os.Stdout.Fd(), os.Stderr.Fd(), file.Fd()},
	})
	if err != nil {
		return 0, fmt.Errorf("fork exec: %w", err)
	}
	return pid, nil
}

// GraceServer serves handler on addr until SIGINT/SIGTERM, then runs cleanup.
func GraceServer(addr string, handler http.Handler, cleanup ...func()) error {
	err := NewServer(addr, handler, defaultReadTimeout, defaultWriteTimeout, cleanup...).ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
