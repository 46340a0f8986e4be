// Package diag holds the process-wide diagnostic hook: a logger installed once
// at startup and a panic trap that turns internal failures into errors with a
// stack trace instead of an opaque crash.
package diag

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
)

var (
	once      sync.Once
	installed atomic.Bool
	logger    atomic.Pointer[slog.Logger]
)

// Install sets up the process logger writing to w.
// Only the first call has an effect, later calls are no-ops.
func Install(w io.Writer) {
	once.Do(func() {
		logger.Store(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})))
		installed.Store(true)
	})
}

// Installed reports whether Install has run.
func Installed() bool {
	return installed.Load()
}

// Logger returns the installed logger, or slog.Default() before Install.
func Logger() *slog.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return slog.Default()
}

// Recover must be deferred. It captures a panic raised by op, logs it together
// with its stack trace and stores it in *errp.
//
//	func (s *Simulation) exec(cmd func()) (err error) {
//		defer diag.Recover("exec", &err)
//		cmd()
//		return nil
//	}
func Recover(op string, errp *error) {
	r := recover()
	if r == nil {
		return
	}
	var err error
	switch v := r.(type) {
	case error:
		err = errors.WithStack(v)
	default:
		err = errors.WithStack(fmt.Errorf("%v", v))
	}
	err = errors.Wrapf(err, "[%s] recovered panic", op)
	Logger().Error("internal failure", "op", op, "err", err.Error(), "trace", fmt.Sprintf("%+v", err))
	if errp != nil {
		*errp = err
	}
}
