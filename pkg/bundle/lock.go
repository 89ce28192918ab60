// File: pkg/bundle/lock.go
package bundle

import (
	"errors"
	"fmt"
	"os"

	"github.com/gofrs/flock"
	"go.uber.org/multierr"
)

// ErrBundleLocked is returned when another run holds the lock on the same
// output path.
var ErrBundleLocked = errors.New("bundle is being written by another process")

// outputLock is an advisory lock on "<output>.lock" held for a whole run.
type outputLock struct {
	flock *flock.Flock
	path  string
}

// acquireOutputLock takes the lock without blocking.
func acquireOutputLock(outputPath string) (*outputLock, error) {
	path := outputPath + ".lock"
	fl := flock.New(path)

	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to lock %s: %w", path, err)
	}
	if !locked {
		return nil, fmt.Errorf("%s: %w", outputPath, ErrBundleLocked)
	}
	return &outputLock{flock: fl, path: path}, nil
}

// release removes the lock file while the lock is still held, then unlocks.
func (l *outputLock) release() error {
	var errs error
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		errs = multierr.Append(errs, fmt.Errorf("failed to remove lock file %s: %w", l.path, err))
	}
	if err := l.flock.Unlock(); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("failed to release lock on %s: %w", l.path, err))
	}
	return errs
}
