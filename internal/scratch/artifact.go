package scratch

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Policy controls how hard Release tries to delete the file.
type Policy struct {
	Attempts int
	Delay    time.Duration
}

var DefaultPolicy = Policy{Attempts: 5, Delay: 100 * time.Millisecond}

// Artifact is a temp file owned by a single request.
type Artifact struct {
	path   string
	policy Policy
	log    zerolog.Logger

	remove    func(string) error
	onFailure func()
}

// New creates an empty file named tts-*.<suffix> in dir (os.TempDir() when empty).
// The file is closed straight away so an external writer can open it.
func New(dir, suffix string, policy Policy, log zerolog.Logger) (*Artifact, error) {
	f, err := os.CreateTemp(dir, "tts-*."+suffix)
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return nil, fmt.Errorf("close temp file: %w", err)
	}
	return &Artifact{
		path:   f.Name(),
		policy: policy,
		log:    log,
		remove: os.Remove,
	}, nil
}

func (a *Artifact) Path() string {
	return a.path
}

// OnCleanupFailure registers a hook run when Release gives up.
func (a *Artifact) OnCleanupFailure(fn func()) {
	a.onFailure = fn
}

func (a *Artifact) ReadAll() ([]byte, error) {
	data, err := os.ReadFile(a.path)
	if err != nil {
		return nil, fmt.Errorf("read audio file: %w", err)
	}
	return data, nil
}

// Release deletes the file, retrying per the policy. A file that is already
// gone counts as deleted. Exhausting the retries only logs a warning.
func (a *Artifact) Release() {
	err := Retry(a.policy.Attempts, a.policy.Delay, func() error {
		if err := a.remove(a.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		return nil
	})
	if err != nil {
		a.log.Warn().Err(err).Str("path", a.path).Int("attempts", a.policy.Attempts).
			Msg("could not delete temp file")
		if a.onFailure != nil {
			a.onFailure()
		}
	}
}
