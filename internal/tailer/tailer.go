// Package tailer follows a local server log file line by line,
// feeding the live classification pipeline in follow mode.
package tailer

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/nxadm/tail"
)

// Config controls tailing behavior.
type Config struct {
	// FromStart reads the file from the beginning instead of only new
	// lines.
	FromStart bool
}

// DefaultConfig returns the tail -f behavior: new lines only.
func DefaultConfig() Config {
	return Config{}
}

// Tailer streams lines from a growing log file. Truncation and
// replacement (log rotation in place) are followed via re-open.
type Tailer struct {
	t     *tail.Tail
	lines chan string
	errs  chan error
}

// New starts tailing path. The returned Tailer's channels close when
// ctx is cancelled or Stop is called.
func New(ctx context.Context, path string, cfg Config) (*Tailer, error) {
	tc := tail.Config{
		Follow: true,
		ReOpen: true,
		Logger: tail.DiscardingLogger,
	}
	if !cfg.FromStart {
		tc.Location = &tail.SeekInfo{Offset: 0, Whence: io.SeekEnd}
	}

	t, err := tail.TailFile(path, tc)
	if err != nil {
		return nil, fmt.Errorf("tailing %s: %w", path, err)
	}

	tl := &Tailer{
		t:     t,
		lines: make(chan string),
		errs:  make(chan error, 1),
	}
	go tl.run(ctx)
	return tl, nil
}

// Lines returns the line channel.
func (tl *Tailer) Lines() <-chan string { return tl.lines }

// Errors returns the error channel.
func (tl *Tailer) Errors() <-chan error { return tl.errs }

// Stop ends tailing and releases the underlying file.
func (tl *Tailer) Stop() error {
	return tl.t.Stop()
}

func (tl *Tailer) run(ctx context.Context) {
	defer close(tl.lines)
	defer close(tl.errs)

	for {
		select {
		case <-ctx.Done():
			_ = tl.t.Stop()
			return
		case line, ok := <-tl.t.Lines:
			if !ok {
				return
			}
			if line.Err != nil {
				select {
				case tl.errs <- line.Err:
				default:
				}
				continue
			}
			select {
			case tl.lines <- strings.TrimRight(line.Text, "\r"):
			case <-ctx.Done():
				_ = tl.t.Stop()
				return
			}
		}
	}
}
