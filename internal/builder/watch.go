package builder

import (
	"context"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"

	"github.com/matthewbaird/routegen/internal/errs"
)

// debounceWindow coalesces the event bursts editors produce on save.
const debounceWindow = 200 * time.Millisecond

// Watch runs one full generate, then regenerates whenever a spec file
// changes, until ctx is cancelled. Regeneration failures are logged, not
// fatal: the next save gets another chance.
func (b *Builder) Watch(ctx context.Context) error {
	if err := b.Generate(); err != nil {
		if !b.cfg.ContinueOnError {
			return err
		}
		b.log.Errorw("initial generate failed", "error", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "starting spec watcher")
	}
	defer watcher.Close()
	if err := watcher.Add(b.cfg.SpecsDir); err != nil {
		return errs.FileSystemf(err, "watching specs directory %s", b.cfg.SpecsDir)
	}
	b.log.Infof("watching %s for route spec changes", b.cfg.SpecsDir)

	debounce := time.NewTimer(time.Hour)
	if !debounce.Stop() {
		<-debounce.C
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(ev.Name, specExt) {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			debounce.Reset(debounceWindow)
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			b.log.Warnw("spec watcher error", "error", werr)
		case <-debounce.C:
			if err := b.Generate(); err != nil {
				b.log.Errorw("regenerate failed", "error", err)
			}
		}
	}
}
