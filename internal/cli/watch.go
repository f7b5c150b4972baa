package cli

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	errs "github.com/matzehuels/ttlorder/pkg/errors"
)

// debounceDelay is how long watch mode waits for a burst of file events to
// settle before re-running.
const debounceDelay = 300 * time.Millisecond

// watch runs order once and again whenever a watched file changes, until
// ctx is canceled. Failed runs are reported and do not end the watch.
func (c *CLI) watch(ctx context.Context, opts orderOptions) error {
	logger := loggerFromContext(ctx)

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return errs.Wrap(errs.ErrCodeIO, err, "start file watcher")
	}
	defer fsw.Close()

	w := &watchSet{outDir: absPath(opts.outDir), logger: logger}
	rerun := func() {
		if _, err := c.runOrder(ctx, opts); err != nil && ctx.Err() == nil {
			printError(c.Out, "%s", errs.UserMessage(err))
		}
		w.refresh(fsw, opts)
	}

	rerun()
	printInfo(c.Out, "Watching for changes (ctrl+c to stop)")

	ticker := time.NewTicker(debounceDelay)
	defer ticker.Stop()
	pending := false
	var last time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if w.grow(fsw, ev) || w.relevant(ev) {
				logger.Debug("change detected", "path", ev.Name, "op", ev.Op.String())
				pending = true
				last = time.Now()
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher error", "err", err)

		case <-ticker.C:
			if pending && time.Since(last) >= debounceDelay {
				pending = false
				rerun()
			}
		}
	}
}

// watchSet tracks which files and directories a watch run cares about.
// Directories are watched instead of files so editors that replace a file
// by rename are still seen.
type watchSet struct {
	outDir string
	logger *log.Logger
	files  map[string]bool
	dirs   map[string]bool
	globs  []string
	trees  []string // glob bases whose patterns reach into subdirectories
}

// refresh re-resolves inputs, so files created after the watch started and
// matching a glob are picked up.
func (w *watchSet) refresh(fsw *fsnotify.Watcher, opts orderOptions) {
	w.files = make(map[string]bool)
	w.globs = w.globs[:0]
	w.trees = w.trees[:0]
	if w.dirs == nil {
		w.dirs = make(map[string]bool)
	}

	var paths []string
	for _, arg := range opts.inputs {
		if strings.ContainsAny(arg, "*?[{") {
			w.globs = append(w.globs, absPath(arg))
		}
	}
	if expanded, err := expandInputs(opts.inputs); err == nil {
		paths = append(paths, expanded...)
	} else {
		paths = append(paths, opts.inputs...)
	}
	cfgPath := opts.config
	if cfgPath == "" {
		cfgPath = findConfig()
	}
	if cfgPath != "" {
		paths = append(paths, cfgPath)
	}

	for _, p := range paths {
		abs := absPath(p)
		w.files[abs] = true
		w.add(fsw, filepath.Dir(abs))
	}
	for _, g := range w.globs {
		base, pattern := doublestar.SplitPattern(filepath.ToSlash(g))
		dir := filepath.FromSlash(base)
		if !strings.Contains(pattern, "/") {
			w.add(fsw, dir)
			continue
		}
		w.trees = append(w.trees, dir)
		w.addTree(fsw, dir)
	}
}

// addTree watches root and every directory below it except the output
// directory. fsnotify watches are not recursive.
func (w *watchSet) addTree(fsw *fsnotify.Watcher, root string) {
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if w.inOutDir(absPath(path)) {
			return filepath.SkipDir
		}
		w.add(fsw, path)
		return nil
	})
	if err != nil {
		w.logger.Warn("cannot watch directory", "path", root, "err", err)
	}
}

// grow starts watching a directory created under a recursive glob base and
// reports whether it did. Files may already exist in it by the time the
// watch is added, so the caller treats it as a change.
func (w *watchSet) grow(fsw *fsnotify.Watcher, ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Create) {
		return false
	}
	abs := absPath(ev.Name)
	if w.dirs[abs] || w.inOutDir(abs) {
		return false
	}
	if info, err := os.Stat(abs); err != nil || !info.IsDir() {
		return false
	}
	for _, root := range w.trees {
		if strings.HasPrefix(abs, absPath(root)+string(filepath.Separator)) {
			w.addTree(fsw, abs)
			return true
		}
	}
	return false
}

func (w *watchSet) add(fsw *fsnotify.Watcher, dir string) {
	if w.dirs[dir] {
		return
	}
	if err := fsw.Add(dir); err != nil {
		w.logger.Warn("cannot watch directory", "path", dir, "err", err)
		return
	}
	w.dirs[dir] = true
	w.logger.Debug("watching directory", "path", dir)
}

// relevant reports whether ev should trigger a re-run. Events inside the
// output directory never do.
func (w *watchSet) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
		return false
	}
	abs := absPath(ev.Name)
	if w.inOutDir(abs) {
		return false
	}
	if w.files[abs] {
		return true
	}
	for _, g := range w.globs {
		if ok, _ := doublestar.PathMatch(g, abs); ok {
			return true
		}
	}
	return false
}

func (w *watchSet) inOutDir(abs string) bool {
	return w.outDir != "" && (abs == w.outDir || strings.HasPrefix(abs, w.outDir+string(filepath.Separator)))
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}
