package main

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 250 * time.Millisecond

// watch generates once and then again after every burst of source
// changes, until ctx is done. Generation errors are logged, not returned,
// so a half-edited file does not stop the watcher.
func (g *generator) watch(ctx context.Context, debounce time.Duration) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	watched := make(map[string]bool)
	add := func(dir string) {
		if dir == "" || watched[dir] {
			return
		}
		if err := w.Add(dir); err != nil {
			g.log.WarnContext(ctx, "cannot watch directory", "dir", dir, "error", err)
			return
		}
		watched[dir] = true
		g.log.DebugContext(ctx, "watching", "dir", dir)
	}
	generate := func() {
		pkgs, err := g.run(ctx)
		if err != nil {
			g.log.ErrorContext(ctx, "generation failed", "error", err)
			return
		}
		for _, p := range pkgs {
			add(p.Dir)
		}
	}

	for _, dir := range dirsOf(g.load.Dir, g.patterns) {
		add(dir)
	}
	generate()

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) && isDir(ev.Name) && !skipDir(filepath.Base(ev.Name)) {
				add(ev.Name)
				continue
			}
			if !g.relevant(ev) {
				continue
			}
			g.log.DebugContext(ctx, "source changed", "file", ev.Name, "op", ev.Op.String())
			timer.Reset(debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			g.log.WarnContext(ctx, "watch error", "error", err)
		case <-timer.C:
			generate()
		}
	}
}

// relevant reports whether ev changes a Go source that is not generated
// output or a test.
func (g *generator) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Base(ev.Name)
	return strings.HasSuffix(name, ".go") &&
		!strings.HasSuffix(name, "_test.go") &&
		!strings.HasSuffix(name, g.gen.Suffix)
}

// dirsOf returns the directories named by file system patterns relative
// to base. A trailing "/..." includes every subdirectory except hidden,
// vendor and testdata ones. Import path patterns are skipped; their
// directories are added once loaded.
func dirsOf(base string, patterns []string) []string {
	var dirs []string
	for _, p := range patterns {
		if p == "..." || !strings.HasPrefix(p, ".") && !filepath.IsAbs(p) {
			continue
		}
		root, recursive := strings.CutSuffix(p, "/...")
		if recursive && root == "" {
			root = "/"
		}
		if !filepath.IsAbs(root) {
			root = filepath.Join(base, root)
		}
		if !recursive {
			dirs = append(dirs, root)
			continue
		}
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil || !d.IsDir() {
				return nil
			}
			if path != root && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			dirs = append(dirs, path)
			return nil
		})
	}
	return dirs
}

func skipDir(name string) bool {
	return name == "vendor" || name == "testdata" || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
