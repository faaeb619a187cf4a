package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/milk9111/frameevents/events"
	"github.com/milk9111/frameevents/hooks"
)

// Result is the outcome for one file.
type Result struct {
	Path     string
	Report   *events.Report
	Hook     []string
	Upgraded bool
	Err      error
}

// Failed reports whether the file needs attention.
func (r Result) Failed() bool {
	return r.Err != nil || len(r.Hook) > 0 || (r.Report != nil && len(r.Report.Problems) > 0)
}

// Tool runs one command over many event files.
type Tool struct {
	Jobs   int
	DryRun bool
	Hooks  *hooks.Runner

	// hookMu serialises script runs; a compiled script is not safe for
	// concurrent use.
	hookMu sync.Mutex
}

// Expand turns the arguments into a sorted list of files. Directories are
// walked for *.json files.
func Expand(args []string) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("eventtool: %w", err)
		}
		if !info.IsDir() {
			add(arg)
			continue
		}
		err = filepath.WalkDir(arg, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.EqualFold(filepath.Ext(p), ".json") {
				add(p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("eventtool: walk %s: %w", arg, err)
		}
	}
	sort.Strings(out)
	return out, nil
}

// Check verifies every file. Per-file failures are reported in the results,
// the returned error is only set when ctx is cancelled.
func (t *Tool) Check(ctx context.Context, paths []string) ([]Result, error) {
	return t.each(ctx, paths, t.checkOne)
}

// Upgrade rewrites legacy single-clip files in the mapping form. Files
// already in the mapping form are left untouched.
func (t *Tool) Upgrade(ctx context.Context, paths []string) ([]Result, error) {
	return t.each(ctx, paths, t.upgradeOne)
}

func (t *Tool) each(ctx context.Context, paths []string, fn func(path string) Result) ([]Result, error) {
	results := make([]Result, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	jobs := t.Jobs
	if jobs <= 0 {
		jobs = 1
	}
	g.SetLimit(jobs)
	for i, p := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = fn(p)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func (t *Tool) checkOne(path string) Result {
	res := Result{Path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		res.Err = err
		return res
	}
	res.Report, err = events.Verify(data)
	if err != nil {
		res.Err = err
		return res
	}
	if !t.Hooks.HasValidate() {
		return res
	}
	f, _, err := events.Decode(data)
	if err != nil {
		res.Err = err
		return res
	}
	res.Hook, res.Err = t.validate(f)
	return res
}

func (t *Tool) validate(f events.File) ([]string, error) {
	clips := make([]string, 0, len(f))
	for clip := range f {
		clips = append(clips, clip)
	}
	sort.Strings(clips)

	t.hookMu.Lock()
	defer t.hookMu.Unlock()
	var out []string
	for _, clip := range clips {
		for _, ev := range f[clip] {
			found, err := t.Hooks.Validate(clip, ev)
			if err != nil {
				return out, err
			}
			for _, msg := range found {
				out = append(out, fmt.Sprintf("%s %q: %s", clip, ev.Name, msg))
			}
		}
	}
	return out, nil
}

func (t *Tool) upgradeOne(path string) Result {
	res := Result{Path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		res.Err = err
		return res
	}
	f, legacy, err := events.Decode(data)
	if err != nil {
		res.Err = err
		return res
	}
	if !legacy {
		return res
	}
	res.Upgraded = true
	if t.DryRun {
		return res
	}
	res.Err = events.WriteFile(path, f)
	return res
}
