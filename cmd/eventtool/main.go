package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"

	"github.com/milk9111/frameevents/hooks"
)

const usage = `usage: eventtool [flags] check|upgrade <file or dir>...

  check    report out-of-order events, frame mismatches and payloads that
           disagree with their type tag
  upgrade  rewrite legacy single-clip files in the clip mapping form
`

func main() {
	jobs := flag.Int("jobs", runtime.NumCPU(), "Files processed at once")
	dryRun := flag.Bool("n", false, "upgrade: only list the files that would be rewritten")
	hookPath := flag.String("hooks", "", "check: tengo script whose validate(event) findings are reported")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() < 2 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runner, err := hooks.Load(*hookPath)
	if err != nil {
		log.Fatalf("Failed to load hooks: %v", err)
	}
	tool := &Tool{Jobs: *jobs, DryRun: *dryRun, Hooks: runner}

	failed, err := run(ctx, tool, flag.Arg(0), flag.Args()[1:], os.Stdout)
	if err != nil {
		log.Fatal(err)
	}
	if failed > 0 {
		os.Exit(1)
	}
}

// run executes cmd and prints one line per file plus any findings. It
// returns the number of files that need attention.
func run(ctx context.Context, tool *Tool, cmd string, args []string, w io.Writer) (int, error) {
	paths, err := Expand(args)
	if err != nil {
		return 0, err
	}

	var results []Result
	switch cmd {
	case "check":
		results, err = tool.Check(ctx, paths)
	case "upgrade":
		results, err = tool.Upgrade(ctx, paths)
	default:
		return 0, fmt.Errorf("eventtool: unknown command %q", cmd)
	}
	if err != nil {
		return 0, err
	}

	failed := 0
	for _, r := range results {
		if r.Failed() {
			failed++
		}
		printResult(w, cmd, r, tool.DryRun)
	}
	return failed, nil
}

func printResult(w io.Writer, cmd string, r Result, dryRun bool) {
	if r.Err != nil {
		fmt.Fprintf(w, "%s: error: %v\n", r.Path, r.Err)
		return
	}
	if cmd == "upgrade" {
		switch {
		case !r.Upgraded:
			fmt.Fprintf(w, "%s: up to date\n", r.Path)
		case dryRun:
			fmt.Fprintf(w, "%s: would upgrade\n", r.Path)
		default:
			fmt.Fprintf(w, "%s: upgraded\n", r.Path)
		}
		return
	}

	rep := r.Report
	form := "mapping"
	if rep.Legacy {
		form = "legacy"
	}
	fmt.Fprintf(w, "%s: %s, %d clips, %d events, %d problems\n",
		r.Path, form, rep.Clips, rep.Events, len(rep.Problems)+len(r.Hook))
	for _, p := range rep.Problems {
		fmt.Fprintf(w, "  %s\n", p)
	}
	for _, h := range r.Hook {
		fmt.Fprintf(w, "  hook: %s\n", h)
	}
}
