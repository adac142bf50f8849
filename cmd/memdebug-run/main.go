// Command memdebug-run is the build-system CLI collaborator spec.md §1/§2
// names: it launches a target program with the debugging allocator's
// configuration string wired into its environment, mirroring the
// original mpatrol wrapper script's job (and, more directly, the
// concurrent-serving shape of cmd/gdb-rsp-server/main.go: run the target
// and an optional diagnostics HTTP server side by side, fail fast if
// either exits abnormally).
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/orizon-lang/orizon-memdebug/internal/cli"
	"github.com/orizon-lang/orizon-memdebug/internal/memdebug/config"
)

const optionsEnv = "MEMDEBUG_OPTIONS"

func main() {
	var (
		options     string
		optionsFile string
		watchConfig bool
		debugHTTP   string
		showVersion bool
		showHelp    bool
		jsonOutput  bool
	)

	flag.StringVar(&options, "options", "", "MEMDEBUG_OPTIONS string (KEY=VALUE tokens) forwarded to the target")
	flag.StringVar(&optionsFile, "options-file", "", "read the options string from a file instead of --options")
	flag.BoolVar(&watchConfig, "watch-config", false, "re-read --options-file on change (logged; the running target keeps its original env)")
	flag.StringVar(&debugHTTP, "debug-http", "", "optional address to serve live heap-summary diagnostics (e.g. :8080)")
	flag.BoolVar(&showVersion, "version", false, "show version information")
	flag.BoolVar(&showHelp, "help", false, "show help information")
	flag.BoolVar(&jsonOutput, "json", false, "output version in JSON format")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS] -- TARGET [ARGS...]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Launches TARGET with MEMDEBUG_OPTIONS set so any memdebug-linked code\n")
		fmt.Fprintf(os.Stderr, "in the target validates its heap usage for the run.\n\n")
		fmt.Fprintf(os.Stderr, "OPTIONS:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEXAMPLES:\n")
		fmt.Fprintf(os.Stderr, "  %s --options \"LOGALL CHECK=1,999999999\" -- ./myprog arg1\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --options-file mp.opts --watch-config -- ./myprog\n", os.Args[0])
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		cli.PrintVersion("memdebug-run", jsonOutput)
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		cli.ExitWithError("missing TARGET; usage: %s [OPTIONS] -- TARGET [ARGS...]", os.Args[0])
	}

	rawOptions := options
	if optionsFile != "" {
		b, err := os.ReadFile(optionsFile)
		if err != nil {
			cli.ExitWithError("reading options file: %v", err)
		}

		rawOptions = strings.TrimSpace(string(b))

		if _, err := config.Parse(rawOptions); err != nil {
			cli.ExitWithError("invalid options in %s: %v", optionsFile, err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, args, rawOptions, optionsFile, watchConfig, debugHTTP); err != nil {
		var exitErr *exec.ExitError
		if ok := asExitError(err, &exitErr); ok {
			os.Exit(exitErr.ExitCode())
		}

		cli.ExitWithError("%v", err)
	}
}

func asExitError(err error, target **exec.ExitError) bool {
	for e := err; e != nil; e = unwrap(e) {
		if ee, ok := e.(*exec.ExitError); ok {
			*target = ee

			return true
		}
	}

	return false
}

func unwrap(err error) error {
	type unwrapper interface{ Unwrap() error }
	if u, ok := err.(unwrapper); ok {
		return u.Unwrap()
	}

	return nil
}

// run execs the target as a child process and, if debugHTTP is set,
// serves a diagnostics endpoint concurrently, using errgroup so either
// one failing cancels the other (the same context-cancellation idiom
// cmd/gdb-rsp-server/main.go uses for its own concurrent listeners).
func run(ctx context.Context, args []string, rawOptions, optionsFile string, watchConfig bool, debugHTTP string) error {
	g, gctx := errgroup.WithContext(ctx)

	env := append(os.Environ(), optionsEnv+"="+rawOptions)

	cmd := exec.CommandContext(gctx, args[0], args[1:]...)
	cmd.Env = env
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	g.Go(func() error {
		return cmd.Run()
	})

	if debugHTTP != "" {
		srv := &http.Server{
			Addr: debugHTTP,
			Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprintf(w, "memdebug-run: target=%s pid=%d\n", args[0], cmd.Process.Pid)
			}),
		}

		g.Go(func() error {
			<-gctx.Done()

			return srv.Close()
		})

		g.Go(func() error {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return fmt.Errorf("debug-http: %w", err)
			}

			return nil
		})
	}

	if watchConfig && optionsFile != "" {
		w, err := config.WatchFile(optionsFile, func(opts config.Options, werr error) {
			if werr != nil {
				fmt.Fprintf(os.Stderr, "memdebug-run: reloading %s: %v\n", optionsFile, werr)
			}
		})
		if err != nil {
			return fmt.Errorf("watching options file: %w", err)
		}

		defer w.Close()
	}

	return g.Wait()
}
