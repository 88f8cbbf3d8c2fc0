package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/ashwch/bol/internal/app"
	"github.com/ashwch/bol/internal/intent"
	"github.com/ashwch/bol/internal/journal"
	"github.com/ashwch/bol/internal/prompt"
	"github.com/ashwch/bol/internal/recorder"
	"github.com/ashwch/bol/internal/session"
	"github.com/ashwch/bol/internal/ui"
)

var version = "dev"

var stdinIsInteractive = prompt.StdinIsInteractive

type options struct {
	Path      string
	Locale    string
	UI        string
	JSON      bool
	PickPage  bool
	Console   bool
	NoJournal bool
	Quiet     bool
	Version   bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, transcript, err := parseArgs(args, stderr)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "bol: %v\n", err)
		return 2
	}
	if opts.Version {
		fmt.Fprintln(stdout, version)
		return 0
	}

	env, err := app.Load(app.Overrides{Locale: opts.Locale, UIBackend: opts.UI})
	if err != nil {
		fmt.Fprintf(stderr, "bol: %v\n", err)
		return 1
	}

	var stores recorder.Stores
	if !opts.NoJournal {
		stores, err = env.Stores()
		if err != nil {
			fmt.Fprintf(stderr, "bol: %v\n", err)
			return 1
		}
	}

	path := opts.Path
	if opts.PickPage {
		route, ok, err := ui.PickPage(env.Config.UI.Backend, env.Catalog.Routes, path)
		if err != nil {
			fmt.Fprintf(stderr, "bol: could not pick page: %v\n", err)
			return 1
		}
		if ok {
			path = route.Path
		}
	}

	record := func(source, transcript, currentPath string, result intent.Result) {
		err := stores.Record(recorder.Entry{
			Source:      source,
			CurrentPath: currentPath,
			Transcript:  transcript,
			Locale:      env.Locale,
			Result:      result,
		})
		if err != nil && !opts.Quiet {
			fmt.Fprintf(stderr, "bol: could not record: %v\n", err)
		}
	}

	if opts.Console {
		sess := session.New(path)
		hook := func(transcript, currentPath string, result intent.Result) {
			record(journal.SourceConsole, transcript, currentPath, result)
		}
		used, err := ui.RunConsole(env.Resolver, sess, ui.ConsoleOptions{Backend: env.Config.UI.Backend, OnResult: hook})
		if err != nil {
			fmt.Fprintf(stderr, "bol: %v\n", err)
			return 1
		}
		if !used {
			if err := plainConsole(stdin, stdout, env.Resolver, sess, hook); err != nil {
				fmt.Fprintf(stderr, "bol: %v\n", err)
				return 1
			}
		}
		return 0
	}

	if transcript == "" {
		if stdinIsInteractive() {
			fmt.Fprintln(stderr, `usage: bol [flags] <transcript...>   e.g. bol --path /schemes "mera naam Ravi hai"`)
			return 2
		}
		err := eachLine(stdin, func(line string) error {
			result := env.Resolver.Resolve(line, path)
			record(journal.SourceCLI, line, path, result)
			return printResult(stdout, result, opts)
		})
		if err != nil {
			fmt.Fprintf(stderr, "bol: %v\n", err)
			return 1
		}
		return 0
	}

	result := env.Resolver.Resolve(transcript, path)
	record(journal.SourceCLI, transcript, path, result)
	if err := printResult(stdout, result, opts); err != nil {
		fmt.Fprintf(stderr, "bol: %v\n", err)
		return 1
	}
	return 0
}

func parseArgs(args []string, stderr io.Writer) (options, string, error) {
	fs := pflag.NewFlagSet("bol", pflag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts options
	fs.StringVarP(&opts.Path, "path", "p", "/", "page the transcript was spoken on")
	fs.StringVar(&opts.Locale, "locale", "", "feedback locale: auto|en|hi|mr")
	fs.StringVar(&opts.UI, "ui", "", "ui backend: auto|bubbletea|huh|tview|plain")
	fs.BoolVarP(&opts.JSON, "json", "j", false, "print the result as JSON")
	fs.BoolVar(&opts.PickPage, "pick-page", false, "choose the current page from the route catalog")
	fs.BoolVarP(&opts.Console, "console", "c", false, "start an interactive console")
	fs.BoolVar(&opts.NoJournal, "no-journal", false, "do not record to the journal or usage store")
	fs.BoolVarP(&opts.Quiet, "quiet", "q", false, "print only the resolved action")
	fs.BoolVar(&opts.Version, "version", false, "print version")

	if err := fs.Parse(args); err != nil {
		return options{}, "", err
	}
	opts.Path = strings.TrimSpace(opts.Path)
	if opts.Path == "" {
		opts.Path = "/"
	}
	if !strings.HasPrefix(opts.Path, "/") {
		return options{}, "", fmt.Errorf("--path must start with /")
	}
	if opts.Console && fs.NArg() > 0 {
		return options{}, "", fmt.Errorf("--console does not take a transcript")
	}
	transcript := strings.TrimSpace(strings.Join(fs.Args(), " "))
	return opts, transcript, nil
}

func printResult(w io.Writer, result intent.Result, opts options) error {
	if opts.JSON {
		encoded, err := json.Marshal(result)
		if err != nil {
			return fmt.Errorf("could not encode result: %w", err)
		}
		_, err = fmt.Fprintln(w, string(encoded))
		return err
	}
	if opts.Quiet {
		_, err := fmt.Fprintln(w, ui.Describe(result))
		return err
	}
	_, err := fmt.Fprintf(w, "%s\n  %s\n", result.Feedback, ui.Describe(result))
	return err
}

// plainConsole is the line-based console used when no interactive UI runs.
func plainConsole(in io.Reader, out io.Writer, resolver *intent.Resolver, sess *session.Session, hook ui.ResultHook) error {
	fmt.Fprintln(out, "bol console (type exit to quit)")
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprintf(out, "%s> ", sess.Path())
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(line) {
		case "":
			continue
		case "exit", "quit":
			return nil
		}
		path := sess.Path()
		result := resolver.Resolve(line, path)
		sess.Apply(result)
		hook(line, path, result)
		fmt.Fprintf(out, "%s\n  %s\n", result.Feedback, ui.Describe(result))
	}
}

func eachLine(in io.Reader, fn func(string) error) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := fn(line); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("could not read transcripts: %w", err)
	}
	return nil
}
