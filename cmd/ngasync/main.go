// ngasync — command-line front end for the async→generator rewrite engine.
//
// Subcommands:
//
//	ngasync transform [file ...]   Rewrite files (or stdin) and print the result.
//	ngasync repl                   Interactive rewrite loop.
//	ngasync watch <dir>            Rewrite .js files in a directory on change.
//
// The engine itself lives in the root package; this binary only wires it to
// the host toolchain (go-fast parser and generator) and to the filesystem.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"
	"github.com/t14raptor/go-fast/generator"
	"github.com/t14raptor/go-fast/parser"
	"go.uber.org/zap"

	ngasync "github.com/daios-ai/ngasync"
)

const (
	appName     = "ngasync"
	historyFile = ".ngasync_history"
	promptMain  = "js> "
	promptCont  = "... "

	// Suffix for rewritten files emitted by the watch command. Files already
	// carrying it are skipped so the watcher never feeds on its own output.
	outSuffix = ".ng.js"
)

func red(s string) string   { return "\x1b[31m" + s + "\x1b[0m" }
func green(s string) string { return "\x1b[32m" + s + "\x1b[0m" }

var configJSON string

func main() {
	root := &cobra.Command{
		Use:           appName,
		Short:         "rewrite async/await into _ngAsyncToGenerator generator wrappers",
		Version:       ngasync.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configJSON, "config", "", "plugin options as a JSON object")

	root.AddCommand(transformCmd(), replCmd(), watchCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		os.Exit(1)
	}
}

// loadConfig parses the --config flag, if given.
func loadConfig() (ngasync.Config, error) {
	return ngasync.ParseConfig([]byte(configJSON))
}

// rewriteSource runs one parse → transform → print round over src. name is
// used in error messages only.
func rewriteSource(name, src string, cfg ngasync.Config) (string, error) {
	program, err := parser.ParseFile(src)
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", name, err)
	}
	ngasync.TransformWithConfig(program, cfg)
	return generator.Generate(program), nil
}

// -----------------------------------------------------------------------------
// transform
// -----------------------------------------------------------------------------

func transformCmd() *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "transform [file ...]",
		Short: "rewrite the given files (stdin when none) and print the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			if len(args) == 0 {
				src, err := io.ReadAll(os.Stdin)
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				out, err := rewriteSource("<stdin>", string(src), cfg)
				if err != nil {
					return err
				}
				fmt.Print(out)
				return nil
			}

			for _, path := range args {
				src, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				out, err := rewriteSource(path, string(src), cfg)
				if err != nil {
					return err
				}
				if write {
					if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
						return err
					}
					continue
				}
				fmt.Print(out)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "rewrite files in place instead of printing")
	return cmd
}

// -----------------------------------------------------------------------------
// repl
// -----------------------------------------------------------------------------

func replCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "interactively rewrite pasted JavaScript",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			runRepl(cfg)
			return nil
		},
	}
}

func runRepl(cfg ngasync.Config) {
	fmt.Printf("ngasync %s REPL\nCtrl+C cancels input, Ctrl+D exits. Type :quit to exit.\n", ngasync.Version)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	ln.SetCtrlCAborts(true)

	var closeOnce sync.Once
	closeLiner := func() { closeOnce.Do(func() { _ = ln.Close() }) }
	defer closeLiner()

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		// Closing the liner fails the pending prompt; the loop then
		// unwinds through the deferred history write and close.
		<-sigc
		closeLiner()
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	for {
		code, ok := readByParseProbe(ln, promptMain, promptCont)
		if !ok {
			fmt.Println()
			return
		}

		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, ":") {
			if strings.EqualFold(trimmed, ":quit") {
				return
			}
			fmt.Println("unknown command. Type :quit to exit.")
			continue
		}

		out, err := rewriteSource("<repl>", code, cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, red(err.Error()))
			continue
		}
		fmt.Println(green(strings.TrimRight(out, "\n")))
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
	}
}

// readByParseProbe accumulates lines until the buffer parses as JavaScript.
// An empty line forces the buffer out as-is, so a genuine syntax error
// surfaces instead of prompting forever. Ctrl+C discards the buffer and
// starts over; EOF and any other prompt failure (the liner was closed)
// return ok=false so the caller unwinds.
func readByParseProbe(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		var line string
		var err error
		if b.Len() == 0 {
			line, err = ln.Prompt(prompt)
		} else {
			line, err = ln.Prompt(cont)
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			fmt.Println()
			b.Reset()
			continue
		}
		if err != nil {
			return "", false
		}

		if b.Len() > 0 && line == "" {
			return b.String(), true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.TrimSpace(src) == "" {
			return src, true
		}
		if _, perr := parser.ParseFile(src); perr == nil {
			return src, true
		}
	}
}

// -----------------------------------------------------------------------------
// watch
// -----------------------------------------------------------------------------

func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <dir>",
		Short: "rewrite .js files in a directory whenever they change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runWatch(args[0], cfg)
		},
	}
}

func runWatch(dir string, cfg ngasync.Config) error {
	logger, err := zap.NewDevelopment()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Sugar()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	log.Infow("watching", "dir", dir)

	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if filepath.Ext(ev.Name) != ".js" || strings.HasSuffix(ev.Name, outSuffix) {
				continue
			}
			if err := rewriteFile(ev.Name, cfg); err != nil {
				log.Errorw("rewrite failed", "file", ev.Name, "err", err)
				continue
			}
			log.Infow("rewrote", "file", ev.Name, "out", outPath(ev.Name))

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Errorw("watcher error", "err", err)
		}
	}
}

func outPath(path string) string {
	return strings.TrimSuffix(path, ".js") + outSuffix
}

func rewriteFile(path string, cfg ngasync.Config) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	out, err := rewriteSource(path, string(src), cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(outPath(path), []byte(out), 0o644)
}
