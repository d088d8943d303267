// # internal/ui/cli/runtime.go
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	coreapp "simpleimport/internal/core/app"
	"simpleimport/internal/core/config"
	coreerrors "simpleimport/internal/core/errors"
	"simpleimport/internal/core/ports"
	"simpleimport/internal/engine/buffer"
	"simpleimport/internal/shared/observability"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
)

// streams are the process handles a run talks to.
type streams struct {
	stdin       io.Reader
	stdout      io.Writer
	stderr      io.Writer
	interactive bool
}

func Run(args []string) int {
	return run(args, streams{
		stdin:       os.Stdin,
		stdout:      os.Stdout,
		stderr:      os.Stderr,
		interactive: isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stderr.Fd()),
	})
}

func run(args []string, std streams) int {
	opts, err := parseOptions(args, std.stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if opts.version {
		fmt.Fprintf(std.stdout, "simpleimport v%s\n", versionString)
		return 0
	}

	configureLogging(std.stderr, opts.verbose)

	if err := validateOptions(opts); err != nil {
		fmt.Fprintln(std.stderr, err.Error())
		return 2
	}

	file, err := filepath.Abs(opts.args[0])
	if err != nil {
		slog.Error("failed to resolve file path", "error", err)
		return 1
	}
	content, err := os.ReadFile(file)
	if err != nil {
		slog.Error("failed to read file", "file", file, "error", err)
		return 1
	}

	root, viewPath, err := resolveProject(opts.root, file)
	if err != nil {
		slog.Error("failed to resolve project", "error", err)
		return 1
	}

	settings, err := loadSettings(opts, root, viewPath)
	if err != nil {
		slog.Error("failed to load settings", "error", err)
		return 1
	}

	req := coreapp.Request{
		Editor:   buffer.New(string(content), opts.selections...),
		Project:  os.DirFS(root),
		ViewPath: viewPath,
		Settings: settings,
		Mode:     modeFor(opts),
	}
	if req.Mode == coreapp.ModeResolveAll {
		deps, err := config.LoadDependencies(root)
		if err != nil {
			slog.Warn("ignoring package.json", "error", err)
		}
		req.Dependencies = deps
	}

	session, err := coreapp.NewSession(req)
	if err != nil {
		if coreerrors.IsCode(err, coreerrors.CodeUnsupportedSyntax) {
			slog.Error("file type not supported", "file", viewPath, "error", err)
		} else {
			slog.Error("failed to start session", "error", err)
		}
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	picker, err := pickerFor(opts, std)
	if err != nil {
		fmt.Fprintln(std.stderr, err.Error())
		return 2
	}
	if err := session.Run(ctx, picker); err != nil {
		slog.Error("failed to resolve imports", "error", err)
		return 1
	}

	edits := session.Edits()
	result := buffer.Apply(string(content), edits)
	cursor := buffer.MapOffset(session.Cursor(), edits)
	slog.Info("expansion finished", "edits", len(edits), "cursor", cursor)

	if code := writeResult(opts, std, file, viewPath, string(content), result, session, edits); code != 0 {
		return code
	}

	if opts.metricsTextfile != "" {
		if err := observability.WriteTextfile(opts.metricsTextfile); err != nil {
			slog.Error("failed to write metrics", "path", opts.metricsTextfile, "error", err)
			return 1
		}
	}
	return 0
}

func writeResult(opts cliOptions, std streams, file, viewPath, before, after string, session *coreapp.Session, edits []ports.Edit) int {
	if opts.explain {
		fmt.Fprint(std.stdout, renderExplain(session.Reports(), edits))
	}

	switch {
	case opts.diff:
		fmt.Fprint(std.stdout, renderDiff(viewPath, before, after))
	case opts.write:
		if after == before {
			slog.Info("file unchanged", "file", viewPath)
			return 0
		}
		info, err := os.Stat(file)
		if err != nil {
			slog.Error("failed to stat file", "file", file, "error", err)
			return 1
		}
		if err := os.WriteFile(file, []byte(after), info.Mode().Perm()); err != nil {
			slog.Error("failed to write file", "file", file, "error", err)
			return 1
		}
		slog.Info("file updated", "file", viewPath, "size", humanize.Bytes(uint64(len(after))))
	case !opts.explain:
		fmt.Fprint(std.stdout, after)
	}
	return 0
}

// resolveProject picks the project root and the edited file's path inside it.
func resolveProject(rootFlag, file string) (string, string, error) {
	root := rootFlag
	if root == "" {
		detected, err := config.DetectProjectRoot([]string{file})
		if err != nil {
			return "", "", err
		}
		root = detected
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return "", "", err
	}
	viewPath, err := config.ViewPath(root, file)
	if err != nil {
		return "", "", err
	}
	return root, viewPath, nil
}

// loadSettings merges defaults, the overrides file, SIMPLE_IMPORT_* variables
// and the project settings file. A malformed project file is logged and
// skipped.
func loadSettings(opts cliOptions, root, viewPath string) (config.Settings, error) {
	path, optional := opts.overridesPath, false
	if path == "" {
		path, optional = config.DefaultOverridesPath(), true
	}
	overrides, err := config.LoadOverrides(path, optional)
	if err != nil {
		return config.Settings{}, err
	}
	overrides = config.ApplyEnvOverrides(overrides)

	settings, err := config.Resolve(root, overrides, viewPath)
	if err != nil {
		slog.Warn("ignoring project settings", "error", err)
	}
	return settings, nil
}

func modeFor(opts cliOptions) coreapp.Mode {
	switch {
	case opts.resolveAll:
		return coreapp.ModeResolveAll
	case opts.insert:
		return coreapp.ModeInsert
	default:
		return coreapp.ModeReplace
	}
}

func pickerFor(opts cliOptions, std streams) (ports.Picker, error) {
	if opts.choose != "" {
		answers, err := parseChoices(opts.choose)
		if err != nil {
			return nil, err
		}
		return &scriptedPicker{answers: answers}, nil
	}
	if std.interactive {
		return &teaPicker{output: std.stderr}, nil
	}
	return newPromptPicker(std.stdin, std.stderr), nil
}

func configureLogging(output io.Writer, verbose bool) {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)
}
