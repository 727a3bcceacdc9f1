package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/goliatone/go-todolist/internal/logging"
	"github.com/goliatone/go-todolist/pkg/config"
	"github.com/goliatone/go-todolist/pkg/orchestrator"
	"github.com/goliatone/go-todolist/pkg/render"
	"github.com/goliatone/go-todolist/pkg/renderers/bubble"
	"github.com/goliatone/go-todolist/pkg/renderers/tui"
	"github.com/goliatone/go-todolist/pkg/server"
	"github.com/goliatone/go-todolist/pkg/storage"
	"github.com/goliatone/go-todolist/pkg/validation"
	"github.com/goliatone/go-todolist/pkg/widget"
)

const usage = `Usage: %s <command> [flags]

Commands:
  serve    host the list over HTTP
  prompt   edit the list with interactive prompts
  tui      edit the list in a full-screen terminal UI
  render   print the list as html or text
  check    validate stored state files

Run "%s <command> -h" for the flags of a command.
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	name := filepath.Base(os.Args[0])
	if len(args) == 0 {
		fmt.Fprintf(stderr, usage, name, name)
		return 2
	}

	var err error
	switch args[0] {
	case "serve":
		err = serveCmd(ctx, args[1:], stderr)
	case "prompt":
		err = promptCmd(ctx, args[1:], stdout, stderr)
	case "tui":
		err = tuiCmd(ctx, args[1:], stderr)
	case "render":
		err = renderCmd(ctx, args[1:], stdout, stderr)
	case "check":
		err = checkCmd(ctx, args[1:], stdout, stderr)
	case "-h", "--help", "help":
		fmt.Fprintf(stdout, usage, name, name)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n", args[0])
		fmt.Fprintf(stderr, usage, name, name)
		return 2
	}

	switch {
	case err == nil, errors.Is(err, tui.ErrAborted), errors.Is(err, flag.ErrHelp):
		return 0
	case errors.Is(err, errUsage):
		return 2
	default:
		fmt.Fprintf(stderr, "%s: %v\n", args[0], err)
		return 1
	}
}

var errUsage = errors.New("usage")

// common holds the flags every command that builds a list shares.
type common struct {
	configPath string
	logLevel   string
	logFormat  string
}

func (c *common) register(fs *flag.FlagSet) {
	fs.StringVar(&c.configPath, "config", os.Getenv(config.EnvPrefix+"CONFIG"), "config file (.yaml, .toml or .json)")
	fs.StringVar(&c.logLevel, "log-level", "", "override log.level")
	fs.StringVar(&c.logFormat, "log-format", "", "override log.format (text, json, logfmt)")
}

func (c *common) load(stderr io.Writer) (config.Config, *log.Logger, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return config.Config{}, nil, err
	}
	if c.logLevel != "" {
		cfg.Log.Level = c.logLevel
	}
	if c.logFormat != "" {
		cfg.Log.Format = c.logFormat
	}
	logger := cfg.Logger(stderr, logging.Options{
		Prefix:          "todolist",
		ReportTimestamp: true,
	})
	return cfg, logger, nil
}

// openList opens the configured store and builds the list on top of it.
// The returned release func closes the store.
func openList(ctx context.Context, cfg config.Config, logger *log.Logger) (*widget.List, func(), error) {
	store, err := cfg.OpenStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	release := func() {
		if err := storage.Close(store); err != nil {
			logger.Warn("close store", "err", err)
		}
	}
	opts, err := cfg.WidgetOptions(store, logger)
	if err != nil {
		release()
		return nil, nil, err
	}
	list, err := widget.New(ctx, opts...)
	if err != nil {
		release()
		return nil, nil, err
	}
	logger.Debug("list ready", "driver", cfg.Storage.Driver, "key", cfg.Storage.Key, "items", list.State().Len())
	return list, release, nil
}

func newFlagSet(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

func serveCmd(ctx context.Context, args []string, stderr io.Writer) error {
	var c common
	fs := newFlagSet("serve", stderr)
	c.register(fs)
	addr := fs.String("addr", "", "listen address (overrides server.addr)")
	grace := fs.Duration("grace", 0, "shutdown grace period (overrides server.grace)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, logger, err := c.load(stderr)
	if err != nil {
		return err
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *grace > 0 {
		cfg.Server.Grace = config.Duration(*grace)
	}

	list, release, err := openList(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer release()

	srv, err := server.New(ctx, server.NewSession(list),
		server.WithLogger(logger),
		server.WithTitle(cfg.Server.Title),
	)
	if err != nil {
		return err
	}
	return server.ListenAndServe(ctx, cfg.Server.Addr, srv, cfg.Server.Grace.Std(), logger)
}

func promptCmd(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var c common
	fs := newFlagSet("prompt", stderr)
	c.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, logger, err := c.load(stderr)
	if err != nil {
		return err
	}
	list, release, err := openList(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer release()

	session, err := tui.NewSession(list,
		tui.WithPromptDriver(tui.NewSurveyDriver(stdout)),
		tui.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	return session.Run(ctx)
}

func tuiCmd(ctx context.Context, args []string, stderr io.Writer) error {
	var c common
	fs := newFlagSet("tui", stderr)
	c.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, logger, err := c.load(stderr)
	if err != nil {
		return err
	}
	list, release, err := openList(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer release()
	return bubble.Run(ctx, list)
}

func renderCmd(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var c common
	fs := newFlagSet("render", stderr)
	c.register(fs)
	format := fs.String("format", "html", "renderer to use (html, text)")
	fragment := fs.Bool("fragment", false, "emit the widget markup without the page shell")
	output := fs.String("output", "", "output file (stdout if empty)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, logger, err := c.load(stderr)
	if err != nil {
		return err
	}
	store, err := cfg.OpenStore(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := storage.Close(store); err != nil {
			logger.Warn("close store", "err", err)
		}
	}()
	opts, err := cfg.WidgetOptions(nil, logger)
	if err != nil {
		return err
	}

	gen := orchestrator.New(
		orchestrator.WithStore(store, cfg.Storage.Key),
		orchestrator.WithWidgetOptions(opts...),
		orchestrator.WithLogger(logger),
	)
	out, err := gen.Generate(ctx, orchestrator.Request{
		Renderer: *format,
		RenderOptions: render.RenderOptions{
			Title:    cfg.Server.Title,
			Fragment: *fragment,
		},
	})
	if err != nil {
		return err
	}

	if *output != "" {
		if err := os.WriteFile(*output, out, 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		logger.Info("written", "path", *output, "bytes", len(out))
		return nil
	}
	_, err = stdout.Write(out)
	return err
}

type violation struct {
	file    string
	key     string
	message string
}

// checkCmd validates files written by the file store, or raw state blobs.
func checkCmd(_ context.Context, args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("check", stderr)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: check <state files...>\n\nValidate stored TODO list state against the state schema.\n")
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	paths := fs.Args()
	if len(paths) == 0 {
		fs.Usage()
		return errUsage
	}

	var violations []violation
	for _, path := range paths {
		found, err := checkFile(path)
		if err != nil {
			return fmt.Errorf("check %s: %w", path, err)
		}
		violations = append(violations, found...)
	}
	if len(violations) == 0 {
		fmt.Fprintf(stdout, "%d file(s) ok\n", len(paths))
		return nil
	}

	sort.Slice(violations, func(i, j int) bool {
		if violations[i].file == violations[j].file {
			return violations[i].key < violations[j].key
		}
		return violations[i].file < violations[j].file
	})
	for _, v := range violations {
		fmt.Fprintf(stderr, "%s: %s -> %s\n", v.file, v.key, v.message)
	}
	return fmt.Errorf("%d invalid value(s)", len(violations))
}

func checkFile(path string) ([]violation, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	values := make(map[string]string)
	if err := json.Unmarshal(raw, &values); err != nil {
		values = map[string]string{"(file)": string(raw)}
	}

	var result []violation
	for key, value := range values {
		for _, issue := range validation.ValidateState(value).Issues {
			location := key
			if issue.Field != "" {
				location += "." + issue.Field
			}
			result = append(result, violation{file: path, key: location, message: issue.Message})
		}
	}
	return result, nil
}
