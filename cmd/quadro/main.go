package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"syscall"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/fang"
	serveradapter "github.com/evanschultz/quadro/internal/adapters/server"
	servercommon "github.com/evanschultz/quadro/internal/adapters/server/common"
	"github.com/evanschultz/quadro/internal/adapters/storage/memory"
	"github.com/evanschultz/quadro/internal/adapters/storage/sqlite"
	"github.com/evanschultz/quadro/internal/app"
	"github.com/evanschultz/quadro/internal/config"
	"github.com/evanschultz/quadro/internal/domain"
	"github.com/evanschultz/quadro/internal/platform"
	"github.com/evanschultz/quadro/internal/tui"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// version is set at build time.
var version = "dev"

// program is the slice of tea.Program the TUI command drives.
type program interface {
	Run() (tea.Model, error)
}

// programFactory builds the TUI program. Tests replace it.
var programFactory = func(m tea.Model) program {
	return tea.NewProgram(m)
}

// serveCommandRunner starts the HTTP and MCP listeners. Tests replace it.
var serveCommandRunner = func(ctx context.Context, cfg serveradapter.Config, deps serveradapter.Dependencies) error {
	return serveradapter.Run(ctx, cfg, deps)
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

// run executes one CLI invocation.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}
	root := newRootCommand(stderr)
	root.SetArgs(args)
	root.SetIn(os.Stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return fang.Execute(ctx, root, fang.WithVersion(version))
}

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	configPath string
	dbPath     string
	backend    string
	appName    string
	devMode    bool
}

// newRootCommand wires the command tree. Without a subcommand it opens the board.
func newRootCommand(stderr io.Writer) *cobra.Command {
	opts := &rootOptions{appName: platform.DefaultAppName}
	if envApp := strings.TrimSpace(os.Getenv("QUADRO_APP_NAME")); envApp != "" {
		opts.appName = envApp
	}
	defaultDevMode := version == "dev"
	if envDev, ok := parseBoolEnv("QUADRO_DEV_MODE"); ok {
		defaultDevMode = envDev
	}

	root := &cobra.Command{
		Use:           "quadro",
		Short:         "Four-column task board for the terminal, HTTP and MCP",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), opts, stderr)
		},
	}
	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "path to config TOML")
	flags.StringVar(&opts.dbPath, "db", "", "path to sqlite database")
	flags.StringVar(&opts.backend, "backend", "", "task repository backend (sqlite|memory)")
	flags.StringVar(&opts.appName, "app", opts.appName, "application name for config/data path resolution")
	flags.BoolVar(&opts.devMode, "dev", defaultDevMode, "use dev mode paths (<app>-dev)")

	root.AddCommand(
		newServeCommand(opts, stderr),
		newTasksCommand(opts, stderr),
		newSearchCommand(opts, stderr),
		newActivityCommand(opts, stderr),
		newExportCommand(opts, stderr),
		newImportCommand(opts, stderr),
		newPathsCommand(opts),
	)
	return root
}

// runtimeEnv bundles the resolved config, logger and service for one command.
type runtimeEnv struct {
	appName    string
	configPath string
	paths      platform.Paths
	cfg        config.Config
	logger     *runtimeLogger
	svc        *app.Service
	closeRepo  func() error
}

// Close releases the repository and the dev log file.
func (e *runtimeEnv) Close() {
	if e == nil {
		return
	}
	if e.closeRepo != nil {
		if err := e.closeRepo(); err != nil {
			e.logger.Warn("repository close failed", "backend", e.cfg.Database.Backend, "err", err)
		}
	}
	_ = e.logger.Close()
}

// openRuntime resolves paths and config, then opens the repository and service. Notices go to
// notices when it is set and to the log otherwise.
func openRuntime(ctx context.Context, opts *rootOptions, command string, stderr io.Writer, notices chan<- app.Notice) (*runtimeEnv, error) {
	paths, err := platform.DefaultPathsWithOptions(platform.Options{AppName: opts.appName, DevMode: opts.devMode})
	if err != nil {
		return nil, err
	}

	configPath := opts.configPath
	if configPath == "" {
		configPath = paths.ConfigPath
		if envPath := strings.TrimSpace(os.Getenv("QUADRO_CONFIG")); envPath != "" {
			configPath = envPath
		}
	}
	dbPath := strings.TrimSpace(opts.dbPath)
	dbOverridden := dbPath != ""
	if !dbOverridden {
		dbPath = paths.DBPath
		if envPath := strings.TrimSpace(os.Getenv("QUADRO_DB_PATH")); envPath != "" {
			dbPath = envPath
			dbOverridden = true
		}
	}

	cfg, err := config.Load(configPath, config.Default(dbPath))
	if err != nil {
		return nil, fmt.Errorf("load config %q: %w", configPath, err)
	}
	if dbOverridden {
		cfg.Database.Path = dbPath
	}
	if backend := strings.TrimSpace(opts.backend); backend != "" {
		cfg.Database.Backend = config.Backend(strings.ToLower(backend))
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	logger, err := newRuntimeLogger(stderr, opts.appName, opts.devMode, cfg.Logging, time.Now)
	if err != nil {
		return nil, fmt.Errorf("configure runtime logger: %w", err)
	}
	if command == "tui" {
		// The board owns the terminal; logs go to the dev file only.
		logger.SetConsoleEnabled(false)
	}
	env := &runtimeEnv{
		appName:    opts.appName,
		configPath: configPath,
		paths:      paths,
		cfg:        cfg,
		logger:     logger,
	}
	logger.Debug("runtime paths resolved", "config_path", configPath, "data_dir", paths.DataDir, "db_path", cfg.Database.Path)
	logger.Info("configuration loaded", "command", command, "backend", cfg.Database.Backend, "locale", cfg.BoardLocale(), "log_level", cfg.Logging.Level)
	if devPath := logger.DevLogPath(); devPath != "" {
		logger.Info("dev file logging enabled", "path", devPath)
	}

	repo, err := openRepository(cfg.Database, logger)
	if err != nil {
		env.Close()
		return nil, err
	}
	if closer, ok := repo.(interface{ Close() error }); ok {
		env.closeRepo = closer.Close
	}

	env.svc = app.NewService(repo, uuid.NewString, nil, app.ServiceConfig{
		Locale:   cfg.BoardLocale(),
		Notifier: noticeSink(notices, logger),
	})
	// Imports land in the store as given; sample tasks would collide with snapshot ids.
	if cfg.Board.SeedFixtures && command != "import" {
		seeded, err := env.svc.SeedFixtures(ctx)
		if err != nil {
			env.Close()
			return nil, fmt.Errorf("seed fixtures: %w", err)
		}
		if seeded > 0 {
			logger.Info("seeded sample board", "tasks", seeded)
		}
	}
	return env, nil
}

// openRepository opens the configured task repository.
func openRepository(db config.DatabaseConfig, logger *runtimeLogger) (app.Repository, error) {
	switch db.Backend {
	case config.BackendMemory:
		logger.Info("using in-memory repository")
		return memory.New(), nil
	default:
		logger.Info("opening sqlite repository", "db_path", db.Path)
		repo, err := sqlite.Open(db.Path)
		if err != nil {
			logger.Error("sqlite open failed", "db_path", db.Path, "err", err)
			return nil, fmt.Errorf("open sqlite repository: %w", err)
		}
		return repo, nil
	}
}

// noticeSink forwards notices without blocking. The service calls it under its lock.
func noticeSink(notices chan<- app.Notice, logger *runtimeLogger) app.Notifier {
	if notices == nil {
		return func(n app.Notice) {
			logger.Debug("notice", "id", n.ID, "title", n.Title, "description", n.Description, "variant", n.Variant)
		}
	}
	return func(n app.Notice) {
		select {
		case notices <- n:
		default:
			logger.Warn("notice dropped", "title", n.Title)
		}
	}
}

// runTUI opens the interactive board.
func runTUI(ctx context.Context, opts *rootOptions, stderr io.Writer) error {
	notices := make(chan app.Notice, 16)
	env, err := openRuntime(ctx, opts, "tui", stderr, notices)
	if err != nil {
		return err
	}
	defer env.Close()

	m := tui.NewModel(
		env.svc,
		tui.WithCardFieldConfig(tui.CardFieldConfig{
			ShowDescription: env.cfg.UI.ShowDescription,
			ShowAssignee:    env.cfg.UI.ShowAssignee,
			ShowDueDate:     env.cfg.UI.ShowDueDate,
			ShowSubtasks:    env.cfg.UI.ShowSubtasks,
		}),
		tui.WithConfirmQuit(env.cfg.UI.ConfirmQuit),
		tui.WithNotices(notices),
	)
	env.logger.Info("starting tui program loop")
	if _, err := programFactory(m).Run(); err != nil {
		env.logger.Error("tui program terminated with error", "err", err)
		return fmt.Errorf("run tui program: %w", err)
	}
	env.logger.Info("command flow complete", "command", "tui")
	return nil
}

// newServeCommand serves the JSON API and MCP over HTTP until interrupted.
func newServeCommand(opts *rootOptions, stderr io.Writer) *cobra.Command {
	var (
		bind        string
		apiEndpoint string
		mcpEndpoint string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the board over HTTP JSON and MCP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			env, err := openRuntime(ctx, opts, "serve", stderr, nil)
			if err != nil {
				return err
			}
			defer env.Close()

			cfg := serveradapter.Config{
				HTTPBind:      firstNonEmpty(bind, env.cfg.Server.HTTPBind),
				APIEndpoint:   firstNonEmpty(apiEndpoint, env.cfg.Server.APIEndpoint),
				MCPEndpoint:   firstNonEmpty(mcpEndpoint, env.cfg.Server.MCPEndpoint),
				ServerName:    env.appName,
				ServerVersion: version,
			}
			adapter := servercommon.NewAppServiceAdapter(env.svc)
			env.logger.Info("command flow start", "command", "serve", "http_bind", cfg.HTTPBind)
			err = serveCommandRunner(ctx, cfg, serveradapter.Dependencies{
				Board:  adapter,
				Drafts: adapter,
				Logger: env.logger.RequestLogger(),
			})
			if err != nil {
				env.logger.Error("command flow failed", "command", "serve", "err", err)
				return fmt.Errorf("run serve command: %w", err)
			}
			env.logger.Info("command flow complete", "command", "serve")
			return nil
		},
	}
	cmd.Flags().StringVar(&bind, "http", "", "listen address (overrides [server] http_bind)")
	cmd.Flags().StringVar(&apiEndpoint, "api-endpoint", "", "JSON API base path")
	cmd.Flags().StringVar(&mcpEndpoint, "mcp-endpoint", "", "MCP endpoint path")
	return cmd
}

// newTasksCommand groups the task subcommands.
func newTasksCommand(opts *rootOptions, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List, create and move tasks",
	}
	cmd.AddCommand(
		newTasksListCommand(opts, stderr),
		newTasksCreateCommand(opts, stderr),
		newTasksMoveCommand(opts, stderr),
	)
	return cmd
}

func newTasksListCommand(opts *rootOptions, stderr io.Writer) *cobra.Command {
	var (
		status string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks, optionally only one status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := openRuntime(cmd.Context(), opts, "tasks list", stderr, nil)
			if err != nil {
				return err
			}
			defer env.Close()

			var tasks []domain.Task
			if strings.TrimSpace(status) == "" {
				tasks, err = env.svc.ListTasks(cmd.Context())
				if err != nil {
					return fmt.Errorf("list tasks: %w", err)
				}
			} else {
				parsed, err := domain.ParseStatus(status)
				if err != nil {
					return fmt.Errorf("parse --status %q: %w", status, err)
				}
				seq, err := env.svc.FilterByStatus(cmd.Context(), parsed)
				if err != nil {
					return fmt.Errorf("filter tasks: %w", err)
				}
				tasks = slices.Collect(seq)
			}
			if asJSON {
				views := make([]servercommon.TaskView, 0, len(tasks))
				for _, task := range tasks {
					views = append(views, servercommon.TaskViewFromDomain(task, env.svc.Locale()))
				}
				return writeJSON(cmd.OutOrStdout(), views)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), renderTaskTable(tasks, env.svc.Locale()))
			return err
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "only tasks in this status (to-do|in-progress|in-review|done)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func newTasksCreateCommand(opts *rootOptions, stderr io.Writer) *cobra.Command {
	var (
		title       string
		description string
		status      string
		priority    string
		assignee    string
		initials    string
		due         string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			draft, err := draftFromFlags(title, description, status, priority, assignee, initials, due)
			if err != nil {
				return err
			}
			env, err := openRuntime(cmd.Context(), opts, "tasks create", stderr, nil)
			if err != nil {
				return err
			}
			defer env.Close()

			task, err := env.svc.CreateTask(cmd.Context(), draft)
			if err != nil {
				return fmt.Errorf("create task: %w", err)
			}
			env.logger.Info("task created", "task_id", task.ID, "status", task.Status)
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "created #%d %s [%s]\n", task.ID, task.Title, task.Status.Label(env.svc.Locale()))
			return err
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "task title (required)")
	cmd.Flags().StringVar(&description, "description", "", "task description")
	cmd.Flags().StringVar(&status, "status", "", "initial status (default to-do)")
	cmd.Flags().StringVar(&priority, "priority", "", "priority (low|medium|high, default medium)")
	cmd.Flags().StringVar(&assignee, "assignee", "", "assignee full name")
	cmd.Flags().StringVar(&initials, "initials", "", "assignee initials (derived from the name when empty)")
	cmd.Flags().StringVar(&due, "due", "", "due date ("+domain.DueDateLayout+")")
	return cmd
}

// draftFromFlags parses create flags. Empty status and priority fall back to the task defaults.
func draftFromFlags(title, description, status, priority, assignee, initials, due string) (domain.Draft, error) {
	draft := domain.Draft{Title: title, Description: description}
	if strings.TrimSpace(status) != "" {
		parsed, err := domain.ParseStatus(status)
		if err != nil {
			return domain.Draft{}, fmt.Errorf("parse --status %q: %w", status, err)
		}
		draft.Status = parsed
	}
	if strings.TrimSpace(priority) != "" {
		parsed, err := domain.ParsePriority(priority)
		if err != nil {
			return domain.Draft{}, fmt.Errorf("parse --priority %q: %w", priority, err)
		}
		draft.Priority = parsed
	}
	a, err := domain.NewAssignee(assignee, initials)
	if err != nil {
		return domain.Draft{}, fmt.Errorf("parse --assignee: %w", err)
	}
	draft.Assignee = a
	dueDate, err := domain.ParseDueDate(due)
	if err != nil {
		return domain.Draft{}, fmt.Errorf("parse --due %q: %w", due, err)
	}
	draft.DueDate = dueDate
	return draft, nil
}

func newTasksMoveCommand(opts *rootOptions, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "move ID STATUS",
		Short: "Move a task to another column",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("parse task id %q: %w", args[0], domain.ErrInvalidID)
			}
			status, err := domain.ParseStatus(args[1])
			if err != nil {
				return fmt.Errorf("parse status %q: %w", args[1], err)
			}
			env, err := openRuntime(cmd.Context(), opts, "tasks move", stderr, nil)
			if err != nil {
				return err
			}
			defer env.Close()

			res, err := env.svc.MoveTask(cmd.Context(), id, status)
			if err != nil {
				return fmt.Errorf("move task: %w", err)
			}
			if !res.Matched {
				return fmt.Errorf("task %d: %w", id, app.ErrNotFound)
			}
			label := status.Label(env.svc.Locale())
			if !res.Changed {
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "#%d already in %s\n", id, label)
				return err
			}
			env.logger.Info("task moved", "task_id", id, "status", status)
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "moved #%d to %s\n", id, label)
			return err
		},
	}
}

func newSearchCommand(opts *rootOptions, stderr io.Writer) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "search QUERY",
		Short: "Fuzzy-search task titles and descriptions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openRuntime(cmd.Context(), opts, "search", stderr, nil)
			if err != nil {
				return err
			}
			defer env.Close()

			matches, err := env.svc.SearchTasks(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return fmt.Errorf("search tasks: %w", err)
			}
			if limit > 0 && len(matches) > limit {
				matches = matches[:limit]
			}
			if len(matches) == 0 {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), "no matches")
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), renderMatchTable(matches, env.svc.Locale()))
			return err
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "maximum matches to print (0 for all)")
	return cmd
}

func newActivityCommand(opts *rootOptions, stderr io.Writer) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Show the newest board changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := openRuntime(cmd.Context(), opts, "activity", stderr, nil)
			if err != nil {
				return err
			}
			defer env.Close()

			events, err := env.svc.ListChangeEvents(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("list activity: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), renderActivityTable(events, env.svc.Locale()))
			return err
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 25, "maximum events to print")
	return cmd
}

func newExportCommand(opts *rootOptions, stderr io.Writer) *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the board as a JSON snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := openRuntime(cmd.Context(), opts, "export", stderr, nil)
			if err != nil {
				return err
			}
			defer env.Close()

			snap, err := env.svc.ExportSnapshot(cmd.Context())
			if err != nil {
				return fmt.Errorf("export snapshot: %w", err)
			}
			encoded, err := json.MarshalIndent(snap, "", "  ")
			if err != nil {
				return fmt.Errorf("encode snapshot json: %w", err)
			}
			encoded = append(encoded, '\n')
			if outPath == "-" {
				if _, err := cmd.OutOrStdout().Write(encoded); err != nil {
					return fmt.Errorf("write snapshot to stdout: %w", err)
				}
				return nil
			}
			if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
				return fmt.Errorf("create export output dir: %w", err)
			}
			if err := os.WriteFile(outPath, encoded, 0o644); err != nil {
				return fmt.Errorf("write export file: %w", err)
			}
			env.logger.Info("snapshot exported", "path", outPath, "tasks", len(snap.Tasks))
			return nil
		},
	}
	cmd.Flags().StringVar(&outPath, "out", "-", "output file path ('-' for stdout)")
	return cmd
}

func newImportCommand(opts *rootOptions, stderr io.Writer) *cobra.Command {
	var inPath string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load tasks from a JSON snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(inPath) == "" {
				return errors.New("--in is required")
			}
			content, err := os.ReadFile(inPath)
			if err != nil {
				return fmt.Errorf("read import file: %w", err)
			}
			snap, err := app.DecodeSnapshot(content)
			if err != nil {
				return fmt.Errorf("decode snapshot: %w", err)
			}
			env, err := openRuntime(cmd.Context(), opts, "import", stderr, nil)
			if err != nil {
				return err
			}
			defer env.Close()

			created, err := env.svc.ImportSnapshot(cmd.Context(), snap)
			if err != nil {
				return fmt.Errorf("import snapshot: %w", err)
			}
			env.logger.Info("snapshot imported", "path", inPath, "created", created)
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "imported %d tasks\n", created)
			return err
		},
	}
	cmd.Flags().StringVar(&inPath, "in", "", "input snapshot JSON file")
	return cmd
}

func newPathsCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Print resolved config, data and log locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			paths, err := platform.DefaultPathsWithOptions(platform.Options{AppName: opts.appName, DevMode: opts.devMode})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "app: %s\n", opts.appName)
			_, _ = fmt.Fprintf(out, "dev_mode: %t\n", opts.devMode)
			_, _ = fmt.Fprintf(out, "config: %s\n", paths.ConfigPath)
			_, _ = fmt.Fprintf(out, "data_dir: %s\n", paths.DataDir)
			_, _ = fmt.Fprintf(out, "db: %s\n", paths.DBPath)
			_, _ = fmt.Fprintf(out, "log_dir: %s\n", paths.LogDir)
			return nil
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// parseBoolEnv reads a boolean env var. ok is false when unset or unparsable.
func parseBoolEnv(name string) (bool, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
