package main

import (
	"context"
	"fmt"
	"os"

	"github.com/bastiangx/typeaid/internal/cli"
	"github.com/bastiangx/typeaid/internal/logger"
	"github.com/bastiangx/typeaid/internal/utils"
	"github.com/bastiangx/typeaid/pkg/config"
	"github.com/bastiangx/typeaid/pkg/server"
	"github.com/bastiangx/typeaid/pkg/suggest"
	"github.com/bastiangx/typeaid/pkg/vocab"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

type flags struct {
	dataDir    string
	configPath string
	debug      bool
	limit      int
}

// app is everything a command needs after startup.
type app struct {
	cfg        *config.Config
	configPath string
	dataDir    string
	source     *vocab.FSSource
	store      *vocab.Store
	resolver   *suggest.Resolver
	limit      int
}

func newRootCmd() *cobra.Command {
	f := &flags{}

	root := &cobra.Command{
		Use:           AppName,
		Short:         "Tiered prefix suggestions for keypad text entry",
		Long:          "typeaid serves up to three word completions over msgpack IPC on stdin/stdout.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), f)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&f.dataDir, "data", "", "Directory containing the tier files (default from config)")
	pf.StringVar(&f.configPath, "config", "", "Path to a config.toml")
	pf.BoolVarP(&f.debug, "debug", "d", false, "Toggle debug mode")
	pf.IntVar(&f.limit, "limit", 0, "Number of suggestions to return, at most 3 (default from config)")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the msgpack IPC server (default)",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runServe(cmd.Context(), f)
			},
		},
		&cobra.Command{
			Use:   "cli",
			Short: "Read text from stdin and print suggestions -- useful for testing and debugging",
			RunE: func(_ *cobra.Command, _ []string) error {
				return runCLI(f)
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Load the vocabulary and print the load report",
			RunE: func(_ *cobra.Command, _ []string) error {
				return runStatus(f)
			},
		},
		newConfigCmd(f),
		&cobra.Command{
			Use:   "version",
			Short: "Show current version",
			Run: func(_ *cobra.Command, _ []string) {
				showVersion()
			},
		},
	)
	return root
}

// setup loads config, resolves the data dir and initializes the vocabulary.
func setup(f *flags) (*app, error) {
	cfg, cfgPath, err := config.LoadConfigWithPriority(f.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if f.debug {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else if !logger.SetGlobalLevel(cfg.Log.Level) {
		log.Warnf("Unknown log level %q, keeping %s", cfg.Log.Level, log.GetLevel())
	}

	files := cfg.Vocab.Files.Map()
	markers := make([]string, 0, len(files))
	for _, id := range vocab.AllTiers {
		markers = append(markers, files[id])
	}
	pathResolver, err := utils.NewPathResolver(AppName, markers...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize path resolver: %w", err)
	}

	requested := cfg.Vocab.DataDir
	if f.dataDir != "" {
		requested = f.dataDir
	}
	dataDir := pathResolver.GetDataDir(requested)
	log.Debugf("Using data dir at: %s", dataDir)

	source := vocab.NewFSSource(os.DirFS(dataDir), files)
	store := vocab.NewStore(
		source,
		vocab.Options{Capacity: cfg.Vocab.TierCapacity, Logger: logger.New("vocab")},
	)
	if err := store.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to init vocabulary: %w", err)
	}
	sigHandler(store)

	limit := cfg.Suggest.DefaultLimit
	if f.limit > 0 {
		limit = f.limit
	}

	return &app{
		cfg:        cfg,
		configPath: cfgPath,
		dataDir:    dataDir,
		source:     source,
		store:      store,
		resolver:   suggest.NewResolver(store),
		limit:      limit,
	}, nil
}

func runServe(ctx context.Context, f *flags) error {
	a, err := setup(f)
	if err != nil {
		return err
	}
	defer a.store.Shutdown()

	log.Debug("spawning IPC")
	srv := server.NewServer(a.resolver, a.store, a.limit, os.Stdin, os.Stdout)

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// An explicit --limit wins over the config file.
	if a.cfg.Server.WatchConfig && a.configPath != "" && f.limit == 0 {
		go func() {
			err := config.Watch(ctx, a.configPath, 0, func(c *config.Config) {
				srv.SetDefaultLimit(c.Suggest.DefaultLimit)
				log.Debugf("Default limit now %d", srv.DefaultLimit())
			})
			if err != nil {
				log.Warnf("Config watch stopped: %v", err)
			}
		}()
	}

	showStartupInfo(a)
	return srv.Start()
}

func runCLI(f *flags) error {
	a, err := setup(f)
	if err != nil {
		return err
	}
	defer a.store.Shutdown()

	log.SetReportTimestamp(false)
	log.Debug("Input info:", "limit", a.limit, "data", a.dataDir)

	return cli.NewInputHandler(a.resolver, a.store, a.limit, os.Stdin, os.Stdout).Start()
}

func runStatus(f *flags) error {
	a, err := setup(f)
	if err != nil {
		return err
	}
	defer a.store.Shutdown()

	st := a.store.Status()
	fmt.Printf("data dir: %s\n", utils.GetAbsolutePath(a.dataDir))
	fmt.Printf("status:   %s\n", st.Level)
	fmt.Printf("message:  %s\n", a.store.DiagnosticMessage())
	for _, id := range vocab.AllTiers {
		fmt.Printf("  %-17s %4d / %d  %s\n", id, st.Counts[id], a.cfg.Vocab.TierCapacity, a.source.FileName(id))
	}
	return nil
}

func newConfigCmd(f *flags) *cobra.Command {
	var reset bool
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the active config path, or rewrite it with defaults",
		RunE: func(_ *cobra.Command, _ []string) error {
			if reset {
				if err := config.RebuildConfigFile(); err != nil {
					return fmt.Errorf("failed to rebuild config: %w", err)
				}
			}
			_, path, err := config.LoadConfigWithPriority(f.configPath)
			if err != nil {
				return err
			}
			fmt.Println(config.GetActiveConfigPath(path))
			return nil
		},
	}
	cmd.Flags().BoolVar(&reset, "reset", false, "Rewrite the default config file with built-in defaults")
	return cmd
}

// showVersion prints the styled version banner to stderr.
func showVersion() {
	l := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	l.SetStyles(styles)

	l.Print("")
	l.Print("[ TypeAid ] Tiered word suggestions for tiny keyboards")
	l.Print("", "version", Version)
	l.Print("")
	l.Print("use -h or --help to see available options")
	l.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process on stderr.
func showStartupInfo(a *app) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)
	defer log.SetLevel(currentLevel)

	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Infof("data dir: ( %s )", a.dataDir)
	log.Infof("vocabulary: %s", a.store.DiagnosticMessage())
	log.Info("status: ready")
}
