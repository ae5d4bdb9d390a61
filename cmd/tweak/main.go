package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/germanamz/tweak/pkg/config"
	"github.com/germanamz/tweak/pkg/tweakdir"
)

// commonFlags are accepted by every command.
type commonFlags struct {
	dataDir    *string
	configPath *string
	envFile    *string
	dryRun     *bool
}

func addCommonFlags(fs *flag.FlagSet) commonFlags {
	return commonFlags{
		dataDir:    fs.String("data-dir", tweakdir.DefaultRoot(), "path to the data directory"),
		configPath: fs.String("config", "", "path to configuration file (default: <data-dir>/config.yaml)"),
		envFile:    fs.String("env", ".env", "path to .env file (ignored if missing)"),
		dryRun:     fs.Bool("dry-run", false, "show setting changes without writing them"),
	}
}

func main() {
	// Handle subcommands before flag parsing.
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "init":
			initCmd := flag.NewFlagSet("init", flag.ExitOnError)
			initCmd.Usage = func() {
				fmt.Fprintf(os.Stderr, "Usage: tweak init [flags]\n\nInitialize the data directory and write config.yaml.\n\nFlags:\n")
				initCmd.PrintDefaults()
			}
			flags := addCommonFlags(initCmd)
			_ = initCmd.Parse(os.Args[2:])

			exitOnError(runInit(flags))
			return
		case "list":
			listCmd := flag.NewFlagSet("list", flag.ExitOnError)
			listCmd.Usage = func() {
				fmt.Fprintf(os.Stderr, "Usage: tweak list [flags]\n\nList modules by category.\n\nFlags:\n")
				listCmd.PrintDefaults()
			}
			flags := addCommonFlags(listCmd)
			category := listCmd.String("category", "", "only list modules in this category")
			_ = listCmd.Parse(os.Args[2:])

			exitOnError(withApp(flags, func(a *app) error {
				return runList(os.Stdout, a, *category)
			}))
			return
		case "show":
			showCmd := flag.NewFlagSet("show", flag.ExitOnError)
			showCmd.Usage = func() {
				fmt.Fprintf(os.Stderr, "Usage: tweak show [flags] <module>\n\nDescribe a module.\n\nFlags:\n")
				showCmd.PrintDefaults()
			}
			flags := addCommonFlags(showCmd)
			width := showCmd.Int("width", 80, "wrap width")
			_ = showCmd.Parse(os.Args[2:])
			if showCmd.NArg() != 1 {
				showCmd.Usage()
				os.Exit(2)
			}

			exitOnError(withApp(flags, func(a *app) error {
				return runShow(os.Stdout, a, showCmd.Arg(0), *width)
			}))
			return
		}
	}

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: tweak [flags]\n       tweak <command> [flags]\n\nFlags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nCommands:\n  init    Initialize the data directory and write config.yaml\n  list    List modules by category\n  show    Describe a module\n")
	}
	flags := addCommonFlags(flag.CommandLine)
	flag.Parse()

	exitOnError(withApp(flags, runTUI))
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// withApp loads the environment, configuration and modules, then calls fn.
func withApp(flags commonFlags, fn func(*app) error) error {
	if err := loadDotEnv(*flags.envFile); err != nil {
		return err
	}

	d := tweakdir.New(*flags.dataDir)

	cfg, err := config.LoadOrDefault(resolveConfigPath(*flags.configPath, d))
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	cfg.DataDir = d.Root()
	if *flags.dryRun {
		cfg.DryRun = true
	}

	var logW io.Writer = io.Discard
	if d.Exists() {
		f, err := openLog(d)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		logW = f
	}
	log := newLogger(cfg.Log, logW)

	a, err := newApp(cfg, d, log)
	if err != nil {
		return err
	}
	log.Info("modules loaded", "count", len(a.loader.Modules()), "data_dir", d.Root(), "dry_run", cfg.DryRun)

	return fn(a)
}

func runTUI(a *app) error {
	p := tea.NewProgram(newAppModel(a), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func runInit(flags commonFlags) error {
	if err := loadDotEnv(*flags.envFile); err != nil {
		return err
	}

	d := tweakdir.New(*flags.dataDir)

	cfg := config.Default()
	a, err := newApp(cfg, d, newLogger(cfg.Log, io.Discard))
	if err != nil {
		return err
	}
	var names []string
	for _, c := range a.loader.Modules() {
		if c.Failure == nil {
			names = append(names, c.Name)
		}
	}

	configYAML, err := runWizard(names)
	if err != nil {
		return err
	}

	if err := tweakdir.BootstrapWithConfig(d, configYAML); err != nil {
		return err
	}

	fmt.Printf("Initialized %s\n", d.Root())

	return nil
}
