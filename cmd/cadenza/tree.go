package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"cadenza/internal/backend/local"
	"cadenza/internal/command"
	"cadenza/internal/config"
	"cadenza/internal/core"
	"cadenza/internal/deps"
	"cadenza/internal/frontend/httpapi"
	"cadenza/internal/logging"
	"cadenza/internal/registry"
	"cadenza/internal/server"
)

func configFilesType(raw string) (any, error) {
	return strings.Split(raw, ":"), nil
}

func configOverrideType(raw string) (any, error) {
	override, err := config.ParseOverride(raw)
	if err != nil {
		return nil, err
	}
	return override, nil
}

// newRootCommand builds the full command tree: the root server command plus
// the config and deps leaves.
func newRootCommand() *command.Command {
	root := command.New()
	root.Help = "cadenza is a music server. Running it with no command starts the server."
	root.Version = deps.VersionLine()
	root.Run = rootRun
	root.Set(map[string]any{"base_verbosity_level": 0})

	root.AddArgument(&command.ArgumentSpec{
		Names:  []string{"-h", "--help"},
		Action: command.Help,
		Help:   "show this message and exit",
	})
	root.AddArgument(&command.ArgumentSpec{
		Names:  []string{"--version"},
		Action: command.Version,
		Help:   "print version and exit",
	})
	root.AddArgument(&command.ArgumentSpec{
		Names:  []string{"-q", "--quiet"},
		Action: command.StoreConst,
		Dest:   "verbosity_level",
		Const:  -1,
		Help:   "less output (warning level)",
	})
	root.AddArgument(&command.ArgumentSpec{
		Names:  []string{"-v", "--verbose"},
		Action: command.Count,
		Dest:   "verbosity_level",
		Help:   "more output (repeat for even more)",
	})
	root.AddArgument(&command.ArgumentSpec{
		Names:  []string{"--save-debug-log"},
		Action: command.StoreTrue,
		Dest:   "save_debug_log",
		Help:   `save debug log to "./cadenza.log"`,
	})
	root.AddArgument(&command.ArgumentSpec{
		Names:   []string{"--config"},
		Dest:    "config_files",
		Convert: configFilesType,
		Default: config.DefaultFiles(),
		Metavar: "FILES",
		Help:    "config files to use, colon separated, later files override",
	})
	root.AddArgument(&command.ArgumentSpec{
		Names:   []string{"-o", "--option"},
		Action:  command.Append,
		Dest:    "config_overrides",
		Convert: configOverrideType,
		Metavar: "OPTIONS",
		Help:    "`section/key=value` values to override config options",
	})

	configCmd := command.New()
	configCmd.Help = "Show currently active configuration."
	configCmd.Run = configRun
	configCmd.Set(map[string]any{"base_verbosity_level": -1})
	root.AddChild("config", configCmd)

	depsCmd := command.New()
	depsCmd.Help = "Show dependencies and debug information."
	depsCmd.Run = depsRun
	depsCmd.Set(map[string]any{"base_verbosity_level": -1})
	root.AddChild("deps", depsCmd)

	return root
}

func loadConfig(res *command.Result) (*config.Config, error) {
	var overrides []config.Override
	for _, value := range res.Slice("config_overrides") {
		if override, ok := value.(config.Override); ok {
			overrides = append(overrides, override)
		}
	}
	return config.Load(res.Strings("config_files"), overrides)
}

func rootRun(ctx context.Context, res *command.Result) int {
	cfg, err := loadConfig(res)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	verbosity := res.Int("base_verbosity_level") + res.Int("verbosity_level")
	opts := logging.Options{
		Level:     logging.LevelFromVerbosity(verbosity),
		Format:    cfg.Logging.Format,
		AddSource: verbosity >= 2,
	}
	if res.Bool("save_debug_log") {
		opts.DebugLogFile = cfg.Logging.DebugLogFile
	}
	logger, err := logging.New(opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	reg := registry.New()
	if cfg.Local.Enabled {
		reg.RegisterBackend(registry.BackendClass{
			Name:  "local",
			Start: local.Class{}.Start,
		})
	}
	if cfg.HTTP.Enabled {
		frontend := httpapi.Class{Logger: logger}
		reg.RegisterFrontend(registry.FrontendClass{
			Name: frontend.Name(),
			Start: func(ctx context.Context, cfg *config.Config, coord *core.Coordinator) (registry.Frontend, error) {
				return frontend.Start(ctx, cfg, coord)
			},
		})
	}

	if err := server.New(cfg, logger, reg).Run(ctx); err != nil {
		return 1
	}
	return 0
}

func configRun(_ context.Context, res *command.Result) int {
	cfg, err := loadConfig(res)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	text, err := config.Format(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Print(text)
	return 0
}

func depsRun(context.Context, *command.Result) int {
	fmt.Println(deps.Report())
	return 0
}
