package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/phpsym/internal/config"
	"github.com/standardbeagle/phpsym/internal/debug"
	"github.com/standardbeagle/phpsym/internal/locator"
	"github.com/standardbeagle/phpsym/internal/reflection"
	"github.com/standardbeagle/phpsym/internal/types"
	"github.com/standardbeagle/phpsym/internal/version"
)

// loadConfig loads the configuration named by --config. When the path is
// left at its default and a scan root is given, the root's config wins.
func loadConfig(c *cli.Context, root string) (*config.Config, error) {
	configPath := c.String("config")
	if root != "" && !c.IsSet("config") {
		configPath = filepath.Join(root, config.DefaultConfigFile)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
	}
	return cfg, nil
}

// newFileResolver loads path and wires a resolver with the default converter
func newFileResolver(cfg *config.Config, builder locator.IndexBuilder, path string) (*locator.Resolver, error) {
	src, err := types.LoadLocatedSource(path, cfg.Parser.MaxFileSize)
	if err != nil {
		return nil, err
	}
	return locator.NewResolver(src, builder, reflection.NewNodeConverter(),
		locator.WithSuggestConfig(cfg.Suggest)), nil
}

func kindFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "kind",
		Aliases:  []string{"k"},
		Usage:    "Identifier kind: class, function or constant",
		Required: true,
	}
}

func nameFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "name",
		Aliases:  []string{"n"},
		Usage:    `Fully qualified name, e.g. 'App\Models\User'`,
		Required: true,
	}
}

// identifierFromFlags builds the identifier named by --kind and --name
func identifierFromFlags(c *cli.Context) (types.Identifier, error) {
	kind, err := types.ParseIdentifierKind(c.String("kind"))
	if err != nil {
		return types.Identifier{}, err
	}
	return types.NewIdentifier(kind, c.String("name")), nil
}

func newApp() *cli.App {
	return &cli.App{
		Name:                   "phpsym",
		Usage:                  "Locate PHP classes, functions and constants declared in source files",
		Version:                version.Version,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Config file path",
				Value:   config.DefaultConfigFile,
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "Write debug output to stderr",
				EnvVars: []string{"PHPSYM_DEBUG"},
			},
			&cli.BoolFlag{
				Name:   "debug-log",
				Usage:  "Write debug output to a log file in the temp directory",
				Hidden: true,
			},
		},
		Before: func(c *cli.Context) error {
			switch {
			case c.Bool("debug-log"):
				debug.SetEnabled(true)
				path, err := debug.InitDebugLogFile()
				if err != nil {
					return err
				}
				fmt.Fprintf(c.App.ErrWriter, "debug log: %s\n", path)
			case c.Bool("debug"):
				debug.SetEnabled(true)
				debug.SetDebugOutput(c.App.ErrWriter)
			}
			return nil
		},
		After: func(c *cli.Context) error {
			return debug.CloseDebugLog()
		},
		Commands: []*cli.Command{
			{
				Name:      "index",
				Aliases:   []string{"i"},
				Usage:     "Show what a file declares",
				ArgsUsage: "FILE",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "json",
						Aliases: []string{"j"},
						Usage:   "Output as JSON",
					},
				},
				Action: indexCommand,
			},
			{
				Name:      "resolve",
				Aliases:   []string{"r"},
				Usage:     "Resolve one identifier in a file",
				ArgsUsage: "FILE",
				Flags: []cli.Flag{
					kindFlag(),
					nameFlag(),
					&cli.BoolFlag{
						Name:    "json",
						Aliases: []string{"j"},
						Usage:   "Output as JSON",
					},
				},
				Action: resolveCommand,
			},
			{
				Name:      "scan",
				Aliases:   []string{"s"},
				Usage:     "Find every file under ROOT that declares an identifier",
				ArgsUsage: "ROOT",
				Flags: []cli.Flag{
					kindFlag(),
					nameFlag(),
					&cli.StringSliceFlag{
						Name:  "include",
						Usage: "Include files matching glob patterns (e.g., --include 'src/**/*.php')",
					},
					&cli.StringSliceFlag{
						Name:  "exclude",
						Usage: "Exclude files matching glob patterns (e.g., --exclude '**/vendor/**')",
					},
					&cli.IntFlag{
						Name:    "workers",
						Aliases: []string{"w"},
						Usage:   "Files resolved in parallel (0 = config value)",
					},
				},
				Action: scanCommand,
			},
			{
				Name:  "version",
				Usage: "Print version information",
				Action: func(c *cli.Context) error {
					fmt.Fprintln(c.App.Writer, version.FullInfo())
					return nil
				},
			},
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
