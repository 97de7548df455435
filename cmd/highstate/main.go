package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jimyag/highstate/pkg/config"
	"github.com/jimyag/highstate/pkg/highstate"
	"github.com/jimyag/highstate/pkg/logger"
	"github.com/jimyag/highstate/pkg/result"
)

func main() {
	if err := newRootCmd(afero.NewOsFs()).Execute(); err != nil {
		os.Exit(1)
	}
}

// cliOptions 命令行参数
type cliOptions struct {
	configPath  string
	color       string
	theme       string
	stateOutput string
	tabular     string
	verbose     bool
	profile     bool
	logLevel    string
}

func newRootCmd(fs afero.Fs) *cobra.Command {
	opts := &cliOptions{}

	cmd := &cobra.Command{
		Use:   "highstate [file]",
		Short: "Render state run results as a human-readable report",
		Long: `Render a state run result (YAML or JSON, host -> state results) as a
colorized highstate report. Reads from stdin when no file or "-" is given.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, fs, opts, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Path to output config file (YAML)")
	flags.StringVar(&opts.color, "color", "auto", "Colorize output: auto, always or never")
	flags.StringVar(&opts.theme, "theme", "", "Color theme name")
	flags.StringVar(&opts.stateOutput, "state-output", "", "State output mode: full, terse or mixed")
	flags.StringVar(&opts.tabular, "tabular", "", "Terse line layout: true, false or a line template")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Show successful states too")
	flags.BoolVar(&opts.profile, "profile", false, "Show start time, duration and total run time")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn or error")

	return cmd
}

func run(cmd *cobra.Command, fs afero.Fs, opts *cliOptions, args []string) error {
	cfg, err := config.Load(fs, opts.configPath)
	if err != nil {
		return err
	}
	if err := applyFlags(cmd, cfg, opts); err != nil {
		return err
	}

	logger.Init(&logger.Config{
		Level:   logger.ParseLevel(cfg.LogLevel),
		Output:  cmd.ErrOrStderr(),
		Pretty:  true,
		NoColor: !cfg.Color,
	})

	data, err := readInput(cmd, fs, args)
	if err != nil {
		return err
	}

	tree, err := result.Decode(data)
	if err != nil {
		return err
	}
	logger.Debugf("decoded %d hosts", len(tree))

	hopts, err := highstate.OptionsFromConfig(cfg)
	if err != nil {
		return err
	}
	f, err := highstate.New(hopts)
	if err != nil {
		return err
	}
	logger.Infof("rendering with %s output, color=%t", hopts.StateOutput, hopts.Palette.Enabled())

	_, err = fmt.Fprintln(cmd.OutOrStdout(), f.Format(tree))
	return err
}

// applyFlags 命令行参数覆盖配置文件
func applyFlags(cmd *cobra.Command, cfg *config.Config, opts *cliOptions) error {
	flags := cmd.Flags()

	switch opts.color {
	case "always":
		cfg.Color = true
	case "never":
		cfg.Color = false
	case "auto":
		cfg.Color = cfg.Color && isTerminal(cmd.OutOrStdout())
	default:
		return fmt.Errorf("invalid --color value %q", opts.color)
	}

	if flags.Changed("theme") {
		cfg.ColorTheme = opts.theme
	}
	if flags.Changed("state-output") {
		cfg.StateOutput = opts.stateOutput
	}
	if flags.Changed("tabular") {
		if b, err := strconv.ParseBool(opts.tabular); err == nil {
			cfg.StateTabular = config.Tabular{Enabled: b}
		} else {
			cfg.StateTabular = config.Tabular{Template: opts.tabular}
		}
	}
	if flags.Changed("verbose") {
		cfg.StateVerbose = opts.verbose
	}
	if flags.Changed("profile") {
		cfg.StateOutputProfile = opts.profile
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	return nil
}

func readInput(cmd *cobra.Command, fs afero.Fs, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := afero.ReadFile(fs, args[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read result file: %w", err)
	}
	return data, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
