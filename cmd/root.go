// Package cmd wires the combox command line.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/oakwood-commons/combox/internal/config"
	"github.com/oakwood-commons/combox/internal/ui"
	"github.com/oakwood-commons/combox/pkg/logger"
	"github.com/oakwood-commons/combox/pkg/settings"
	"github.com/oakwood-commons/combox/pkg/tui"
)

var (
	errNoFields    = errors.New("no fields configured: pass --endpoint or add fields to the config file")
	errNotTerminal = errors.New("combox needs an interactive terminal on stdout")
)

// Seams replaced by tests.
var (
	isTerminalFn = func() bool { return term.IsTerminal(int(os.Stdout.Fd())) }
	runFormFn    = tui.Run
)

// rootOptions holds the flag values and the state prepared before a command
// runs.
type rootOptions struct {
	configFile string
	endpoint   string
	fieldName  string
	variant    string
	minChars   int
	debounce   time.Duration
	theme      string
	noColor    bool
	debug      bool
	quiet      bool
	logFile    string
	output     string
	keys       []string
	showAttrs  bool
	openLinks  bool
	width      int
	height     int

	cfg       config.File
	run       *settings.Run
	ctx       context.Context
	logCloser io.Closer
}

func newRootCmd() *cobra.Command {
	o := &rootOptions{}
	root := &cobra.Command{
		Use:   settings.CliBinaryName,
		Short: "Fill in a form of autocompleting comboboxes in the terminal",
		Long: `combox renders one or more comboboxes that look up suggestions from an
HTTP endpoint as you type. Fields come from the config file or --endpoint.
The submitted values are printed on exit.`,
		Example: "  combox --endpoint https://example.test/cities --variant address\n" +
			"  combox --config-file form.yaml -o json\n" +
			"  combox fetch --endpoint https://example.test/search 'main st'",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return o.prepare(cmd)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			logger.Sync()
			if o.logCloser != nil {
				_ = o.logCloser.Close()
			}
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.runForm(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&o.configFile, "config-file", "", "path to a config file (yaml, json or toml)")
	pf.StringVar(&o.endpoint, "endpoint", "", "suggestion endpoint; replaces the configured fields with a single field")
	pf.StringVar(&o.fieldName, "name", "query", "field name used with --endpoint")
	pf.StringVar(&o.variant, "variant", "", "widget variant for every field: default|address|search")
	pf.IntVar(&o.minChars, "min-chars", 0, "minimum characters before a lookup")
	pf.DurationVar(&o.debounce, "debounce", 0, "debounce interval, e.g. 250ms")
	pf.BoolVar(&o.debug, "debug", false, "log at debug level")
	pf.StringVar(&o.logFile, "log-file", "", "write JSON logs to this file")
	pf.StringVarP(&o.output, "output", "o", config.FormatYAML, "output format: yaml|json|toml|raw")

	f := root.Flags()
	f.StringVar(&o.theme, "theme", "", "theme name (see 'combox config themes')")
	f.BoolVar(&o.noColor, "no-color", false, "disable color output")
	f.BoolVarP(&o.quiet, "quiet", "q", false, "do not print the submitted values")
	f.StringArrayVar(&o.keys, "key", nil, "rebind an action, e.g. --key advance=ctrl+j,down (repeatable)")
	f.BoolVar(&o.showAttrs, "show-attributes", false, "show the accessibility attributes of every field")
	f.BoolVar(&o.openLinks, "open", false, "open followed search results in the browser")
	f.IntVar(&o.width, "width", 0, "force the terminal width")
	f.IntVar(&o.height, "height", 0, "force the terminal height")

	root.Version = versionString()
	root.SetVersionTemplate("{{.Version}}\n")
	root.AddCommand(newVersionCmd(), newConfigCmd(o), newFetchCmd(o))
	return root
}

// Execute runs the command line.
func Execute() error {
	return newRootCmd().Execute()
}

// prepare loads the configuration and sets up logging. The interactive form
// owns the terminal, so it only logs to a file; subcommands log to stderr.
func (o *rootOptions) prepare(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd, o)
	if err != nil {
		return err
	}
	o.cfg = cfg

	o.run = settings.NewCliParams()
	o.run.NoColor = cfg.UI.NoColor
	o.run.IsQuiet = o.quiet
	o.run.LogFile = cfg.App.LogFile
	if cfg.App.Debug {
		o.run.MinLogLevel = -1
	}

	var out io.Writer
	switch {
	case o.run.LogFile != "":
		lf, err := os.OpenFile(o.run.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		o.logCloser = lf
		out = lf
	case cmd.HasParent():
		out = cmd.ErrOrStderr()
	}
	lgr := logger.Configure(o.run.MinLogLevel, out)
	lgr = logger.WithValues(lgr, logger.RootCommandKey, settings.CliBinaryName, logger.SubCommandKey, cmd.Name())

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	o.ctx = settings.IntoContext(logger.WithLogger(ctx, lgr), o.run)
	return nil
}

func (o *rootOptions) runForm(cmd *cobra.Command) error {
	if len(o.cfg.Fields) == 0 {
		return errNoFields
	}
	if err := o.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if !validOutput(o.output) {
		return fmt.Errorf("unsupported output format %q (want yaml, json, toml or raw)", o.output)
	}
	if !isTerminalFn() {
		return errNotTerminal
	}

	res, err := runFormFn(o.ctx, tui.Config{
		File:           o.cfg,
		NoColor:        o.run.NoColor,
		ShowAttributes: o.showAttrs,
		OpenLinks:      o.openLinks,
		Width:          o.width,
		Height:         o.height,
	})
	if err != nil {
		return err
	}
	if !res.Submitted {
		logger.FromContext(o.ctx).V(1).Info("form abandoned")
		return nil
	}
	if o.run.IsQuiet {
		return nil
	}
	return writeResult(cmd.OutOrStdout(), res, o.output)
}

func validOutput(format string) bool {
	switch format {
	case config.FormatYAML, config.FormatJSON, config.FormatTOML, outputRaw:
		return true
	}
	return false
}

// writeResult prints the submitted values. The raw format prints one value
// per line.
func writeResult(w io.Writer, res ui.Result, format string) error {
	if format == outputRaw {
		for _, fv := range res.Fields {
			if _, err := fmt.Fprintln(w, fv.Value); err != nil {
				return err
			}
		}
		return nil
	}
	return render(w, res, format)
}
