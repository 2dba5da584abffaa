package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/combox/internal/combobox"
	"github.com/oakwood-commons/combox/internal/config"
	"github.com/oakwood-commons/combox/internal/fragment"
	"github.com/oakwood-commons/combox/internal/transport"
	"github.com/oakwood-commons/combox/pkg/logger"
)

// fetchReport is the printed outcome of one lookup.
type fetchReport struct {
	Field       string                `yaml:"field" json:"field" toml:"field"`
	Query       string                `yaml:"query" json:"query" toml:"query"`
	Outcome     string                `yaml:"outcome" json:"outcome" toml:"outcome"`
	Count       int                   `yaml:"count" json:"count" toml:"count"`
	Suggestions []combobox.Suggestion `yaml:"suggestions" json:"suggestions" toml:"suggestions"`
	Elapsed     string                `yaml:"elapsed" json:"elapsed" toml:"elapsed"`
	Error       string                `yaml:"error,omitempty" json:"error,omitempty" toml:"error,omitempty"`
}

func newFetchCmd(o *rootOptions) *cobra.Command {
	var field string
	fetchCmd := &cobra.Command{
		Use:   "fetch QUERY",
		Short: "Run one suggestion lookup and print the classified result",
		Long: `Send QUERY to the endpoint of a configured field (the first one unless
--field is given, or the one built from --endpoint) and print what the
combobox would make of the response: suggestions, zero suggestions for a
structured payload, or a failure.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := pickField(o.cfg, field)
			if err != nil {
				return err
			}
			report, ferr := fetchOnce(o.ctx, fc, args[0])
			raw := ""
			for _, s := range report.Suggestions {
				raw += s.Text + "\n"
			}
			if err := renderOrRaw(cmd.OutOrStdout(), report, raw, o.output); err != nil {
				return err
			}
			return ferr
		},
	}
	fetchCmd.Flags().StringVar(&field, "field", "", "name of the configured field to query")
	return fetchCmd
}

func pickField(cfg config.File, name string) (config.FieldConfig, error) {
	fields := cfg.ResolvedFields()
	if len(fields) == 0 {
		return config.FieldConfig{}, errNoFields
	}
	if name == "" {
		return fields[0], nil
	}
	names := make([]string, 0, len(fields))
	for _, fc := range fields {
		if fc.Name == name {
			return fc, nil
		}
		names = append(names, fc.Name)
	}
	return config.FieldConfig{}, fmt.Errorf("unknown field %q (configured: %s)", name, strings.Join(names, ", "))
}

// fetchOnce performs a lookup outside any widget. The returned error is set
// when the lookup failed.
func fetchOnce(ctx context.Context, fc config.FieldConfig, query string) (fetchReport, error) {
	report := fetchReport{Field: fc.Name, Query: query}
	tr, err := transport.New(fc.TransportConfig())
	if err != nil {
		return report, fmt.Errorf("field %q: %w", fc.Name, err)
	}
	timeout := fc.Timeout.Std()
	if timeout <= 0 {
		timeout = combobox.DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	resp, err := tr.Fetch(ctx, query)
	res := combobox.Classify(query, resp, err, fragment.Parser())
	res.Elapsed = time.Since(start)

	report.Outcome = res.Outcome.String()
	report.Count = res.Set.Count()
	report.Suggestions = res.Set.Items
	if report.Suggestions == nil {
		report.Suggestions = []combobox.Suggestion{}
	}
	report.Elapsed = res.Elapsed.Round(time.Millisecond).String()
	logger.FromContext(ctx).V(1).Info("fetched", logger.FieldKey, fc.Name, logger.QueryKey, query, "outcome", report.Outcome)
	if res.Err != nil {
		report.Error = res.Err.Error()
		return report, fmt.Errorf("fetch %q: %w", query, res.Err)
	}
	return report, nil
}
