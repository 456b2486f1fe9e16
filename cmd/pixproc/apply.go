package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tech-kind/pix/pipeline"
	"gopkg.in/yaml.v3"
)

func newApplyCmd(opts *options) *cobra.Command {
	var sets []string
	cmd := &cobra.Command{
		Use:   "apply <op> <input> <output>",
		Short: "Apply a single operation to an image file",
		Example: `  pixproc apply gaussian in.png blurred.png --set sigma=2.5 --set kernel_width=7 --set kernel_height=7
  pixproc apply threshold in.jpg bw.png --set mode=at_least`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := parseParams(sets)
			if err != nil {
				return err
			}
			cfg := pipeline.Config{
				Name:    args[0],
				Workers: opts.workers,
				Steps:   []pipeline.Step{{Op: args[0], Params: params}},
			}
			p, err := pipeline.Build(cfg, opts.logger)
			if err != nil {
				return err
			}
			pool := opts.newPool()
			defer pool.Close()
			return processFile(cmd.Context(), opts, pool, p, args[1], args[2])
		},
	}
	cmd.Flags().StringArrayVarP(&sets, "set", "s", nil, "operation parameter as key=value, repeatable")
	return cmd
}

// parseParams turns key=value pairs into step parameters. Values are
// parsed as YAML scalars so numbers arrive as numbers.
func parseParams(sets []string) (map[string]any, error) {
	params := make(map[string]any, len(sets))
	for _, kv := range sets {
		key, raw, ok := strings.Cut(kv, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("parameter %q is not key=value", kv)
		}
		var v any
		if err := yaml.Unmarshal([]byte(raw), &v); err != nil {
			return nil, fmt.Errorf("parameter %q: %w", key, err)
		}
		if v == nil {
			v = raw
		}
		params[key] = v
	}
	return params, nil
}
