package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/qri-io/jsondiff"
	"github.com/spf13/cobra"
)

type diffOptions struct {
	format    string
	filter    string
	unchanged bool
	stats     bool
	color     string
	exitCode  bool
}

func newDiffCmd(g *globalOptions) *cobra.Command {
	o := &diffOptions{}

	cmd := &cobra.Command{
		Use:   "diff <base> <comparison>",
		Short: "Compare two JSON documents",
		Long: `Compare two JSON documents, either of which may be "-" for stdin.

--filter keeps only changes matching an expression over path, type,
oldValue and newValue, for example:

  jsondiff diff a.json b.json --filter 'type == "removed" && path startsWith "items"'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(cmd, g, o, args[0], args[1])
		},
	}

	cmd.Flags().StringVar(&o.format, "format", "pretty", "output format: pretty, json, patch")
	cmd.Flags().StringVar(&o.filter, "filter", "", "expression selecting changes to report")
	cmd.Flags().BoolVar(&o.unchanged, "unchanged", false, "also report equal values")
	cmd.Flags().BoolVar(&o.stats, "stats", false, "include diff statistics")
	cmd.Flags().StringVar(&o.color, "color", "auto", "colorize pretty output: auto, always, never")
	cmd.Flags().BoolVar(&o.exitCode, "exit-code", false, "exit with status 1 when the documents differ")
	return cmd
}

func runDiff(cmd *cobra.Command, g *globalOptions, o *diffOptions, basePath, comparisonPath string) error {
	switch o.format {
	case "pretty", "json", "patch":
	default:
		return fmt.Errorf("unknown format %q", o.format)
	}
	colorTTY, err := useColor(o.color, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	var filter *vm.Program
	if o.filter != "" {
		if filter, err = compileFilter(o.filter); err != nil {
			return err
		}
	}

	base, err := readInput(cmd.InOrStdin(), basePath)
	if err != nil {
		return err
	}
	comparison, err := readInput(cmd.InOrStdin(), comparisonPath)
	if err != nil {
		return err
	}

	diffOpts := []jsondiff.DiffOption{jsondiff.OptionMaxDepth(g.cfg.MaxDepth)}
	if o.unchanged {
		diffOpts = append(diffOpts, jsondiff.OptionUnchanged())
	}
	var st *jsondiff.Stats
	if o.stats {
		st = &jsondiff.Stats{}
		diffOpts = append(diffOpts, jsondiff.OptionSetStats(st))
	}

	res, err := jsondiff.New(diffOpts...).Compare(context.Background(), base, comparison)
	if err != nil {
		return err
	}
	g.logger.Debug("compared documents", "base", basePath, "comparison", comparisonPath, "changes", len(res.Changes))

	if filter != nil {
		if res, err = filterResult(filter, res); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	switch o.format {
	case "pretty":
		if err := jsondiff.FormatPretty(out, res, colorTTY); err != nil {
			return err
		}
		if st != nil {
			if colorTTY {
				fmt.Fprint(out, jsondiff.FormatPrettyStatsColor(st))
			} else {
				fmt.Fprint(out, jsondiff.FormatPrettyStats(st))
			}
		}
	case "json":
		if err := writeJSON(out, struct {
			*jsondiff.Result
			Stats *jsondiff.Stats `json:"stats,omitempty"`
		}{res, st}); err != nil {
			return err
		}
	case "patch":
		ops, err := jsondiff.Patch(res)
		if err != nil {
			return err
		}
		if ops == nil {
			ops = []jsondiff.PatchOp{}
		}
		if err := writeJSON(out, ops); err != nil {
			return err
		}
	}

	if o.exitCode && res.IsModified {
		return errDifferent
	}
	return nil
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func useColor(mode string, out io.Writer) (bool, error) {
	switch mode {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "auto":
		if os.Getenv("NO_COLOR") != "" {
			return false, nil
		}
		f, ok := out.(*os.File)
		return ok && jsondiff.IsTerminal(f.Fd()), nil
	}
	return false, fmt.Errorf("unknown --color mode %q", mode)
}

// changeEnv is the set of names available to filter expressions
type changeEnv struct {
	Path     string      `expr:"path"`
	Type     string      `expr:"type"`
	OldValue interface{} `expr:"oldValue"`
	NewValue interface{} `expr:"newValue"`
}

func compileFilter(src string) (*vm.Program, error) {
	prg, err := expr.Compile(src, expr.Env(changeEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("invalid --filter: %w", err)
	}
	return prg, nil
}

// filterResult keeps the changes prg accepts, preserving order
func filterResult(prg *vm.Program, res *jsondiff.Result) (*jsondiff.Result, error) {
	out := &jsondiff.Result{Changes: []*jsondiff.Change{}}
	for _, c := range res.Changes {
		env := changeEnv{Path: c.Path, Type: string(c.Type)}
		var err error
		if env.OldValue, err = plainValue(c.OldValue); err != nil {
			return nil, err
		}
		if env.NewValue, err = plainValue(c.NewValue); err != nil {
			return nil, err
		}

		keep, err := expr.Run(prg, env)
		if err != nil {
			return nil, fmt.Errorf("evaluating filter at %q: %w", c.Path, err)
		}
		if keep.(bool) {
			out.Changes = append(out.Changes, c)
			if c.Type != jsondiff.ChangeUnchanged {
				out.IsModified = true
			}
		}
	}
	return out, nil
}

// plainValue converts ordered objects into maps so expressions can index
// them
func plainValue(v interface{}) (interface{}, error) {
	if _, ok := v.(*jsondiff.Object); !ok {
		if _, ok := v.([]interface{}); !ok {
			return v, nil
		}
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var plain interface{}
	err = json.Unmarshal(data, &plain)
	return plain, err
}
