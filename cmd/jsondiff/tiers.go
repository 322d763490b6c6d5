package main

import (
	"fmt"
	"math"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newTiersCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tiers <size>...",
		Short: "Show how input sizes are scheduled",
		Long: `Show the tier, debounce delay and rendering hints the configured policy
assigns to each size. Sizes are byte counts and may carry a unit: 512KiB,
1MiB, 2.5MB.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			policy := g.cfg.Policy
			out := cmd.OutOrStdout()
			for _, arg := range args {
				n, err := parseSize(arg)
				if err != nil {
					return err
				}
				h := policy.Hints(n)
				fmt.Fprintf(out, "%s\t%s\tdelay=%s collapseNested=%t collapseAll=%t showWarning=%t\n",
					humanize.IBytes(uint64(n)), h.Tier, policy.Delay(n), h.CollapseNested, h.CollapseAll, h.ShowWarning)
			}
			return nil
		},
	}
}

func parseSize(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil && n >= 0 {
		return n, nil
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", s, err)
	}
	if n > math.MaxInt {
		return 0, fmt.Errorf("invalid size %q: exceeds %s", s, humanize.IBytes(math.MaxInt))
	}
	return int(n), nil
}
