package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-tensor/internal/kernel"
)

func newKernelsCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "kernels",
		Short: "list registered micro-kernels",
		Long: `
  Lists the registered copy/add micro-kernels, best first, and shows which
  one each element type uses on this CPU.
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := g.engineConfig()
			if err != nil {
				return err
			}
			return printKernels(cmd, cfg.ForceGeneric)
		},
	}
}

func printKernels(cmd *cobra.Command, forceGeneric bool) error {
	f := kernel.Features(forceGeneric)
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Architecture: %s (force generic: %v)\n\n", f.Architecture, f.ForceGeneric)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Name\tSIMD\tPriority\tUsable\tPreferred\tTypes\n")
	fmt.Fprintf(tw, "----\t----\t--------\t------\t---------\t-----\n")
	for _, e := range kernel.Entries(f) {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%v\t%v\t%s\n", e.Name, e.SIMDLevel, e.Priority, e.Usable, e.Preferred, strings.Join(e.Types, ","))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nSelected: float32=%s float64=%s complex64=%s complex128=%s\n",
		kernel.Lookup[float32](f).Name,
		kernel.Lookup[float64](f).Name,
		kernel.Lookup[complex64](f).Name,
		kernel.Lookup[complex128](f).Name)
	return nil
}
