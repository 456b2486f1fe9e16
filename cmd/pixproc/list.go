package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/tech-kind/pix"
	"github.com/tech-kind/pix/filters"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List operations and their parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listOps(cmd.OutOrStdout())
		},
	}
}

func listOps(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, name := range filters.Names() {
		op, err := filters.New(name)
		if err != nil {
			return err
		}
		out, in := op.ShapeIO()
		fmt.Fprintf(tw, "%s\t%s -> %s\t\n", name, in, out)
		for _, c := range op.Controls() {
			_, desc := c.Describe()
			fmt.Fprintf(tw, "  %s\t%v\t%s\n", pix.ControlKey(c), c.ActualValue(), desc)
		}
	}
	return tw.Flush()
}
