package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/zredjet/bugcurvefit/internal/model"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the registered growth models",
	Run: func(cmd *cobra.Command, args []string) {
		tw := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tPARAMS\tPREDICTS")
		for _, m := range model.All() {
			predicts := "defects"
			if ms, ok := m.(model.MultiSeries); ok {
				predicts = fmt.Sprintf("defects + %d auxiliary", ms.AuxCount())
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", m.Name(), strings.Join(m.ParamNames(), ","), predicts)
		}
		tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}
