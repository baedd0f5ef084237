package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Carmen-Shannon/oxy-shade/scenes"
)

func newListCommand(_ *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the registered scenes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, name := range scenes.Names() {
				sc, err := scenes.Lookup(name)
				if err != nil {
					return err
				}
				targets := make([]string, 0, len(sc.Targets()))
				for _, spec := range sc.Targets() {
					targets = append(targets, fmt.Sprintf("%s(%s)", spec.Name, spec.Kind))
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-10s %v\n", name, targets)
			}
			return nil
		},
	}
}
