package main

import (
	"github.com/spf13/cobra"

	"github.com/gogpu/pixflow/graph"
)

func newInfoCmd() *cobra.Command {
	var path, node string
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Print the node tree of a graph",
		Long:  "Info prints every node upstream of the outputs with its kind and\nbounding box. Meta nodes show their subgraph.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, err := loadGraph(path)
			if err != nil {
				return err
			}
			nodes, err := pickNodes(l, node)
			if err != nil {
				return err
			}
			for _, n := range nodes {
				if err := graph.Dump(cmd.OutOrStdout(), n); err != nil {
					return err
				}
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&path, "graph", "g", "", "graph document (required)")
	f.StringVarP(&node, "node", "n", "", "id of the node to print")
	_ = cmd.MarkFlagRequired("graph")
	return cmd
}
