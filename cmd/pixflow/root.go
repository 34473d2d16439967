package main

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gogpu/pixflow"
	"github.com/gogpu/pixflow/geom"
	"github.com/gogpu/pixflow/graph"
	"github.com/gogpu/pixflow/graphfile"
)

func newRootCmd() *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:   "pixflow",
		Short: "Render region-propagating pixel graphs",
		Long:  "pixflow evaluates YAML node graphs, computing only the pixels the\nrequested rectangle depends on.",
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		SilenceUsage: true,
		Version:      pixflow.Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			pixflow.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
			return pixflow.Init()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			pixflow.Exit()
			pixflow.SetLogger(nil)
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log traversal details")

	root.AddCommand(newRenderCmd())
	root.AddCommand(newInfoCmd())
	root.AddCommand(newOpsCmd())
	return root
}

// loadGraph reads and builds the graph document at path.
func loadGraph(path string) (*graphfile.Loaded, error) {
	f, err := graphfile.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return f.Build(nil)
}

// pickNodes returns the node named id, or every output of the graph when
// id is empty.
func pickNodes(l *graphfile.Loaded, id string) ([]*graph.Node, error) {
	if id != "" {
		n, ok := l.Node(id)
		if !ok {
			return nil, fmt.Errorf("no node %q in graph", id)
		}
		return []*graph.Node{n}, nil
	}
	out := l.Outputs()
	if len(out) == 0 {
		return nil, fmt.Errorf("graph has no nodes")
	}
	return out, nil
}

// parseRect parses "x,y,w,h". The empty string is the infinite rectangle.
func parseRect(s string) (geom.Rect, error) {
	if s == "" {
		return geom.Infinite(), nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return geom.Rect{}, fmt.Errorf("rect %q: want x,y,w,h", s)
	}
	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return geom.Rect{}, fmt.Errorf("rect %q: %w", s, err)
		}
		v[i] = n
	}
	if v[2] < 0 || v[3] < 0 {
		return geom.Rect{}, fmt.Errorf("rect %q: negative size", s)
	}
	return geom.R(v[0], v[1], v[2], v[3]), nil
}
