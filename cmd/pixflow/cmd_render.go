package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gogpu/pixflow"
	"github.com/gogpu/pixflow/geom"
	"github.com/gogpu/pixflow/instrument"
	"github.com/gogpu/pixflow/ops"
	"github.com/gogpu/pixflow/process"
	"github.com/gogpu/pixflow/tile"
)

type renderFlags struct {
	graph   string
	node    string
	rect    string
	chunk   int
	metrics bool
	watch   bool
}

func newRenderCmd() *cobra.Command {
	var flags renderFlags
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the outputs of a graph",
		Long: "Render evaluates the requested node, or every node nothing consumes,\n" +
			"over --rect in chunks. Without --rect the node's bounding box is used.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRender(cmd, flags)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&flags.graph, "graph", "g", "", "graph document (required)")
	f.StringVarP(&flags.node, "node", "n", "", "id of the node to render")
	f.StringVar(&flags.rect, "rect", "", "rectangle x,y,w,h")
	f.IntVar(&flags.chunk, "chunk", process.DefaultChunkSize, "chunk edge length")
	f.BoolVar(&flags.metrics, "metrics", false, "print Prometheus metrics when done")
	f.BoolVar(&flags.watch, "watch", false, "render again whenever the graph or an input file changes")
	_ = cmd.MarkFlagRequired("graph")
	return cmd
}

func runRender(cmd *cobra.Command, flags renderFlags) error {
	roi, err := parseRect(flags.rect)
	if err != nil {
		return err
	}
	var m *instrument.Metrics
	if flags.metrics {
		m = instrument.New(tile.DefaultPool())
	}

	deps, err := renderOnce(cmd, flags, roi, m)
	if flags.watch {
		if err != nil {
			pixflow.Logger().Warn("pixflow: render failed", "err", err)
			deps = []string{flags.graph}
		}
		err = watchFiles(cmd.Context(), deps, watchDebounce, func() []string {
			deps, err := renderOnce(cmd, flags, roi, m)
			if err != nil {
				pixflow.Logger().Warn("pixflow: render failed", "err", err)
				return []string{flags.graph}
			}
			return deps
		})
	}
	if err != nil {
		return err
	}
	if m != nil {
		return m.WriteText(cmd.OutOrStdout())
	}
	return nil
}

// renderOnce loads the graph and renders it. It returns the files the
// result depends on.
func renderOnce(cmd *cobra.Command, flags renderFlags, roi geom.Rect, m *instrument.Metrics) ([]string, error) {
	l, err := loadGraph(flags.graph)
	if err != nil {
		return nil, err
	}
	deps := []string{flags.graph}
	for _, n := range l.Graph.Nodes() {
		switch o := n.Operation().(type) {
		case *ops.Load:
			deps = append(deps, o.Path)
		case *ops.Text:
			if o.Font != "" {
				deps = append(deps, o.Font)
			}
		}
	}

	nodes, err := pickNodes(l, flags.node)
	if err != nil {
		return deps, err
	}
	opts := []process.Option{process.WithContext(cmd.Context()), process.WithChunkSize(flags.chunk)}
	if m != nil {
		opts = append(opts, process.WithObserver(m))
	}
	for _, n := range nodes {
		start := time.Now()
		p := process.NewProcessor(n, roi, opts...)
		if err := p.Run(); err != nil {
			return deps, fmt.Errorf("render %s: %w", n.DebugName(), err)
		}
		elapsed := time.Since(start)
		pixflow.Logger().Info("pixflow: rendered", "node", n.DebugName(), "rect", p.Rect(), "elapsed", elapsed)
		fmt.Fprintf(cmd.OutOrStdout(), "rendered %s %v in %v\n", n.DebugName(), p.Rect(), elapsed.Round(time.Millisecond))
	}
	return deps, nil
}
