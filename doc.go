// Package pixflow is a region-propagating dataflow engine for pixel
// processing.
//
// # Overview
//
// A graph of operations is connected through named pads. Asking a node for
// a rectangle walks the graph upstream once, computes the rectangle every
// producer actually has to deliver, and evaluates only those. Intermediate
// results live exactly as long as some consumer still needs them.
//
// # Quick Start
//
//	if err := pixflow.Init(); err != nil {
//		log.Fatal(err)
//	}
//	defer pixflow.Exit()
//
//	g := graph.New()
//	bg, _ := g.Create("checkerboard")
//	blur, _ := g.Create("gaussian-blur")
//	out, _ := g.Create("save")
//	out.Update(func(o op.Operation) { o.(*ops.Save).Path = "out.png" })
//	g.Link(bg, blur)
//	g.Link(blur, out)
//
//	if !pixflow.Process(out, geom.R(0, 0, 256, 256)) {
//		log.Fatal("render failed")
//	}
//
// # Architecture
//
// The module is organized into:
//   - geom: rectangles and regions on the canvas
//   - tile: pixel storage, color models, iterators and the tile pool
//   - scanline: per-format row callbacks of point operations
//   - op: the operation contract, kinds, region policies and registry
//   - graph: nodes, pads, meta subgraphs, node caches and invalidation
//   - process: requests, region propagation, evaluation and chunking
//   - ops: the built-in operations
//   - graphfile: YAML graph documents
//   - instrument: Prometheus metrics for requests
//
// # Coordinate System
//
// Rectangles are in integer canvas coordinates: origin at the top-left,
// X increases right, Y increases down. geom.Infinite is the extent of
// sources without bounds, such as a solid color.
//
// # Logging
//
// pixflow is silent by default. SetLogger installs a slog.Logger for the
// whole module.
package pixflow
