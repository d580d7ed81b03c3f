// Package ambara is a node-graph image-processing engine: compose a
// directed acyclic graph of typed filters (load, blur, resize,
// grayscale, save, …) connected by typed value ports (images, numbers,
// colors, arrays), validate it, and execute it with bounded memory,
// optional parallelism, result caching, and progress reporting.
//
// Everything lives in focused subpackages:
//
//	value/      — the typed value model (images, scalars, colors, vectors, arrays, maps)
//	port/       — port/parameter declarations and constraints a filter carries
//	filter/     — the Filter contract (Metadata/Validate/Execute) and its contexts
//	graphdoc/   — the graph data structure: nodes, connections, structural invariants
//	validate/   — the five-stage validation pipeline (Structural/Type/Constraint/Custom/Resource)
//	topology/   — topological order and depth-batching over a graphdoc.Graph
//	cache/      — the per-engine result cache (LRU + byte budget + TTL)
//	progress/   — run-liveness tracking, cancellation, and ETA estimation
//	tile/       — the chunked/tiled pixel-processing substrate
//	batcherr/   — per-node failure accumulation for a run
//	ambaralog/  — the leveled logging interface every component logs through
//	builtin/    — the built-in filter catalog (load, save, grayscale, brightness, blur, resize)
//	serialize/  — JSON graph document (de)serialization
//	schedule/   — the execution scheduler: batch planning, dispatch, caching, cancellation
//	engine/     — the facade tying filters, cache, scheduler, and config together
//	cmd/ambara/ — a cobra CLI over the engine facade
//
// A minimal pipeline:
//
//	g := graphdoc.NewGraph()
//	load := g.AddNode(builtin.NewLoad())
//	gray := g.AddNode(builtin.NewGrayscale())
//	save := g.AddNode(builtin.NewSave())
//	g.Connect(load, "image", gray, "image")
//	g.Connect(gray, "image", save, "image")
//	g.SetParameter(load, "path", value.NewString("in.png"))
//	g.SetParameter(save, "path", value.NewString("out.png"))
//
//	e, _ := engine.New(engine.DefaultConfig())
//	result, report, err := e.ExecuteGraph(context.Background(), g, nil)
package ambara
