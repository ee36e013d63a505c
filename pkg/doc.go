// Package pkg holds the libraries behind the journey CLI and API server.
//
// # Overview
//
// A journey is a small directed graph of marketing automation steps: one
// entrance, emails and push notifications separated by waits, optional
// yes/no branches, and one exit. The libraries turn a plain-language
// description into such a graph, positioned for a visual canvas:
//
//	description
//	     ↓  [journey.ExtractRequirements]     target counts per node type
//	     ↓  [generate]                        candidate text from a model
//	     ↓  [journey.Parse]                   tolerant JSON extraction
//	     ↓  [journey/repair]                  counts, entrance and exit fixed
//	     ↓  [journey/transform]               linear chain, seeded positions
//	     ↓  [journey/layout]                  optional branch-aware tree layout
//	     ↓  [render]                          SVG, PNG, PDF, DOT, Mermaid
//	positioned nodes
//
// [pipeline] runs these stages for the CLI and the server so both behave
// the same.
//
// # Quick Start
//
//	req := journey.ExtractRequirements("Welcome series with 2 emails and 1 push")
//	nodes, err := journey.Parse(candidate)
//	if err != nil {
//	    return err // *journey.ParseError carries the raw and cleaned text
//	}
//	v := repair.Validate(nodes, req)
//	fixed := repair.Repair(nodes, req, v.Counts, repair.Options{})
//	out := transform.Normalize(fixed.Nodes, transform.PositionOptions{}, transform.LinearizeOptions{})
//
// Or, with generation, storage and rendering handled for you:
//
//	runner := pipeline.NewRunner(generate.NewClient(cfg.Generator), st, logger)
//	res, err := runner.Execute(ctx, pipeline.Options{
//	    Description: "Re-engage with 3 emails",
//	    Formats:     []string{"svg"},
//	})
//
// # Supporting Packages
//
//   - [config]: TOML settings with JOURNEY_* environment overrides
//   - [errors]: coded errors shared by the CLI and the HTTP API
//   - [store]: keyed journey persistence (memory, file, redis, mongo, postgres)
//   - [cache]: generator reply cache
//   - [io]: journey documents as JSON or YAML
//   - [observability]: metric hooks, with a Prometheus implementation
//   - [httputil]: retries for the generator client
//
// [journey.ExtractRequirements]: https://pkg.go.dev/github.com/matzehuels/journey/pkg/journey#ExtractRequirements
// [journey.Parse]: https://pkg.go.dev/github.com/matzehuels/journey/pkg/journey#Parse
// [journey/repair]: https://pkg.go.dev/github.com/matzehuels/journey/pkg/journey/repair
// [journey/transform]: https://pkg.go.dev/github.com/matzehuels/journey/pkg/journey/transform
// [journey/layout]: https://pkg.go.dev/github.com/matzehuels/journey/pkg/journey/layout
// [generate]: https://pkg.go.dev/github.com/matzehuels/journey/pkg/generate
// [render]: https://pkg.go.dev/github.com/matzehuels/journey/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/journey/pkg/pipeline
// [config]: https://pkg.go.dev/github.com/matzehuels/journey/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/journey/pkg/errors
// [store]: https://pkg.go.dev/github.com/matzehuels/journey/pkg/store
// [cache]: https://pkg.go.dev/github.com/matzehuels/journey/pkg/cache
// [io]: https://pkg.go.dev/github.com/matzehuels/journey/pkg/io
// [observability]: https://pkg.go.dev/github.com/matzehuels/journey/pkg/observability
// [httputil]: https://pkg.go.dev/github.com/matzehuels/journey/pkg/httputil
package pkg
