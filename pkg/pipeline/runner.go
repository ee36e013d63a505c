package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/journey/pkg/errors"
	"github.com/matzehuels/journey/pkg/generate"
	"github.com/matzehuels/journey/pkg/journey"
	"github.com/matzehuels/journey/pkg/journey/inspect"
	"github.com/matzehuels/journey/pkg/journey/layout"
	"github.com/matzehuels/journey/pkg/journey/repair"
	"github.com/matzehuels/journey/pkg/journey/transform"
	"github.com/matzehuels/journey/pkg/observability"
	"github.com/matzehuels/journey/pkg/store"
)

// Runner executes pipeline stages against a generator and a store.
//
// The Runner holds no per-run state. Multiple goroutines can share one
// Runner with different options.
type Runner struct {
	Generator generate.Generator // nil: only candidate input is accepted
	Store     store.Store        // nil: Key is ignored
	Model     string             // reported to pipeline hooks
	Logger    *log.Logger
}

// NewRunner creates a runner. A nil logger uses log.Default().
func NewRunner(gen generate.Generator, st store.Store, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Generator: gen, Store: st, Logger: logger}
}

// Execute runs the full pipeline. It fails only when generation fails, the
// candidate cannot be parsed (a *journey.ParseError), rendering fails or
// the store rejects the record.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	req := opts.ResolveRequirements()

	// Stage 1: Generate
	text := opts.Candidate
	var genTime time.Duration
	if text == "" {
		var err error
		text, genTime, err = r.generate(ctx, opts.Description, req)
		if err != nil {
			return nil, err
		}
		opts.Logger.Info("generated candidate", "model", r.Model, "bytes", len(text), "duration", genTime)
	}

	// Stage 2: Parse
	nodes, err := journey.Parse(text)
	if err != nil {
		observability.Pipeline().OnParseFailed(ctx)
		opts.Logger.Warn("candidate is not a journey", "err", err)
		return nil, err
	}

	// Stages 3-5
	res := r.Process(ctx, nodes, req, opts)
	res.Description = opts.Description
	res.Candidate = text
	res.Stats.GenerateTime = genTime

	// Stage 6: Render and store
	if len(opts.Formats) > 0 {
		start := time.Now()
		res.Artifacts, err = Render(ctx, res.Nodes, opts.Formats, opts)
		if err != nil {
			return nil, err
		}
		res.Stats.RenderTime = time.Since(start)
		opts.Logger.Info("rendered outputs", "formats", opts.Formats, "duration", res.Stats.RenderTime)
	}
	if opts.Key != "" && r.Store != nil {
		if err := r.Save(ctx, opts.Key, res); err != nil {
			return nil, err
		}
		res.Key = opts.Key
		opts.Logger.Info("stored journey", "key", opts.Key)
	}
	return res, nil
}

// Process validates, repairs, normalizes and optionally lays out parsed
// nodes. It never fails and does not mutate nodes.
func (r *Runner) Process(ctx context.Context, nodes []journey.Node, req journey.Requirements, opts Options) *Result {
	r.applyLogger(&opts)
	opts.SetLayoutDefaults()

	res := &Result{Requirements: req}
	start := time.Now()

	res.Validation = repair.Validate(nodes, req)
	res.Repair = repair.Repair(nodes, req, res.Validation.Counts, opts.repairOptions())
	out := transform.Normalize(res.Repair.Nodes, opts.positionOptions(), opts.linearizeOptions())
	res.Repair.Nodes = nil
	res.Stats.RepairTime = time.Since(start)

	observability.Pipeline().OnRepair(ctx, string(res.Repair.Mode), len(res.Repair.Added), len(res.Repair.Removed))
	opts.Logger.Debug("repaired journey",
		"mode", res.Repair.Mode,
		"valid", res.Validation.Valid,
		"added", len(res.Repair.Added),
		"removed", len(res.Repair.Removed))

	if opts.IsTree() {
		start = time.Now()
		out = layout.Tree(out, opts.Root, opts.Spacing)
		res.Stats.LayoutTime = time.Since(start)
		observability.Pipeline().OnLayout(ctx, LayoutTree, len(out), res.Stats.LayoutTime)
	} else {
		observability.Pipeline().OnLayout(ctx, LayoutLinear, len(out), 0)
	}

	res.Nodes = out
	res.Report = inspect.Inspect(out, opts.Root)
	res.Stats.NodeCount = len(out)
	if !res.Report.Clean() {
		opts.Logger.Debug("journey has issues",
			"unreachable", res.Report.Unreachable,
			"dangling", res.Report.Dangling,
			"cyclic", res.Report.Cyclic)
	}
	return res
}

// Relayout re-derives positions from the current connections and branches
// with the tree layout. Connections are left untouched.
func (r *Runner) Relayout(ctx context.Context, nodes []journey.Node, root string, opts Options) []journey.Node {
	opts.SetLayoutDefaults()
	start := time.Now()
	out := layout.Tree(nodes, root, opts.Spacing)
	observability.Pipeline().OnLayout(ctx, LayoutTree, len(out), time.Since(start))
	return out
}

// Save stores res under key.
func (r *Runner) Save(ctx context.Context, key string, res *Result) error {
	if r.Store == nil {
		return errors.New(errors.ErrCodeUnsupported, "no store configured")
	}
	return store.Save(ctx, r.Store, store.Record{
		Key:          key,
		Description:  res.Description,
		Requirements: res.Requirements,
		Nodes:        res.Nodes,
	})
}

func (r *Runner) generate(ctx context.Context, description string, req journey.Requirements) (string, time.Duration, error) {
	if r.Generator == nil {
		return "", 0, errors.New(errors.ErrCodeUnsupported, "no generator configured; supply a candidate")
	}
	hooks := observability.Pipeline()
	hooks.OnGenerateStart(ctx, r.Model)
	start := time.Now()
	text, err := r.Generator.Generate(ctx, generate.Prompt(description, req))
	dur := time.Since(start)
	hooks.OnGenerateComplete(ctx, r.Model, dur, err)
	if err != nil {
		if errors.GetCode(err) == "" {
			err = errors.Wrap(errors.ErrCodeGeneration, err, "generate journey")
		}
		return "", dur, err
	}
	return text, dur, nil
}

// Close releases the store.
func (r *Runner) Close() error {
	if r.Store != nil {
		return r.Store.Close()
	}
	return nil
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
