package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/journey/pkg/generate"
	jio "github.com/matzehuels/journey/pkg/io"
	"github.com/matzehuels/journey/pkg/pipeline"
	"github.com/matzehuels/journey/pkg/store"
)

// generateOpts holds the flags of the generate command.
type generateOpts struct {
	candidate        string // read the candidate from a file instead of generating
	key              string // store the result under this key
	layout           string // linear or tree
	root             string // tree layout root
	preserveBranches bool   // keep branch targets instead of flattening
	output           string // document path, or artifact base path with --format
	formats          string // comma-separated artifact formats
	detailed         bool   // detailed node labels in diagrams
	noCache          bool   // bypass the generation cache
	req              reqFlags
}

func (c *CLI) generateCommand() *cobra.Command {
	var opts generateOpts

	cmd := &cobra.Command{
		Use:   "generate <description>",
		Short: "Generate a journey from a description",
		Long: `Generate a journey from a plain-language description.

The description is sent to the configured generator, the reply is parsed,
repaired against the counts found in the description (or given with
--email, --push, --wait and --branch), normalized and laid out.

Use --candidate to skip the generator and repair an existing reply.`,
		Example: `  journey generate "Welcome series with 2 emails and 1 push"
  journey generate "Re-engage with 3 emails" --key reengage -f svg,mermaid -o reengage
  journey generate "2 emails" --candidate reply.txt --layout tree`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGenerate(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVar(&opts.candidate, "candidate", "", "candidate file to repair instead of generating (- for stdin)")
	cmd.Flags().StringVar(&opts.key, "key", "", "store the journey under this key")
	cmd.Flags().StringVar(&opts.layout, "layout", pipeline.DefaultLayout, "layout algorithm: linear, tree")
	cmd.Flags().StringVar(&opts.root, "root", "", "root node for the tree layout (default: entrance)")
	cmd.Flags().BoolVar(&opts.preserveBranches, "preserve-branches", false, "keep branch yes/no targets")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file, or base path with --format (default: stdout)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "artifact format(s): svg, png, pdf, dot, mermaid, json, yaml")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show node details in diagrams")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the generation cache")
	opts.req.register(cmd)

	return cmd
}

func (c *CLI) runGenerate(ctx context.Context, description string, opts *generateOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	popts := pipeline.Options{
		Description:      description,
		PreserveBranches: opts.preserveBranches,
		Layout:           opts.layout,
		Root:             opts.root,
		Key:              opts.key,
		Formats:          parseFormats(opts.formats),
		Detailed:         opts.detailed,
		Logger:           c.Logger,
	}
	popts.ApplyConfig(cfg)
	if opts.req.given() {
		req := opts.req.resolve(popts.ResolveRequirements())
		popts.Requirements = &req
	}

	var gen generate.Generator
	if opts.candidate != "" {
		if popts.Candidate, err = readCandidate(opts.candidate); err != nil {
			return err
		}
	} else if gen, err = c.newGenerator(cfg, opts.noCache); err != nil {
		return err
	}

	var st store.Store
	if opts.key != "" {
		if st, err = c.openStore(ctx, cfg); err != nil {
			return err
		}
		defer st.Close()
	}

	runner := c.newRunner(cfg, gen, st)
	prog := newProgress(c.Logger)

	var res *pipeline.Result
	if gen != nil {
		spinner := newSpinnerWithContext(ctx, "Generating journey...")
		spinner.Start()
		res, err = runner.Execute(ctx, popts)
		spinner.Stop()
	} else {
		res, err = runner.Execute(ctx, popts)
	}
	if err != nil {
		return err
	}
	prog.done("built journey", "nodes", len(res.Nodes), "repair", res.Repair.Mode)

	if len(popts.Formats) > 0 {
		paths, err := writeArtifacts(basePath(opts.output, ""), popts.Formats, res.Artifacts)
		if err != nil {
			return err
		}
		printSuccess(c.Out, "Generated journey")
		printStats(c.Out, res)
		for _, p := range paths {
			printFile(c.Out, p)
		}
		if res.Key != "" {
			printNextStep(c.Out, "Browse it", "journey browse --key "+res.Key)
		}
		return nil
	}

	doc := jio.Document{Description: description, Requirements: res.Requirements, Nodes: res.Nodes}
	if err := writeDocument(c.Out, opts.output, doc); err != nil {
		return err
	}
	if opts.output != "" && opts.output != stdio {
		printSuccess(c.Out, "Generated journey")
		printStats(c.Out, res)
		printFile(c.Out, opts.output)
	}
	return nil
}
