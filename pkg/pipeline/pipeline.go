// Package pipeline runs a journey from description to stored, laid-out graph.
//
// This package is the single implementation of the generate → repair →
// layout flow used by the CLI and the HTTP API, so both entry points apply
// the same defaults and log the same events.
//
// # Stages
//
//  1. Generate: build a prompt from the description and requirements and
//     call the generator (skipped when a candidate is supplied)
//  2. Parse: decode the candidate with journey.Parse
//  3. Repair: validate against the requirements and repair if needed
//  4. Normalize: seed positions in list order and thread connections
//  5. Layout: optionally re-run the branch-preserving tree layout
//  6. Render and store: produce artifacts and persist the record
//
// Only generation and parsing can fail. Count mismatches and structural
// defects are repaired and reported in [Result], never returned as errors.
//
// # Usage
//
//	runner := pipeline.NewRunner(gen, st, logger)
//	res, err := runner.Execute(ctx, pipeline.Options{
//	    Description: "Welcome series with 2 emails and a push",
//	    Key:         "welcome",
//	})
//
// Edits made in the canvas only need the layout stage:
//
//	nodes := runner.Relayout(ctx, edited, "", pipeline.Options{})
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/journey/pkg/config"
	"github.com/matzehuels/journey/pkg/errors"
	"github.com/matzehuels/journey/pkg/journey"
	"github.com/matzehuels/journey/pkg/journey/inspect"
	"github.com/matzehuels/journey/pkg/journey/layout"
	"github.com/matzehuels/journey/pkg/journey/repair"
	"github.com/matzehuels/journey/pkg/journey/transform"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

// Layout algorithms.
const (
	// LayoutLinear keeps the single-column positions from normalization.
	LayoutLinear = "linear"
	// LayoutTree re-positions nodes with the branch-preserving tree layout.
	LayoutTree = "tree"
)

// DefaultLayout is the layout applied when none is requested.
const DefaultLayout = LayoutLinear

// Format constants for rendered artifacts.
const (
	FormatSVG     = "svg"
	FormatPNG     = "png"
	FormatPDF     = "pdf"
	FormatDOT     = "dot"
	FormatMermaid = "mermaid"
	FormatJSON    = "json"
	FormatYAML    = "yaml"
)

// ValidFormats is the set of supported artifact formats.
var ValidFormats = map[string]bool{
	FormatSVG:     true,
	FormatPNG:     true,
	FormatPDF:     true,
	FormatDOT:     true,
	FormatMermaid: true,
	FormatJSON:    true,
	FormatYAML:    true,
}

// ValidLayouts is the set of supported layout algorithms.
var ValidLayouts = map[string]bool{
	LayoutLinear: true,
	LayoutTree:   true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures one pipeline run. It doubles as the body of API
// requests.
type Options struct {
	// Input
	Description  string                `json:"description"`
	Requirements *journey.Requirements `json:"requirements,omitempty"` // nil: extract from Description
	Candidate    string                `json:"candidate,omitempty"`    // skip generation

	// Shape
	PreserveBranches bool   `json:"preserveBranches,omitempty"`
	Layout           string `json:"layout,omitempty"`
	Root             string `json:"root,omitempty"`

	// Output
	Key      string   `json:"key,omitempty"` // store under this key when set
	Formats  []string `json:"formats,omitempty"`
	Detailed bool     `json:"detailed,omitempty"`

	// Runtime options (not serialized)
	Spacing layout.Options `json:"-"`
	Repair  repair.Options `json:"-"`
	Logger  *log.Logger    `json:"-"`

	validated bool
}

// Result is the outcome of a pipeline run.
type Result struct {
	Description  string               `json:"description,omitempty"`
	Requirements journey.Requirements `json:"requirements"`

	// Candidate is the raw generator output (or the supplied candidate).
	Candidate string `json:"candidate,omitempty"`

	// Nodes is the repaired, normalized and laid-out journey.
	Nodes []journey.Node `json:"nodes"`

	// Validation is the check of the parsed candidate before repair.
	Validation repair.Validation `json:"validation"`

	// Repair describes what was changed. Its Nodes field is cleared;
	// see Nodes.
	Repair repair.Result `json:"repair"`

	// Report inspects the final journey.
	Report inspect.Report `json:"report"`

	Artifacts map[string][]byte `json:"-"`
	Key       string            `json:"key,omitempty"`
	Stats     Stats             `json:"stats"`
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount    int           `json:"nodeCount"`
	GenerateTime time.Duration `json:"generateTime"`
	RepairTime   time.Duration `json:"repairTime"`
	LayoutTime   time.Duration `json:"layoutTime"`
	RenderTime   time.Duration `json:"renderTime"`
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, png, pdf, dot, mermaid, json, yaml)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateLayout checks that a layout algorithm is valid.
func ValidateLayout(name string) error {
	if !ValidLayouts[name] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid layout: %q (must be one of: linear, tree)", name)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ApplyConfig copies layout spacing and repair defaults from cfg. Fields
// already set on o win.
func (o *Options) ApplyConfig(cfg config.Config) {
	if o.Spacing == (layout.Options{}) {
		o.Spacing = layout.Options{
			CenterX:           cfg.Layout.CenterX,
			VerticalSpacing:   cfg.Layout.VerticalSpacing,
			HorizontalSpacing: cfg.Layout.HorizontalSpacing,
		}
	}
	if o.Repair.DefaultWait == "" {
		o.Repair.DefaultWait = cfg.Repair.DefaultWait
	}
	if o.Repair.DefaultExitConditions == nil {
		o.Repair.DefaultExitConditions = cfg.Repair.ExitConditions
	}
	if o.Repair.DefaultSegments == nil {
		o.Repair.DefaultSegments = cfg.Repair.Segments
	}
	o.PreserveBranches = o.PreserveBranches || cfg.Repair.PreserveBranches
}

// ValidateAndSetDefaults checks required fields and applies defaults for
// the full pipeline. Calling it more than once has no further effect.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Description == "" && o.Candidate == "" {
		return errors.New(errors.ErrCodeInvalidInput, "description or candidate is required")
	}
	if o.Key != "" {
		if err := errors.ValidateKey(o.Key); err != nil {
			return err
		}
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLayout validates the layout name and sets layout defaults.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	return ValidateLayout(o.Layout)
}

// SetLayoutDefaults fills unset layout fields and the logger.
func (o *Options) SetLayoutDefaults() {
	if o.Layout == "" {
		o.Layout = DefaultLayout
	}
	d := layout.DefaultOptions()
	if o.Spacing.CenterX == 0 {
		o.Spacing.CenterX = d.CenterX
	}
	if o.Spacing.VerticalSpacing <= 0 {
		o.Spacing.VerticalSpacing = d.VerticalSpacing
	}
	if o.Spacing.HorizontalSpacing <= 0 {
		o.Spacing.HorizontalSpacing = d.HorizontalSpacing
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ResolveRequirements returns the explicit requirements, or those extracted from
// the description.
func (o *Options) ResolveRequirements() journey.Requirements {
	if o.Requirements != nil {
		return *o.Requirements
	}
	return journey.ExtractRequirements(o.Description)
}

// IsTree reports whether the tree layout is requested.
func (o *Options) IsTree() bool {
	return o.Layout == LayoutTree
}

func (o *Options) positionOptions() transform.PositionOptions {
	return transform.PositionOptions{CenterX: o.Spacing.CenterX, VerticalSpacing: o.Spacing.VerticalSpacing}
}

func (o *Options) linearizeOptions() transform.LinearizeOptions {
	return transform.LinearizeOptions{PreserveBranches: o.PreserveBranches}
}

func (o *Options) repairOptions() repair.Options {
	ro := o.Repair
	ro.PreserveBranches = ro.PreserveBranches || o.PreserveBranches
	if ro.Logger == nil {
		ro.Logger = o.Logger
	}
	return ro
}

func (s Stats) String() string {
	return fmt.Sprintf("nodes=%d generate=%s repair=%s layout=%s render=%s",
		s.NodeCount, s.GenerateTime, s.RepairTime, s.LayoutTime, s.RenderTime)
}
