package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	jio "github.com/matzehuels/journey/pkg/io"
	"github.com/matzehuels/journey/pkg/journey"
	"github.com/matzehuels/journey/pkg/pipeline"
)

// stdio is the path that selects stdin or stdout.
const stdio = "-"

// readDocument loads a journey document from path, or stdin for "-".
func readDocument(path string) (jio.Document, error) {
	if path == stdio {
		return jio.Read(os.Stdin, jio.FormatJSON)
	}
	return jio.Import(path)
}

// readCandidate returns the raw candidate text at path, or stdin for "-".
func readCandidate(path string) (string, error) {
	var data []byte
	var err error
	if path == stdio {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read candidate: %w", err)
	}
	return string(data), nil
}

// writeDocument writes doc to path in the format implied by its extension,
// or as JSON to w when path is empty or "-".
func writeDocument(w io.Writer, path string, doc jio.Document) error {
	if path == "" || path == stdio {
		return jio.WriteJSON(w, doc)
	}
	return jio.Export(doc, path)
}

// =============================================================================
// Artifacts
// =============================================================================

var artifactExt = map[string]string{
	pipeline.FormatSVG:     ".svg",
	pipeline.FormatPNG:     ".png",
	pipeline.FormatPDF:     ".pdf",
	pipeline.FormatDOT:     ".dot",
	pipeline.FormatMermaid: ".mmd",
	pipeline.FormatJSON:    ".json",
	pipeline.FormatYAML:    ".yaml",
}

// basePath strips a known artifact extension from output, or derives the
// base from input when output is empty.
func basePath(output, input string) string {
	if output == "" {
		if input == "" || input == stdio {
			return appName
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	for _, known := range artifactExt {
		if ext == known {
			return strings.TrimSuffix(output, ext)
		}
	}
	return output
}

// writeArtifacts writes each artifact to base plus its extension, in the
// order formats were requested, and returns the paths.
func writeArtifacts(base string, formats []string, artifacts map[string][]byte) ([]string, error) {
	paths := make([]string, 0, len(formats))
	for _, f := range formats {
		path := base + artifactExt[f]
		if err := os.WriteFile(path, artifacts[f], 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// =============================================================================
// Requirement Flags
// =============================================================================

// reqFlags holds explicit per-type counts. Counts not given on the command
// line fall back to the document or the description.
type reqFlags struct {
	journey.Requirements
	cmd *cobra.Command
}

func (r *reqFlags) register(cmd *cobra.Command) {
	r.cmd = cmd
	cmd.Flags().IntVar(&r.Email, "email", 0, "required number of email nodes")
	cmd.Flags().IntVar(&r.Push, "push", 0, "required number of push nodes")
	cmd.Flags().IntVar(&r.Wait, "wait", 0, "required number of wait nodes")
	cmd.Flags().IntVar(&r.Branch, "branch", 0, "required number of branch nodes")
}

// resolve overlays the flags that were set on base.
func (r *reqFlags) resolve(base journey.Requirements) journey.Requirements {
	out := base
	set := func(name string, dst *int, v int) {
		if r.cmd != nil && r.cmd.Flags().Changed(name) {
			*dst = v
		}
	}
	set("email", &out.Email, r.Email)
	set("push", &out.Push, r.Push)
	set("wait", &out.Wait, r.Wait)
	set("branch", &out.Branch, r.Branch)
	return out
}

// given reports whether a count flag was given.
func (r *reqFlags) given() bool {
	if r.cmd == nil {
		return false
	}
	for _, name := range []string{"email", "push", "wait", "branch"} {
		if r.cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

// documentRequirements returns the requirements a document declares, or
// those extracted from its description.
func documentRequirements(doc jio.Document) journey.Requirements {
	if !doc.Requirements.IsZero() || doc.Requirements.Total > 0 {
		return doc.Requirements
	}
	return journey.ExtractRequirements(doc.Description)
}
