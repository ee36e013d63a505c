package journey

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/matzehuels/journey/pkg/errors"
)

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"Plain", `[{"id":"a"}]`, `[{"id":"a"}]`},
		{"Whitespace", "  \n[]\n  ", "[]"},
		{"FenceWithLanguage", "```json\n[]\n```", "[]"},
		{"FenceWithoutLanguage", "```\n[1]\n```", "[1]"},
		{"TrailingSpaceAfterFence", "```json\n{}\n```  \n", "{}"},
		{"LeadingFenceOnly", "```json\n[]", "[]"},
		{"SingleLineFence", "```[]```", "[]"},
		{"SingleLineFenceWithLanguage", "```json [{\"id\":\"a\"}]```", `[{"id":"a"}]`},
		{"SingleLineFenceTagTouching", "```json{}```", "{}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripFences(tt.in); got != tt.want {
				t.Errorf("StripFences(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		wantNodes int
		check     func(t *testing.T, nodes []Node)
	}{
		{
			name:      "Array",
			in:        `[{"id":"a","type":"entrance","connections":["b"]},{"id":"b","type":"exit"}]`,
			wantNodes: 2,
			check: func(t *testing.T, nodes []Node) {
				if nodes[0].Type != TypeEntrance {
					t.Errorf("Type = %v, want %v", nodes[0].Type, TypeEntrance)
				}
				if nodes[1].Connections == nil {
					t.Error("Connections = nil, want empty slice")
				}
			},
		},
		{
			name:      "FencedObject",
			in:        "```json\n{\"nodes\":[{\"id\":\"x\",\"type\":\"Wait\",\"waitDuration\":\"1 Day\"}]}\n```",
			wantNodes: 1,
			check: func(t *testing.T, nodes []Node) {
				if nodes[0].Type != TypeWait {
					t.Errorf("Type = %v, want %v", nodes[0].Type, TypeWait)
				}
				if nodes[0].WaitDuration != "1 Day" {
					t.Errorf("WaitDuration = %q, want %q", nodes[0].WaitDuration, "1 Day")
				}
			},
		},
		{
			name:      "SingleLineFence",
			in:        "```json [{\"id\":\"in\",\"type\":\"entrance\"},{\"id\":\"out\",\"type\":\"exit\"}]```",
			wantNodes: 2,
		},
		{
			name:      "UpperCaseType",
			in:        `[{"id":"b","type":"BRANCH","branches":{"yes":["y"],"no":["n"]}}]`,
			wantNodes: 1,
			check: func(t *testing.T, nodes []Node) {
				if nodes[0].Type != TypeBranch {
					t.Errorf("Type = %v, want %v", nodes[0].Type, TypeBranch)
				}
				if got := nodes[0].Branches.Yes; len(got) != 1 || got[0] != "y" {
					t.Errorf("Branches.Yes = %v, want [y]", got)
				}
			},
		},
		{
			name:      "EmptyArray",
			in:        `[]`,
			wantNodes: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nodes, err := Parse(tt.in)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if len(nodes) != tt.wantNodes {
				t.Fatalf("len(nodes) = %d, want %d", len(nodes), tt.wantNodes)
			}
			if tt.check != nil {
				tt.check(t, nodes)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name        string
		in          string
		wantCleaned string
	}{
		{"Empty", "   ", ""},
		{"NotJSON", "here is your journey", "here is your journey"},
		{"Truncated", "```json\n[{\"id\":\"a\"\n```", `[{"id":"a"`},
		{"UnknownType", `[{"id":"a","type":"sms"}]`, `[{"id":"a","type":"sms"}]`},
		{"ObjectWithoutNodes", `{"steps":[]}`, `{"steps":[]}`},
		{"TrailingData", `[] []`, `[] []`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.in)
			if err == nil {
				t.Fatal("Parse() error = nil, want error")
			}
			var pe *ParseError
			if !stderrors.As(err, &pe) {
				t.Fatalf("error type = %T, want *ParseError", err)
			}
			if pe.Raw != tt.in {
				t.Errorf("Raw = %q, want %q", pe.Raw, tt.in)
			}
			if pe.Cleaned != tt.wantCleaned {
				t.Errorf("Cleaned = %q, want %q", pe.Cleaned, tt.wantCleaned)
			}
			if !errors.Is(err, errors.ErrCodeParse) {
				t.Errorf("GetCode() = %v, want %v", errors.GetCode(err), errors.ErrCodeParse)
			}
			if !strings.HasPrefix(err.Error(), "parse journey:") {
				t.Errorf("Error() = %q, want parse journey prefix", err.Error())
			}
		})
	}
}

func TestExtractRequirements(t *testing.T) {
	tests := []struct {
		desc string
		want Requirements
	}{
		{"Send 3 push notifications and 1 email", Requirements{Push: 3, Email: 1}},
		{"2 Emails, waits 4 and BRANCH 1", Requirements{Email: 2, Wait: 4, Branch: 1}},
		{"email 5 then push 2", Requirements{Email: 5, Push: 2}},
		{"a welcome journey", Requirements{}},
		{"a 7 steps onboarding with 2 emails", Requirements{Email: 2, Total: 7}},
		{"10 messages in total", Requirements{Total: 10}},
		{"1 email, then 3 emails", Requirements{Email: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			if got := ExtractRequirements(tt.desc); got != tt.want {
				t.Errorf("ExtractRequirements(%q) = %+v, want %+v", tt.desc, got, tt.want)
			}
		})
	}
}
