package journey

import (
	"regexp"
	"strconv"
)

type requirementPatterns struct {
	typ    NodeType
	before *regexp.Regexp // "<N> <type>s?"
	after  *regexp.Regexp // "<type>s? <N>"
}

var (
	requirementRules = buildRequirementRules()
	totalPattern     = regexp.MustCompile(`(?i)(\d+)\s+(steps|nodes|messages)`)
)

func buildRequirementRules() []requirementPatterns {
	rules := make([]requirementPatterns, 0, len(ConstrainedTypes))
	for _, t := range ConstrainedTypes {
		name := regexp.QuoteMeta(string(t))
		rules = append(rules, requirementPatterns{
			typ:    t,
			before: regexp.MustCompile(`(?i)(\d+)\s+` + name + `s?`),
			after:  regexp.MustCompile(`(?i)` + name + `s?\s+(\d+)`),
		})
	}
	return rules
}

// ExtractRequirements pulls per-type target counts out of a free-text
// description.
//
// For each constrained type the shape "<N> <type>s?" is tried first, then
// "<type>s? <N>". Matching is case-insensitive and the first match wins; a
// type that is not mentioned stays 0 (unconstrained). "<N> steps", "<N> nodes"
// or "<N> messages" sets the Total hint.
func ExtractRequirements(description string) Requirements {
	var req Requirements
	for _, rule := range requirementRules {
		n, ok := matchCount(rule.before, description)
		if !ok {
			n, ok = matchCount(rule.after, description)
		}
		if !ok {
			continue
		}
		switch rule.typ {
		case TypeEmail:
			req.Email = n
		case TypePush:
			req.Push = n
		case TypeWait:
			req.Wait = n
		case TypeBranch:
			req.Branch = n
		}
	}
	if n, ok := matchCount(totalPattern, description); ok {
		req.Total = n
	}
	return req
}

func matchCount(re *regexp.Regexp, s string) (int, bool) {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}
