// Package repair validates journeys against per-type count requirements and
// repairs them.
//
// [Validate] counts Email, Push, Wait and Branch nodes and compares them with
// [journey.Requirements]. [Repair] turns an invalid or structurally broken
// candidate into one that satisfies the requirements, either by adjusting
// counts in place or by rebuilding from the canonical template
// ([BuildCanonical]) when the Entrance or Exit is missing.
//
// Count mismatches and missing structure are never errors: repair always
// returns a usable journey and logs what it changed.
//
//	v := repair.Validate(nodes, req)
//	if !v.Valid || !v.Sound() {
//	    res := repair.Repair(nodes, req, v.Counts, repair.Options{Logger: logger})
//	    nodes = res.Nodes
//	}
package repair
