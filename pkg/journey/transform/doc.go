// Package transform provides the linear normalization pass applied to
// generated and repaired journeys.
//
// [SeedPositions] stacks nodes in a single column in list order and
// [Linearize] threads connections top to bottom. Together ([Normalize]) they
// guarantee a strict visual order at the cost of branch semantics: Branch
// nodes become ordinary links in the chain unless
// [LinearizeOptions].PreserveBranches is set.
//
// For branch-aware positioning use journey/layout instead.
package transform
