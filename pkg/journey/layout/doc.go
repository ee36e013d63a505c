// Package layout assigns canvas coordinates to journey graphs.
//
// [Tree] walks the graph depth first from the Entrance and preserves branch
// structure: the yes side of a Branch node is shifted left and the no side
// right, and every descendant inherits the shift until the next Branch.
// Traversal state (visited set and position table) is created per call and
// passed explicitly, so Tree is reentrant and deterministic: the same input
// always yields the same positions.
//
// Tree is the layout used for interactive edits. The generation pipeline
// uses the flattening pass in journey/transform instead.
package layout
