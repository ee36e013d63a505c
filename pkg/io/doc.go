// Package io reads and writes journey documents as JSON or YAML.
//
// # Format
//
// A document carries the nodes plus the request they were built for:
//
//	{
//	  "description": "Welcome series with 2 emails",
//	  "requirements": {"email": 2, "push": 0, "wait": 0, "branch": 0},
//	  "nodes": [
//	    {"id": "entrance", "type": "entrance", "connections": ["email-1"], ...},
//	    ...
//	  ]
//	}
//
// The YAML form uses the same field names. A bare JSON array of nodes is also
// accepted on input, which is what generators and editors usually emit.
//
// # Import
//
// [Import] picks the format from the file extension (.yaml and .yml are
// YAML, anything else JSON); [Read] takes an explicit [Format]. Node types
// are validated and missing connections become empty lists. Duplicate node
// ids are rejected.
//
// # Export
//
// [Export] and [Write] emit indented JSON or YAML. Exported documents
// re-import to the same nodes.
package io
