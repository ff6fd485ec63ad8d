// Package todo defines the task record and its persisted encoding.
//
// A task list is stored as a JSON array:
//
//	[
//	  {
//	    "id": "0b6f2a3e-6c1d-4d0e-9a51-4f3c5e0e2f11",
//	    "title": "Buy milk",
//	    "isCompleted": false
//	  }
//	]
//
// # Decoding
//
// Decode accepts the strict form above and also hand-edited payloads with
// comments or trailing commas (HuJSON). Every payload is validated against
// an embedded JSON Schema (draft 2020-12):
//   - the top level must be an array
//   - each element must carry "id" (uuid), "title" (string) and
//     "isCompleted" (boolean)
//   - unknown fields are ignored
//
// After schema validation ids must be unique within the list.
//
// # File Format
//
// Encode writes:
//   - 2-space indentation
//   - Trailing newline
//   - "[]" for an empty list
package todo
