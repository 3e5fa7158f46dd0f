// Package item provides the item model shared by every other package:
// resource identifiers, item stacks and their constrained tag data.
//
// This package imports nothing internal. Stacks are plain values; any
// operation that hands a stack to a caller that might keep it must go
// through Copy, because the tag compound is a map and would otherwise be
// shared.
//
// Key design constraints:
//   - NO float values in tags - use int64 for numbers
//   - Tag identity is the canonical JSON encoding (sorted keys, NFC strings)
//   - The zero Stack is the empty stack
package item
