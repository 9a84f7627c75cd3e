// Package view derives the set of displayable views from a document
// tree and an ordered provider registry, and defines view identity and
// change detection across document reloads.
//
// A view Descriptor is a value-like snapshot: it is recomputed, never
// mutated, on every document change. Two descriptors denote the same
// view when they reference the same element, or share an id when the
// element reference itself was replaced by a fresh parse.
package view
