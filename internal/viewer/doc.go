// Package viewer provides the controller's viewer instance pool and
// the built-in viewers: the decision requirements graph, the decision
// table grid, and the literal expression panel. Each viewer renders
// line-oriented text onto the surface it is attached to and keeps its
// last opened element so it can redraw after a re-attach.
package viewer
