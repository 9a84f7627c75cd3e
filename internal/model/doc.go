// Package model defines the in-memory tree for one DMN decision-model
// document. The tree is plain data: the codec builds it, the controller
// installs it wholesale on each successful parse and never mutates an
// installed tree in place. Element identity within one parse is pointer
// identity; across parses, elements are correlated by id.
package model
