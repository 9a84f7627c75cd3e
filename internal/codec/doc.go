// Package codec parses serialized DMN XML into a model tree and
// serializes a tree back to XML. Parsing is tolerant: structural
// problems that do not prevent building a tree (unknown elements,
// duplicate ids, missing names) are collected as warnings rather than
// errors. Only a malformed document or an unrecognized root element
// fails the parse.
package codec
