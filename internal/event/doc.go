// Package event provides the controller's notification bus.
//
// The bus is per-controller publish/subscribe keyed by hierarchical
// topics (see the topic subpackage). Delivery is synchronous in the
// publisher's goroutine: the controller is a cooperative single-threaded
// machine and notifications are lifecycle milestones, not cross-goroutine
// messages. Subscriptions support priority ordering (lower values run
// first), one-shot delivery, and filter predicates. Handler panics are
// recovered and surfaced as PanicError values rather than crashing the
// publisher.
//
// Notification payloads are published as pointers. A handler that wants
// to rewrite a value flowing through a lifecycle stage (for example the
// raw XML before parsing) mutates the payload in place; later handlers
// and the publisher observe the rewritten value.
package event
