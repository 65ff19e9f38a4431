// Package notification defines the events the engine announces to the
// people involved in an order and how each event renders per channel.
//
// An Event pairs a type with a typed payload. Rendering is exhaustive: a
// payload knows its push title, body and data map, and its email subject
// and HTML body, so adding a channel or event type is a compile-visible
// change rather than a template lookup.
package notification
