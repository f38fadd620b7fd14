package domain

import "errors"

// ErrDocumentNotFound is returned when a canvas ID cannot be found in the store.
var ErrDocumentNotFound = errors.New("document not found")

// ErrInvalidGraph is returned when a graph breaks ID uniqueness or references a missing frame.
var ErrInvalidGraph = errors.New("invalid graph")

// ErrClipboardEmpty is returned by clipboards that hold no text.
var ErrClipboardEmpty = errors.New("clipboard is empty")

// ErrClipboardUnavailable is returned when the platform clipboard cannot be accessed.
var ErrClipboardUnavailable = errors.New("clipboard unavailable")

// ErrUnknownPayload is returned when clipboard text matches none of the accepted shapes.
var ErrUnknownPayload = errors.New("unrecognized clipboard payload")

// ErrNodeNotFound is returned when an operation names a node absent from the graph.
var ErrNodeNotFound = errors.New("node not found")
