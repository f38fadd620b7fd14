/*
Package observability turns canvas interaction events into logs and metrics.

Both are exposed as domain.Hooks so they can be merged with each other and with
host callbacks:

	hooks := observability.LoggingHooks(logger).Merge(metrics.Hooks())
	editor := canvas.New(store, canvas.WithHooks(hooks))

Document changes published by the document manager are counted through
Metrics.ObserveDiff.
*/
package observability
