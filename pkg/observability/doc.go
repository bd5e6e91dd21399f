/*
Package observability exposes runtime activity as Prometheus metrics.

Metrics attach to the engine through domain.Hooks, so the runtime itself
stays free of any metrics dependency.
*/
package observability
