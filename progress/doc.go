// Package progress provides a lightweight tracker that keeps aggregated
// flight counters (waiting, assigned, completed, total) for a single
// simulation run. The scheduler updates the counters as flights move through
// their lifecycle; front ends subscribe via OnChange to render live status
// without polling engine internals.
package progress
