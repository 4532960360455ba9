// Package tarmac provides a discrete-time airport runway allocation
// simulator.
//
// Flights compete for a pool of exclusively held runways under priority and
// safety constraints. For every simulated minute the scheduler frees runways
// whose hold time elapsed, escalates arrivals running critically low on
// fuel, hands each free runway to the highest-ranked waiting flight and
// burns one minute of fuel on everything still queued.
//
// Applications interact with the engine through the Service façade exposed
// by this package:
//
//	srv := tarmac.New()
//	rt := srv.Runtime()
//	skipped, _ := rt.Load(ctx)
//	_, _ = rt.Advance(ctx, 30)
//	snapshot, _ := rt.Report(ctx)
//
// The clock can also run autonomously, mapping one simulated minute onto a
// configurable wall-clock interval:
//
//	_ = rt.StartClock(ctx)
//	...
//	_ = rt.StopClock()
//
// For more details see the README and individual sub-packages.
package tarmac
