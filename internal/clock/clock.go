package clock

import "time"

// NowFunc supplies the current wall-clock time. Tests override it to make
// event timestamps deterministic.
var NowFunc = time.Now

// Now returns the current time via NowFunc.
func Now() time.Time { return NowFunc() }
