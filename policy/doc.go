// Package policy holds the declarative selection rules applied when the
// ledger ranks waiting flights for a free runway. A nil *Policy means the
// reference behaviour and is therefore the zero-cost default.
package policy
