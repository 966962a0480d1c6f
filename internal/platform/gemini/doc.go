// Package gemini implements the LLM-backed helpers of the scan pipeline on
// top of Google's Gemini API: suggesting product metadata for a freshly
// scanned item and matching an item against existing placeholder products.
//
// Both operations are advisory. Callers must tolerate a nil (disabled)
// client and degraded zero-value answers; a scan never fails because the
// LLM is unreachable or returns something unparseable.
package gemini
