// Package errors provides structured errors for wtii.
//
// Every error carries a Code that callers branch on, a short human message
// suitable for the status line, an optional wrapped cause and optional
// metadata for logging:
//
//	if errors.IsDataQuality(err) {
//	    // the search result cannot become a combatant
//	}
//
// Two errors compare equal under errors.Is when their codes match.
package errors
