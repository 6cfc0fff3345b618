// Package matching finds catalog equivalents for local tracks.
//
// Each track is searched with a field-qualified query first and a free-text
// query only when that returns nothing. Candidates are scored against the
// track and the highest score wins, with ties going to the candidate the
// catalog listed first. Matcher drives a whole track list through this, one
// track at a time in input order.
package matching
