// Package textutil provides the string normalization used when comparing
// local track metadata against catalog candidates, plus filename sanitizing
// for generated reports.
package textutil
