// Package library turns local music library exports into canonical tracks.
//
// Three sources are understood: tab-delimited text exports, XML property-list
// library documents (via the plist subpackage), and folders of tagged audio
// files. Every source produces ordered Records, which NormalizePlist and
// NormalizeTabular map onto Track values ready for catalog matching.
package library
