// Package logs locates per-run log files and reads them for the `tunebridge
// logs` command: the last N lines of a run, and follow mode that streams new
// lines until the context ends.
package logs
