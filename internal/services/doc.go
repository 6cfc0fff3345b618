// Package services defines shared utilities consumed by the conversion
// workflow and the remote catalog integration.
//
// Key responsibilities:
//   - Context helpers that stamp run correlation ids, stage names, playlist
//     names, and track positions for logging.
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent CLI reporting classes.
//
// Use these helpers when wiring new workflow logic so operational behaviour
// (error handling, observability) stays uniform across commands.
package services
