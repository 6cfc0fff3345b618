// Package config loads, normalizes, and validates tunebridge configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// SPOTIFY_CLIENT_ID. The Config type centralizes every knob the CLI needs,
// allowing state directories, search pacing, and remote catalog credentials
// to be discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
