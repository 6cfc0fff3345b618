// Package main hosts the tunebridge CLI entrypoint and command graph.
//
// The Cobra command tree loads configuration once per invocation, wires the
// library loaders, the matcher, the search cache, and the Spotify client, and
// renders results for the terminal. Behaviour lives in the internal packages;
// commands here only parse flags and present output.
package main
