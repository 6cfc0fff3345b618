// Package spotify talks to the Spotify Web API: track search, playlist
// creation and population, and the OAuth authorization-code flow that backs
// them.
//
// Client paces requests with a minimum interval and retries rate limits and
// server errors with exponential backoff, honouring Retry-After. TokenManager
// keeps the user's access and refresh tokens on disk and refreshes the access
// token shortly before it expires.
package spotify
