package config

const (
	defaultStateDir              = "~/.local/share/tunebridge"
	defaultLogDir                = "~/.local/share/tunebridge/logs"
	defaultReportDir             = "."
	defaultSpotifyAPIBaseURL     = "https://api.spotify.com/v1"
	defaultSpotifyAccountsURL    = "https://accounts.spotify.com"
	defaultSpotifyRedirectURI    = "http://127.0.0.1:8888/callback"
	defaultSpotifyTimeoutSeconds = 30
	defaultSearchLimit           = 5
	defaultRequestIntervalMillis = 100
	defaultMaxRetries            = 6
	defaultAddBatchSize          = 100
	defaultPlaylistDescription   = "Imported by tunebridge"
	defaultCacheTTLHours         = 24 * 7
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
	defaultLogRetentionDays      = 30

	maxSearchLimit  = 50
	maxAddBatchSize = 100
)

var defaultSpotifyScopes = []string{
	"playlist-modify-private",
	"playlist-modify-public",
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir:  defaultStateDir,
			LogDir:    defaultLogDir,
			ReportDir: defaultReportDir,
		},
		Spotify: Spotify{
			APIBaseURL:     defaultSpotifyAPIBaseURL,
			AccountsURL:    defaultSpotifyAccountsURL,
			RedirectURI:    defaultSpotifyRedirectURI,
			Scopes:         append([]string(nil), defaultSpotifyScopes...),
			TimeoutSeconds: defaultSpotifyTimeoutSeconds,
		},
		Matching: Matching{
			SearchLimit:           defaultSearchLimit,
			RequestIntervalMillis: defaultRequestIntervalMillis,
			MaxRetries:            defaultMaxRetries,
			AddBatchSize:          defaultAddBatchSize,
			PlaylistDescription:   defaultPlaylistDescription,
		},
		Cache: Cache{
			Enabled:  true,
			TTLHours: defaultCacheTTLHours,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
