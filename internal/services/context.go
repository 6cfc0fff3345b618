package services

import "context"

// ctxKey is unexported so keys cannot collide with those of other packages.
type ctxKey uint8

const (
	trackIndexKey ctxKey = iota
	stageKey
	playlistKey
	requestIDKey
)

func withString(ctx context.Context, key ctxKey, value string) context.Context {
	if value == "" {
		return ctx
	}
	return context.WithValue(ctx, key, value)
}

func stringFrom(ctx context.Context, key ctxKey) (string, bool) {
	v, ok := ctx.Value(key).(string)
	return v, ok && v != ""
}

// WithTrackIndex records the 1-based position of the track being matched.
func WithTrackIndex(ctx context.Context, index int) context.Context {
	return context.WithValue(ctx, trackIndexKey, index)
}

func TrackIndexFromContext(ctx context.Context) (int, bool) {
	v, ok := ctx.Value(trackIndexKey).(int)
	return v, ok
}

// WithStage records the conversion stage ("search", "publish"). Empty is ignored.
func WithStage(ctx context.Context, stage string) context.Context {
	return withString(ctx, stageKey, stage)
}

func StageFromContext(ctx context.Context) (string, bool) { return stringFrom(ctx, stageKey) }

// WithPlaylist records the source playlist name. Empty is ignored.
func WithPlaylist(ctx context.Context, name string) context.Context {
	return withString(ctx, playlistKey, name)
}

func PlaylistFromContext(ctx context.Context) (string, bool) { return stringFrom(ctx, playlistKey) }

// WithRequestID records the run correlation id. Empty is ignored.
func WithRequestID(ctx context.Context, id string) context.Context {
	return withString(ctx, requestIDKey, id)
}

func RequestIDFromContext(ctx context.Context) (string, bool) { return stringFrom(ctx, requestIDKey) }
