package main

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tunebridge/internal/config"
	"tunebridge/internal/library"
	"tunebridge/internal/logging"
	"tunebridge/internal/matchcache"
	"tunebridge/internal/matching"
	"tunebridge/internal/runlock"
	"tunebridge/internal/services"
	"tunebridge/internal/services/spotify"
	"tunebridge/internal/textutil"
)

type convertOptions struct {
	format     string
	playlist   string
	name       string
	public     bool
	dryRun     bool
	reportPath string
	noCache    bool
	verbose    bool
}

// convertOutcome is what a conversion produced, for rendering.
type convertOutcome struct {
	PlaylistName string
	Source       *library.Source
	Summary      matching.Summary
	Playlist     *spotify.PlaylistHandle
	ReportPath   string
	DryRun       bool
}

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var opts convertOptions

	cmd := &cobra.Command{
		Use:   "convert <library-file>",
		Short: "Match a library export against Spotify and create a playlist",
		Long: "Convert reads a tab-delimited export, a property-list library document, or a\n" +
			"folder of tagged audio files, searches Spotify for each track, and creates a\n" +
			"playlist from the matches. Tracks without a match are written to a report.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, runID, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			runCtx := services.WithRequestID(cmd.Context(), runID)

			outcome, err := runConvert(runCtx, cfg, logger, args[0], opts)
			if outcome != nil {
				printConvertOutcome(cmd.OutOrStdout(), outcome, opts.verbose)
			}
			return err
		},
	}

	cmd.Flags().StringVar(&opts.format, "format", string(library.FormatAuto), "Input format: auto, tab, plist, or folder")
	cmd.Flags().StringVarP(&opts.playlist, "playlist", "p", "", "Convert only this playlist from a library document")
	cmd.Flags().StringVarP(&opts.name, "name", "n", "", "Name for the created playlist (defaults to the playlist or file name)")
	cmd.Flags().BoolVar(&opts.public, "public", false, "Create the playlist as public (overrides matching.playlist_public)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Match tracks without creating a playlist")
	cmd.Flags().StringVar(&opts.reportPath, "report", "", "Path for the not-found report (defaults to paths.report_dir)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "Bypass the search cache for this run")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "List every track with its match")
	return cmd
}

func runConvert(ctx context.Context, cfg *config.Config, logger *slog.Logger, inputPath string, opts convertOptions) (*convertOutcome, error) {
	logger = logging.NewComponentLogger(logger, "convert")

	inputPath, err := config.ExpandPath(inputPath)
	if err != nil {
		return nil, fmt.Errorf("resolve input path: %w", err)
	}
	format, err := library.ParseFormat(opts.format)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "convert", "parse flags", "", err)
	}

	lock, err := runlock.Acquire(cfg.LockPath())
	if err != nil {
		return nil, err
	}
	defer func() { _ = lock.Release() }()

	src, err := library.Load(inputPath, library.LoadOptions{Format: format, Playlist: opts.playlist})
	if err != nil {
		return nil, err
	}
	name := playlistName(opts, inputPath)
	ctx = services.WithPlaylist(ctx, name)
	logger = logging.WithContext(ctx, logger)

	for _, warning := range src.Warnings {
		logging.WarnWithContext(logger, "library document issue", "library_warning",
			logging.String("detail", warning),
			logging.String(logging.FieldErrorHint, "check the export for damaged entries"),
			logging.String(logging.FieldImpact, "affected entries are left out"),
		)
	}
	logger.Info("library loaded",
		logging.String("path", inputPath),
		logging.String("format", string(src.Format)),
		logging.Int("tracks", len(src.Tracks)),
		logging.Int("skipped", src.Skipped),
		logging.String(logging.FieldEventType, "library_loaded"),
	)

	client, err := newSpotifyClient(cfg, logger)
	if err != nil {
		return nil, err
	}

	matcherOpts := []matching.Option{
		matching.WithLogger(logger),
		matching.WithResultLimit(cfg.Matching.SearchLimit),
	}
	if cfg.Cache.Enabled && !opts.noCache {
		if cache := openCache(ctx, cfg, logger); cache != nil {
			defer cache.Close()
			matcherOpts = append(matcherOpts, matching.WithCache(cache))
		}
	}
	matcher, err := matching.NewMatcher(client, matcherOpts...)
	if err != nil {
		return nil, err
	}

	outcome := &convertOutcome{PlaylistName: name, Source: src, DryRun: opts.dryRun}
	summary, runErr := matcher.Run(ctx, src.Tracks)
	outcome.Summary = summary

	if len(summary.Unmatched) > 0 {
		path, err := writeReport(cfg, opts.reportPath, name, summary.Unmatched)
		if err != nil {
			logging.ErrorWithContext(logger, "not-found report failed", "report_write_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check paths.report_dir or pass --report"),
				logging.String(logging.FieldImpact, "unmatched tracks are only listed in the log"),
			)
		} else {
			outcome.ReportPath = path
		}
	}
	if runErr != nil {
		return outcome, runErr
	}

	if opts.dryRun {
		logger.Info("dry run; playlist not created",
			logging.Args(logging.DecisionAttrs("playlist_create", "skipped", "dry run")...)...)
		return outcome, nil
	}
	if len(summary.URIs) == 0 {
		logging.WarnWithContext(logger, "no tracks matched; playlist not created", "playlist_skipped",
			logging.String(logging.FieldErrorHint, "review the not-found report"),
			logging.String(logging.FieldImpact, "nothing was added to Spotify"),
		)
		return outcome, nil
	}

	handle, err := publishPlaylist(ctx, cfg, client, name, opts.public || cfg.Matching.PlaylistPublic, summary.URIs)
	if err != nil {
		return outcome, err
	}
	outcome.Playlist = &handle
	logger.Info("playlist created",
		logging.String("playlist_id", handle.ID),
		logging.String("url", handle.ExternalURL),
		logging.Int("tracks", len(summary.URIs)),
		logging.String(logging.FieldEventType, "playlist_created"),
	)
	return outcome, nil
}

func openCache(ctx context.Context, cfg *config.Config, logger *slog.Logger) *matchcache.Store {
	cache, err := matchcache.Open(cfg)
	if err != nil {
		logging.WarnWithContext(logger, "search cache unavailable", "cache_open_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "run `tunebridge cache clear` or delete the cache database"),
			logging.String(logging.FieldImpact, "every track is searched remotely"),
		)
		return nil
	}
	if pruned, err := cache.Prune(ctx); err == nil && pruned > 0 {
		logger.Debug("expired search cache entries removed", logging.Int64("removed", pruned))
	}
	return cache
}

func publishPlaylist(ctx context.Context, cfg *config.Config, client *spotify.Client, name string, public bool, uris []string) (spotify.PlaylistHandle, error) {
	ctx = services.WithStage(ctx, "publish")
	owner, err := client.CurrentUserID(ctx)
	if err != nil {
		return spotify.PlaylistHandle{}, fmt.Errorf("look up account: %w", err)
	}
	handle, err := client.CreatePlaylist(ctx, owner, name, cfg.Matching.PlaylistDescription, public)
	if err != nil {
		return spotify.PlaylistHandle{}, fmt.Errorf("create playlist %q: %w", name, err)
	}
	if err := client.AddTracks(ctx, handle.ID, uris, cfg.Matching.AddBatchSize); err != nil {
		return handle, fmt.Errorf("fill playlist %q: %w", name, err)
	}
	return handle, nil
}

func playlistName(opts convertOptions, inputPath string) string {
	if name := strings.TrimSpace(opts.name); name != "" {
		return name
	}
	if name := strings.TrimSpace(opts.playlist); name != "" {
		return name
	}
	base := filepath.Base(strings.TrimRight(inputPath, string(filepath.Separator)))
	if name := strings.TrimSpace(strings.TrimSuffix(base, filepath.Ext(base))); name != "" {
		return name
	}
	return "tunebridge import"
}

// writeReport writes the not-found report and returns its path.
func writeReport(cfg *config.Config, override, name string, tracks []library.Track) (string, error) {
	path := strings.TrimSpace(override)
	if path == "" {
		path = filepath.Join(cfg.Paths.ReportDir, cmp.Or(textutil.SanitizeFileName(name), "playlist")+"_not_found.txt")
	} else {
		expanded, err := config.ExpandPath(path)
		if err != nil {
			return "", err
		}
		path = expanded
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create report directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create report: %w", err)
	}
	if err := library.WriteNotFoundReport(file, tracks); err != nil {
		file.Close()
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close report: %w", err)
	}
	return path, nil
}

func printConvertOutcome(out io.Writer, outcome *convertOutcome, verbose bool) {
	colors := paletteFor(out)
	summary := outcome.Summary

	if verbose {
		for _, result := range summary.Results {
			line := result.String()
			if result.Candidate == nil {
				line = colors.bad(line)
			}
			fmt.Fprintln(out, line)
		}
		fmt.Fprintln(out)
	}

	fmt.Fprintln(out, colors.bold(outcome.PlaylistName))
	rows := [][]string{
		{"Tracks", strconv.Itoa(len(outcome.Source.Tracks))},
		{"Matched", colors.good(strconv.Itoa(summary.Matched()))},
		{"Not found", strconv.Itoa(len(summary.Unmatched))},
		{"Search failures", strconv.Itoa(summary.Failed)},
		{"Cache hits", strconv.Itoa(summary.CacheHits)},
	}
	if outcome.Source.Skipped > 0 {
		rows = append(rows, []string{"Skipped entries", strconv.Itoa(outcome.Source.Skipped)})
	}
	fmt.Fprintln(out, renderTable([]column{{title: ""}, {title: "Count", numeric: true}}, rows))

	switch {
	case outcome.Playlist != nil:
		handle := outcome.Playlist
		fmt.Fprintf(out, "Playlist: %s\n", cmp.Or(handle.ExternalURL, handle.URI))
	case outcome.DryRun:
		fmt.Fprintln(out, "Dry run: playlist not created")
	}
	if outcome.ReportPath != "" {
		fmt.Fprintf(out, "Not-found report: %s\n", outcome.ReportPath)
	}
}
