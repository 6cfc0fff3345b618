package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"tunebridge/internal/config"
	"tunebridge/internal/matchcache"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the search cache",
	}
	cmd.AddCommand(newCacheStatsCommand(ctx), newCacheClearCommand(ctx))
	return cmd
}

// withCache opens the configured cache for the duration of fn.
func withCache(ctx *commandContext, fn func(*config.Config, *matchcache.Store) error) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	store, err := matchcache.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(cfg, store)
}

func newCacheStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show search cache usage",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withCache(ctx, func(cfg *config.Config, store *matchcache.Store) error {
				stats, err := store.Stats(cmd.Context())
				if err != nil {
					return err
				}
				printCacheStats(cmd.OutOrStdout(), cfg, stats)
				return nil
			})
		},
	}
}

func printCacheStats(out io.Writer, cfg *config.Config, stats matchcache.Stats) {
	const stamp = "2006-01-02 15:04"
	lines := [][2]string{
		{"Path", stats.Path},
		{"Enabled", yesNo(cfg.Cache.Enabled)},
		{"Entries", fmt.Sprintf("%d (%d expired)", stats.Entries, stats.Expired)},
		{"Size", humanBytes(stats.SizeBytes)},
	}
	if stats.Entries > 0 {
		lines = append(lines,
			[2]string{"Oldest", stats.Oldest.Local().Format(stamp)},
			[2]string{"Newest", stats.Newest.Local().Format(stamp)},
		)
	}
	if ttl := cfg.CacheTTL(); ttl > 0 {
		lines = append(lines, [2]string{"TTL", ttl.Round(time.Hour).String()})
	}
	for _, l := range lines {
		fmt.Fprintf(out, "%s: %s\n", l[0], l[1])
	}
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	var expiredOnly bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove cached search results",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withCache(ctx, func(_ *config.Config, store *matchcache.Store) error {
				remove := store.Clear
				if expiredOnly {
					remove = store.Prune
				}
				removed, err := remove(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached searches\n", removed)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&expiredOnly, "expired", false, "Only remove entries older than cache.ttl_hours")
	return cmd
}

// humanBytes formats n with binary units: 512 B, 2.0 KiB, 5.0 MiB.
func humanBytes(n int64) string {
	if n < 1024 {
		return fmt.Sprintf("%d B", n)
	}
	value := float64(n)
	for _, unit := range []string{"KiB", "MiB", "GiB", "TiB"} {
		value /= 1024
		if value < 1024 || unit == "TiB" {
			return fmt.Sprintf("%.1f %s", value, unit)
		}
	}
	return ""
}
