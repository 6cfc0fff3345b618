package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"tunebridge/internal/config"
	"tunebridge/internal/library"
)

type playlistView struct {
	Name    string `json:"name"`
	Tracks  int    `json:"tracks"`
	Missing int    `json:"missing"`
	Master  bool   `json:"master"`
	Folder  bool   `json:"folder"`
}

func newPlaylistsCommand() *cobra.Command {
	var asJSON bool
	var all bool

	cmd := &cobra.Command{
		Use:         "playlists <library.xml>",
		Short:       "List the playlists in a property-list library document",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve library path: %w", err)
			}
			lib, err := library.ReadLibrary(path)
			if err != nil {
				return err
			}

			playlists := lib.ListPlaylists()
			if all {
				playlists = lib.Playlists
			}
			views := make([]playlistView, 0, len(playlists))
			for _, p := range playlists {
				views = append(views, playlistView{
					Name:    p.Name,
					Tracks:  len(p.ItemTrackIDs),
					Missing: lib.MissingMembers(p),
					Master:  p.IsMaster,
					Folder:  p.IsFolder,
				})
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(views)
			}

			out := cmd.OutOrStdout()
			if len(views) == 0 {
				fmt.Fprintln(out, "No playlists found")
				return nil
			}
			rows := make([][]string, 0, len(views))
			for i, v := range views {
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					v.Name,
					playlistKind(v),
					strconv.Itoa(v.Tracks),
					strconv.Itoa(v.Missing),
				})
			}
			fmt.Fprintln(out, renderTable([]column{
				{title: "#", numeric: true},
				{title: "Name"},
				{title: "Kind"},
				{title: "Tracks", numeric: true},
				{title: "Missing", numeric: true},
			}, rows))
			fmt.Fprintf(out, "%d tracks in library\n", len(lib.Tracks))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&all, "all", false, "Include the library master playlist and folders")
	return cmd
}

func playlistKind(v playlistView) string {
	switch {
	case v.Master:
		return "library"
	case v.Folder:
		return "folder"
	default:
		return "playlist"
	}
}
