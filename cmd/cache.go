/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/valpere/mstranslate/internal/fingerprint"
	"github.com/valpere/mstranslate/internal/widget"
)

var (
	deleteText   string
	deleteTarget string
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the local translation cache",
	Long: `List, inspect, and clear the SQLite translation cache.

Entries are keyed by the fingerprint of "<text>-<target>".`,
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all cached translations",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore(cfg.CachePath)
		if err != nil {
			return err
		}
		defer db.Close()

		entries, err := db.List(context.Background())
		if err != nil {
			return fmt.Errorf("failed to list entries: %w", err)
		}

		if len(entries) == 0 {
			fmt.Println("No entries in the translation cache.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "KEY\tHITS\tCREATED\tLAST USED\tTRANSLATION")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n",
				e.Key, e.Hits,
				e.CreatedAt.Format("2006-01-02 15:04"),
				e.LastUsed.Format("2006-01-02 15:04"),
				snippet(e.Value, 40))
		}
		return w.Flush()
	},
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show translation cache statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore(cfg.CachePath)
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.Stats(context.Background())
		if err != nil {
			return fmt.Errorf("failed to get stats: %w", err)
		}

		fmt.Printf("Database:      %s\n", cfg.CachePath)
		fmt.Printf("Total entries: %d\n", stats.TotalEntries)
		fmt.Printf("Total hits:    %d\n", stats.TotalHits)
		fmt.Printf("Stored bytes:  %d\n", stats.TotalBytes)
		return nil
	},
}

var cacheDeleteCmd = &cobra.Command{
	Use:   "delete [key]",
	Short: "Delete a cached translation by key, or by --text and --target",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var key string
		switch {
		case len(args) == 1:
			key = args[0]
		case deleteText != "" && deleteTarget != "":
			key = fingerprint.Key(widget.CacheKey(widget.State{
				Text:           normalizeInput(deleteText),
				TargetLanguage: deleteTarget,
			}))
		default:
			return fmt.Errorf("give a key, or both --text and --target")
		}

		db, err := openStore(cfg.CachePath)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.RemoveItem(context.Background(), key); err != nil {
			return fmt.Errorf("failed to delete entry: %w", err)
		}
		fmt.Printf("Deleted entry: %s\n", key)
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached translations",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore(cfg.CachePath)
		if err != nil {
			return err
		}
		defer db.Close()

		n, err := db.Clear(context.Background())
		if err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
		fmt.Printf("Cleared %d entries from the translation cache.\n", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)

	cacheDeleteCmd.Flags().StringVar(&deleteText, "text", "", "Text of the entry to delete")
	cacheDeleteCmd.Flags().StringVar(&deleteTarget, "target", "", "Target language of the entry to delete")

	cacheCmd.AddCommand(cacheListCmd)
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheDeleteCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}
