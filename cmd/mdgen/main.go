package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"mdgen/internal/config"
	"mdgen/internal/document"
	"mdgen/internal/store"

	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:   "mdgen",
		Short: "Hierarchical markdown document builder",
	}
	dbPath  string
	cfgPath string
	outDir  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Path to the local document archive (SQLite)")
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "Path to the config file")

	renderCmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory override")
	restoreCmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory override")

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(archiveCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(listCmd)
}

func initStore() (*store.Store, error) {
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	path := dbPath
	if path == "" {
		path = cfg.Archive.DB
	}
	return store.New(path)
}

// docName derives the archive name from an interchange file path.
func docName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

var renderCmd = &cobra.Command{
	Use:   "render <doc.json>",
	Short: "Render an interchange document to markdown",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		doc, err := document.Load(args[0])
		if err != nil {
			log.Fatalf("Failed to load document: %v", err)
		}

		if err := doc.SaveAs(outDir); err != nil {
			log.Fatalf("Failed to write markdown: %v", err)
		}
		fmt.Printf("✅ Markdown written to %s\n", doc.MarkdownPath())
	},
}

var archiveCmd = &cobra.Command{
	Use:   "archive <doc.json>",
	Short: "Store an interchange document in the local archive",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		payload, err := os.ReadFile(args[0])
		if err != nil {
			log.Fatalf("Failed to read document: %v", err)
		}
		// Reject malformed documents before they reach the archive.
		if _, err := document.Decode(payload); err != nil {
			log.Fatalf("Invalid interchange document: %v", err)
		}

		st, err := initStore()
		if err != nil {
			log.Fatalf("Failed to open archive: %v", err)
		}
		defer st.Close()

		rec, err := st.Save(context.Background(), docName(args[0]), payload)
		if err != nil {
			log.Fatalf("Failed to archive document: %v", err)
		}
		fmt.Printf("💾 Archived %q (%s)\n", rec.Name, rec.ID)
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore <name>",
	Short: "Restore an archived document and render it",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		st, err := initStore()
		if err != nil {
			log.Fatalf("Failed to open archive: %v", err)
		}
		defer st.Close()

		rec, err := st.Load(context.Background(), args[0])
		if err != nil {
			log.Fatalf("Failed to load %q from archive: %v", args[0], err)
		}

		doc, err := document.Decode(rec.Payload)
		if err != nil {
			log.Fatalf("Archived document is invalid: %v", err)
		}
		if outDir != "" {
			if err := doc.SaveJSONAs(outDir); err != nil {
				log.Fatalf("Failed to write interchange file: %v", err)
			}
		} else if err := doc.SaveJSON(); err != nil {
			log.Fatalf("Failed to write interchange file: %v", err)
		}
		if err := doc.Save(); err != nil {
			log.Fatalf("Failed to write markdown: %v", err)
		}
		fmt.Printf("✅ Restored %q to %s and %s\n", rec.Name, doc.JSONPath(), doc.MarkdownPath())
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived documents",
	Run: func(cmd *cobra.Command, args []string) {
		st, err := initStore()
		if err != nil {
			log.Fatalf("Failed to open archive: %v", err)
		}
		defer st.Close()

		records, err := st.List(context.Background())
		if err != nil {
			log.Fatalf("Failed to list archive: %v", err)
		}
		if len(records) == 0 {
			fmt.Println("Archive is empty.")
			return
		}
		for _, rec := range records {
			fmt.Printf("%-30s updated %s\n", rec.Name, rec.UpdatedAt.Format("2006-01-02 15:04:05"))
		}
	},
}
