// ABOUTME: Export command writing conversation history to a file
// ABOUTME: Formats: txt, json, md, yaml; files land in the exports dir
package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/pacify-defy/pacify-defy/internal/engine"
	"github.com/pacify-defy/pacify-defy/internal/export"
)

var exportFormat string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export conversation history to a file",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()
		return exportToFile(a, exportFormat)
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "txt", "export format: txt, json, md, yaml")
}

func exportToFile(a *app, format string) error {
	doc, err := a.engine.ExportDocument()
	if err != nil {
		return err
	}

	dir := a.cfg.ExportsDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create exports directory: %w", err)
	}

	name := fmt.Sprintf("conversation_%s.%s", time.Now().Format("20060102_150405"), format)
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	if err := export.Encode(f, doc, format); err != nil {
		return err
	}
	fmt.Printf("Exported %d turns to %s\n", doc.TurnCount, path)
	return nil
}

// runExport backs the /export slash command.
func runExport(e *engine.Engine, format string) {
	doc, err := e.ExportDocument()
	if err != nil {
		fmt.Printf("Export failed: %v\n", err)
		return
	}
	data, err := export.EncodeToBytes(doc, format)
	if err != nil {
		fmt.Printf("Export failed: %v\n", err)
		return
	}
	name := fmt.Sprintf("conversation_%s.%s", time.Now().Format("20060102_150405"), format)
	if err := os.WriteFile(name, data, 0o644); err != nil {
		fmt.Printf("Export failed: %v\n", err)
		return
	}
	fmt.Printf("Exported %d turns to %s\n", doc.TurnCount, name)
}
