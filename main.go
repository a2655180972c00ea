/*
 * @Description:
 * @Author: memorymap
 * @Date: 2026-04-02 16:32:42
 * @LastEditTime: 2026-07-04 01:25:56
 * @LastEditors: memorymap
 */
package main

import (
	"embed"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/memorymap/memorymap-app/cmd/server"
)

//go:embed all:assets/dist
var content embed.FS

func main() {
	var exportAssetsDir string
	flag.StringVar(&exportAssetsDir, "export-assets", "", "write the embedded frontend to this directory and exit")
	flag.Parse()

	if exportAssetsDir != "" {
		if err := exportAssets(exportAssetsDir); err != nil {
			log.Fatalf("export assets: %v", err)
		}
		log.Printf("✅ Frontend assets exported to %s", exportAssetsDir)
		return
	}

	app, cleanup, err := server.NewApp(content)
	if err != nil {
		if cleanup != nil {
			cleanup()
		}
		log.Fatalf("init failed: %v", err)
	}
	defer cleanup()
	defer app.Stop()

	app.PrintBanner()
	if err := app.Run(); err != nil {
		log.Printf("server stopped: %v", err)
	}
}

// exportAssets copies the embedded assets/dist tree to outputDir.
func exportAssets(outputDir string) error {
	subFS, err := fs.Sub(content, "assets/dist")
	if err != nil {
		return fmt.Errorf("open embedded assets: %w", err)
	}

	var fileCount int
	err = fs.WalkDir(subFS, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		targetPath := filepath.Join(outputDir, path)
		if d.IsDir() {
			return os.MkdirAll(targetPath, 0755)
		}
		data, err := fs.ReadFile(subFS, path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		if err := os.WriteFile(targetPath, data, 0644); err != nil {
			return fmt.Errorf("write %s: %w", targetPath, err)
		}
		fileCount++
		return nil
	})
	if err != nil {
		return err
	}
	log.Printf("📦 Exported %d files", fileCount)
	return nil
}
