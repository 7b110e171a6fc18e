package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/blugen-labs/lexrag/internal/logger"
)

// watchDebounce coalesces rapid events for the same file, e.g. an
// editor writing in several syscalls.
const watchDebounce = 2 * time.Second

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Watch a corpus directory and ingest changes",
	Long: `Performs an initial ingest of the directory, then watches it for
new and modified documents and ingests them incrementally. Runs until
interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if err := ensureIngestor(); err != nil {
		return err
	}
	defer closeServices()

	root, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolve directory: %w", err)
	}

	ctx := cmd.Context()

	report, err := ingestService.IngestDir(ctx, root)
	if err != nil {
		return fmt.Errorf("initial ingest failed: %w", err)
	}
	cmd.Printf("Ingested %d documents (%d chunks), watching %s\n",
		report.Documents, report.Chunks, root)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watchTree(watcher, root); err != nil {
		return err
	}

	var mu sync.Mutex
	pending := make(map[string]*time.Timer)

	ingestLater := func(path string) {
		mu.Lock()
		defer mu.Unlock()
		if timer, ok := pending[path]; ok {
			timer.Reset(watchDebounce)
			return
		}
		pending[path] = time.AfterFunc(watchDebounce, func() {
			mu.Lock()
			delete(pending, path)
			mu.Unlock()

			if err := ingestService.IngestFile(ctx, root, path); err != nil {
				logger.Warn("Failed to ingest %s: %v", path, err)
				return
			}
			cmd.Printf("Ingested %s\n", path)
		})
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if strings.HasPrefix(filepath.Base(event.Name), ".") {
				continue
			}
			if event.Op.Has(fsnotify.Create) {
				// New directories must be watched explicitly
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := watchTree(watcher, event.Name); err != nil {
						logger.Warn("Failed to watch %s: %v", event.Name, err)
					}
					continue
				}
			}
			if event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Write) {
				ingestLater(event.Name)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

// watchTree adds path and every non-hidden directory below it to the watcher.
func watchTree(watcher *fsnotify.Watcher, path string) error {
	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != path && strings.HasPrefix(d.Name(), ".") {
			return fs.SkipDir
		}
		return watcher.Add(p)
	})
}
