package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nvgallery [flags] <image|dir|archive|url>...",
		Short: "Paged full-screen image gallery with a thumbnail grid",
		Long: "nvgallery shows images from files, directories, zip/rar/7z archives or\n" +
			"http(s) URLs as a thumbnail grid. Tapping a thumbnail opens a paged,\n" +
			"zoomable full-screen gallery that can be dismissed back into the grid.",
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args)
		},
	}

	f := cmd.Flags()
	f.String("config", "", "config file (default ~/.nvgallery.yaml)")
	f.Int("radius", defaultWindowRadius, "pages kept loaded on each side of the current page")
	f.Int("start", 0, "open the gallery on this page (1-based) at startup")
	f.Bool("single-tap-dismiss", false, "close the gallery with a single tap")
	f.String("sort", "natural", "sort order for local images: natural, simple or entry")
	f.Bool("fullscreen", false, "start in fullscreen")
	f.String("log-level", "", "log level: debug, info, warn or error")
	f.String("log-format", "", "console log format: auto, text or json")
	f.String("log-file", "", "also write JSON logs to this rotating file")

	return cmd
}

// applyOverrides copies the flags the user set onto cfg. Flags left at
// their defaults do not override the config file.
func applyOverrides(f *pflag.FlagSet, cfg *Config) error {
	var err error
	f.Visit(func(fl *pflag.Flag) {
		if err != nil {
			return
		}
		switch fl.Name {
		case "radius":
			var r int
			if r, err = f.GetInt("radius"); err != nil {
				return
			}
			if r < 0 {
				err = fmt.Errorf("--radius must not be negative, got %d", r)
				return
			}
			cfg.WindowRadius = r
		case "single-tap-dismiss":
			cfg.SingleTapDismiss, err = f.GetBool("single-tap-dismiss")
		case "sort":
			name, _ := f.GetString("sort")
			method, ok := parseSortMethod(name)
			if !ok {
				err = fmt.Errorf("unknown sort method %q", name)
				return
			}
			cfg.SortMethod = method
		case "fullscreen":
			cfg.Fullscreen, err = f.GetBool("fullscreen")
		case "log-level":
			cfg.Logging.Level, err = f.GetString("log-level")
		case "log-format":
			cfg.Logging.Format, err = f.GetString("log-format")
		case "log-file":
			cfg.Logging.File, err = f.GetString("log-file")
		}
	})
	return err
}

// startPage converts the 1-based --start flag to a page index
func startPage(f *pflag.FlagSet, count int) (int, error) {
	if !f.Changed("start") {
		return noPage, nil
	}
	start, err := f.GetInt("start")
	if err != nil {
		return noPage, err
	}
	if start < 1 || start > count {
		return noPage, newGalleryError(KindOutOfRange, "start", "page %d outside 1..%d", start, count)
	}
	return start - 1, nil
}

func run(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = getConfigPath()
	}
	status := loadConfigFromPath(path)
	if err := applyOverrides(cmd.Flags(), &status.Config); err != nil {
		return err
	}
	cfg := status.Config

	initLogging(LogOptions{Level: cfg.Logging.Level, Format: cfg.Logging.Format, File: cfg.Logging.File})
	log := withComponent("main")
	log.Info("config loaded", "path", path, "status", status.Status, "warnings", len(status.Warnings))

	if err := InitGraphics(); err != nil {
		return fmt.Errorf("initializing fonts: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
	defer cancel()
	source, err := collectSources(ctx, args, cfg.SortMethod)
	if err != nil {
		return err
	}
	log.Info("sources collected", "kind", source.Kind(), "items", source.ItemCount(),
		"sort", getSortMethodName(cfg.SortMethod))

	page, err := startPage(cmd.Flags(), source.ItemCount())
	if err != nil {
		return err
	}

	var remote *RemoteFetcher
	if source.Kind() == SourceRemote {
		ro := cfg.RemoteOptions()
		remote = NewRemoteFetcher(&http.Client{Timeout: ro.Timeout}, ro)
	}
	loader := NewImageLoader(cfg.CacheSize, remote)

	return RunGame(status, source, loader, GameOptions{
		StartPage:        page,
		SingleTapDismiss: cfg.SingleTapDismiss,
		ConfigPath:       path,
	})
}
