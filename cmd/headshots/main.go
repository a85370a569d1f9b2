// Command headshots drives the headshot API from a terminal: it uploads a
// folder of photos, generates headshots across the selected styles and writes
// them to disk grouped by style.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
	"stature-backend/internal/catalog"
	"stature-backend/internal/client"
	"stature-backend/internal/generation"
	"stature-backend/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.App{
		Name:  "headshots",
		Usage: "generate AI headshots from a folder of photos",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "base-url",
				Usage:   "API base URL",
				Value:   "http://localhost:8080",
				EnvVars: []string{"HEADSHOTS_BASE_URL"},
			},
			&cli.StringFlag{
				Name:    "token",
				Usage:   "Supabase access token",
				EnvVars: []string{"HEADSHOTS_TOKEN"},
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "log debug output",
			},
		},
		Commands: []*cli.Command{
			stylesCommand(),
			generateCommand(),
		},
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, client.FriendlyMessage(err))
		os.Exit(1)
	}
}

func newClient(c *cli.Context) *client.Client {
	return client.New(c.String("base-url"), c.String("token"))
}

func newLogger(c *cli.Context) zerolog.Logger {
	if c.Bool("verbose") {
		return logger.New("development")
	}
	return logger.Nop()
}

func stylesCommand() *cli.Command {
	return &cli.Command{
		Name:  "styles",
		Usage: "list the available headshot styles",
		Action: func(c *cli.Context) error {
			styles, err := newClient(c).Styles(c.Context)
			if err != nil {
				return err
			}
			for _, s := range styles {
				fmt.Printf("%-10s %s\n", s.ID, s.Description)
			}
			return nil
		},
	}
}

func generateCommand() *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "generate headshots from the photos in a directory",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dir", Usage: "directory with 5 to 10 PNG or JPEG photos", Required: true},
			&cli.StringSliceFlag{Name: "style", Aliases: []string{"s"}, Usage: "style id or name, repeatable"},
			&cli.IntFlag{Name: "count", Aliases: []string{"n"}, Usage: "total headshots across all styles (default: plan default)"},
			&cli.StringFlag{Name: "plan", Usage: "STARTER or PRO", Value: catalog.PackageStarter},
			&cli.StringFlag{Name: "profession", Usage: "used to tailor settings and to suggest a style"},
			&cli.BoolFlag{Name: "remove-piercings", Usage: "remove facial piercings"},
			&cli.IntFlag{Name: "retries", Usage: "times to retry the whole run after a failure", Value: 0},
			&cli.StringFlag{Name: "out", Usage: "output directory", Value: "headshots"},
		},
		Action: runGenerate,
	}
}

func runGenerate(c *cli.Context) error {
	ctx := c.Context
	api := newClient(c)
	log := newLogger(c)

	collector := generation.NewCollector()
	files, err := loadPhotos(c.String("dir"))
	if err != nil {
		return err
	}
	if _, err := collector.Add(files...); err != nil {
		return err
	}
	if !collector.Ready() {
		return fmt.Errorf("found %d usable photos in %s, at least %d are needed", len(collector.Files()), c.String("dir"), generation.MinReadyUploads)
	}

	plan := catalog.PlanFor(c.String("plan"))
	selection := generation.NewSelection(plan)
	profession := strings.TrimSpace(c.String("profession"))

	for _, key := range c.StringSlice("style") {
		style, ok := catalog.Lookup(key)
		if !ok {
			return fmt.Errorf("unknown style %q, run 'headshots styles' for the list", key)
		}
		if !selection.Toggle(style) {
			fmt.Fprintf(os.Stderr, "skipping %s: %s\n", style.Name, plan)
		}
	}
	if len(selection.Styles()) == 0 {
		style, err := pickStyle(ctx, api, profession)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Using the %s style\n", style.Name)
		selection.Toggle(style)
	}
	if c.IsSet("count") {
		selection.SetCount(c.Int("count"))
	}

	orchestrator := generation.NewOrchestrator(api.Generator(profession), func(msg string) {
		fmt.Fprintln(os.Stderr, msg)
	}, log)

	gallery, err := orchestrator.Run(ctx, generation.Run{
		Images:          collector.Files(),
		Styles:          selection.Styles(),
		Total:           selection.Count(),
		RemovePiercings: c.Bool("remove-piercings"),
	})
	for attempt := 1; err != nil && attempt <= c.Int("retries") && ctx.Err() == nil; attempt++ {
		fmt.Fprintf(os.Stderr, "%s\nRetrying (%d/%d)...\n", client.FriendlyMessage(err), attempt, c.Int("retries"))
		gallery, err = orchestrator.Retry(ctx)
	}
	if err != nil {
		return err
	}

	written, err := writeGallery(c.String("out"), gallery)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Wrote %d headshots to %s\n", written, c.String("out"))
	return nil
}

// pickStyle asks the API for a suggestion when a profession is known and
// falls back to the default style otherwise.
func pickStyle(ctx context.Context, api *client.Client, profession string) (catalog.HeadshotStyle, error) {
	if profession != "" {
		style, err := api.SuggestStyle(ctx, profession)
		if err == nil {
			if known, ok := catalog.Lookup(style.ID); ok {
				return known, nil
			}
		}
	}
	style, ok := catalog.Lookup(catalog.DefaultStyleID)
	if !ok {
		return catalog.HeadshotStyle{}, fmt.Errorf("default style %q missing from catalog", catalog.DefaultStyleID)
	}
	return style, nil
}

// loadPhotos reads the images in dir in name order. Files that are not PNG or
// JPEG are skipped.
func loadPhotos(dir string) ([]generation.UploadFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var files []generation.UploadFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", e.Name(), err)
		}
		mimeType := generation.DetectMimeType("", data)
		if !generation.IsAllowedImageType(mimeType) {
			continue
		}
		files = append(files, generation.UploadFile{Filename: e.Name(), MimeType: mimeType, Data: data})
	}
	return files, nil
}

func writeGallery(out string, gallery generation.Gallery) (int, error) {
	written := 0
	for _, group := range gallery.Groups() {
		dir := filepath.Join(out, generation.Slug(group.StyleName, "general"))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return written, fmt.Errorf("failed to create %s: %w", dir, err)
		}
		for _, img := range group.Images {
			contentType, data, err := generation.DecodeDataURL(img.Src)
			if err != nil {
				return written, fmt.Errorf("image %s: %w", img.ID, err)
			}
			name := generation.Slug(img.ID, "image") + generation.ExtensionFor(contentType)
			if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
				return written, fmt.Errorf("failed to write %s: %w", name, err)
			}
			written++
		}
	}
	return written, nil
}
