package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
	"golang.org/x/term"

	"github.com/ernie/spine-atlas/internal/assets"
	"github.com/ernie/spine-atlas/internal/atlas"
	"github.com/ernie/spine-atlas/internal/catalog"
	"github.com/ernie/spine-atlas/internal/config"
)

const usage = `usage: atlas-tools <command> [flags] <args>

commands:
  info <atlas>...       list pages and regions
  unpack <atlas>...     extract regions as PNG images
  manifest <atlas>      write the atlas as JSON
  index <atlas>...      add atlases to the region catalog
  find <name>...        look up regions in the catalog

An <atlas> is a descriptor (optionally zstd-compressed) or a zip archive
holding descriptors and their page images.

flags:
`

type options struct {
	cfg      config.Config
	output   string
	verbose  bool
	showHelp bool
}

// loaded is one parsed atlas and where it came from.
type loaded struct {
	source string
	atlas  *atlas.Atlas
}

func parseFlags(args []string) (string, []string, *options, error) {
	fs := pflag.NewFlagSet("atlas-tools", pflag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		fs.PrintDefaults()
	}

	opts := &options{}
	configPath := fs.StringP("config", "c", "", "YAML configuration file")
	imagesDir := fs.String("images", "", "page image directory (default: next to the descriptor)")
	outputDir := fs.String("out", "", "unpack output directory")
	archive := fs.String("archive", "", "unpack into this zip archive")
	catalogPath := fs.String("catalog", "", "region catalog database")
	flipV := fs.Bool("flipv", false, "mirror v coordinates after loading")
	strict := fs.Bool("strict", false, "reject descriptors that end mid-record")
	fs.StringVarP(&opts.output, "output", "o", "", "manifest output file (default: stdout)")
	fs.BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")
	fs.BoolVarP(&opts.showHelp, "help", "h", false, "show help")

	if err := fs.Parse(args); err != nil {
		return "", nil, nil, err
	}
	if opts.showHelp || fs.NArg() == 0 {
		fs.Usage()
		return "", nil, opts, nil
	}

	opts.cfg = config.Default()
	if *configPath != "" {
		cfg, err := config.Load(*configPath)
		if err != nil {
			return "", nil, nil, err
		}
		opts.cfg = cfg
	}
	if fs.Changed("images") {
		opts.cfg.ImagesDir = *imagesDir
	}
	if fs.Changed("out") {
		opts.cfg.OutputDir = *outputDir
	}
	if fs.Changed("archive") {
		opts.cfg.Archive = *archive
	}
	if fs.Changed("catalog") {
		opts.cfg.Catalog = *catalogPath
	}
	if fs.Changed("flipv") {
		opts.cfg.FlipV = *flipV
	}
	if fs.Changed("strict") {
		opts.cfg.Strict = *strict
	}
	return fs.Arg(0), fs.Args()[1:], opts, nil
}

// loadAtlases parses every descriptor named by paths. Zip archives
// contribute all of their descriptors.
func loadAtlases(paths []string, cfg config.Config) ([]loaded, func(), error) {
	var parseOpts []atlas.Option
	if cfg.Strict {
		parseOpts = append(parseOpts, atlas.WithStrictEOF())
	}

	var result []loaded
	var archives []*assets.ArchiveLoader
	release := func() {
		for _, l := range result {
			if err := l.atlas.Dispose(); err != nil {
				log.Warnf("dispose %s: %v", l.source, err)
			}
		}
		for _, a := range archives {
			a.Close()
		}
	}

	for _, path := range paths {
		if strings.EqualFold(filepath.Ext(path), ".zip") {
			archive, err := assets.OpenArchive(path)
			if err != nil {
				release()
				return nil, nil, err
			}
			archives = append(archives, archive)
			names := archive.Descriptors()
			if len(names) == 0 {
				log.Warnf("%s: no atlas descriptors", path)
			}
			for _, name := range names {
				a, err := archive.LoadAtlas(name, parseOpts...)
				if err != nil {
					release()
					return nil, nil, err
				}
				result = append(result, loaded{source: path + ":" + name, atlas: a})
			}
			continue
		}

		a, err := assets.LoadFile(path, cfg.ImagesDir, assets.NewFileLoader(), parseOpts...)
		if err != nil {
			release()
			return nil, nil, err
		}
		result = append(result, loaded{source: path, atlas: a})
	}

	if cfg.FlipV {
		for _, l := range result {
			l.atlas.FlipV()
		}
	}
	for _, l := range result {
		log.Debugf("%s: %d pages, %d regions", l.source, len(l.atlas.Pages()), len(l.atlas.Regions()))
	}
	return result, release, nil
}

func runInfo(atlases []loaded) error {
	for _, l := range atlases {
		fmt.Printf("%s\n", l.source)
		for _, p := range l.atlas.Pages() {
			fmt.Printf("  page %s %dx%d %s filter=%s,%s wrap=%s,%s\n",
				p.Name, p.Width, p.Height, p.Format, p.MinFilter, p.MagFilter, p.UWrap, p.VWrap)
			for _, r := range l.atlas.Regions() {
				if r.Page != p {
					continue
				}
				extra := ""
				if r.Rotate {
					extra += " rotated"
				}
				if r.Splits != nil {
					extra += fmt.Sprintf(" split=%v", r.Splits)
				}
				if r.Pads != nil {
					extra += fmt.Sprintf(" pad=%v", r.Pads)
				}
				fmt.Printf("    %-24s %4d,%-4d %4dx%-4d index=%d%s\n",
					r.Name, r.X, r.Y, r.Width, r.Height, r.Index, extra)
			}
		}
	}
	return nil
}

func runUnpack(atlases []loaded, cfg config.Config) error {
	for i, l := range atlases {
		opts := assets.UnpackOptions{OutputDir: cfg.OutputDir, Archive: cfg.Archive}
		if len(atlases) > 1 {
			// keep the output of several atlases apart
			base := strings.TrimSuffix(filepath.Base(l.source), filepath.Ext(l.source))
			if opts.Archive != "" {
				opts.Archive = strings.TrimSuffix(opts.Archive, ".zip") + fmt.Sprintf("-%d-%s.zip", i, base)
			} else {
				opts.OutputDir = filepath.Join(opts.OutputDir, base)
			}
		}
		result, err := assets.Unpack(l.atlas, opts)
		if err != nil {
			return fmt.Errorf("unpack %s: %w", l.source, err)
		}
		for _, name := range result.Skipped {
			log.Warnf("%s: skipped %s", l.source, name)
		}
	}
	return nil
}

func runManifest(atlases []loaded, output string) error {
	if len(atlases) != 1 {
		return fmt.Errorf("manifest needs exactly one atlas, got %d", len(atlases))
	}
	m := assets.BuildManifest(atlases[0].source, atlases[0].atlas)
	if output == "" {
		if err := m.Encode(os.Stdout); err != nil {
			return fmt.Errorf("write manifest: %w", err)
		}
	} else if err := m.Save(output); err != nil {
		return err
	}
	for _, name := range m.Unplaced {
		log.Warnf("%s: region %s has no page in the atlas", atlases[0].source, name)
	}
	log.Infof("manifest: %d pages, %d regions", len(m.Pages), m.RegionCount())
	return nil
}

func runIndex(ctx context.Context, atlases []loaded, cfg config.Config) error {
	c, err := catalog.Open(ctx, cfg.Catalog)
	if err != nil {
		return err
	}
	defer c.Close()

	for _, l := range atlases {
		n, err := c.Import(ctx, l.source, l.atlas)
		if err != nil {
			return fmt.Errorf("index %s: %w", l.source, err)
		}
		log.Infof("indexed %s: %d regions", l.source, n)
	}

	stats, err := c.Stats(ctx)
	if err != nil {
		return err
	}
	log.Infof("catalog %s holds %d atlases", cfg.Catalog, len(stats))
	return nil
}

func runFind(ctx context.Context, names []string, cfg config.Config) error {
	c, err := catalog.Open(ctx, cfg.Catalog)
	if err != nil {
		return err
	}
	defer c.Close()

	for _, name := range names {
		entries, err := c.Lookup(ctx, name)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Printf("%s: not found\n", name)
			continue
		}
		for _, e := range entries {
			fmt.Printf("%s: %s page %s #%d at %d,%d %dx%d uv=(%.4f,%.4f)-(%.4f,%.4f)\n",
				name, e.Source, e.Page, e.Index, e.X, e.Y, e.Width, e.Height, e.U, e.V, e.U2, e.V2)
		}
	}
	return nil
}

func _main() error {
	command, args, opts, err := parseFlags(os.Args[1:])
	if err != nil {
		return err
	}
	if command == "" {
		return nil
	}

	level, err := opts.cfg.Level()
	if err != nil {
		return err
	}
	if opts.verbose {
		level = log.DebugLevel
	}
	log.SetLevel(level)

	switch command {
	case "info", "unpack", "manifest", "index", "find":
	default:
		return fmt.Errorf("unknown command %q", command)
	}
	if len(args) == 0 {
		return fmt.Errorf("%s: missing arguments", command)
	}

	ctx := context.Background()
	if command == "find" {
		return runFind(ctx, args, opts.cfg)
	}

	atlases, release, err := loadAtlases(args, opts.cfg)
	if err != nil {
		return err
	}
	defer release()

	switch command {
	case "info":
		return runInfo(atlases)
	case "unpack":
		return runUnpack(atlases, opts.cfg)
	case "manifest":
		return runManifest(atlases, opts.output)
	default:
		return runIndex(ctx, atlases, opts.cfg)
	}
}

func main() {
	prefixed := &prefixed.TextFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
		ForceFormatting: true,
		ForceColors:     term.IsTerminal(int(os.Stderr.Fd())),
	}
	log.SetFormatter(prefixed)
	log.SetOutput(os.Stderr)
	err := _main()
	if errors.Is(err, pflag.ErrHelp) {
		os.Exit(2)
	}
	if err != nil {
		log.Fatal(err)
	}
}
