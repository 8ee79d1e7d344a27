package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/gubarz/mdpath"
	"github.com/gubarz/mdpath/internal/codec"
	"github.com/gubarz/mdpath/internal/config"
	"github.com/gubarz/mdpath/internal/executor"
	"github.com/gubarz/mdpath/internal/logging"
	"github.com/gubarz/mdpath/internal/logging/gologger"
	"github.com/gubarz/mdpath/internal/parser"
	"github.com/gubarz/mdpath/internal/pathtrack"
	"github.com/gubarz/mdpath/internal/ui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "mdpath [path]",
	Short: "Encode markdown heading hierarchies",
	Long: `Scans markdown files for headings and prints one encoded path per heading:
the chain of heading levels from the document root down to that heading.

Documents longer than --threshold lines are split into chunks that are
processed in parallel, each chunk starting from an empty heading stack.`,
	Args:          cobra.MaximumNArgs(1),
	RunE:          runEncode,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var outlineCmd = &cobra.Command{
	Use:   "outline [path]",
	Short: "Print a heading tree with paths",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runOutline,
}

var decodeCmd = &cobra.Command{
	Use:   "decode <hex>...",
	Short: "Decode hex-encoded paths",
	Long: `Decodes entries printed by "mdpath -o hex" back into heading paths.

Example:
  mdpath decode 01 0102 010203`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDecode,
}

var browseCmd = &cobra.Command{
	Use:   "browse [path]",
	Short: "Browse headings and their paths interactively",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runBrowse,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(outlineCmd)
	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(browseCmd)

	rootCmd.PersistentFlags().StringP("output", "o", "", "Output mode: text, hex, json")
	rootCmd.PersistentFlags().Uint32P("threshold", "t", 0, "Line count above which documents are chunked (default from config)")
	rootCmd.PersistentFlags().IntP("workers", "w", 0, "Parallel workers (default from config)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: trace, debug, info, warn, error, fatal")
	rootCmd.Flags().BoolP("benchmark", "b", false, "Benchmark generation time and exit")

	outlineCmd.Flags().Bool("strict", false, "Use CommonMark heading detection (skips code fences)")
	browseCmd.Flags().StringP("query", "q", "", "Initial filter query")
	browseCmd.Flags().StringP("action", "a", "", "What to do with the selection: print, copy, open")

	viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	viper.BindPFlag("workers", rootCmd.PersistentFlags().Lookup("workers"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("strict", outlineCmd.Flags().Lookup("strict"))
	viper.BindPFlag("browse_action", browseCmd.Flags().Lookup("action"))
}

func initConfig() {
	if err := config.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
	}
}

// ============================================================================
// Shared setup
// ============================================================================

// setup validates config and builds the logger and generator for a command
func setup(cmd *cobra.Command) (*mdpath.Generator, logging.Logger, error) {
	// Unset flags must not override config values with their zero defaults
	if cmd.Flags().Changed("threshold") {
		t, _ := cmd.Flags().GetUint32("threshold")
		config.SetThreshold(t)
	}
	if err := config.Validate(); err != nil {
		return nil, nil, err
	}

	provider, err := gologger.NewProvider(gologger.Config{
		Level:  config.GetLogLevel(),
		Format: config.GetLogFormat(),
	})
	if err != nil {
		return nil, nil, err
	}
	logger := provider.GetLogger("mdpath")

	g := mdpath.New(config.GetThreshold(),
		mdpath.WithWorkers(config.GetWorkers()),
		mdpath.WithLogger(logger),
	)
	return g, logger, nil
}

// loadDocuments resolves the path argument (or configured path) and loads markdown files
func loadDocuments(args []string, logger logging.Logger) (*parser.DocumentSet, error) {
	path := "."
	if len(args) > 0 {
		path = args[0]
	} else if config.GetPath() != "." {
		path = config.GetPath()
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("error resolving path: %w", err)
	}

	set, err := parser.NewParser().ParsePath(absPath)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "load markdown").
			WithTextCode("LOAD_FAILED")
	}
	if set.Len() == 0 {
		return nil, fmt.Errorf("no markdown files found in %s", absPath)
	}
	logger.Info("documents loaded", "path", absPath, "files", set.Len())
	return set, nil
}

// displayName shortens file paths relative to the working directory
func displayName(file string) string {
	if wd, err := os.Getwd(); err == nil {
		if rel, err := filepath.Rel(wd, file); err == nil {
			return rel
		}
	}
	return file
}

// ============================================================================
// encode (root)
// ============================================================================

type jsonEntry struct {
	Hex  string     `json:"hex"`
	Path codec.Path `json:"path"`
}

type jsonDocument struct {
	File    string      `json:"file"`
	Mode    string      `json:"mode"`
	Entries []jsonEntry `json:"entries"`
}

func runEncode(cmd *cobra.Command, args []string) error {
	g, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer g.Close()

	set, err := loadDocuments(args, logger)
	if err != nil {
		return err
	}

	if benchmark, _ := cmd.Flags().GetBool("benchmark"); benchmark {
		return runBenchmark(cmd.OutOrStdout(), g, set)
	}

	out := cmd.OutOrStdout()
	var docs []jsonDocument
	for _, doc := range set.Documents {
		collection, stats, err := g.GenerateWithStats(doc.Text)
		if err != nil {
			return err
		}
		name := displayName(doc.File)

		switch config.GetOutput() {
		case "json":
			jd := jsonDocument{File: name, Mode: stats.Mode, Entries: make([]jsonEntry, 0, collection.Len())}
			for _, e := range collection.All() {
				p, err := e.Path()
				if err != nil {
					collection.Release()
					return err
				}
				jd.Entries = append(jd.Entries, jsonEntry{Hex: e.Hex(), Path: p})
			}
			docs = append(docs, jd)
		case "hex":
			for _, e := range collection.All() {
				fmt.Fprintln(out, e.Hex())
			}
		default:
			fmt.Fprintf(out, "%s (%s, %d lines, %d chunks)\n", name, stats.Mode, stats.Lines, stats.Chunks)
			for i, e := range collection.All() {
				p, err := e.Path()
				if err != nil {
					collection.Release()
					return err
				}
				fmt.Fprintf(out, "  %4d  %-12s  %s\n", i, e.Hex(), p)
			}
		}

		if err := collection.Release(); err != nil {
			return err
		}
	}

	if config.GetOutput() == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(docs)
	}
	return nil
}

func runBenchmark(out io.Writer, g *mdpath.Generator, set *parser.DocumentSet) error {
	start := time.Now()
	entries := 0
	lines := 0
	for _, doc := range set.Documents {
		collection, stats, err := g.GenerateWithStats(doc.Text)
		if err != nil {
			return err
		}
		entries += collection.Len()
		lines += stats.Lines
		collection.Release()
	}
	elapsed := time.Since(start)

	runtime.GC()
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	fmt.Fprintf(out, "Encoded %d headings from %d lines in %d files in %v (threshold %d, workers %d)\n",
		entries, lines, set.Len(), elapsed, g.Threshold(), g.Workers())
	fmt.Fprintf(out, "Memory: Alloc=%dMB, TotalAlloc=%dMB, Sys=%dMB, HeapObjects=%d\n",
		m.Alloc/1024/1024, m.TotalAlloc/1024/1024, m.Sys/1024/1024, m.HeapObjects)
	return nil
}

// ============================================================================
// outline
// ============================================================================

// buildOutlines runs every document through the generator, or through the
// CommonMark scanner and a single sequential tracker when strict is set
func buildOutlines(g *mdpath.Generator, set *parser.DocumentSet, strict bool) ([]ui.OutlineDoc, error) {
	docs := make([]ui.OutlineDoc, 0, set.Len())
	for _, doc := range set.Documents {
		var items []mdpath.OutlineItem
		if strict {
			for _, ev := range pathtrack.TrackHeadings(parser.CommonMarkHeadings([]byte(doc.Text))) {
				items = append(items, mdpath.OutlineItem{Heading: ev.Heading, Path: ev.Path})
			}
		} else {
			var err error
			items, err = g.Outline(doc.Text)
			if err != nil {
				return nil, err
			}
		}
		docs = append(docs, ui.OutlineDoc{File: displayName(doc.File), Items: items})
	}
	return docs, nil
}

func runOutline(cmd *cobra.Command, args []string) error {
	g, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer g.Close()

	set, err := loadDocuments(args, logger)
	if err != nil {
		return err
	}

	docs, err := buildOutlines(g, set, config.GetStrict())
	if err != nil {
		return err
	}

	if config.GetOutput() == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(docs)
	}

	ui.RefreshStyles()
	return ui.RenderOutline(cmd.OutOrStdout(), docs)
}

// ============================================================================
// decode
// ============================================================================

func runDecode(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	for _, arg := range args {
		p, err := codec.ParseHex(arg)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s\t%s\n", arg, p)
	}
	return nil
}

// ============================================================================
// browse
// ============================================================================

func runBrowse(cmd *cobra.Command, args []string) error {
	g, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer g.Close()

	set, err := loadDocuments(args, logger)
	if err != nil {
		return err
	}

	docs, err := buildOutlines(g, set, config.GetStrict())
	if err != nil {
		return err
	}

	query, _ := cmd.Flags().GetString("query")
	selection, err := ui.RunBrowser(docs, query)
	if err != nil {
		return err
	}
	if selection == nil {
		return nil
	}
	return executor.NewExecutor(cmd.OutOrStdout()).Act(executor.Target{
		File:    selection.File,
		Heading: selection.Item.Heading,
		Path:    selection.Item.Path,
	})
}

func main() {
	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
