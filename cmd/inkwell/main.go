// Package main is the entry point for the inkwell authoring tool.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/dshills/inkwell/internal/config"
	"github.com/dshills/inkwell/internal/engine/document"
	"github.com/dshills/inkwell/internal/engine/session"
	"github.com/dshills/inkwell/internal/engine/textstat"
	"github.com/dshills/inkwell/internal/library"
	"github.com/dshills/inkwell/internal/render"
	"github.com/dshills/inkwell/internal/store"
	"github.com/dshills/inkwell/internal/template"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath  string
		storageDir  string
		logLevel    string
		showVersion bool
	)

	flag.StringVar(&configPath, "config", "", "Path to configuration file")
	flag.StringVar(&configPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&storageDir, "storage", "", "Storage directory (overrides config)")
	flag.StringVar(&logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Inkwell - book and document authoring\n\n")
		fmt.Fprintf(os.Stderr, "Usage: inkwell [options] <command> [args]\n\n")
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  new <title> [author]    Create and shelve a document\n")
		fmt.Fprintf(os.Stderr, "  list                    List shelved documents\n")
		fmt.Fprintf(os.Stderr, "  stats <title>           Show text statistics for a document\n")
		fmt.Fprintf(os.Stderr, "  render <title>          Render a document to HTML on stdout\n")
		fmt.Fprintf(os.Stderr, "  css                     Print the rendering stylesheet\n")
		fmt.Fprintf(os.Stderr, "  templates               List registered templates\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("inkwell %s (%s)\n", version, commit)
		return 0
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if storageDir != "" {
		cfg.StorageDir = storageDir
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	log := newLogger(cfg.LogLevel)

	st, err := store.NewDirStore(cfg.StorageDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: storage: %v\n", err)
		return 1
	}

	templateStore := store.Store(st)
	if cfg.TemplatesDir != "" {
		ts, err := store.NewDirStore(cfg.TemplatesDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: template storage: %v\n", err)
			return 1
		}
		templateStore = ts
	}

	registry := template.NewRegistry(templateStore, template.WithLogger(log))
	if err := registry.LoadAll(); err != nil {
		log.Warn().Err(err).Msg("template load failed")
	}

	shelf := library.New(st, library.WithLogger(log))

	sess := session.New(st,
		session.WithHistoryLimit(cfg.HistoryLimit),
		session.WithAutosaveInterval(cfg.AutosaveInterval.Std()),
		session.WithLogger(log),
	)
	defer sess.Close()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		return 1
	}

	switch args[0] {
	case "new":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "Error: new requires a title")
			return 1
		}
		author := ""
		if len(args) > 2 {
			author = args[2]
		}
		doc := sess.NewDocument(args[1], author)
		if !sess.SaveDocument("") {
			fmt.Fprintln(os.Stderr, "Error: could not shelve document")
			return 1
		}
		fmt.Printf("created %q (%s)\n", doc.Title(), doc.ID())
		return 0

	case "list":
		for _, info := range shelf.List() {
			fmt.Printf("%-30s %s\n", info.Title, info.UpdatedAt.Format("2006-01-02 15:04"))
		}
		return 0

	case "stats":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "Error: stats requires a title")
			return 1
		}
		doc := shelf.Load(args[1])
		if doc == nil {
			fmt.Fprintf(os.Stderr, "Error: no document %q\n", args[1])
			return 1
		}
		printStats(textstat.Analyze(doc.Content()))
		return 0

	case "render":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "Error: render requires a title")
			return 1
		}
		doc := shelf.Load(args[1])
		if doc == nil {
			fmt.Fprintf(os.Stderr, "Error: no document %q\n", args[1])
			return 1
		}
		html, err := renderDocument(doc, registry)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Println(html)
		return 0

	case "css":
		fmt.Println(render.StylesheetCSS())
		return 0

	case "templates":
		for _, cat := range registry.Categories() {
			fmt.Printf("%s:\n", cat)
			for _, name := range registry.List(cat) {
				fmt.Printf("  %s\n", name)
			}
		}
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n", args[0])
		flag.Usage()
		return 1
	}
}

// renderDocument converts a document to HTML, applying the template
// named in its metadata when one is registered.
func renderDocument(doc *document.Document, registry *template.Registry) (string, error) {
	html, err := render.HTML(doc)
	if err != nil {
		return "", err
	}

	if name, ok := doc.MetadataValue("template"); ok {
		if s, ok := name.(string); ok {
			if tpl := registry.Get(s); tpl != nil {
				html = render.ApplyTemplate(html, tpl)
			}
		}
	}
	return html, nil
}

func printStats(st textstat.Stats) {
	fmt.Printf("words:          %d\n", st.Words)
	fmt.Printf("characters:     %d\n", st.Chars)
	fmt.Printf("lines:          %d\n", st.Lines)
	fmt.Printf("paragraphs:     %d\n", st.Paragraphs)
	fmt.Printf("sentences:      %d\n", st.Sentences)
	fmt.Printf("avg word len:   %d\n", st.AvgWordLen)
	fmt.Printf("avg sent len:   %d\n", st.AvgSentenceLen)
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	return zerolog.New(writer).Level(lvl).With().Timestamp().Logger()
}
