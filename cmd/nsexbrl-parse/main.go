// Command nsexbrl-parse prints the facts of one XBRL filing as JSON.
//
//	nsexbrl-parse -archive /opt/taxonomies filing.xml
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/kailas-cloud/nsexbrl/internal/version"
	nsexbrl "github.com/kailas-cloud/nsexbrl/pkg/sdk"
)

// Exit codes.
const (
	exitOK = iota
	exitFailure
	exitUsage
	exitInputNotFound
	exitSchemaUnresolvable
)

type output struct {
	SchemaRef  string         `json:"schema_ref"`
	SchemaPath string         `json:"schema_path"`
	FactCount  int            `json:"fact_count"`
	Cached     bool           `json:"cached"`
	Facts      map[string]any `json:"facts"`
	Items      []outputItem   `json:"items,omitempty"`
}

type outputItem struct {
	Label string `json:"label"`
	QName string `json:"qname"`
	Value any    `json:"value"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("nsexbrl-parse", flag.ContinueOnError)
	fs.SetOutput(stderr)
	archive := fs.String("archive", os.Getenv("NSEXBRL_ARCHIVE_ROOT"), "taxonomy archive root (env NSEXBRL_ARCHIVE_ROOT)")
	tempDir := fs.String("temp-dir", "", "staging directory (default: system temp dir)")
	items := fs.Bool("items", false, "include the ordered fact list")
	pretty := fs.Bool("pretty", false, "indent JSON output")
	verbose := fs.Bool("v", false, "log pipeline details to stderr")
	showVersion := fs.Bool("version", false, "print version and exit")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: nsexbrl-parse -archive DIR [flags] FILE\n\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if *showVersion {
		fmt.Fprintf(stdout, "nsexbrl-parse %s\n", version.String())
		return exitOK
	}
	if fs.NArg() != 1 || *archive == "" {
		fs.Usage()
		return exitUsage
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []nsexbrl.Option{nsexbrl.WithArchive(*archive), nsexbrl.WithTempDir(*tempDir)}
	if *verbose {
		opts = append(opts, nsexbrl.WithLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))))
	}

	client, err := nsexbrl.New(ctx, opts...)
	if err != nil {
		fmt.Fprintf(stderr, "nsexbrl-parse: %v\n", err)
		return exitFailure
	}
	defer client.Close()

	res, err := client.ParseFile(ctx, fs.Arg(0))
	if err != nil {
		fmt.Fprintf(stderr, "nsexbrl-parse: %v\n", err)
		return exitCode(err)
	}

	out := output{
		SchemaRef:  res.SchemaRef,
		SchemaPath: res.SchemaPath,
		FactCount:  len(res.Ordered),
		Cached:     res.Cached,
		Facts:      res.Facts,
	}
	if *items {
		out.Items = make([]outputItem, len(res.Ordered))
		for i, f := range res.Ordered {
			out.Items[i] = outputItem{Label: f.Label, QName: f.QName, Value: f.Value}
		}
	}

	enc := json.NewEncoder(stdout)
	if *pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(out); err != nil {
		fmt.Fprintf(stderr, "nsexbrl-parse: write output: %v\n", err)
		return exitFailure
	}
	return exitOK
}

func exitCode(err error) int {
	switch nsexbrl.KindOf(err) {
	case nsexbrl.KindInputNotFound:
		return exitInputNotFound
	case nsexbrl.KindSchemaUnresolvable:
		return exitSchemaUnresolvable
	default:
		return exitFailure
	}
}
