// efdget - Engineering Facilities Database query tool
//
// This is the command line entry point for querying EFD deployments.
// It connects to a named deployment, runs one of the supported query
// shapes, and writes the result as CSV to stdout:
//   - time-range field selection, with optional index filtering
//   - packed vector-field selection with unpacking
//   - most-recent-N selection
//   - topic and field discovery
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/lsst-sqre/efd-client-go/dataframe"
	"github.com/lsst-sqre/efd-client-go/efd"
	"github.com/lsst-sqre/efd-client-go/internal/config"
	"github.com/lsst-sqre/efd-client-go/internal/logging"
	"github.com/lsst-sqre/efd-client-go/timescale"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0"
var version = "dev"

type options struct {
	configPath string
	efdName    string
	topic      string
	fields     string
	start      string
	end        string
	window     bool
	index      int
	oldIndex   bool
	packed     bool
	top        int
	listTopics bool
	listFields bool
}

func main() {
	// Cancel on interrupt signals for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//   - args: Command line arguments, without the program name
//
// Returns:
//   - error: nil on success, or error describing failure
func run(ctx context.Context, args []string) error {
	var opts options
	fs := flag.NewFlagSet("efdget", flag.ContinueOnError)
	fs.StringVar(&opts.configPath, "config", "", "path to config file (optional)")
	fs.StringVar(&opts.efdName, "efd", "", "EFD deployment name (overrides config)")
	fs.StringVar(&opts.topic, "topic", "", "topic to query")
	fs.StringVar(&opts.fields, "fields", "", "comma-separated field names")
	fs.StringVar(&opts.start, "start", "", "range start, RFC 3339 UTC")
	fs.StringVar(&opts.end, "end", "", "range end, RFC 3339 UTC or a duration like 10m")
	fs.BoolVar(&opts.window, "window", false, "centre a duration end on the start time")
	fs.IntVar(&opts.index, "index", 0, "filter rows to this salIndex (0 for none)")
	fs.BoolVar(&opts.oldIndex, "old-csc-indexing", false, "use the legacy per-subsystem index column")
	fs.BoolVar(&opts.packed, "packed", false, "treat fields as packed base fields and unpack them")
	fs.IntVar(&opts.top, "top", 0, "return the N most recent rows instead of a range")
	fs.BoolVar(&opts.listTopics, "topics", false, "list topics and exit")
	fs.BoolVar(&opts.listFields, "list-fields", false, "list the topic's fields and exit")
	if err := fs.Parse(args); err != nil {
		return err
	}

	log := logging.Default()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log = logging.New(cfg.Logging, version)

	efdName := cfg.EFD.Deployment
	if opts.efdName != "" {
		efdName = opts.efdName
	}

	client, err := efd.Connect(ctx, efdName, efd.Config{
		Database:     cfg.EFD.Database,
		CredsService: cfg.Creds.Service,
		CredsFile:    cfg.Creds.File,
		CredsEnvVar:  cfg.Creds.EnvVar,
		Timeout:      cfg.GetQueryTimeout(),
		Logger:       log.Logger,
	})
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", efdName, err)
	}
	defer func() {
		if closeErr := client.Close(); closeErr != nil {
			log.Error("error closing client", "error", closeErr)
		}
	}()

	switch {
	case opts.listTopics:
		topics, err := client.GetTopics(ctx)
		if err != nil {
			return err
		}
		return writeList(topics)
	case opts.listFields:
		if opts.topic == "" {
			return fmt.Errorf("-list-fields requires -topic")
		}
		fields, err := client.GetFields(ctx, opts.topic)
		if err != nil {
			return err
		}
		return writeList(fields)
	default:
		return runQuery(ctx, client, opts)
	}
}

func runQuery(ctx context.Context, client *efd.Client, opts options) error {
	if opts.topic == "" || opts.fields == "" {
		return fmt.Errorf("-topic and -fields are required")
	}
	fields := strings.Split(opts.fields, ",")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	qopts := efd.QueryOptions{
		IsWindow:          opts.window,
		Index:             opts.index,
		UseOldCSCIndexing: opts.oldIndex,
	}

	if opts.top > 0 {
		var cut timescale.Time
		if opts.end != "" {
			var err error
			cut, err = parseTime(opts.end)
			if err != nil {
				return err
			}
		}
		df, err := client.SelectTopN(ctx, opts.topic, fields, opts.top, cut, qopts)
		if err != nil {
			return err
		}
		return writeCSV(df)
	}

	start, err := parseTime(opts.start)
	if err != nil {
		return fmt.Errorf("-start: %w", err)
	}
	end, err := parseEnd(opts.end)
	if err != nil {
		return fmt.Errorf("-end: %w", err)
	}

	var df *dataframe.DataFrame
	if opts.packed {
		df, err = client.SelectPackedTimeSeries(ctx, opts.topic, fields, start, end,
			qopts, efd.PackedOptions{})
	} else {
		df, err = client.SelectTimeSeries(ctx, opts.topic, fields, start, end, qopts)
	}
	if err != nil {
		return err
	}
	return writeCSV(df)
}

// parseTime reads an RFC 3339 timestamp as UTC.
func parseTime(value string) (timescale.Time, error) {
	if value == "" {
		return timescale.Time{}, fmt.Errorf("timestamp is required")
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return timescale.Time{}, fmt.Errorf("parsing %q: %w", value, err)
	}
	return timescale.New(t.UTC(), timescale.UTC), nil
}

// parseEnd reads the range end as either a duration or a timestamp.
func parseEnd(value string) (any, error) {
	if value == "" {
		return nil, fmt.Errorf("end is required")
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d, nil
	}
	return parseTime(value)
}

// writeCSV renders a frame to stdout with the index as the first column.
func writeCSV(df *dataframe.DataFrame) error {
	w := csv.NewWriter(os.Stdout)
	names := df.ColumnNames()
	header := append([]string{"time"}, names...)
	if err := w.Write(header); err != nil {
		return err
	}

	index := df.Index()
	row := make([]string, len(header))
	for r := 0; r < df.Len(); r++ {
		row[0] = index[r].Format(time.RFC3339Nano)
		for i, name := range names {
			row[i+1] = formatValue(df.At(r, name))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

func writeList(values []string) error {
	for _, v := range values {
		if _, err := fmt.Println(v); err != nil {
			return err
		}
	}
	return nil
}
