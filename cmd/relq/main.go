// Command relq fetches path expressions through a relational mapper and
// prints the hydrated entity graphs.
//
//	relq -driver sqlite -dsn file:blog.db 'comment.post(author)[5]'
//	relq -config relq.yaml -format json 'post.category'
package main

import (
	"context"
	stdsql "database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/syssam/relational"
	"github.com/syssam/relational/dialect/sql"
	"github.com/syssam/relational/dialect/sql/schema"
	"github.com/syssam/relational/style"
)

// Output formats.
const (
	formatDump = "dump"
	formatJSON = "json"
)

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		configPath = fs.String("config", "", "path to a YAML config file")
		driver     = fs.String("driver", "", "database/sql driver name (overrides config)")
		dsn        = fs.String("dsn", "", "data source name (overrides config)")
		styleName  = fs.String("style", "", "naming style: "+strings.Join(style.Names(), ", "))
		format     = fs.String("format", formatDump, "output format: dump or json")
		orderBy    = fs.String("order", "", "comma separated ORDER BY terms")
		limit      = fs.Int("limit", 0, "maximum number of fetched rows")
		debug      = fs.Bool("debug", false, "log every statement")
	)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: %s [flags] path...\n", fs.Name())
		fs.PrintDefaults()
	}
	if err := fs.Parse(args[1:]); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}
	cfg := &Config{}
	if *configPath != "" {
		var err error
		if cfg, err = LoadConfig(*configPath); err != nil {
			fmt.Fprintln(stderr, err)
			return 2
		}
	}
	if *driver != "" {
		cfg.Driver = *driver
	}
	if *dsn != "" {
		cfg.DSN = *dsn
	}
	if *styleName != "" {
		cfg.Style = *styleName
	}
	cfg.Debug = cfg.Debug || *debug
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "relq: invalid config: %v\n", err)
		return 2
	}
	if *format != formatDump && *format != formatJSON {
		fmt.Fprintf(stderr, "relq: unknown format %q\n", *format)
		return 2
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	m, stats, err := open(cfg, logger)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer m.Close()

	var extra []relational.Extra
	if *orderBy != "" {
		extra = append(extra, relational.OrderBy(strings.Split(*orderBy, ",")...))
	}
	if *limit > 0 {
		extra = append(extra, relational.Limit(*limit))
	}
	ctx := context.Background()
	for _, expr := range fs.Args() {
		if err := query(ctx, m, expr, extra, *format, stdout); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
	}
	logger.Debug("statistics", "stats", stats.QueryStats().Stats().String())
	return 0
}

// open returns a mapper over the configured database. Statements run
// through a StatsDriver so slow queries are logged.
func open(cfg *Config, logger *slog.Logger) (*relational.Mapper, *sql.StatsDriver, error) {
	db, err := stdsql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("relq: open %s: %w", cfg.Driver, err)
	}
	name := cfg.dialectName()
	var statsOpts []sql.StatsOption
	if cfg.SlowThreshold > 0 {
		statsOpts = append(statsOpts, sql.WithSlowThreshold(cfg.SlowThreshold))
	}
	statsOpts = append(statsOpts, sql.WithSlowQueryLog(logger))
	stats := sql.NewStatsDriver(sql.OpenDB(name, db), statsOpts...)

	st, err := style.ByName(cfg.Style)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	opts := []relational.Option{
		relational.WithStyle(st),
		relational.WithEntityNamespace(cfg.Namespace),
		relational.WithLogger(logger),
	}
	if cfg.Inspector == inspectorAtlas {
		opts = append(opts, relational.WithInspector(schema.NewCache(schema.NewAtlas(name, db))))
	}
	if cfg.Debug {
		opts = append(opts, relational.WithDebug())
	}
	m, err := relational.New(stats, opts...)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return m, stats, nil
}

func query(ctx context.Context, m *relational.Mapper, expr string, extra []relational.Extra, format string, w io.Writer) error {
	r, err := m.Path(expr)
	if err != nil {
		return err
	}
	roots, err := r.FetchAll(ctx, extra...)
	if err != nil {
		return err
	}
	out := make([]map[string]any, len(roots))
	for i, e := range roots {
		out[i] = m.Export(e)
	}
	if format == formatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	cs := spew.ConfigState{
		Indent:                  "  ",
		DisablePointerAddresses: true,
		DisableCapacities:       true,
		SortKeys:                true,
	}
	fmt.Fprintf(w, "# %s\n", r)
	cs.Fdump(w, out)
	return nil
}
