package container

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"sheetdiff/adapters/excel"
	"sheetdiff/adapters/memory"
	"sheetdiff/adapters/postgres"
	"sheetdiff/adapters/recalc"
	"sheetdiff/adapters/report"
	"sheetdiff/adapters/telemetry"
	"sheetdiff/app"
	"sheetdiff/domain/layout"
	"sheetdiff/internal"
	"sheetdiff/internal/config"
	"sheetdiff/ports"
)

// CodeVersion is stamped into run manifests. Set at link time with
// -ldflags "-X sheetdiff/internal/container.CodeVersion=...".
var CodeVersion = "dev"

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure
	DB *sqlx.DB

	// Run history: Postgres when DATABASE_URL is set, memory otherwise.
	Runs ports.RunRepository

	Registry     *layout.Registry
	Sink         *telemetry.ZapSink
	Opener       ports.WorkbookOpener
	Recalculator ports.Recalculator
	Reports      []ports.ReportWriter
	Comparer     *app.ComparisonService
	Batch        *app.BatchService
}

// NewLogger builds the logger described by cfg
func NewLogger(cfg config.LogConfig) *internal.Logger {
	level := internal.ParseLogLevel(cfg.Level)
	if cfg.Format == "json" {
		return internal.NewJSONLogger(level)
	}
	return internal.NewLogger(level)
}

// New creates a new dependency injection container. Nothing here touches
// the database; call InitWithDatabase for that.
func New(cfg *config.Config, logger *internal.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = NewLogger(cfg.Log)
	}

	c := &Container{
		Config: cfg,
		Logger: logger,
		Runs:   memory.NewRunRepository(),
	}

	if err := c.initComparison(); err != nil {
		return nil, fmt.Errorf("failed to initialize comparison: %w", err)
	}
	c.initBatch()
	return c, nil
}

func (c *Container) initComparison() error {
	registry, err := c.Config.Registry()
	if err != nil {
		return err
	}
	c.Registry = registry

	excelConfig := excel.DefaultExcelConfig()
	c.Opener = excel.NewOpener(excelConfig)
	c.Recalculator, err = recalc.New(recalc.Options{
		Mode:    c.Config.Recalc.Mode,
		Soffice: c.Config.Recalc.Soffice,
		Timeout: c.Config.Recalc.Timeout,
		Excel:   excelConfig,
	})
	if err != nil {
		return err
	}

	c.Reports, err = NewReportWriters(c.Config.Batch.ReportFormats)
	if err != nil {
		return err
	}

	c.Sink = telemetry.NewZapSink(c.Logger.Zap())
	c.Comparer = app.NewComparisonService(c.Registry, c.Sink)
	return nil
}

// initBatch (re)builds the batch service against the current repository
func (c *Container) initBatch() {
	opts := app.DefaultBatchOptions()
	opts.V1Dir = c.Config.Batch.V1Dir
	opts.V2Dir = c.Config.Batch.V2Dir
	opts.ResultDir = c.Config.Batch.ResultDir
	opts.ReportDir = c.Config.Batch.ReportDir
	opts.CodeVersion = CodeVersion

	c.Batch = app.NewBatchService(c.Opener, c.Recalculator, c.Comparer, c.Reports, c.Runs, c.Logger, opts)
}

// InitWithDatabase connects to Postgres and switches run history to it.
// Without DATABASE_URL it does nothing.
func (c *Container) InitWithDatabase(ctx context.Context) error {
	if !c.Config.HasDatabase() {
		c.Logger.Debug("[Container] DATABASE_URL not set, keeping run history in memory")
		return nil
	}

	db, err := sqlx.ConnectContext(ctx, "postgres", c.Config.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	db.SetMaxOpenConns(c.Config.Database.MaxOpenConns)
	db.SetConnMaxLifetime(c.Config.Database.ConnMaxLifetime)

	c.DB = db
	c.Runs = postgres.NewRunRepository(db)
	c.initBatch()

	c.Logger.Info("[Container] Run history stored in PostgreSQL")
	return nil
}

// Close releases the database connection and flushes logs
func (c *Container) Close() error {
	var err error
	if c.DB != nil {
		err = c.DB.Close()
	}
	_ = c.Logger.Sync()
	return err
}

// NewReportWriters maps format names to report writers
func NewReportWriters(formats []string) ([]ports.ReportWriter, error) {
	writers := make([]ports.ReportWriter, 0, len(formats))
	for _, f := range formats {
		switch strings.ToLower(f) {
		case "markdown":
			writers = append(writers, report.NewMarkdown())
		case "xlsx":
			writers = append(writers, report.NewXLSX())
		case "html":
			writers = append(writers, report.NewHTML())
		default:
			return nil, fmt.Errorf("unknown report format %q", f)
		}
	}
	return writers, nil
}
