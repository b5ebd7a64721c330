// Package app связывает импорт с журналом, метриками, событиями и HTTP API.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"wpbreez_sync/internal/events"
	"wpbreez_sync/internal/importer"
	"wpbreez_sync/internal/journal"
	"wpbreez_sync/metrics"
	"wpbreez_sync/pkg/logger"
)

const (
	OpCategories = "categories"
	OpBrands     = "brands"
	OpProducts   = "products"
	OpTechs      = "techs"
	OpStocks     = "stocks"
)

var (
	ErrBusy             = errors.New("another sync run is in progress")
	ErrUnknownOperation = errors.New("unknown sync operation")
)

// Importer - операции синхронизации, которые запускает Runner.
type Importer interface {
	ImportCategories(ctx context.Context) ([]int, error)
	ImportBrands(ctx context.Context) ([]int, error)
	ImportProducts(ctx context.Context, page int) (*importer.PageResult, error)
	ImportAllProductTechs(ctx context.Context) (*importer.TechResult, error)
	ImportProductStocks(ctx context.Context) (*importer.StockResult, error)
}

type Report struct {
	Run      *journal.Run `json:"run"`
	Window   int          `json:"window,omitempty"`
	Failures []string     `json:"failures,omitempty"`
}

// Runner выполняет операции по одной за раз.
type Runner struct {
	importer Importer
	journal  journal.Repository
	events   events.Publisher
	log      logger.Logger
	mu       sync.Mutex
}

func NewRunner(imp Importer, repo journal.Repository, publisher events.Publisher, writer io.Writer) *Runner {
	if repo == nil {
		repo = journal.Nop{}
	}
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Runner{
		importer: imp,
		journal:  repo,
		events:   publisher,
		log:      logger.NewLogger(writer, "[Runner]"),
	}
}

func IsOperation(op string) bool {
	switch op {
	case OpCategories, OpBrands, OpProducts, OpTechs, OpStocks:
		return true
	}
	return false
}

// Run выполняет одну операцию; page учитывается только для products.
// Если другая операция ещё идёт, возвращает ErrBusy.
func (r *Runner) Run(ctx context.Context, op string, page int) (*Report, error) {
	if !IsOperation(op) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOperation, op)
	}
	if !r.mu.TryLock() {
		return nil, ErrBusy
	}
	defer r.mu.Unlock()

	if op != OpProducts {
		page = 0
	} else if page < 1 {
		page = 1
	}

	counters := metrics.NewSyncMetrics(op)
	ctx = metrics.WithSyncMetrics(ctx, counters)

	run, err := r.journal.Start(ctx, op, page)
	if err != nil {
		r.log.Error("journal start failed: %v", err)
		run, _ = journal.Nop{}.Start(ctx, op, page)
	}
	r.log.Log("run %s started: %s page=%d", run.ID, op, page)

	started := time.Now()
	report, runErr := r.execute(ctx, op, page)
	metrics.RecordRun(op, time.Since(started))

	snapshot := counters.Snapshot()
	run.Updated = snapshot.Updated
	run.Skipped = snapshot.Skipped
	run.Failed = snapshot.Failed
	run.Created = report.created
	if run.Created == nil {
		run.Created = []int{}
	}
	if runErr != nil {
		run.Error = runErr.Error()
	}

	// журнал и событие пишем даже если ctx отменён
	detached := context.WithoutCancel(ctx)
	if err := r.journal.Finish(detached, run); err != nil {
		r.log.Error("journal finish failed: %v", err)
	}
	if run.FinishedAt == nil {
		finished := time.Now().UTC()
		run.FinishedAt = &finished
	}
	if err := r.events.Publish(detached, eventFor(run)); err != nil {
		r.log.Error("event publish failed: %v", err)
	}

	r.log.Log("run %s finished: created=%d updated=%d skipped=%d failed=%d",
		run.ID, len(run.Created), run.Updated, run.Skipped, run.Failed)

	return &Report{Run: run, Window: report.window, Failures: report.failures}, runErr
}

// RunAllProducts проходит страницы товаров, пока окно не окажется пустым.
func (r *Runner) RunAllProducts(ctx context.Context) ([]*Report, error) {
	var reports []*Report
	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			return reports, err
		}
		report, err := r.Run(ctx, OpProducts, page)
		if report != nil {
			reports = append(reports, report)
		}
		if err != nil {
			return reports, fmt.Errorf("products page %d: %w", page, err)
		}
		if report.Window == 0 {
			return reports, nil
		}
	}
}

type outcome struct {
	created  []int
	window   int
	failures []string
}

func (r *Runner) execute(ctx context.Context, op string, page int) (outcome, error) {
	switch op {
	case OpCategories:
		ids, err := r.importer.ImportCategories(ctx)
		return outcome{created: ids}, err
	case OpBrands:
		ids, err := r.importer.ImportBrands(ctx)
		return outcome{created: ids}, err
	case OpProducts:
		res, err := r.importer.ImportProducts(ctx, page)
		if res == nil {
			return outcome{}, err
		}
		return outcome{created: res.Created, window: res.Window, failures: describe(res.Failures)}, err
	case OpTechs:
		res, err := r.importer.ImportAllProductTechs(ctx)
		if res == nil {
			return outcome{}, err
		}
		return outcome{failures: describe(res.Failures)}, err
	case OpStocks:
		res, err := r.importer.ImportProductStocks(ctx)
		if res == nil {
			return outcome{}, err
		}
		return outcome{failures: describe(res.Failures)}, err
	}
	return outcome{}, fmt.Errorf("%w: %q", ErrUnknownOperation, op)
}

func describe(failures []importer.Failure) []string {
	if len(failures) == 0 {
		return nil
	}
	out := make([]string, 0, len(failures))
	for _, f := range failures {
		out = append(out, f.Error())
	}
	return out
}

func eventFor(run *journal.Run) events.SyncEvent {
	event := events.SyncEvent{
		RunID:     run.ID.String(),
		Operation: run.Operation,
		Page:      run.Page,
		Created:   len(run.Created),
		Updated:   run.Updated,
		Skipped:   run.Skipped,
		Failed:    run.Failed,
		Error:     run.Error,
		StartedAt: run.StartedAt,
	}
	if run.FinishedAt != nil {
		event.FinishedAt = *run.FinishedAt
	}
	return event
}
