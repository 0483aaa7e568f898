// Package scheduler runs the periodic annotation export.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/mrlokans/reader/internal/exporters"
)

// ExportScheduler manages periodic markdown exports of all annotation
// collections.
type ExportScheduler struct {
	exporter *exporters.MarkdownExporter
	schedule string

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.Mutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

func NewExportScheduler(exporter *exporters.MarkdownExporter, schedule string) *ExportScheduler {
	return &ExportScheduler{
		exporter: exporter,
		schedule: schedule,
		cron:     cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler. Safe to call once; repeated calls are
// no-ops.
func (s *ExportScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	entryID, err := s.cron.AddFunc(s.schedule, s.runExport)
	if err != nil {
		return fmt.Errorf("failed to schedule export job: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Export scheduler: started with schedule '%s'", s.schedule)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler, waiting for a running export to
// finish.
func (s *ExportScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	if s.cancelFunc != nil {
		s.cancelFunc()
		s.cancelFunc = nil
	}

	log.Printf("Export scheduler: stopped")
}

func (s *ExportScheduler) runExport() {
	result, err := s.exporter.ExportAll()
	if err != nil {
		log.Printf("Export scheduler: export failed: %v", err)
		return
	}
	log.Printf("Export scheduler: exported %d annotations across %d books (%d failed)",
		result.AnnotationsProcessed, result.BooksProcessed, result.BooksFailed)
}
