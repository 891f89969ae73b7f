/*
batch.go - Batch reconciliation over a worker pool

PURPOSE:
  Payments are independent of one another and reconciliation is
  CPU-bound, so a batch maps the payment list over a fixed-size worker
  pool. Workers append to the shared report under one mutex; ordering
  among workers is irrelevant because the final report is sorted by
  payment date. A coarse progress counter can be polled from outside
  while the pool runs.

PRECONDITION:
  The catalog snapshot must be built before Run is called and must not
  change for the run's duration. The batch does not enforce snapshot
  isolation; it assumes it.
*/
package reconcile

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/meridian/tuition-engine/pricing"
)

// =============================================================================
// BATCH INPUT / REPORT
// =============================================================================

// Item is one unit of batch work: a payment plus the enrollments and
// residency it reconciles against.
type Item struct {
	Payment     pricing.Payment
	Enrollments []pricing.Enrollment
	Residency   pricing.Residency
}

// Summary holds the per-run counters, merged in a single reduce step.
type Summary struct {
	Total             int
	FullyReconciled   int
	MinorVariance     int
	PartialMatch      int
	Unmatched         int
	ZeroPaymentReview int
	AllDropped        int
}

func (s *Summary) add(out Outcome) {
	s.Total++
	switch out.Status {
	case StatusFullyReconciled:
		s.FullyReconciled++
	case StatusMinorVariance:
		s.MinorVariance++
	case StatusPartialMatch:
		s.PartialMatch++
	case StatusUnmatched:
		s.Unmatched++
	case StatusZeroPaymentReview:
		s.ZeroPaymentReview++
	}
	if out.AllDropped {
		s.AllDropped++
	}
}

// Report is the result of one batch run. Outcomes are sorted by payment
// date, then reference, for stable comparison across runs.
type Report struct {
	RunID    string
	Outcomes []Outcome
	Summary  Summary
}

// =============================================================================
// BATCH
// =============================================================================

const DefaultWorkers = 4

// Batch drives a Runner over many payments.
type Batch struct {
	runner  *Runner
	workers int

	processed atomic.Int64
	total     atomic.Int64
}

func NewBatch(runner *Runner, workers int) *Batch {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Batch{runner: runner, workers: workers}
}

// Progress returns (processed, total) for the run in flight. Safe to
// poll from any goroutine.
func (b *Batch) Progress() (int64, int64) {
	return b.processed.Load(), b.total.Load()
}

// Run reconciles every item and returns the sorted report.
func (b *Batch) Run(items []Item) Report {
	b.processed.Store(0)
	b.total.Store(int64(len(items)))

	report := Report{RunID: uuid.NewString()}
	if len(items) == 0 {
		return report
	}

	var (
		mu   sync.Mutex
		wg   sync.WaitGroup
		work = make(chan Item)
	)

	for w := 0; w < b.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range work {
				out := b.runner.ReconcilePayment(item.Payment, item.Enrollments, item.Residency)
				mu.Lock()
				report.Outcomes = append(report.Outcomes, out)
				report.Summary.add(out)
				mu.Unlock()
				b.processed.Add(1)
			}
		}()
	}

	for _, item := range items {
		work <- item
	}
	close(work)
	wg.Wait()

	sort.Slice(report.Outcomes, func(i, j int) bool {
		if !report.Outcomes[i].PaymentDate.Equal(report.Outcomes[j].PaymentDate) {
			return report.Outcomes[i].PaymentDate.Before(report.Outcomes[j].PaymentDate)
		}
		return report.Outcomes[i].PaymentRef < report.Outcomes[j].PaymentRef
	})
	return report
}
