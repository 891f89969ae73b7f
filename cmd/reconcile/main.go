/*
main.go - Batch reconciliation CLI

PURPOSE:
  Runs the engine as a batch job: load the rate catalog, read the
  legacy CSV exports, reconcile every payment against the student's
  enrollments for the same term, and print the summary. Outcomes can
  be persisted to SQLite for later inspection through the API.

FLAGS:
  -catalog      JSON catalog file (mutually exclusive with -db)
  -db           SQLite database holding pricing records
  -config       Engine YAML config path (optional)
  -enrollments  Enrollment CSV file (required)
  -payments     Payment CSV file (required)
  -residency    domestic or foreign (default domestic)
  -workers      Worker pool size (default 4)
  -persist      Save the report into -db

Per-payment failures never abort the batch; only a catalog integrity
violation does.
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/meridian/tuition-engine/factory"
	"github.com/meridian/tuition-engine/ingest"
	"github.com/meridian/tuition-engine/pricing"
	"github.com/meridian/tuition-engine/reconcile"
	"github.com/meridian/tuition-engine/store/sqlite"
)

func main() {
	catalogPath := flag.String("catalog", "", "JSON catalog file")
	dbPath := flag.String("db", "", "SQLite database holding pricing records")
	cfgPath := flag.String("config", "", "engine YAML config path")
	enrollPath := flag.String("enrollments", "", "enrollment CSV file")
	payPath := flag.String("payments", "", "payment CSV file")
	residency := flag.String("residency", "domestic", "domestic or foreign")
	workers := flag.Int("workers", reconcile.DefaultWorkers, "worker pool size")
	persist := flag.Bool("persist", false, "save the report into -db")
	flag.Parse()

	if *enrollPath == "" || *payPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := pricing.DefaultConfig()
	if *cfgPath != "" {
		var err error
		cfg, err = pricing.LoadConfig(*cfgPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	records, store := loadRecords(*catalogPath, *dbPath)
	if store != nil {
		defer store.Close()
	}

	catalog, err := pricing.NewCatalog(records)
	if err != nil {
		log.Fatalf("Catalog rejected: %v", err)
	}
	log.Printf("Catalog loaded: %d records", catalog.Len())

	enrollments, warnings, err := ingest.ReadEnrollmentsFile(*enrollPath)
	if err != nil {
		log.Fatalf("Failed to read enrollments: %v", err)
	}
	logWarnings("enrollments", warnings)

	payments, warnings, err := ingest.ReadPaymentsFile(*payPath)
	if err != nil {
		log.Fatalf("Failed to read payments: %v", err)
	}
	logWarnings("payments", warnings)

	// One item per payment: the enrollments for the same student+term.
	byStudentTerm := make(map[string][]pricing.Enrollment)
	for _, e := range enrollments {
		k := e.StudentID + "/" + e.TermID
		byStudentTerm[k] = append(byStudentTerm[k], e)
	}

	res := pricing.ResidencyDomestic
	if pricing.Residency(*residency) == pricing.ResidencyForeign {
		res = pricing.ResidencyForeign
	}

	items := make([]reconcile.Item, 0, len(payments))
	for _, p := range payments {
		items = append(items, reconcile.Item{
			Payment:     p,
			Enrollments: byStudentTerm[p.StudentID+"/"+p.TermID],
			Residency:   res,
		})
	}

	runner := reconcile.NewRunner(cfg, catalog)
	batch := reconcile.NewBatch(runner, *workers)

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				processed, total := batch.Progress()
				log.Printf("progress: %d/%d", processed, total)
			}
		}
	}()

	report := batch.Run(items)
	close(done)

	printSummary(report)

	if *persist {
		if store == nil {
			log.Fatalf("-persist requires -db")
		}
		if err := store.SaveReport(context.Background(), report); err != nil {
			log.Fatalf("Failed to persist report: %v", err)
		}
		log.Printf("Report %s persisted", report.RunID)
	}
}

func loadRecords(catalogPath, dbPath string) ([]pricing.PricingRecord, *sqlite.Store) {
	switch {
	case catalogPath != "" && dbPath != "":
		log.Fatalf("-catalog and -db are mutually exclusive")
		return nil, nil
	case catalogPath != "":
		data, err := os.ReadFile(catalogPath)
		if err != nil {
			log.Fatalf("Failed to read catalog: %v", err)
		}
		records, err := factory.ParseCatalog(data)
		if err != nil {
			log.Fatalf("Failed to parse catalog: %v", err)
		}
		return records, nil
	case dbPath != "":
		store, err := sqlite.New(dbPath)
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		records, err := store.LoadRecords(context.Background())
		if err != nil {
			log.Fatalf("Failed to load pricing records: %v", err)
		}
		return records, store
	default:
		log.Printf("No -catalog or -db given; using demo catalog")
		return factory.DemoRecords(), nil
	}
}

func logWarnings(kind string, warnings []ingest.Warning) {
	for _, w := range warnings {
		log.Printf("%s %s", kind, w)
	}
}

func printSummary(report reconcile.Report) {
	sum := report.Summary
	fmt.Printf("\nRun %s\n", report.RunID)
	fmt.Printf("  payments:            %d\n", sum.Total)
	fmt.Printf("  fully reconciled:    %d\n", sum.FullyReconciled)
	fmt.Printf("  minor variance:      %d\n", sum.MinorVariance)
	fmt.Printf("  partial match:       %d\n", sum.PartialMatch)
	fmt.Printf("  unmatched:           %d\n", sum.Unmatched)
	fmt.Printf("  zero-payment review: %d\n", sum.ZeroPaymentReview)
	fmt.Printf("  all-dropped:         %d\n", sum.AllDropped)

	for _, out := range report.Outcomes {
		if out.Status == reconcile.StatusFullyReconciled {
			continue
		}
		fmt.Printf("  %s %s: expected %s, actual %s (%s, confidence %d)\n",
			out.PaymentDate, out.PaymentRef, out.ExpectedAmount, out.ActualAmount, out.Status, out.Confidence)
	}
}
