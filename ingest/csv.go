/*
Package ingest reads enrollments and payments from legacy CSV exports.

PURPOSE:
  Thin input wrapper around the engine. The legacy exports are messy:
  amounts and dates are sometimes unparsable. Per the engine's error
  taxonomy, malformed fields are coerced to safe zero values with a
  warning attached to that record, so one bad row never aborts a run.

CSV LAYOUTS:
  enrollments: student_id,term_id,course_code,class_id,cycle,attendance_status,observed_class_size
  payments:    student_id,term_id,amount,date,reference

Header rows are required and validated by column count only; the legacy
exporter is not trusted to spell headers consistently.
*/
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/meridian/tuition-engine/pricing"
)

// Warning records a coerced field on one source row.
type Warning struct {
	Row     int
	Field   string
	Value   string
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("row %d: %s %q %s", w.Row, w.Field, w.Value, w.Message)
}

const (
	enrollmentColumns = 7
	paymentColumns    = 5
)

// =============================================================================
// ENROLLMENTS
// =============================================================================

// ReadEnrollments parses an enrollment CSV stream.
func ReadEnrollments(r io.Reader) ([]pricing.Enrollment, []Warning, error) {
	rows, err := readRows(r, enrollmentColumns, "enrollments")
	if err != nil {
		return nil, nil, err
	}

	var (
		enrollments []pricing.Enrollment
		warnings    []Warning
	)
	for i, row := range rows {
		rowNum := i + 2 // 1-based, after header
		e := pricing.Enrollment{
			StudentID:  row[0],
			TermID:     row[1],
			CourseCode: row[2],
			ClassID:    row[3],
			Cycle:      pricing.Cycle(row[4]),
		}

		switch pricing.AttendanceStatus(row[5]) {
		case pricing.AttendanceActive, pricing.AttendanceDropped:
			e.AttendanceStatus = pricing.AttendanceStatus(row[5])
		default:
			e.AttendanceStatus = pricing.AttendanceActive
			warnings = append(warnings, Warning{
				Row: rowNum, Field: "attendance_status", Value: row[5],
				Message: "unknown status, coerced to active",
			})
		}

		if row[6] != "" {
			size, err := strconv.Atoi(row[6])
			if err != nil || size < 0 {
				warnings = append(warnings, Warning{
					Row: rowNum, Field: "observed_class_size", Value: row[6],
					Message: "not a valid size, coerced to unrecorded",
				})
			} else {
				e.ObservedClassSize = size
			}
		}
		enrollments = append(enrollments, e)
	}
	return enrollments, warnings, nil
}

// ReadEnrollmentsFile opens and parses an enrollment CSV file.
func ReadEnrollmentsFile(path string) ([]pricing.Enrollment, []Warning, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	return ReadEnrollments(f)
}

// =============================================================================
// PAYMENTS
// =============================================================================

// ReadPayments parses a payment CSV stream.
func ReadPayments(r io.Reader) ([]pricing.Payment, []Warning, error) {
	rows, err := readRows(r, paymentColumns, "payments")
	if err != nil {
		return nil, nil, err
	}

	var (
		payments []pricing.Payment
		warnings []Warning
	)
	for i, row := range rows {
		rowNum := i + 2
		p := pricing.Payment{
			StudentID: row[0],
			TermID:    row[1],
			Reference: row[4],
		}

		amount, ok := pricing.ParseMoney(row[2])
		if !ok {
			warnings = append(warnings, Warning{
				Row: rowNum, Field: "amount", Value: row[2],
				Message: "unparsable amount, coerced to zero",
			})
		}
		p.Amount = amount

		date, ok := pricing.ParseDate(row[3])
		if !ok {
			warnings = append(warnings, Warning{
				Row: rowNum, Field: "date", Value: row[3],
				Message: "unparsable date, coerced to zero date",
			})
		}
		p.Date = date

		payments = append(payments, p)
	}
	return payments, warnings, nil
}

// ReadPaymentsFile opens and parses a payment CSV file.
func ReadPaymentsFile(path string) ([]pricing.Payment, []Warning, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	return ReadPayments(f)
}

// =============================================================================
// SHARED
// =============================================================================

func readRows(r io.Reader, columns int, kind string) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = columns
	cr.TrimLeadingSpace = true

	all, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s csv: %w", kind, err)
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("read %s csv: missing header row", kind)
	}
	return all[1:], nil
}
