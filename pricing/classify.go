/*
classify.go - Enrollment classification

PURPOSE:
  Assigns each enrollment to a PriceType using a fixed, deterministic
  precedence order:

    SENIOR_PROJECT > READING_CLASS > FIXED > DEFAULT

  The ordering is a deliberate tie-break for courses that could match
  more than one rule. An enrollment matching two high-precedence
  signals is an anomaly: it is logged, then resolved by precedence,
  never fatal.
*/
package pricing

import (
	"log"
)

// =============================================================================
// CLASSIFIER
// =============================================================================

// Classifier tags enrollments with their pricing category. It consults
// the catalog only to detect fixed-price courses (a fixed record must
// exist as of term start).
type Classifier struct {
	cfg     Config
	catalog *Catalog
}

func NewClassifier(cfg Config, catalog *Catalog) *Classifier {
	return &Classifier{cfg: cfg, catalog: catalog}
}

// Classify returns the enrollment's PriceType. termStart is the date
// fixed-price records are checked against.
func (cl *Classifier) Classify(e Enrollment, termStart Date) PriceType {
	senior := cl.cfg.IsSeniorProjectCourse(e.CourseCode)
	reading := cl.cfg.IsReadingClass(e.ClassID)
	_, fixed := cl.catalog.Resolve(FixedScope{CourseCode: e.CourseCode}, termStart)

	if senior && reading {
		log.Printf("classification anomaly: course %s class %s matches senior-project and reading-class; precedence keeps senior-project",
			e.CourseCode, e.ClassID)
	}

	switch {
	case senior:
		return PriceSeniorProject
	case reading:
		return PriceReadingClass
	case fixed:
		return PriceFixed
	default:
		return PriceDefault
	}
}

// ClassifyAll tags a slice of enrollments, preserving order.
func (cl *Classifier) ClassifyAll(enrollments []Enrollment, termStart Date) []PriceType {
	types := make([]PriceType, len(enrollments))
	for i, e := range enrollments {
		types[i] = cl.Classify(e, termStart)
	}
	return types
}
