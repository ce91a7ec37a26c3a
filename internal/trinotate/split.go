package trinotate

import (
	"fmt"
)

// AnnotationWriter receives the kept records of a split.
type AnnotationWriter interface {
	WriteHeader() error
	Write(a *Annotated) error
	Flush() error
}

// Summary holds the counts of one split run.
type Summary struct {
	Records    int // data rows read from the report
	Duplicates int // rows dropped for a repeated transcript id
	Ineligible int // rows that are not the longest transcript of their group
	BlastRows  int
	GORows     int
	GeneGroups int // groups in the length index
}

// SplitAll streams every record from src through t and writes the eligible
// ones to w, in input order.
func SplitAll(src RecordSource, t *Transformer, w AnnotationWriter) (Summary, error) {
	if err := w.WriteHeader(); err != nil {
		return t.Summary(), fmt.Errorf("write header: %w", err)
	}

	for {
		rec, err := src.Next()
		if err != nil {
			return t.Summary(), fmt.Errorf("read report: %w", err)
		}
		if rec == nil {
			break
		}

		ann, ok := t.Transform(rec)
		if !ok {
			continue
		}
		if err := w.Write(ann); err != nil {
			return t.Summary(), fmt.Errorf("write %s: %w", ann.TranscriptID, err)
		}
		t.stats.BlastRows++
		t.stats.GORows += len(ann.GOTerms())
	}

	if err := w.Flush(); err != nil {
		return t.Summary(), fmt.Errorf("flush output: %w", err)
	}
	return t.Summary(), nil
}

// MultiWriter fans each call out to several writers in order.
type MultiWriter []AnnotationWriter

// WriteHeader implements AnnotationWriter.
func (m MultiWriter) WriteHeader() error {
	for _, w := range m {
		if err := w.WriteHeader(); err != nil {
			return err
		}
	}
	return nil
}

// Write implements AnnotationWriter.
func (m MultiWriter) Write(a *Annotated) error {
	for _, w := range m {
		if err := w.Write(a); err != nil {
			return err
		}
	}
	return nil
}

// Flush implements AnnotationWriter.
func (m MultiWriter) Flush() error {
	for _, w := range m {
		if err := w.Flush(); err != nil {
			return err
		}
	}
	return nil
}
