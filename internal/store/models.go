package store

import (
	"fmt"
	"strings"
	"time"

	"critable/internal/tables"
)

// Status represents the lifecycle of a document.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	// StatusEmpty marks a document without a qualifying criterion table.
	StatusEmpty Status = "empty"
	// StatusReview marks a document whose table needs manual attention,
	// such as an ambiguous merge or a header mismatch.
	StatusReview Status = "review"
	StatusFailed Status = "failed"
)

var allStatuses = []Status{
	StatusPending,
	StatusCompleted,
	StatusEmpty,
	StatusReview,
	StatusFailed,
}

// AllStatuses returns every known status in lifecycle order.
func AllStatuses() []Status {
	return append([]Status(nil), allStatuses...)
}

// ParseStatus converts a user-supplied value to a Status.
func ParseStatus(value string) (Status, error) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	for _, status := range allStatuses {
		if status == normalized {
			return status, nil
		}
	}
	return "", fmt.Errorf("unknown status %q", value)
}

// DocumentInput describes an ingested document before processing.
type DocumentInput struct {
	Name         string
	SourcePath   string
	PageCount    int
	PublishMonth string
}

// Document is a persisted document and its latest processing outcome.
type Document struct {
	ID             int64
	Name           string
	SourcePath     string
	PageCount      int
	PublishMonth   string
	Status         Status
	ErrorMessage   string
	CandidateCount int
	KeptCount      int
	SelectedPages  []int
	MergedTables   int
	MergedRows     int
	StartPage      int
	EndPage        int
	// Assembled is the reconciled multi-page table; empty until completed.
	Assembled        tables.Table
	ClassifiedHeader []string
	CreatedAt        time.Time
	UpdatedAt        time.Time
	ProcessedAt      *time.Time
}

// CandidateRecord is a persisted table candidate with its selection flags.
type CandidateRecord struct {
	ID         string
	DocumentID int64
	Position   int
	Page       int
	Header     []string
	Rows       [][]any
	BBox       []float64
	Kept       bool
	Selected   bool
}

// Candidate converts the record back to a pipeline candidate.
func (r CandidateRecord) Candidate() tables.Candidate {
	return tables.Candidate{ID: r.ID, Page: r.Page, Header: r.Header, Rows: r.Rows, BBox: r.BBox}
}

// ClassifiedTable is one document's classified rows with their header.
type ClassifiedTable struct {
	DocumentID int64
	Document   string
	Header     []string
	Rows       [][]string
}

// HealthSummary aggregates document counts for diagnostics.
type HealthSummary struct {
	Total     int
	Pending   int
	Completed int
	Empty     int
	Review    int
	Failed    int
}
