package store_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"testing"

	"critable/internal/pipeline"
	"critable/internal/reconcile"
	"critable/internal/store"
	"critable/internal/tables"
	"critable/internal/testsupport"
)

func candidates() []tables.Candidate {
	header := []string{"Criterion", "Summary", "Rating"}
	return []tables.Candidate{
		{ID: "a", Page: 2, Header: []string{"Budget"}, Rows: [][]any{{json.Number("1200")}}},
		{ID: "b", Page: 5, Header: header, Rows: [][]any{
			{"Strategic Relevance", "Aligned", "HS"},
			{"1. Alignment to MTS", nil, json.Number("4.5")},
		}, BBox: []float64{1, 2, 3, 4}},
		{ID: "c", Page: 6, Header: header, Rows: [][]any{{"Efficiency", "Slow start", "MS"}}},
	}
}

func runPipeline(t *testing.T, cs []tables.Candidate) *pipeline.Result {
	t.Helper()
	result, err := pipeline.New(pipeline.DefaultOptions()).Run(context.Background(), "report.pdf", cs)
	if err != nil {
		t.Fatalf("pipeline.Run: %v", err)
	}
	return result
}

func TestUpsertDocumentResetsExisting(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	doc, err := st.UpsertDocument(ctx, store.DocumentInput{Name: " report.pdf ", PageCount: 12, PublishMonth: "May 2021"})
	if err != nil {
		t.Fatalf("UpsertDocument: %v", err)
	}
	if doc.Name != "report.pdf" || doc.Status != store.StatusPending || doc.PageCount != 12 || doc.PublishMonth != "May 2021" {
		t.Fatalf("unexpected document: %+v", doc)
	}
	if err := st.SaveCandidates(ctx, doc.ID, candidates()); err != nil {
		t.Fatalf("SaveCandidates: %v", err)
	}
	if _, err := st.SaveResult(ctx, doc.ID, runPipeline(t, candidates())); err != nil {
		t.Fatalf("SaveResult: %v", err)
	}

	again, err := st.UpsertDocument(ctx, store.DocumentInput{Name: "report.pdf", SourcePath: "/tmp/report.pdf"})
	if err != nil {
		t.Fatalf("UpsertDocument again: %v", err)
	}
	if again.ID != doc.ID {
		t.Fatalf("id changed: %d -> %d", doc.ID, again.ID)
	}
	if again.Status != store.StatusPending || again.CandidateCount != 0 || again.ProcessedAt != nil || again.SourcePath != "/tmp/report.pdf" {
		t.Fatalf("document not reset: %+v", again)
	}
	recs, err := st.Candidates(ctx, doc.ID)
	if err != nil {
		t.Fatalf("Candidates: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("candidates survived reset: %d", len(recs))
	}
	table, err := st.ClassifiedRows(ctx, doc.ID)
	if err != nil || table != nil {
		t.Fatalf("classified rows survived reset: %+v, %v", table, err)
	}

	if _, err := st.UpsertDocument(ctx, store.DocumentInput{Name: "  "}); err == nil {
		t.Fatal("expected error for blank name")
	}
}

func TestCandidatesRoundTrip(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	doc := testsupport.NewDocument(t, st, "report.pdf")

	if err := st.SaveCandidates(ctx, doc.ID, candidates()); err != nil {
		t.Fatalf("SaveCandidates: %v", err)
	}
	recs, err := st.Candidates(ctx, doc.ID)
	if err != nil {
		t.Fatalf("Candidates: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("got %d candidates, want 3", len(recs))
	}
	second := recs[1]
	if second.ID != "b" || second.Position != 1 || second.Page != 5 {
		t.Fatalf("unexpected record: %+v", second)
	}
	if n, ok := second.Rows[1][2].(json.Number); !ok || n.String() != "4.5" {
		t.Fatalf("numeric cell = %#v, want json.Number 4.5", second.Rows[1][2])
	}
	if second.Rows[1][1] != nil {
		t.Fatalf("null cell = %#v", second.Rows[1][1])
	}
	if !slices.Equal(second.BBox, []float64{1, 2, 3, 4}) || recs[0].BBox != nil {
		t.Fatalf("bbox = %v / %v", second.BBox, recs[0].BBox)
	}
	if c := second.Candidate(); c.ID != "b" || len(c.Rows) != 2 {
		t.Fatalf("Candidate() = %+v", c)
	}

	reloaded, err := st.GetByID(ctx, doc.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if reloaded.CandidateCount != 3 {
		t.Fatalf("candidate count = %d, want 3", reloaded.CandidateCount)
	}

	if err := st.SaveCandidates(ctx, doc.ID, []tables.Candidate{{Page: 1}}); err == nil {
		t.Fatal("expected error for candidate without id")
	}
}

func TestSaveResultCompleted(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	doc := testsupport.NewDocument(t, st, "report.pdf")
	if err := st.SaveCandidates(ctx, doc.ID, candidates()); err != nil {
		t.Fatalf("SaveCandidates: %v", err)
	}

	status, err := st.SaveResult(ctx, doc.ID, runPipeline(t, candidates()))
	if err != nil {
		t.Fatalf("SaveResult: %v", err)
	}
	if status != store.StatusCompleted {
		t.Fatalf("status = %s, want completed", status)
	}

	saved, err := st.GetByID(ctx, doc.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if saved.Status != store.StatusCompleted || saved.KeptCount != 2 || saved.StartPage != 5 || saved.EndPage != 6 {
		t.Fatalf("unexpected saved document: %+v", saved)
	}
	if !slices.Equal(saved.SelectedPages, []int{5, 6}) || saved.MergedTables != 2 || saved.MergedRows != 3 {
		t.Fatalf("run summary = %v %d %d", saved.SelectedPages, saved.MergedTables, saved.MergedRows)
	}
	if saved.ProcessedAt == nil {
		t.Fatal("processed_at not set")
	}
	if !slices.Equal(saved.Assembled.Header, []string{"Criterion", "Summary", "Rating"}) || saved.Assembled.Len() != 3 {
		t.Fatalf("assembled = %+v", saved.Assembled)
	}

	recs, err := st.Candidates(ctx, doc.ID)
	if err != nil {
		t.Fatalf("Candidates: %v", err)
	}
	flags := make([]string, len(recs))
	for i, r := range recs {
		flags[i] = fmt.Sprintf("%s:%t:%t", r.ID, r.Kept, r.Selected)
	}
	if want := []string{"a:false:false", "b:true:true", "c:true:true"}; !slices.Equal(flags, want) {
		t.Fatalf("flags = %v, want %v", flags, want)
	}

	table, err := st.ClassifiedRows(ctx, doc.ID)
	if err != nil {
		t.Fatalf("ClassifiedRows: %v", err)
	}
	if !slices.Equal(table.Header, []string{"TopLevel", "SubLevel", "Summary", "Rating"}) {
		t.Fatalf("header = %v", table.Header)
	}
	want := [][]string{
		{"Strategic Relevance", "", "Aligned", "HS"},
		{"Strategic Relevance", "1. Alignment to MTS", "", "4.5"},
		{"Efficiency", "", "Slow start", "MS"},
	}
	if len(table.Rows) != len(want) {
		t.Fatalf("got %d rows, want %d", len(table.Rows), len(want))
	}
	for i := range want {
		if !slices.Equal(table.Rows[i], want[i]) {
			t.Fatalf("row %d = %v, want %v", i, table.Rows[i], want[i])
		}
	}
}

func TestSaveResultEmpty(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	doc := testsupport.NewDocument(t, st, "appendix.pdf")

	result := runPipeline(t, candidates()[:1])
	status, err := st.SaveResult(ctx, doc.ID, result)
	if err != nil {
		t.Fatalf("SaveResult: %v", err)
	}
	if status != store.StatusEmpty {
		t.Fatalf("status = %s, want empty", status)
	}
	table, err := st.ClassifiedRows(ctx, doc.ID)
	if err != nil || table != nil {
		t.Fatalf("empty document should have no classified table: %+v %v", table, err)
	}

	if _, err := st.SaveResult(ctx, doc.ID+100, result); err == nil {
		t.Fatal("expected error for unknown document")
	}
	if _, err := st.SaveResult(ctx, doc.ID, nil); err == nil {
		t.Fatal("expected error for nil result")
	}
}

func TestAllClassifiedRowsOnlyCompleted(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	for _, name := range []string{"b.pdf", "a.pdf"} {
		doc := testsupport.NewDocument(t, st, name)
		if _, err := st.SaveResult(ctx, doc.ID, runPipeline(t, candidates())); err != nil {
			t.Fatalf("SaveResult %s: %v", name, err)
		}
	}
	empty := testsupport.NewDocument(t, st, "c.pdf")
	if _, err := st.SaveResult(ctx, empty.ID, runPipeline(t, nil)); err != nil {
		t.Fatalf("SaveResult empty: %v", err)
	}
	testsupport.NewDocument(t, st, "d.pdf")

	all, err := st.AllClassifiedRows(ctx)
	if err != nil {
		t.Fatalf("AllClassifiedRows: %v", err)
	}
	if len(all) != 2 || all[0].Document != "a.pdf" || all[1].Document != "b.pdf" {
		t.Fatalf("unexpected tables: %+v", all)
	}
	if len(all[0].Rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(all[0].Rows))
	}
}

func TestMarkFailedMapsStatus(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	ambiguity := pipeline.Wrap(pipeline.ErrValidation, pipeline.StageReconcile, "page 4", "auxiliary column cannot be merged",
		&reconcile.MergeAmbiguityError{Page: 4, Column: "Col1", Index: 1})
	tests := []struct {
		name  string
		cause error
		want  store.Status
	}{
		{"ambiguity", ambiguity, store.StatusReview},
		{"bare ambiguity", &reconcile.MergeAmbiguityError{Page: 2}, store.StatusReview},
		{"configuration", pipeline.Wrap(pipeline.ErrConfiguration, "", "", "bad taxonomy", nil), store.StatusReview},
		{"storage", pipeline.Wrap(pipeline.ErrStorage, "", "", "", errors.New("disk full")), store.StatusFailed},
		{"plain", errors.New("boom"), store.StatusFailed},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			doc := testsupport.NewDocument(t, st, tc.name+".pdf")
			status, err := st.MarkFailed(ctx, doc.ID, tc.cause)
			if err != nil {
				t.Fatalf("MarkFailed: %v", err)
			}
			if status != tc.want {
				t.Fatalf("status = %s, want %s", status, tc.want)
			}
			saved, err := st.GetByID(ctx, doc.ID)
			if err != nil {
				t.Fatalf("GetByID: %v", err)
			}
			if saved.Status != tc.want || saved.ErrorMessage != tc.cause.Error() {
				t.Fatalf("saved = %s %q", saved.Status, saved.ErrorMessage)
			}
		})
	}

	if _, err := st.MarkFailed(ctx, 9999, errors.New("boom")); err == nil {
		t.Fatal("expected error for unknown document")
	}
}

func TestListLookupAndHealth(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	done := testsupport.NewDocument(t, st, "done.pdf")
	if _, err := st.SaveResult(ctx, done.ID, runPipeline(t, candidates())); err != nil {
		t.Fatalf("SaveResult: %v", err)
	}
	broken := testsupport.NewDocument(t, st, "broken.pdf")
	if _, err := st.MarkFailed(ctx, broken.ID, errors.New("boom")); err != nil {
		t.Fatalf("MarkFailed: %v", err)
	}
	testsupport.NewDocument(t, st, "new.pdf")

	all, err := st.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	names := make([]string, len(all))
	for i, d := range all {
		names[i] = d.Name
	}
	if !slices.Equal(names, []string{"broken.pdf", "done.pdf", "new.pdf"}) {
		t.Fatalf("names = %v", names)
	}

	filtered, err := st.List(ctx, store.StatusCompleted, store.StatusFailed)
	if err != nil {
		t.Fatalf("List filtered: %v", err)
	}
	if len(filtered) != 2 {
		t.Fatalf("filtered = %d, want 2", len(filtered))
	}

	byID, err := st.Lookup(ctx, fmt.Sprint(done.ID))
	if err != nil || byID == nil || byID.Name != "done.pdf" {
		t.Fatalf("Lookup by id = %+v, %v", byID, err)
	}
	byName, err := st.Lookup(ctx, "broken.pdf")
	if err != nil || byName == nil || byName.ID != broken.ID {
		t.Fatalf("Lookup by name = %+v, %v", byName, err)
	}
	missing, err := st.Lookup(ctx, "nope.pdf")
	if err != nil || missing != nil {
		t.Fatalf("Lookup missing = %+v, %v", missing, err)
	}

	health, err := st.Health(ctx)
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	want := store.HealthSummary{Total: 3, Pending: 1, Completed: 1, Failed: 1}
	if health != want {
		t.Fatalf("health = %+v, want %+v", health, want)
	}
}

func TestRemoveAndClear(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	first := testsupport.NewDocument(t, st, "one.pdf")
	if err := st.SaveCandidates(ctx, first.ID, candidates()); err != nil {
		t.Fatalf("SaveCandidates: %v", err)
	}
	testsupport.NewDocument(t, st, "two.pdf")
	testsupport.NewDocument(t, st, "three.pdf")

	removed, err := st.Remove(ctx, first.ID)
	if err != nil || !removed {
		t.Fatalf("Remove = %t, %v", removed, err)
	}
	if removed, _ := st.Remove(ctx, first.ID); removed {
		t.Fatal("second Remove reported a deletion")
	}
	recs, err := st.Candidates(ctx, first.ID)
	if err != nil || len(recs) != 0 {
		t.Fatalf("candidates after Remove = %d, %v", len(recs), err)
	}

	count, err := st.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if count != 2 {
		t.Fatalf("cleared %d, want 2", count)
	}
	docs, err := st.List(ctx)
	if err != nil || len(docs) != 0 {
		t.Fatalf("documents after Clear = %d, %v", len(docs), err)
	}
}

func TestOpenDetectsSchemaMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "critable.db")
	st, err := store.OpenPath(path)
	if err != nil {
		t.Fatalf("OpenPath: %v", err)
	}
	version, err := st.SchemaVersion(context.Background())
	if err != nil || version != 1 {
		t.Fatalf("SchemaVersion = %d, %v", version, err)
	}
	if st.Path() != path {
		t.Fatalf("Path = %q", st.Path())
	}
	st.Close()

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	if _, err := db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	db.Close()

	if _, err := store.OpenPath(path); !errors.Is(err, store.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}

func TestParseStatus(t *testing.T) {
	for _, status := range store.AllStatuses() {
		got, err := store.ParseStatus(" " + string(status) + " ")
		if err != nil || got != status {
			t.Fatalf("ParseStatus(%q) = %q, %v", status, got, err)
		}
	}
	if got, err := store.ParseStatus("REVIEW"); err != nil || got != store.StatusReview {
		t.Fatalf("ParseStatus(REVIEW) = %q, %v", got, err)
	}
	if _, err := store.ParseStatus("done"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}
