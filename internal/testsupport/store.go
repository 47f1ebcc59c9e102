package testsupport

import (
	"context"
	"testing"

	"critable/internal/config"
	"critable/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// NewDocument registers a pending document for tests using the provided store.
func NewDocument(t testing.TB, st *store.Store, name string) *store.Document {
	t.Helper()

	doc, err := st.UpsertDocument(context.Background(), store.DocumentInput{Name: name})
	if err != nil {
		t.Fatalf("store.UpsertDocument: %v", err)
	}
	return doc
}
