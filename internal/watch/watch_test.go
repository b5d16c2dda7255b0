package watch_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/LordMirex/mytypist-prototype/internal/store"
	"github.com/LordMirex/mytypist-prototype/internal/watch"
	"github.com/LordMirex/mytypist-prototype/pkg/template"
	"github.com/LordMirex/mytypist-prototype/pkg/testsupport"
)

func TestRunIngestsSettledInboxFile(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"), nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	uploadDir := t.TempDir()
	inbox := t.TempDir()
	w := watch.New(template.NewService(st, uploadDir, nil), inbox, "letter", nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	time.Sleep(300 * time.Millisecond)

	raw := testsupport.BuildDocx(t, testsupport.Para("Dear {{name}},"))
	path := filepath.Join(inbox, "Welcome Letter.docx")

	// Write in two bursts inside the settle window. The second write must
	// reset the file's timer, not queue a second ingestion.
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.Write(raw[:len(raw)/2]); err != nil {
		t.Fatal(err)
	}
	time.Sleep(100 * time.Millisecond)
	if _, err := f.Write(raw[len(raw)/2:]); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(5 * time.Second)
	var tpls []store.Template
	for {
		tpls, err = st.ListTemplates(ctx, false)
		if err != nil {
			t.Fatalf("list templates: %v", err)
		}
		if len(tpls) > 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("inbox file never ingested")
		}
		time.Sleep(50 * time.Millisecond)
	}
	if tpls[0].Name != "Welcome Letter" || tpls[0].Type != "letter" {
		t.Errorf("ingested template = %q/%q", tpls[0].Name, tpls[0].Type)
	}

	for start := time.Now(); ; {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			break
		}
		if time.Since(start) > 2*time.Second {
			t.Fatal("inbox file not consumed after ingestion")
		}
		time.Sleep(50 * time.Millisecond)
	}

	// Give any stray timer time to fire; the burst must have collapsed into
	// exactly one ingestion.
	time.Sleep(1200 * time.Millisecond)
	tpls, err = st.ListTemplates(ctx, false)
	if err != nil {
		t.Fatalf("list templates: %v", err)
	}
	if len(tpls) != 1 {
		t.Errorf("got %d templates, want 1", len(tpls))
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("run returned %v", err)
	}
}

func TestRunSurvivesBrokenInboxFile(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"), nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	inbox := t.TempDir()
	w := watch.New(template.NewService(st, t.TempDir(), nil), inbox, "letter", nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	time.Sleep(300 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(inbox, "broken.docx"), []byte("not a zip"), 0o644); err != nil {
		t.Fatal(err)
	}
	good := testsupport.BuildDocx(t, testsupport.Para("Hello {{name}}"))
	if err := os.WriteFile(filepath.Join(inbox, "good.docx"), good, 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		tpls, err := st.ListTemplates(ctx, false)
		if err != nil {
			t.Fatalf("list templates: %v", err)
		}
		if len(tpls) == 1 && tpls[0].Name == "good" {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("watcher did not ingest past the broken file: %d templates", len(tpls))
		}
		time.Sleep(50 * time.Millisecond)
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("run returned %v", err)
	}
}
