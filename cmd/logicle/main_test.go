package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"logicle/internal/config"
	"logicle/internal/store"
)

const drinkerDoc = `the target is prolog.

the templates are:
a * person * drinks,
a * person * is a drinker.

the knowledge base habits includes:
a person is a drinker
if the person drinks.

scenario one is:
alice drinks.

query one is:
for which person:
 the person is a drinker.
`

func testCommand() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	return cmd
}

func writeDoc(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.le")
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatalf("write doc: %v", err)
	}
	return path
}

func TestRunTranslatePrintsListing(t *testing.T) {
	logger = zap.NewNop()
	cfg = config.DefaultConfig()
	saveDict = false

	path := writeDoc(t, drinkerDoc)
	output := captureOutput(t, func() {
		if err := runTranslate(testCommand(), []string{path}); err != nil {
			t.Fatalf("runTranslate returned error: %v", err)
		}
	})

	if !strings.Contains(output, "kbname(habits)") {
		t.Fatalf("expected kb marker in output, got: %s", output)
	}
	if !strings.Contains(output, "is_a_drinker(Person)") {
		t.Fatalf("expected translated head in output, got: %s", output)
	}
}

func TestRunTranslateSavesDictionary(t *testing.T) {
	logger = zap.NewNop()
	cfg = config.DefaultConfig()
	cfg.Store.Path = filepath.Join(t.TempDir(), "dicts.db")
	saveDict = true
	defer func() { saveDict = false }()

	path := writeDoc(t, drinkerDoc)
	captureOutput(t, func() {
		if err := runTranslate(testCommand(), []string{path}); err != nil {
			t.Fatalf("runTranslate returned error: %v", err)
		}
	})

	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer st.Close()
	dict, lang, err := st.LoadDictionary(context.Background(), path)
	if err != nil {
		t.Fatalf("load dictionary: %v", err)
	}
	if string(lang) != "en" {
		t.Fatalf("expected English dictionary, got %q", lang)
	}
	if len(dict.Entries()) == 0 {
		t.Fatal("expected persisted dictionary entries")
	}
}

func TestRunTranslateReportsDiagnostics(t *testing.T) {
	logger = zap.NewNop()
	cfg = config.DefaultConfig()
	saveDict = false

	path := writeDoc(t, "this document introduces nothing.\n")
	var err error
	captureOutput(t, func() {
		err = runTranslate(testCommand(), []string{path})
	})
	if err == nil {
		t.Fatal("expected a translation error")
	}
}

func TestRunEvalDerivesAnswers(t *testing.T) {
	logger = zap.NewNop()
	cfg = config.DefaultConfig()
	scenarioName = "one"
	queryName = "one"

	path := writeDoc(t, drinkerDoc)
	output := captureOutput(t, func() {
		if err := runEval(testCommand(), []string{path}); err != nil {
			t.Fatalf("runEval returned error: %v", err)
		}
	})
	if !strings.Contains(output, "alice") {
		t.Fatalf("expected alice in the answers, got: %s", output)
	}
}

func captureOutput(t *testing.T, fn func()) string {
	t.Helper()

	origOut := os.Stdout
	origErr := os.Stderr
	rOut, wOut, _ := os.Pipe()
	rErr, wErr, _ := os.Pipe()
	os.Stdout = wOut
	os.Stderr = wErr

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, rOut)
		_, _ = io.Copy(&buf, rErr)
		done <- buf.String()
	}()

	fn()

	_ = wOut.Close()
	_ = wErr.Close()
	os.Stdout = origOut
	os.Stderr = origErr
	return <-done
}
