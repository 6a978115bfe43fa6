// Package engine evaluates translated documents with the Mangle Datalog
// engine: the compiled program is parsed, analyzed and evaluated to a
// fixpoint, and the derived answers of the requested query are read back
// out of the fact store.
package engine

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/mangle/analysis"
	"github.com/google/mangle/ast"
	_ "github.com/google/mangle/builtin"
	mengine "github.com/google/mangle/engine"
	"github.com/google/mangle/factstore"
	"github.com/google/mangle/parse"
	"go.uber.org/zap"

	"logicle/internal/term"
)

// Engine evaluates documents. It holds no per-document state; Eval builds
// a fresh program and store per call, so one Engine serves concurrent
// evaluations.
type Engine struct {
	log *zap.Logger
}

// New returns an engine logging onto the given logger; nil disables
// logging.
func New(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{log: logger}
}

// Result holds one query evaluation's derived answers.
type Result struct {
	Query    string
	Answers  []string // derived answer atoms, rendered
	Facts    int      // total facts in the store after evaluation
	Duration time.Duration
}

// Eval compiles the document with the named scenario and query, runs the
// program to its fixpoint, and returns the query's answers. Evaluation
// runs in a goroutine so the context can cut long fixpoints short.
func (e *Engine) Eval(ctx context.Context, doc *term.Document, scenario, query string) (*Result, error) {
	src, err := Compile(doc, scenario, query)
	if err != nil {
		return nil, err
	}

	unit, err := parse.Unit(bytes.NewReader([]byte(src)))
	if err != nil {
		return nil, fmt.Errorf("parse program: %w", err)
	}
	info, err := analysis.AnalyzeOneUnit(unit, nil)
	if err != nil {
		return nil, fmt.Errorf("analyze program: %w", err)
	}

	store := factstore.NewSimpleInMemoryStore()
	start := time.Now()

	done := make(chan error, 1)
	go func() {
		_, evalErr := mengine.EvalProgramWithStats(info, store)
		done <- evalErr
	}()
	select {
	case evalErr := <-done:
		if evalErr != nil {
			return nil, fmt.Errorf("evaluate program: %w", evalErr)
		}
	case <-ctx.Done():
		return nil, fmt.Errorf("evaluation interrupted after %v: %w", time.Since(start), ctx.Err())
	}

	res := &Result{Query: query, Duration: time.Since(start)}
	res.Facts = store.EstimateFactCount()

	if query != "" {
		target := QueryPredicate(query)
		for _, pred := range store.ListPredicates() {
			if pred.Symbol != target {
				continue
			}
			err := store.GetFacts(ast.Atom{Predicate: pred}, func(a ast.Atom) error {
				res.Answers = append(res.Answers, a.String())
				return nil
			})
			if err != nil {
				return nil, fmt.Errorf("read answers: %w", err)
			}
		}
	}

	e.log.Debug("evaluation finished",
		zap.String("query", query),
		zap.String("scenario", scenario),
		zap.Int("answers", len(res.Answers)),
		zap.Duration("duration", res.Duration))
	return res, nil
}
