// Package ingest loads records written by maint export (one JSON object per
// line) back into a store.
package ingest

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/scbrown/maint/internal/model"
	"github.com/scbrown/maint/internal/store"
)

// maxLine bounds a single JSON line. Descriptions are free text, so allow far
// more than bufio's 64KiB default.
const maxLine = 4 << 20

// LineError reports a line that could not be turned into a valid record.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }

func (e *LineError) Unwrap() error { return e.Err }

// Result summarizes an import.
type Result struct {
	Kind  model.Kind `json:"kind"`
	Added int64      `json:"added"`
}

// Records reads JSON lines of kind from r and adds them to s. Identifiers in
// the input are ignored; the store assigns new ones.
//
// Every line is decoded and validated before anything is written. If any line
// is bad, Records returns the joined *LineError values and adds nothing.
// Blank lines are skipped. When s is a store.Transactor the inserts share one
// transaction, so a store error part way through also leaves s unchanged.
func Records(ctx context.Context, s store.Store, kind model.Kind, r io.Reader) (Result, error) {
	prep, err := preparer(kind)
	if err != nil {
		return Result{}, err
	}

	var pending []insert
	var bad []error
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)
	line := 0
	for sc.Scan() {
		line++
		text := bytes.TrimSpace(sc.Bytes())
		if len(text) == 0 {
			continue
		}
		ins, err := prep(ctx, text)
		if err != nil {
			bad = append(bad, &LineError{Line: line, Err: err})
			continue
		}
		pending = append(pending, ins)
	}
	if err := sc.Err(); err != nil {
		return Result{}, fmt.Errorf("read %s records: %w", kind, err)
	}
	if len(bad) > 0 {
		return Result{}, errors.Join(bad...)
	}

	var added int64
	apply := func(s store.Store) error {
		for _, ins := range pending {
			n, err := ins(s)
			if err != nil {
				return fmt.Errorf("add %s: %w", kind, err)
			}
			added += n
		}
		return nil
	}
	if tx, ok := s.(store.Transactor); ok {
		err = tx.InTx(ctx, apply)
	} else {
		err = apply(s)
	}
	if err != nil {
		return Result{Kind: kind}, err
	}
	return Result{Kind: kind, Added: added}, nil
}

// insert adds one decoded record to a store.
type insert func(s store.Store) (int64, error)

// prepareFunc decodes and validates one line, returning its deferred insert.
type prepareFunc func(ctx context.Context, line []byte) (insert, error)

func preparer(kind model.Kind) (prepareFunc, error) {
	switch kind {
	case model.KindCustomer:
		return prepare(func(ctx context.Context, s store.Store, c model.Customer) (int64, error) { return s.AddCustomer(ctx, c) }), nil
	case model.KindContract:
		return prepare(func(ctx context.Context, s store.Store, c model.Contract) (int64, error) { return s.AddContract(ctx, c) }), nil
	case model.KindRequest:
		return prepare(func(ctx context.Context, s store.Store, r model.Request) (int64, error) { return s.AddRequest(ctx, r) }), nil
	case model.KindWork:
		return prepare(func(ctx context.Context, s store.Store, w model.Work) (int64, error) { return s.AddWork(ctx, w) }), nil
	}
	return nil, fmt.Errorf("unknown kind %q", kind)
}

type validated interface {
	Validate() error
}

func prepare[T validated](add func(context.Context, store.Store, T) (int64, error)) prepareFunc {
	return func(ctx context.Context, line []byte) (insert, error) {
		var v T
		dec := json.NewDecoder(bytes.NewReader(line))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&v); err != nil {
			return nil, err
		}
		if dec.More() {
			return nil, errors.New("more than one object on the line")
		}
		if err := v.Validate(); err != nil {
			return nil, err
		}
		return func(s store.Store) (int64, error) { return add(ctx, s, v) }, nil
	}
}
