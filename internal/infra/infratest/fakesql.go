// Package infratest provides an in-memory infra.SQLExecutor for tests. Rows
// are plain value slices keyed by the exact query text.
package infratest

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Result is the canned outcome of one query.
type Result struct {
	Rows [][]any
	Err  error
}

// Call records one statement issued against the fake.
type Call struct {
	Query string
	Args  []any
}

// FakeSQL is safe for concurrent use.
type FakeSQL struct {
	mu      sync.Mutex
	results map[string]Result
	calls   []Call
}

func NewFakeSQL() *FakeSQL {
	return &FakeSQL{results: map[string]Result{}}
}

// On registers the rows returned for query.
func (f *FakeSQL) On(query string, rows ...[]any) *FakeSQL {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results[query] = Result{Rows: rows}
	return f
}

// Fail makes query return err.
func (f *FakeSQL) Fail(query string, err error) *FakeSQL {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results[query] = Result{Err: err}
	return f
}

// Calls returns a copy of the recorded statements.
func (f *FakeSQL) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallsFor returns the recorded calls for one query.
func (f *FakeSQL) CallsFor(query string) []Call {
	var out []Call
	for _, c := range f.Calls() {
		if c.Query == query {
			out = append(out, c)
		}
	}
	return out
}

func (f *FakeSQL) lookup(query string, args []any) (Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Query: query, Args: args})
	res, ok := f.results[query]
	if !ok {
		return Result{}, fmt.Errorf("unexpected query: %s", query)
	}
	return res, nil
}

func (f *FakeSQL) Exec(_ context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	res, err := f.lookup(query, args)
	if err != nil {
		return pgconn.CommandTag{}, err
	}
	return pgconn.NewCommandTag("OK"), res.Err
}

func (f *FakeSQL) QueryRow(_ context.Context, query string, args ...any) pgx.Row {
	res, err := f.lookup(query, args)
	if err != nil {
		return row{err: err}
	}
	if res.Err != nil {
		return row{err: res.Err}
	}
	if len(res.Rows) == 0 {
		return row{err: pgx.ErrNoRows}
	}
	return row{values: res.Rows[0]}
}

func (f *FakeSQL) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	res, err := f.lookup(query, args)
	if err != nil {
		return nil, err
	}
	if res.Err != nil {
		return nil, res.Err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Rows{rows: res.Rows}, nil
}

type row struct {
	values []any
	err    error
}

func (r row) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return scanInto(r.values, dest)
}

// Rows iterates canned values and implements pgx.Rows.
type Rows struct {
	rows   [][]any
	idx    int
	closed bool
	err    error
}

func (r *Rows) Next() bool {
	if r.closed || r.idx >= len(r.rows) {
		return false
	}
	r.idx++
	return true
}

func (r *Rows) Scan(dest ...any) error {
	if r.idx == 0 || r.idx > len(r.rows) {
		return pgx.ErrNoRows
	}
	if err := scanInto(r.rows[r.idx-1], dest); err != nil {
		r.err = err
		return err
	}
	return nil
}

func (r *Rows) Values() ([]any, error) {
	if r.idx == 0 || r.idx > len(r.rows) {
		return nil, pgx.ErrNoRows
	}
	return r.rows[r.idx-1], nil
}

func (r *Rows) Close()                                       { r.closed = true }
func (r *Rows) Err() error                                   { return r.err }
func (r *Rows) CommandTag() pgconn.CommandTag                { return pgconn.NewCommandTag("SELECT") }
func (r *Rows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *Rows) RawValues() [][]byte                          { return nil }
func (r *Rows) Conn() *pgx.Conn                              { return nil }

func scanInto(values []any, dest []any) error {
	if len(values) != len(dest) {
		return fmt.Errorf("scan: %d values into %d destinations", len(values), len(dest))
	}
	for i := range dest {
		if err := assign(dest[i], values[i]); err != nil {
			return fmt.Errorf("scan column %d: %w", i, err)
		}
	}
	return nil
}

func assign(dest, v any) error {
	dv := reflect.ValueOf(dest)
	if dv.Kind() != reflect.Pointer || dv.IsNil() {
		return fmt.Errorf("destination %T is not a non-nil pointer", dest)
	}
	target := dv.Elem()
	if v == nil {
		target.Set(reflect.Zero(target.Type()))
		return nil
	}
	val := reflect.ValueOf(v)
	if val.Type().AssignableTo(target.Type()) {
		target.Set(val)
		return nil
	}
	if target.Kind() == reflect.Pointer && val.Type().AssignableTo(target.Type().Elem()) {
		p := reflect.New(target.Type().Elem())
		p.Elem().Set(val)
		target.Set(p)
		return nil
	}
	if sameFamily(val.Kind(), target.Kind()) && val.Type().ConvertibleTo(target.Type()) {
		target.Set(val.Convert(target.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", v, target.Type())
}

func sameFamily(a, b reflect.Kind) bool {
	family := func(k reflect.Kind) int {
		switch k {
		case reflect.String:
			return 1
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return 2
		case reflect.Float32, reflect.Float64:
			return 3
		case reflect.Bool:
			return 4
		}
		return 0
	}
	fa := family(a)
	return fa != 0 && fa == family(b)
}

var _ pgx.Rows = (*Rows)(nil)
