package infra_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"bloodlink/internal/infra"
	"bloodlink/internal/infra/infratest"
)

const markedCount = `--sql 570232a4-6ab2-44b5-9034-3938b3aca69c
select count(*) from public.blood;
`

func TestSQLRunnerStripsMarkerBeforeExecuting(t *testing.T) {
	fake := infratest.NewFakeSQL().On("select count(*) from public.blood;", []any{int64(3)})
	runner := infra.NewSQLRunner(fake, infra.NopLogger())

	var count int64
	if err := runner.QueryRow(context.Background(), markedCount).Scan(&count); err != nil {
		t.Fatalf("QueryRow().Scan() error: %v", err)
	}
	if count != 3 {
		t.Fatalf("count = %d, want 3", count)
	}
	calls := fake.Calls()
	if len(calls) != 1 || strings.HasPrefix(calls[0].Query, "--sql") {
		t.Fatalf("expected marker to be stripped, got %#v", calls)
	}
}

func TestSQLRunnerRejectsUnmarkedQueries(t *testing.T) {
	fake := infratest.NewFakeSQL()
	runner := infra.NewSQLRunner(fake, infra.NopLogger())

	if _, err := runner.Query(context.Background(), "select 1"); !errors.Is(err, infra.ErrMissingMarker) {
		t.Fatalf("Query() error = %v, want ErrMissingMarker", err)
	}
	if _, err := runner.Exec(context.Background(), "--sql not-a-uuid\nselect 1"); !errors.Is(err, infra.ErrMissingMarker) {
		t.Fatalf("Exec() error = %v, want ErrMissingMarker", err)
	}
	if err := runner.QueryRow(context.Background(), "").Scan(); err == nil {
		t.Fatalf("QueryRow() on empty query should fail")
	}
	if len(fake.Calls()) != 0 {
		t.Fatalf("unmarked statements must not reach the database")
	}
}

func TestSQLRunnerQueryIteratesRows(t *testing.T) {
	fake := infratest.NewFakeSQL().On("select count(*) from public.blood;", []any{int64(1)}, []any{int64(2)})
	runner := infra.NewSQLRunner(fake, infra.NopLogger())

	rows, err := runner.Query(context.Background(), markedCount)
	if err != nil {
		t.Fatalf("Query() error: %v", err)
	}
	defer rows.Close()
	var sum int64
	for rows.Next() {
		var v int64
		if err := rows.Scan(&v); err != nil {
			t.Fatalf("Scan() error: %v", err)
		}
		sum += v
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("rows.Err() = %v", err)
	}
	if sum != 3 {
		t.Fatalf("sum = %d, want 3", sum)
	}
}
