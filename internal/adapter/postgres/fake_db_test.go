package postgres

import (
	"context"
	"reflect"
	"strings"

	"github.com/jackc/pgx/v5"
)

type call struct {
	sql  string
	args []any
}

type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		if i >= len(r.values) || r.values[i] == nil {
			continue
		}
		reflect.ValueOf(d).Elem().Set(reflect.ValueOf(r.values[i]))
	}
	return nil
}

type fakeRows struct {
	rows []fakeRow
	pos  int
}

func (r *fakeRows) Next() bool {
	r.pos++
	return r.pos <= len(r.rows)
}

func (r *fakeRows) Scan(dest ...any) error { return r.rows[r.pos-1].Scan(dest...) }
func (r *fakeRows) Err() error             { return nil }
func (r *fakeRows) Close()                 {}

type fakeTag int64

func (t fakeTag) RowsAffected() int64 { return int64(t) }

// fakeDB answers statements by the first registered SQL fragment they contain
type fakeDB struct {
	rows      map[string]fakeRow
	queries   map[string][]fakeRow
	affected  map[string]int64
	execErr   error
	calls     []call
	committed bool
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		rows:     map[string]fakeRow{},
		queries:  map[string][]fakeRow{},
		affected: map[string]int64{},
	}
}

func (db *fakeDB) match(sql string, table map[string]fakeRow) (fakeRow, bool) {
	for fragment, row := range table {
		if strings.Contains(sql, fragment) {
			return row, true
		}
	}
	return fakeRow{}, false
}

func (db *fakeDB) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	db.calls = append(db.calls, call{sql, args})
	for fragment, rows := range db.queries {
		if strings.Contains(sql, fragment) {
			return &fakeRows{rows: rows}, nil
		}
	}
	return &fakeRows{}, nil
}

func (db *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) Row {
	db.calls = append(db.calls, call{sql, args})
	if row, ok := db.match(sql, db.rows); ok {
		return row
	}
	return fakeRow{err: pgx.ErrNoRows}
}

func (db *fakeDB) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	db.calls = append(db.calls, call{sql, args})
	if db.execErr != nil {
		return nil, db.execErr
	}
	for fragment, n := range db.affected {
		if strings.Contains(sql, fragment) {
			return fakeTag(n), nil
		}
	}
	return fakeTag(1), nil
}

func (db *fakeDB) Begin(ctx context.Context) (Tx, error) { return &fakeTx{db: db}, nil }
func (db *fakeDB) Close()                                {}

func (db *fakeDB) callsMatching(fragment string) []call {
	var out []call
	for _, c := range db.calls {
		if strings.Contains(c.sql, fragment) {
			out = append(out, c)
		}
	}
	return out
}

type fakeTx struct {
	db *fakeDB
}

func (t *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) Row {
	return t.db.QueryRow(ctx, sql, args...)
}

func (t *fakeTx) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	return t.db.Exec(ctx, sql, args...)
}

func (t *fakeTx) Commit(ctx context.Context) error {
	t.db.committed = true
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error { return nil }
