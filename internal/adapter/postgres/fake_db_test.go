package postgres

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
)

// fakeDB understands just the statements the stores and Migrate issue.
type fakeDB struct {
	records map[string][]byte
	applied []string
	execErr error
	closed  bool
	execs   []string
}

func newFakeDB() *fakeDB {
	return &fakeDB{records: make(map[string][]byte)}
}

type fakeTag int64

func (t fakeTag) RowsAffected() int64 { return int64(t) }

type fakeRow struct {
	value []byte
	err   error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*dest[0].(*[]byte) = append([]byte(nil), r.value...)
	return nil
}

type fakeRows struct {
	names []string
	pos   int
}

func (r *fakeRows) Next() bool {
	r.pos++
	return r.pos <= len(r.names)
}

func (r *fakeRows) Scan(dest ...any) error {
	*dest[0].(*string) = r.names[r.pos-1]
	return nil
}

func (r *fakeRows) Close() {}

func (f *fakeDB) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	return &fakeRows{names: append([]string(nil), f.applied...)}, nil
}

func (f *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) Row {
	v, ok := f.records[args[0].(string)]
	if !ok {
		return fakeRow{err: pgx.ErrNoRows}
	}
	return fakeRow{value: v}
}

func (f *fakeDB) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	if f.execErr != nil {
		return nil, f.execErr
	}
	f.execs = append(f.execs, strings.TrimSpace(sql))
	switch {
	case strings.Contains(sql, "INSERT INTO kv_records"):
		f.records[args[0].(string)] = append([]byte(nil), args[1].([]byte)...)
	case strings.Contains(sql, "INSERT INTO schema_migrations"):
		f.applied = append(f.applied, args[0].(string))
	}
	return fakeTag(1), nil
}

func (f *fakeDB) Begin(ctx context.Context) (Tx, error) {
	return &fakeTx{db: f}, nil
}

func (f *fakeDB) Close() { f.closed = true }

type fakeTx struct {
	db *fakeDB
}

func (t *fakeTx) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	return t.db.Exec(ctx, sql, args...)
}

func (t *fakeTx) Commit(ctx context.Context) error   { return nil }
func (t *fakeTx) Rollback(ctx context.Context) error { return nil }
