package errors

import (
	stderrs "errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func pg(code, col, constraint string) *pgconn.PgError {
	return &pgconn.PgError{
		Code:           code,
		ColumnName:     col,
		ConstraintName: constraint,
	}
}

func TestDBErrorCodeMappings(t *testing.T) {
	cases := []struct {
		code string
		want ErrorCode
	}{
		{"23505", ErrorCodeValidation},      // unique violation
		{"23502", ErrorCodeValidation},      // not null
		{"23514", ErrorCodeValidation},      // check
		{"22001", ErrorCodeInvalidArgument}, // string truncation
		{"22P02", ErrorCodeInvalidArgument}, // invalid text representation
		{"22P05", ErrorCodeInvalidArgument}, // untranslatable character
		{"42P01", ErrorCodeConfig},          // outbox table missing
		{"25006", ErrorCodeUnavailable},     // read-only
		{"57P01", ErrorCodeUnavailable},     // admin shutdown
		{"57P03", ErrorCodeUnavailable},     // cannot connect now
		{"53300", ErrorCodeUnavailable},     // too many connections
		{"40001", ErrorCodeDB},              // serialization failure
		{"XXXXX", ErrorCodeDB},              // default branch
	}
	for _, c := range cases {
		got, ok := DBErrorCode(pg(c.code, "", ""))
		if !ok {
			t.Fatalf("expected ok for PgError code %s", c.code)
		}
		if got != c.want {
			t.Fatalf("DBErrorCode(%s) = %v, want %v", c.code, got, c.want)
		}
	}

	if _, ok := DBErrorCode(stderrs.New("nope")); ok {
		t.Fatalf("DBErrorCode should return ok=false for non-pg error")
	}
}

func TestFromPostgresVariants(t *testing.T) {
	if FromPostgres(nil, "x") != nil {
		t.Fatalf("FromPostgres(nil) should be nil")
	}
	if FromPostgresf(nil, "x %d", 1) != nil {
		t.Fatalf("FromPostgresf(nil) should be nil")
	}

	err := FromPostgres(pg("42P01", "", ""), "insert event")
	if CodeOf(err) != ErrorCodeConfig {
		t.Fatalf("FromPostgres map code = %v", CodeOf(err))
	}
	if !IsUndefinedTable(err) {
		t.Fatalf("IsUndefinedTable should see through the wrap")
	}
	errf := FromPostgresf(pg("22P02", "", ""), "bad: %s", "payload")
	if CodeOf(errf) != ErrorCodeInvalidArgument {
		t.Fatalf("FromPostgresf code = %v, want %v", CodeOf(errf), ErrorCodeInvalidArgument)
	}
	if plain := FromPostgres(stderrs.New("conn reset"), "insert"); CodeOf(plain) != ErrorCodeDB {
		t.Fatalf("non-pg error should map to DB, got %v", CodeOf(plain))
	}
}

func TestIsRetryable(t *testing.T) {
	for _, code := range []string{"40001", "40P01", "55P03", "57P03"} {
		if !IsRetryable(pg(code, "", "")) {
			t.Fatalf("%s should be retryable", code)
		}
	}
	if IsRetryable(pg("23505", "", "")) {
		t.Fatalf("23505 should not be retryable")
	}
	if IsRetryable(stderrs.New("nope")) {
		t.Fatalf("non-pg error should not be retryable")
	}
	if !IsRetryable(stderrs.New("ERROR: commit unexpectedly resulted in rollback")) {
		t.Fatalf("commit rollback text should be retryable")
	}
}
