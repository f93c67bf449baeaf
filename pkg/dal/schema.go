package dal

import (
	"strings"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

const (
	accountsReferenceKey  = "accounts_reference_key"
	entriesCodeKey        = "entries_code_key"
	entriesAccountPrevKey = "entries_account_prev_key"
)

type dialect struct {
	name       string
	schema     string
	lockClause string

	// sqlite reports violated columns instead of constraint names
	uniqueColumns map[string]string
}

var sqlite3Dialect = dialect{
	name: "sqlite3",
	schema: `
CREATE TABLE IF NOT EXISTS accounts(
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	reference VARCHAR(20) NOT NULL UNIQUE,
	name VARCHAR(255) NOT NULL,
	gender VARCHAR(10) NOT NULL,
	class_grade VARCHAR(10) NOT NULL,
	address TEXT NOT NULL,
	guardian_name VARCHAR(255) NOT NULL,
	contact_number VARCHAR(20) NOT NULL,
	status VARCHAR(10) NOT NULL,
	opening_balance_cents BIGINT NOT NULL,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS entries(
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	code VARCHAR(32) NOT NULL UNIQUE,
	account_id INTEGER NOT NULL REFERENCES accounts(id),
	prev_entry_id INTEGER NOT NULL,
	kind VARCHAR(10) NOT NULL,
	amount_cents BIGINT NOT NULL,
	balance_after_cents BIGINT NOT NULL,
	note TEXT NOT NULL,
	handled_by INTEGER NOT NULL,
	created_at TIMESTAMP NOT NULL,
	UNIQUE(account_id, prev_entry_id)
);
CREATE INDEX IF NOT EXISTS entries_account_id_idx ON entries(account_id, id);
CREATE INDEX IF NOT EXISTS entries_created_at_idx ON entries(created_at);
`,
	uniqueColumns: map[string]string{
		"accounts.reference":                        accountsReferenceKey,
		"entries.code":                              entriesCodeKey,
		"entries.account_id, entries.prev_entry_id": entriesAccountPrevKey,
	},
}

var postgresDialect = dialect{
	name: "postgres",
	schema: `
CREATE TABLE IF NOT EXISTS accounts(
	id BIGSERIAL PRIMARY KEY,
	reference VARCHAR(20) NOT NULL CONSTRAINT ` + accountsReferenceKey + ` UNIQUE,
	name VARCHAR(255) NOT NULL,
	gender VARCHAR(10) NOT NULL,
	class_grade VARCHAR(10) NOT NULL,
	address TEXT NOT NULL,
	guardian_name VARCHAR(255) NOT NULL,
	contact_number VARCHAR(20) NOT NULL,
	status VARCHAR(10) NOT NULL,
	opening_balance_cents BIGINT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS entries(
	id BIGSERIAL PRIMARY KEY,
	code VARCHAR(32) NOT NULL CONSTRAINT ` + entriesCodeKey + ` UNIQUE,
	account_id BIGINT NOT NULL REFERENCES accounts(id),
	prev_entry_id BIGINT NOT NULL,
	kind VARCHAR(10) NOT NULL,
	amount_cents BIGINT NOT NULL,
	balance_after_cents BIGINT NOT NULL,
	note TEXT NOT NULL,
	handled_by BIGINT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	CONSTRAINT ` + entriesAccountPrevKey + ` UNIQUE(account_id, prev_entry_id)
);
CREATE INDEX IF NOT EXISTS entries_account_id_idx ON entries(account_id, id);
CREATE INDEX IF NOT EXISTS entries_created_at_idx ON entries(created_at);
`,
	lockClause: " FOR UPDATE",
}

var dialects = map[string]dialect{
	sqlite3Dialect.name:  sqlite3Dialect,
	postgresDialect.name: postgresDialect,
}

// violatedUniqueKey returns a name of a unique key the error is about
// or empty string if it's not a unique violation
func violatedUniqueKey(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code == "23505" {
			return pqErr.Constraint
		}
		return ""
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) && liteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		msg := liteErr.Error()
		for columns, key := range sqlite3Dialect.uniqueColumns {
			if strings.HasSuffix(msg, "failed: "+columns) {
				return key
			}
		}
	}
	return ""
}
