package dal

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/evgeny-myasishchev/savings-ledger/pkg/types"
)

type queryer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

type sqlStorage struct {
	db      *sql.DB
	dialect dialect
}

// sqlTime normalizes time values so they compare the same way on every driver
func sqlTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

func (s *sqlStorage) Setup(ctx context.Context) error {
	logger.Info(ctx, "Setup SQL storage (%v)", s.dialect.name)
	_, err := s.db.ExecContext(ctx, s.dialect.schema)
	return errors.Wrap(err, "Failed to setup storage")
}

const accountColumns = `
	a.id, a.reference, a.name, a.gender, a.class_grade, a.address,
	a.guardian_name, a.contact_number, a.status, a.opening_balance_cents,
	a.created_at, a.updated_at`

func scanAccount(row rowScanner) (*AccountDTO, error) {
	var openingBalanceCents int64
	result := &AccountDTO{}
	if err := row.Scan(
		&result.ID,
		&result.Reference,
		&result.Name,
		&result.Gender,
		&result.ClassGrade,
		&result.Address,
		&result.GuardianName,
		&result.ContactNumber,
		&result.Status,
		&openingBalanceCents,
		&result.CreatedAt,
		&result.UpdatedAt,
	); err != nil {
		return nil, err
	}
	result.OpeningBalance = types.FromCents(openingBalanceCents)
	return result, nil
}

const entryColumns = `
	e.id, e.code, e.account_id, e.prev_entry_id, e.kind, e.amount_cents,
	e.balance_after_cents, e.note, e.handled_by, e.created_at,
	a.name, a.reference`

const entriesFrom = `entries e JOIN accounts a ON a.id = e.account_id`

func scanEntry(row rowScanner) (*EntryDTO, error) {
	var amountCents, balanceAfterCents int64
	result := &EntryDTO{}
	if err := row.Scan(
		&result.ID,
		&result.Code,
		&result.AccountID,
		&result.PrevEntryID,
		&result.Kind,
		&amountCents,
		&balanceAfterCents,
		&result.Note,
		&result.HandledBy,
		&result.CreatedAt,
		&result.AccountName,
		&result.AccountReference,
	); err != nil {
		return nil, err
	}
	result.Amount = types.FromCents(amountCents)
	result.BalanceAfter = types.FromCents(balanceAfterCents)
	return result, nil
}

func (s *sqlStorage) InsertAccount(ctx context.Context, account *AccountDTO) error {
	if err := s.db.QueryRowContext(ctx, `
	INSERT INTO accounts(
		reference,
		name,
		gender,
		class_grade,
		address,
		guardian_name,
		contact_number,
		status,
		opening_balance_cents,
		created_at,
		updated_at
	)
	VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	RETURNING id
	`,
		account.Reference,
		account.Name,
		account.Gender,
		account.ClassGrade,
		account.Address,
		account.GuardianName,
		account.ContactNumber,
		account.Status,
		types.ToCents(account.OpeningBalance),
		sqlTime(account.CreatedAt),
		sqlTime(account.UpdatedAt),
	).Scan(&account.ID); err != nil {
		if violatedUniqueKey(err) == accountsReferenceKey {
			return ErrDuplicateReference
		}
		return errors.Wrap(err, "Failed to insert account")
	}
	return nil
}

// UpdateAccount updates everything except the opening balance
func (s *sqlStorage) UpdateAccount(ctx context.Context, account *AccountDTO) error {
	res, err := s.db.ExecContext(ctx, `
	UPDATE accounts SET
		reference = $1,
		name = $2,
		gender = $3,
		class_grade = $4,
		address = $5,
		guardian_name = $6,
		contact_number = $7,
		status = $8,
		updated_at = $9
	WHERE id = $10
	`,
		account.Reference,
		account.Name,
		account.Gender,
		account.ClassGrade,
		account.Address,
		account.GuardianName,
		account.ContactNumber,
		account.Status,
		sqlTime(account.UpdatedAt),
		account.ID,
	)
	if err != nil {
		if violatedUniqueKey(err) == accountsReferenceKey {
			return ErrDuplicateReference
		}
		return errors.Wrap(err, "Failed to update account")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "Failed to get affected rows")
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *sqlStorage) getAccount(ctx context.Context, q queryer, id int64, lockClause string) (*AccountDTO, error) {
	row := q.QueryRowContext(ctx, `
	SELECT `+accountColumns+`
	FROM accounts a WHERE a.id = $1`+lockClause, id)
	account, err := scanAccount(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to get account %v", id)
	}
	return account, nil
}

func (s *sqlStorage) GetAccount(ctx context.Context, id int64) (*AccountDTO, error) {
	return s.getAccount(ctx, s.db, id, "")
}

func (s *sqlStorage) ListAccounts(ctx context.Context, query AccountsQuery) ([]AccountDTO, int, error) {
	where := newWhereBuilder()
	if query.Search != "" {
		pattern := likePattern(query.Search)
		where.add("(LOWER(a.name) LIKE ? OR LOWER(a.reference) LIKE ?)", pattern, pattern)
	}
	if query.Status != "" {
		where.add("a.status = ?", query.Status)
	}
	if query.ClassGrade != "" {
		where.add("a.class_grade = ?", query.ClassGrade)
	}

	var total int
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM accounts a"+where.sql(), where.args...,
	).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "Failed to count accounts")
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+accountColumns+" FROM accounts a"+where.sql()+
			" ORDER BY a.id DESC"+where.page(query.Limit, query.Offset),
		where.args...,
	)
	if err != nil {
		return nil, 0, errors.Wrap(err, "Failed to list accounts")
	}
	defer rows.Close()

	result := []AccountDTO{}
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, 0, errors.Wrap(err, "Failed to scan account")
		}
		result = append(result, *account)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.Wrap(err, "Failed to list accounts")
	}
	return result, total, nil
}

func (s *sqlStorage) ClassGrades(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT DISTINCT class_grade FROM accounts
	WHERE class_grade <> ''
	ORDER BY class_grade`)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to query class grades")
	}
	defer rows.Close()
	result := []string{}
	for rows.Next() {
		var grade string
		if err := rows.Scan(&grade); err != nil {
			return nil, errors.Wrap(err, "Failed to scan class grade")
		}
		result = append(result, grade)
	}
	return result, rows.Err()
}

func latestEntry(ctx context.Context, q queryer, accountID int64) (*EntryDTO, error) {
	row := q.QueryRowContext(ctx, `
	SELECT `+entryColumns+`
	FROM `+entriesFrom+`
	WHERE e.account_id = $1
	ORDER BY e.id DESC
	LIMIT 1`, accountID)
	entry, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to get latest entry of account %v", accountID)
	}
	return entry, nil
}

func (s *sqlStorage) LatestEntry(ctx context.Context, accountID int64) (*EntryDTO, error) {
	return latestEntry(ctx, s.db, accountID)
}

// latestEntriesBatch bounds the number of placeholders per query
const latestEntriesBatch = 500

func (s *sqlStorage) LatestEntries(ctx context.Context, accountIDs []int64) (map[int64]*EntryDTO, error) {
	result := make(map[int64]*EntryDTO, len(accountIDs))
	for start := 0; start < len(accountIDs); start += latestEntriesBatch {
		end := start + latestEntriesBatch
		if end > len(accountIDs) {
			end = len(accountIDs)
		}
		if err := s.latestEntriesOf(ctx, accountIDs[start:end], result); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (s *sqlStorage) latestEntriesOf(ctx context.Context, accountIDs []int64, result map[int64]*EntryDTO) error {
	placeholders := make([]string, len(accountIDs))
	args := make([]interface{}, len(accountIDs))
	for i, id := range accountIDs {
		placeholders[i] = "?"
		args[i] = id
	}
	where := newWhereBuilder()
	where.add("account_id IN ("+strings.Join(placeholders, ", ")+")", args...)
	rows, err := s.db.QueryContext(ctx, `
	SELECT `+entryColumns+`
	FROM `+entriesFrom+`
	WHERE e.id IN (SELECT MAX(id) FROM entries`+where.sql()+` GROUP BY account_id)`, where.args...)
	if err != nil {
		return errors.Wrap(err, "Failed to query latest entries")
	}
	defer rows.Close()
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return errors.Wrap(err, "Failed to scan entry")
		}
		result[entry.AccountID] = entry
	}
	return errors.Wrap(rows.Err(), "Failed to query latest entries")
}

func (s *sqlStorage) getEntryBy(ctx context.Context, column string, value interface{}) (*EntryDTO, error) {
	row := s.db.QueryRowContext(ctx, `
	SELECT `+entryColumns+`
	FROM `+entriesFrom+`
	WHERE e.`+column+` = $1`, value)
	entry, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to get entry by %v", column)
	}
	return entry, nil
}

func (s *sqlStorage) GetEntry(ctx context.Context, id int64) (*EntryDTO, error) {
	return s.getEntryBy(ctx, "id", id)
}

func (s *sqlStorage) GetEntryByCode(ctx context.Context, code string) (*EntryDTO, error) {
	return s.getEntryBy(ctx, "code", code)
}

func entriesWhere(where *whereBuilder, query EntriesQuery) *whereBuilder {
	if query.AccountID != 0 {
		where.add("e.account_id = ?", query.AccountID)
	}
	if query.Kind != "" {
		where.add("e.kind = ?", query.Kind)
	}
	if query.From != nil {
		where.add("e.created_at >= ?", sqlTime(*query.From))
	}
	if query.To != nil {
		where.add("e.created_at < ?", sqlTime(*query.To))
	}
	if query.Search != "" {
		pattern := likePattern(query.Search)
		where.add(
			"(LOWER(e.code) LIKE ? OR LOWER(e.note) LIKE ? OR LOWER(a.name) LIKE ? OR LOWER(a.reference) LIKE ?)",
			pattern, pattern, pattern, pattern,
		)
	}
	return where
}

func (s *sqlStorage) ListEntries(ctx context.Context, query EntriesQuery) ([]EntryDTO, int, error) {
	where := entriesWhere(newWhereBuilder(), query)

	var total int
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM "+entriesFrom+where.sql(), where.args...,
	).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "Failed to count entries")
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+entryColumns+" FROM "+entriesFrom+where.sql()+
			" ORDER BY e.id DESC"+where.page(query.Limit, query.Offset),
		where.args...,
	)
	if err != nil {
		return nil, 0, errors.Wrap(err, "Failed to list entries")
	}
	defer rows.Close()

	result := []EntryDTO{}
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, 0, errors.Wrap(err, "Failed to scan entry")
		}
		result = append(result, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.Wrap(err, "Failed to list entries")
	}
	return result, total, nil
}

func (s *sqlStorage) SumEntries(ctx context.Context, query EntriesQuery) (*EntryTotalsDTO, error) {
	where := entriesWhere(newWhereBuilder("Deposit", "Withdrawal"), query)
	var depositsCents, withdrawalsCents int64
	result := &EntryTotalsDTO{}
	if err := s.db.QueryRowContext(ctx, `
	SELECT
		COALESCE(SUM(CASE WHEN e.kind = $1 THEN e.amount_cents ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN e.kind = $2 THEN e.amount_cents ELSE 0 END), 0),
		COUNT(*)
	FROM `+entriesFrom+where.sql(), where.args...,
	).Scan(&depositsCents, &withdrawalsCents, &result.Count); err != nil {
		return nil, errors.Wrap(err, "Failed to sum entries")
	}
	result.Deposits = types.FromCents(depositsCents)
	result.Withdrawals = types.FromCents(withdrawalsCents)
	return result, nil
}

func (s *sqlStorage) WithinAccount(ctx context.Context, accountID int64, fn func(tx AccountTx) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "Failed to begin transaction")
	}
	defer func() {
		if err == nil {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			logger.WithError(rbErr).Warn(ctx, "Failed to rollback transaction")
		}
	}()

	account, err := s.getAccount(ctx, tx, accountID, s.dialect.lockClause)
	if err != nil {
		return err
	}
	if err = fn(&sqlAccountTx{tx: tx, account: account}); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "Failed to commit transaction")
	}
	return nil
}

type sqlAccountTx struct {
	tx      *sql.Tx
	account *AccountDTO
}

func (t *sqlAccountTx) Account() *AccountDTO {
	return t.account
}

func (t *sqlAccountTx) LatestEntry(ctx context.Context) (*EntryDTO, error) {
	return latestEntry(ctx, t.tx, t.account.ID)
}

func (t *sqlAccountTx) HasEntries(ctx context.Context) (bool, error) {
	var count int
	if err := t.tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM entries WHERE account_id = $1", t.account.ID,
	).Scan(&count); err != nil {
		return false, errors.Wrap(err, "Failed to count entries")
	}
	return count > 0, nil
}

func (t *sqlAccountTx) CodeExists(ctx context.Context, code string) (bool, error) {
	var count int
	if err := t.tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM entries WHERE code = $1", code,
	).Scan(&count); err != nil {
		return false, errors.Wrap(err, "Failed to check entry code")
	}
	return count > 0, nil
}

func (t *sqlAccountTx) InsertEntry(ctx context.Context, entry *EntryDTO) error {
	if entry.AccountID != t.account.ID {
		return errors.Errorf("Entry of account %v can not be inserted within account %v", entry.AccountID, t.account.ID)
	}
	if err := t.tx.QueryRowContext(ctx, `
	INSERT INTO entries(
		code,
		account_id,
		prev_entry_id,
		kind,
		amount_cents,
		balance_after_cents,
		note,
		handled_by,
		created_at
	)
	VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9)
	RETURNING id
	`,
		entry.Code,
		entry.AccountID,
		entry.PrevEntryID,
		entry.Kind,
		types.ToCents(entry.Amount),
		types.ToCents(entry.BalanceAfter),
		entry.Note,
		entry.HandledBy,
		sqlTime(entry.CreatedAt),
	).Scan(&entry.ID); err != nil {
		switch violatedUniqueKey(err) {
		case entriesAccountPrevKey:
			return ErrConcurrentUpdate
		case entriesCodeKey:
			return ErrDuplicateCode
		}
		return errors.Wrap(err, "Failed to insert entry")
	}
	entry.AccountName = t.account.Name
	entry.AccountReference = t.account.Reference
	return nil
}

func (t *sqlAccountTx) DeleteEntry(ctx context.Context, id int64) error {
	res, err := t.tx.ExecContext(ctx,
		"DELETE FROM entries WHERE id = $1 AND account_id = $2", id, t.account.ID)
	if err != nil {
		return errors.Wrapf(err, "Failed to delete entry %v", id)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "Failed to get affected rows")
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (t *sqlAccountTx) DeleteAccount(ctx context.Context) error {
	if _, err := t.tx.ExecContext(ctx,
		"DELETE FROM accounts WHERE id = $1", t.account.ID); err != nil {
		return errors.Wrapf(err, "Failed to delete account %v", t.account.ID)
	}
	return nil
}

// whereBuilder collects filter clauses. Placeholders are numbered in the
// order of appearance
type whereBuilder struct {
	clauses []string
	args    []interface{}
}

func newWhereBuilder(leadingArgs ...interface{}) *whereBuilder {
	return &whereBuilder{args: leadingArgs}
}

// add appends a clause replacing each ? with the next positional placeholder
func (w *whereBuilder) add(clause string, args ...interface{}) {
	var sb strings.Builder
	argIndex := len(w.args)
	for _, ch := range clause {
		if ch == '?' {
			argIndex++
			fmt.Fprintf(&sb, "$%d", argIndex)
			continue
		}
		sb.WriteRune(ch)
	}
	w.clauses = append(w.clauses, sb.String())
	w.args = append(w.args, args...)
}

func (w *whereBuilder) sql() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

func (w *whereBuilder) page(limit int, offset int) string {
	if limit <= 0 {
		return ""
	}
	return fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)
}

func likePattern(search string) string {
	return "%" + strings.ToLower(strings.TrimSpace(search)) + "%"
}

// SQLStorageOpt is an option of SQL storage
type SQLStorageOpt func(s *sqlStorage)

// WithSQLDb will set an explicit db instance for a storage
func WithSQLDb(db *sql.DB) SQLStorageOpt {
	return func(s *sqlStorage) {
		s.db = db
	}
}

// WithDriver will pick the SQL dialect for a given driver name
func WithDriver(driver string) SQLStorageOpt {
	return func(s *sqlStorage) {
		s.dialect = dialect{name: driver}
	}
}

// NewSQLStorage returns an instance of an sql storage
func NewSQLStorage(opts ...SQLStorageOpt) (Storage, error) {
	storage := &sqlStorage{dialect: sqlite3Dialect}
	for _, opt := range opts {
		opt(storage)
	}
	d, ok := dialects[storage.dialect.name]
	if !ok {
		return nil, errors.Errorf("Unsupported storage driver: %v", storage.dialect.name)
	}
	storage.dialect = d
	if storage.db == nil {
		return nil, errors.New("SQL db is not provided")
	}
	return storage, nil
}
