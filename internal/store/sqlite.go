package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"fjacquet/sms-ledger/internal/dateutils"
	"fjacquet/sms-ledger/internal/logging"
	"fjacquet/sms-ledger/internal/models"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

// SQLiteStore is the Store backed by a SQLite database file.
type SQLiteStore struct {
	db     *sql.DB
	path   string
	logger logging.Logger
}

// Open migrates and opens the SQLite database at path, creating parent
// directories as needed.
func Open(path string, logger logging.Logger) (*SQLiteStore, error) {
	logger = logging.OrDefault(logger)

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, models.PermissionDirectory); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	if err := RunMigrations(path); err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping store %s: %w", path, err)
	}

	logger.Debug("Opened store", logging.F(logging.FieldFile, path))
	return &SQLiteStore{db: db, path: path, logger: logger}, nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string { return s.path }

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// InsertIfAbsent implements Store.
func (s *SQLiteStore) InsertIfAbsent(ctx context.Context, tx models.ParsedTransaction) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
	INSERT OR IGNORE INTO transactions(
	 sms_id, amount, is_debit, raw_merchant, normalized_merchant, display_merchant, bank_name,
	 category_name, category_color, confidence, sms_body, transaction_date, is_excluded_from_expense_tracking)
	VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		tx.ExternalID, tx.Amount.String(), tx.IsDebit, tx.RawMerchant, tx.NormalizedMerchant,
		tx.DisplayMerchant, tx.BankName, tx.Category, tx.CategoryColor, tx.Confidence,
		tx.SourceText, dateutils.ToMillis(tx.Timestamp), tx.ExcludedFromExpenses)
	if err != nil {
		return false, fmt.Errorf("insert transaction %s: %w", tx.ExternalID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert transaction %s: %w", tx.ExternalID, err)
	}
	return n > 0, nil
}

// ListTransactions implements Store. A non-positive limit returns every row.
func (s *SQLiteStore) ListTransactions(ctx context.Context, limit int) ([]models.ParsedTransaction, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
	SELECT sms_id, amount, is_debit, raw_merchant, normalized_merchant, display_merchant, bank_name,
	 category_name, category_color, confidence, sms_body, transaction_date, is_excluded_from_expense_tracking
	FROM transactions
	ORDER BY transaction_date DESC, sms_id DESC
	LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []models.ParsedTransaction
	for rows.Next() {
		var (
			tx     models.ParsedTransaction
			amount string
			millis int64
		)
		if err := rows.Scan(&tx.ExternalID, &amount, &tx.IsDebit, &tx.RawMerchant, &tx.NormalizedMerchant,
			&tx.DisplayMerchant, &tx.BankName, &tx.Category, &tx.CategoryColor, &tx.Confidence,
			&tx.SourceText, &millis, &tx.ExcludedFromExpenses); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		tx.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("transaction %s has invalid amount %q: %w", tx.ExternalID, amount, err)
		}
		tx.Timestamp = dateutils.FromMillis(millis)
		out = append(out, tx)
	}
	return out, rows.Err()
}

// CountTransactions implements Store.
func (s *SQLiteStore) CountTransactions(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return n, nil
}

// GetCursor implements Store. A database without a cursor row yields the initial cursor.
func (s *SQLiteStore) GetCursor(ctx context.Context) (models.SyncCursor, error) {
	var (
		lastTS, lastFull int64
		lastID           sql.NullString
		total            int
		status           string
	)
	err := s.db.QueryRowContext(ctx, `
	SELECT last_sms_sync_timestamp, last_sms_id, total_transactions, last_full_sync, sync_status
	FROM sync_state WHERE id = 1
	`).Scan(&lastTS, &lastID, &total, &lastFull, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return models.InitialCursor(), nil
	}
	if err != nil {
		return models.SyncCursor{}, fmt.Errorf("read sync cursor: %w", err)
	}

	cursor := models.SyncCursor{
		LastTimestamp:  dateutils.FromMillis(lastTS),
		LastExternalID: lastID.String,
		TotalProcessed: total,
		LastFullSync:   dateutils.FromMillis(lastFull),
		Status:         models.SyncStatus(status),
	}
	if !cursor.Status.Valid() {
		return models.SyncCursor{}, fmt.Errorf("sync cursor has unknown status %q", status)
	}
	return cursor, nil
}

// SetCursor implements Store.
func (s *SQLiteStore) SetCursor(ctx context.Context, cursor models.SyncCursor) error {
	if !cursor.Status.Valid() {
		return fmt.Errorf("refusing to store sync cursor with unknown status %q", cursor.Status)
	}

	var lastID sql.NullString
	if cursor.LastExternalID != "" {
		lastID = sql.NullString{String: cursor.LastExternalID, Valid: true}
	}
	_, err := s.db.ExecContext(ctx, `
	INSERT OR REPLACE INTO sync_state(id, last_sms_sync_timestamp, last_sms_id, total_transactions, last_full_sync, sync_status)
	VALUES(1, ?, ?, ?, ?, ?)
	`, dateutils.ToMillis(cursor.LastTimestamp), lastID, cursor.TotalProcessed,
		dateutils.ToMillis(cursor.LastFullSync), string(cursor.Status))
	if err != nil {
		return fmt.Errorf("write sync cursor: %w", err)
	}
	return nil
}

// FindAliasesMatching implements Store.
func (s *SQLiteStore) FindAliasesMatching(ctx context.Context, canonical string) ([]models.MerchantAlias, error) {
	return s.queryAliases(ctx, `
	SELECT alias_pattern, canonical_merchant, category_name, confidence, is_user_defined, is_excluded_from_expense_tracking
	FROM merchant_aliases
	WHERE alias_pattern <> '' AND instr(?, alias_pattern) > 0
	ORDER BY confidence DESC, length(alias_pattern) DESC, alias_pattern
	`, canonical)
}

// ListAliases implements Store.
func (s *SQLiteStore) ListAliases(ctx context.Context) ([]models.MerchantAlias, error) {
	return s.queryAliases(ctx, `
	SELECT alias_pattern, canonical_merchant, category_name, confidence, is_user_defined, is_excluded_from_expense_tracking
	FROM merchant_aliases
	ORDER BY confidence DESC, length(alias_pattern) DESC, alias_pattern
	`)
}

func (s *SQLiteStore) queryAliases(ctx context.Context, query string, args ...interface{}) ([]models.MerchantAlias, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query aliases: %w", err)
	}
	defer rows.Close()

	var out []models.MerchantAlias
	for rows.Next() {
		var a models.MerchantAlias
		if err := rows.Scan(&a.Pattern, &a.CanonicalMerchant, &a.Category, &a.Confidence, &a.UserDefined, &a.ExcludeFromExpenses); err != nil {
			return nil, fmt.Errorf("scan alias: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// AddAlias implements Store.
func (s *SQLiteStore) AddAlias(ctx context.Context, alias models.MerchantAlias) error {
	_, err := s.db.ExecContext(ctx, `
	INSERT INTO merchant_aliases(alias_pattern, canonical_merchant, category_name, confidence, is_user_defined, is_excluded_from_expense_tracking)
	VALUES(?, ?, ?, ?, ?, ?)
	ON CONFLICT(alias_pattern) DO UPDATE SET
	 canonical_merchant = excluded.canonical_merchant,
	 category_name = excluded.category_name,
	 confidence = excluded.confidence,
	 is_user_defined = excluded.is_user_defined,
	 is_excluded_from_expense_tracking = excluded.is_excluded_from_expense_tracking,
	 updated_at = CURRENT_TIMESTAMP
	`, alias.Pattern, alias.CanonicalMerchant, alias.Category, alias.Confidence, alias.UserDefined, alias.ExcludeFromExpenses)
	if err != nil {
		return fmt.Errorf("save alias %q: %w", alias.Pattern, err)
	}
	return nil
}

// SeedAliases implements Store.
func (s *SQLiteStore) SeedAliases(ctx context.Context, aliases []models.MerchantAlias) (int, error) {
	inserted := 0
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		for _, a := range aliases {
			res, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO merchant_aliases(alias_pattern, canonical_merchant, category_name, confidence, is_user_defined, is_excluded_from_expense_tracking)
			VALUES(?, ?, ?, ?, ?, ?)
			`, a.Pattern, a.CanonicalMerchant, a.Category, a.Confidence, a.UserDefined, a.ExcludeFromExpenses)
			if err != nil {
				return fmt.Errorf("seed alias %q: %w", a.Pattern, err)
			}
			n, _ := res.RowsAffected()
			inserted += int(n)
		}
		return nil
	})
	return inserted, err
}

// GetCategoryByName implements Store. Names compare case-insensitively.
func (s *SQLiteStore) GetCategoryByName(ctx context.Context, name string) (models.Category, bool, error) {
	var c models.Category
	err := s.db.QueryRowContext(ctx, `
	SELECT name, emoji, color, is_system, display_order
	FROM categories WHERE name = ? COLLATE NOCASE
	`, name).Scan(&c.Name, &c.Emoji, &c.Color, &c.IsSystem, &c.DisplayOrder)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Category{}, false, nil
	}
	if err != nil {
		return models.Category{}, false, fmt.Errorf("read category %q: %w", name, err)
	}
	return c, true, nil
}

// ListCategories implements Store.
func (s *SQLiteStore) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT name, emoji, color, is_system, display_order
	FROM categories ORDER BY display_order, name
	`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.Name, &c.Emoji, &c.Color, &c.IsSystem, &c.DisplayOrder); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// SeedCategories implements Store.
func (s *SQLiteStore) SeedCategories(ctx context.Context, categories []models.Category) (int, error) {
	inserted := 0
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		for _, c := range categories {
			res, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO categories(name, emoji, color, is_system, display_order)
			VALUES(?, ?, ?, ?, ?)
			`, c.Name, c.Emoji, c.Color, c.IsSystem, c.DisplayOrder)
			if err != nil {
				return fmt.Errorf("seed category %q: %w", c.Name, err)
			}
			n, _ := res.RowsAffected()
			inserted += int(n)
		}
		return nil
	})
	return inserted, err
}

// withTx runs fn in a transaction.
func (s *SQLiteStore) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
