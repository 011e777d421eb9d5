package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"geoquiz-service/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS questions (
	bank_id  TEXT NOT NULL,
	position INTEGER NOT NULL,
	text     TEXT NOT NULL,
	answer   BOOLEAN NOT NULL,
	PRIMARY KEY (bank_id, position)
)`

// BankLoader reads banks from a SQLite questions table, ordered by position.
type BankLoader struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and ensures the schema exists.
func Open(path string) (*BankLoader, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &BankLoader{db: db}, nil
}

func (l *BankLoader) Close() error {
	return l.db.Close()
}

func (l *BankLoader) LoadBank(ctx context.Context, bankID string) (domain.Bank, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT text, answer FROM questions WHERE bank_id = ? ORDER BY position`, bankID)
	if err != nil {
		return domain.Bank{}, fmt.Errorf("query bank %s: %w", bankID, err)
	}
	defer rows.Close()

	bank := domain.Bank{ID: bankID}
	for rows.Next() {
		var q domain.Question
		if err := rows.Scan(&q.Text, &q.Answer); err != nil {
			return domain.Bank{}, fmt.Errorf("scan question: %w", err)
		}
		bank.Questions = append(bank.Questions, q)
	}
	if err := rows.Err(); err != nil {
		return domain.Bank{}, err
	}
	if len(bank.Questions) == 0 {
		return domain.Bank{}, fmt.Errorf("bank %s: %w", bankID, domain.ErrBankNotFound)
	}
	return bank, nil
}

// SaveBank replaces all questions of a bank in one transaction.
func (l *BankLoader) SaveBank(ctx context.Context, bank domain.Bank) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM questions WHERE bank_id = ?`, bank.ID); err != nil {
		return fmt.Errorf("clear bank %s: %w", bank.ID, err)
	}
	for i, q := range bank.Questions {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO questions (bank_id, position, text, answer) VALUES (?, ?, ?, ?)`,
			bank.ID, i, q.Text, q.Answer,
		); err != nil {
			return fmt.Errorf("insert question %d: %w", i, err)
		}
	}
	return tx.Commit()
}
