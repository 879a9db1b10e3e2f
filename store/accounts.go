package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/satheeshds/condo/models"
)

const accountSelectQuery = `SELECT id, username, email, password_hash, role, phone, created_at FROM accounts`

func scanAccount(row scanner) (models.Account, error) {
	var a models.Account
	err := row.Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.Role, &a.Phone, &a.CreatedAt)
	return a, err
}

// CreateAccount registers an account. Residents are attached to their unit,
// which is created on first use; staff get a hiring record. Everything happens
// in one transaction.
func (s *Store) CreateAccount(ctx context.Context, input models.RegisterInput, passwordHash string) (models.Account, error) {
	var id int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRowContext(ctx, s.q(`SELECT COUNT(*) FROM accounts WHERE email = ?`), input.Email).Scan(&exists)
		if err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if exists > 0 {
			return ErrEmailTaken
		}

		now := s.timestamp()
		err = tx.QueryRowContext(ctx, s.q(`INSERT INTO accounts (username, email, password_hash, role, phone, created_at)
			VALUES (?, ?, ?, ?, ?, ?) RETURNING id`),
			input.Username(), input.Email, passwordHash, input.ResolvedRole, input.Phone, now).Scan(&id)
		if err != nil {
			return fmt.Errorf("insert account: %w", err)
		}

		switch input.ResolvedRole {
		case models.RoleResident:
			unitID, err := s.unitByNumber(ctx, tx, input.UnitNumber)
			if err != nil {
				return err
			}
			var occupied int
			err = tx.QueryRowContext(ctx, s.q(`SELECT COUNT(*) FROM residents WHERE unit_id = ? AND ended_at IS NULL`), unitID).
				Scan(&occupied)
			if err != nil {
				return fmt.Errorf("check occupancy: %w", err)
			}
			if occupied > 0 {
				return ErrUnitOccupied
			}
			nationalID := input.NationalID
			if nationalID == "" {
				nationalID = "GEN-" + strconv.FormatInt(now.UnixNano(), 10)
			}
			_, err = tx.ExecContext(ctx, s.q(`INSERT INTO residents (account_id, unit_id, first_name, last_name, national_id, started_at)
				VALUES (?, ?, ?, ?, ?, ?)`), id, unitID, input.FirstName, input.FullLastName(), nationalID, now)
			if err != nil {
				return fmt.Errorf("insert resident: %w", err)
			}
		case models.RoleStaff:
			if _, err := tx.ExecContext(ctx, s.q(`INSERT INTO staff (account_id, hired_on) VALUES (?, ?)`), id, now); err != nil {
				return fmt.Errorf("insert staff: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return models.Account{}, err
	}
	return s.GetAccount(ctx, id)
}

// unitByNumber finds a unit by its number, creating it as occupied when missing.
func (s *Store) unitByNumber(ctx context.Context, tx *sql.Tx, number string) (int64, error) {
	if _, err := tx.ExecContext(ctx, s.q(`INSERT INTO units (number, status) VALUES (?, 'occupied')
		ON CONFLICT (number) DO NOTHING`), number); err != nil {
		return 0, fmt.Errorf("create unit: %w", err)
	}
	var id int64
	if err := tx.QueryRowContext(ctx, s.q(`SELECT id FROM units WHERE number = ?`), number).Scan(&id); err != nil {
		return 0, fmt.Errorf("lookup unit: %w", err)
	}
	return id, nil
}

// GetAccount returns an account by id.
func (s *Store) GetAccount(ctx context.Context, id int64) (models.Account, error) {
	a, err := scanAccount(s.conn.QueryRowContext(ctx, s.q(accountSelectQuery+` WHERE id = ?`), id))
	if errors.Is(err, sql.ErrNoRows) {
		return a, ErrNotFound
	}
	if err != nil {
		return a, fmt.Errorf("get account: %w", err)
	}
	return a, nil
}

// AccountByLogin looks an account up by email or username.
func (s *Store) AccountByLogin(ctx context.Context, login string) (models.Account, error) {
	a, err := scanAccount(s.conn.QueryRowContext(ctx,
		s.q(accountSelectQuery+` WHERE email = ? OR username = ? ORDER BY id LIMIT 1`), login, login))
	if errors.Is(err, sql.ErrNoRows) {
		return a, ErrNotFound
	}
	if err != nil {
		return a, fmt.Errorf("account by login: %w", err)
	}
	return a, nil
}

// EnsureUnit creates a unit if it does not exist yet and returns it.
func (s *Store) EnsureUnit(ctx context.Context, number string) (models.Unit, error) {
	var u models.Unit
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		id, err := s.unitByNumber(ctx, tx, number)
		if err != nil {
			return err
		}
		return tx.QueryRowContext(ctx, s.q(`SELECT id, number, status, created_at FROM units WHERE id = ?`), id).
			Scan(&u.ID, &u.Number, &u.Status, &u.CreatedAt)
	})
	return u, err
}
