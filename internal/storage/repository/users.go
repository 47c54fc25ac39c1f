package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/magabrotheeeer/auth-backend/internal/models"
)

// Код ошибки PostgreSQL для нарушения уникального ограничения.
const uniqueViolationCode = "23505"

// CreateUser сохраняет нового пользователя в базу данных и возвращает его UID.
//
// Дубликат email отклоняется ограничением уникальности на стороне базы
// и возвращается как ErrEmailExists.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newUID string
	query := `INSERT INTO users (fullname, email, phone_number, password_hash)
			  VALUES ($1, $2, $3, $4)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Fullname, user.Email, user.PhoneNumber, user.PasswordHash).Scan(&newUID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return "", fmt.Errorf("%s: %w", op, ErrEmailExists)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetUserByEmail возвращает пользователя по его email (точное совпадение).
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, fullname, email, phone_number, password_hash, reset_token
			  FROM users
			  WHERE email = $1`
	return s.scanUser(s.DB.QueryRowContext(ctx, query, email), op)
}

// GetUser возвращает пользователя по его UID.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, fullname, email, phone_number, password_hash, reset_token
			  FROM users
			  WHERE uid = $1`
	return s.scanUser(s.DB.QueryRowContext(ctx, query, userUID), op)
}

// UpdateResetToken записывает токен восстановления пароля пользователю.
// Предыдущий токен, если был, перезаписывается: в хранилище живет
// только последний выданный токен.
func (s *Storage) UpdateResetToken(ctx context.Context, userUID, resetToken string) error {
	const op = "storage.UpdateResetToken"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET reset_token = $1
			  WHERE uid = $2`
	res, err := s.DB.ExecContext(ctx, query, resetToken, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	return nil
}

// UpdatePasswordByResetToken записывает новый хеш пароля и очищает токен
// восстановления одним запросом. Условие reset_token = $3 гарантирует,
// что устаревший или уже использованный токен не пройдет, даже если две
// операции восстановления выполняются одновременно.
func (s *Storage) UpdatePasswordByResetToken(ctx context.Context, userUID, passwordHash, resetToken string) error {
	const op = "storage.UpdatePasswordByResetToken"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET password_hash = $1,
			      reset_token = NULL
			  WHERE uid = $2 AND reset_token = $3`
	res, err := s.DB.ExecContext(ctx, query, passwordHash, userUID, resetToken)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	return nil
}

func (s *Storage) scanUser(row *sql.Row, op string) (*models.User, error) {
	u := &models.User{}
	var resetToken sql.NullString
	if err := row.Scan(&u.UID, &u.Fullname, &u.Email, &u.PhoneNumber,
		&u.PasswordHash, &resetToken); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if resetToken.Valid {
		u.ResetToken = &resetToken.String
	}
	return u, nil
}
