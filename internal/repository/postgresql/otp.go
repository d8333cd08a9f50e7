package postgresql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/database"
)

type otpRepositoryImpl struct {
	db *database.DB
}

func NewOTPRepository(db *database.DB) auth.OTPRepository {
	return &otpRepositoryImpl{db: db}
}

// Create invalidates the user's outstanding codes before inserting the new one.
func (r *otpRepositoryImpl) Create(ctx context.Context, otp auth.OTP) (auth.OTP, error) {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `
		UPDATE password_change_otps
		SET used_at = NOW()
		WHERE user_id = $1 AND used_at IS NULL
	`, otp.UserID)
	if err != nil {
		return auth.OTP{}, err
	}

	query := `
		INSERT INTO password_change_otps (user_id, code_hash, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id, attempts, created_at
	`
	err = q.QueryRow(ctx, query, otp.UserID, otp.CodeHash, otp.ExpiresAt).
		Scan(&otp.ID, &otp.Attempts, &otp.CreatedAt)
	if err != nil {
		return auth.OTP{}, err
	}
	return otp, nil
}

func (r *otpRepositoryImpl) GetLatestActive(ctx context.Context, userID string) (auth.OTP, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT id, user_id, code_hash, expires_at, attempts, used_at, created_at
		FROM password_change_otps
		WHERE user_id = $1 AND used_at IS NULL
		ORDER BY created_at DESC
		LIMIT 1
	`

	var o auth.OTP
	err := q.QueryRow(ctx, query, userID).Scan(
		&o.ID, &o.UserID, &o.CodeHash, &o.ExpiresAt, &o.Attempts, &o.UsedAt, &o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.OTP{}, auth.ErrOTPNotFound
		}
		return auth.OTP{}, err
	}
	return o, nil
}

func (r *otpRepositoryImpl) IncrementAttempts(ctx context.Context, id string) (int, error) {
	q := GetQuerier(ctx, r.db)

	var attempts int
	err := q.QueryRow(ctx, `
		UPDATE password_change_otps
		SET attempts = attempts + 1
		WHERE id = $1
		RETURNING attempts
	`, id).Scan(&attempts)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, auth.ErrOTPNotFound
		}
		return 0, err
	}
	return attempts, nil
}

func (r *otpRepositoryImpl) MarkUsed(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)
	tag, err := q.Exec(ctx, `UPDATE password_change_otps SET used_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return auth.ErrOTPNotFound
	}
	return nil
}

func (r *otpRepositoryImpl) PurgeExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)
	tag, err := q.Exec(ctx, `
		DELETE FROM password_change_otps
		WHERE expires_at < $1 OR used_at < $1
	`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
