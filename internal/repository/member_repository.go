package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"

	"github.com/restomap/booking-backend/internal/model"
)

// MemberRepo provides access to the `members` table. Members are
// created lazily by UpsertByTelegramID on first successful login and
// are never deleted by this service.
type MemberRepo struct{ DB *sql.DB }

func NewMemberRepo(db *sql.DB) *MemberRepo { return &MemberRepo{DB: db} }

const memberCols = `id, telegram_id, COALESCE(username,''), COALESCE(first_name,''), COALESCE(phone,''), is_admin, is_superuser`

// UpsertByTelegramID returns the member with the given Telegram id,
// creating one with a fresh UUID when none exists. The insert uses
// ON DUPLICATE KEY on the unique telegram_id index so that two
// concurrent first logins of the same Telegram user cannot create two
// rows; the loser of the race falls through to the select and returns
// the winner's row unchanged.
func (r *MemberRepo) UpsertByTelegramID(ctx context.Context, telegramID int64, username, firstName string) (model.Member, error) {
	id := uuid.NewString()
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO members (id, telegram_id, username, first_name)
		 VALUES (?,?,?,?)
		 ON DUPLICATE KEY UPDATE telegram_id = telegram_id`,
		id, telegramID, nullable(username), nullable(firstName))
	if err != nil {
		return model.Member{}, err
	}
	return r.GetByTelegramID(ctx, telegramID)
}

// GetByTelegramID fetches a member by Telegram id.
func (r *MemberRepo) GetByTelegramID(ctx context.Context, telegramID int64) (model.Member, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		`SELECT `+memberCols+` FROM members WHERE telegram_id=? LIMIT 1`, telegramID))
}

// GetByID fetches a member by internal UUID.
func (r *MemberRepo) GetByID(ctx context.Context, id string) (model.Member, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		`SELECT `+memberCols+` FROM members WHERE id=? LIMIT 1`, id))
}

// UpdatePhone stores or replaces the member's contact phone.
func (r *MemberRepo) UpdatePhone(ctx context.Context, id, phone string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE members SET phone=? WHERE id=?`, nullable(strings.TrimSpace(phone)), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// The phone may already hold the same value; distinguish a
		// no-change update from a missing row.
		var exists int
		if err := r.DB.QueryRowContext(ctx,
			`SELECT 1 FROM members WHERE id=? LIMIT 1`, id).Scan(&exists); err != nil {
			if err == sql.ErrNoRows {
				return ErrMemberNotFound
			}
			return err
		}
	}
	return nil
}

func (r *MemberRepo) scanOne(row *sql.Row) (model.Member, error) {
	var m model.Member
	err := row.Scan(&m.ID, &m.TelegramID, &m.Username, &m.FirstName, &m.Phone, &m.IsAdmin, &m.IsSuperuser)
	if err == sql.ErrNoRows {
		return model.Member{}, ErrMemberNotFound
	}
	return m, err
}

// nullable maps an empty string to NULL so optional columns stay NULL
// instead of storing empty strings.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
