package model

// Member represents a platform member as stored in the `members` table.
// Members are created on first successful Telegram login and are keyed
// internally by a UUID while Telegram identifies them by a numeric id.
// The json tags are omitted here because these structs are used by the
// repository layer; handlers define separate response types.
//
// Fields:
//  ID          – internal UUID primary key, stable for the member's lifetime.
//  TelegramID  – the member's Telegram user id (unique).
//  Username    – optional Telegram username (without the @ prefix).
//  FirstName   – optional display name from the Telegram profile.
//  Phone       – optional phone number added by the member later.
//  IsAdmin     – whether the member may use admin-only endpoints.
//  IsSuperuser – elevated flag reserved for operators.
type Member struct {
	ID          string // members.id
	TelegramID  int64  // members.telegram_id
	Username    string // members.username (nullable, empty when unset)
	FirstName   string // members.first_name (nullable, empty when unset)
	Phone       string // members.phone (nullable, empty when unset)
	IsAdmin     bool   // members.is_admin
	IsSuperuser bool   // members.is_superuser
}

// Role returns the role string embedded in JWT claims for this member.
func (m Member) Role() string {
	if m.IsAdmin || m.IsSuperuser {
		return "ADMIN"
	}
	return "MEMBER"
}
