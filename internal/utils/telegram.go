package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidAuth is returned for any Telegram login payload that fails
// verification: bad signature, missing fields or stale auth_date. The
// specific reason is never exposed to the caller.
var ErrInvalidAuth = errors.New("invalid telegram auth data")

// TelegramUser is the normalized identity extracted from a verified
// login payload.
type TelegramUser struct {
	ID        int64
	FirstName string
	LastName  string
	Username  string
	PhotoURL  string
	AuthDate  time.Time
}

// VerifyLoginWidget validates a redirect-style login widget payload.
// fields holds every query parameter Telegram sent, including "hash".
//
// The signature is HMAC-SHA256 over the data-check-string: all fields
// except hash, sorted lexicographically by key and joined as
// "key=value" lines. The HMAC key is SHA-256 of the bot token. The
// sort happens here, so the caller's field ordering is irrelevant.
// maxAge bounds how old auth_date may be; zero disables the check.
func VerifyLoginWidget(fields map[string]string, botToken string, maxAge time.Duration, now time.Time) (TelegramUser, error) {
	gotHash := fields["hash"]
	if gotHash == "" {
		return TelegramUser{}, ErrInvalidAuth
	}
	secret := sha256.Sum256([]byte(botToken))
	if !checkSignature(fields, secret[:], gotHash) {
		return TelegramUser{}, ErrInvalidAuth
	}
	return userFromFields(fields, maxAge, now)
}

// VerifyWebAppInitData validates the signed init-data blob supplied by
// a Telegram Mini App. initData is the raw query string from
// window.Telegram.WebApp.initData.
//
// The data-check-string construction is identical to the login widget,
// but the HMAC key is itself derived: HMAC-SHA256 keyed by the literal
// string "WebAppData" over the bot token.
func VerifyWebAppInitData(initData, botToken string, maxAge time.Duration, now time.Time) (TelegramUser, error) {
	values, err := url.ParseQuery(initData)
	if err != nil {
		return TelegramUser{}, ErrInvalidAuth
	}
	fields := make(map[string]string, len(values))
	for k := range values {
		fields[k] = values.Get(k)
	}
	gotHash := fields["hash"]
	if gotHash == "" {
		return TelegramUser{}, ErrInvalidAuth
	}

	mac := hmac.New(sha256.New, []byte("WebAppData"))
	mac.Write([]byte(botToken))
	secret := mac.Sum(nil)
	if !checkSignature(fields, secret, gotHash) {
		return TelegramUser{}, ErrInvalidAuth
	}

	// The user identity is a JSON object under the "user" key.
	var u struct {
		ID        int64  `json:"id"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Username  string `json:"username"`
		PhotoURL  string `json:"photo_url"`
	}
	if err := json.Unmarshal([]byte(fields["user"]), &u); err != nil || u.ID == 0 {
		return TelegramUser{}, ErrInvalidAuth
	}
	authDate, err := checkFreshness(fields["auth_date"], maxAge, now)
	if err != nil {
		return TelegramUser{}, err
	}
	return TelegramUser{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Username:  u.Username,
		PhotoURL:  u.PhotoURL,
		AuthDate:  authDate,
	}, nil
}

// checkSignature builds the sorted data-check-string from all fields
// except hash and compares its HMAC-SHA256 against the supplied hash in
// constant time.
func checkSignature(fields map[string]string, key []byte, gotHash string) bool {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if k == "hash" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, k+"="+fields[k])
	}
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(strings.Join(lines, "\n")))
	want := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(want), []byte(strings.ToLower(gotHash)))
}

func userFromFields(fields map[string]string, maxAge time.Duration, now time.Time) (TelegramUser, error) {
	id, err := strconv.ParseInt(fields["id"], 10, 64)
	if err != nil || id == 0 {
		return TelegramUser{}, ErrInvalidAuth
	}
	authDate, err := checkFreshness(fields["auth_date"], maxAge, now)
	if err != nil {
		return TelegramUser{}, err
	}
	return TelegramUser{
		ID:        id,
		FirstName: fields["first_name"],
		LastName:  fields["last_name"],
		Username:  fields["username"],
		PhotoURL:  fields["photo_url"],
		AuthDate:  authDate,
	}, nil
}

func checkFreshness(authDateStr string, maxAge time.Duration, now time.Time) (time.Time, error) {
	unix, err := strconv.ParseInt(authDateStr, 10, 64)
	if err != nil {
		return time.Time{}, ErrInvalidAuth
	}
	authDate := time.Unix(unix, 0).UTC()
	if maxAge > 0 && now.UTC().Sub(authDate) > maxAge {
		return time.Time{}, ErrInvalidAuth
	}
	return authDate, nil
}
