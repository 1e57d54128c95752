package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBotToken = "123456:TEST-TOKEN"

// signWidget computes the hash Telegram would attach to a login widget
// payload for the given fields.
func signWidget(fields map[string]string, botToken string) string {
	secret := sha256.Sum256([]byte(botToken))
	return signFields(fields, secret[:])
}

// signWebApp computes the hash for a Mini App init-data payload.
func signWebApp(fields map[string]string, botToken string) string {
	mac := hmac.New(sha256.New, []byte("WebAppData"))
	mac.Write([]byte(botToken))
	return signFields(fields, mac.Sum(nil))
}

func signFields(fields map[string]string, key []byte) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, k+"="+fields[k])
	}
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(strings.Join(lines, "\n")))
	return hex.EncodeToString(mac.Sum(nil))
}

func widgetPayload(now time.Time) map[string]string {
	fields := map[string]string{
		"id":         "987654321",
		"first_name": "Ada",
		"username":   "ada",
		"auth_date":  strconv.FormatInt(now.Unix(), 10),
	}
	fields["hash"] = signWidget(fields, testBotToken)
	return fields
}

func TestVerifyLoginWidget(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	fields := widgetPayload(now)

	user, err := VerifyLoginWidget(fields, testBotToken, 24*time.Hour, now)

	require.NoError(t, err)
	assert.Equal(t, int64(987654321), user.ID)
	assert.Equal(t, "Ada", user.FirstName)
	assert.Equal(t, "ada", user.Username)
	assert.Equal(t, now.Unix(), user.AuthDate.Unix())
}

func TestVerifyLoginWidgetTamperedFieldFails(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	fields := widgetPayload(now)
	fields["id"] = "111" // signed as 987654321

	_, err := VerifyLoginWidget(fields, testBotToken, 24*time.Hour, now)

	assert.ErrorIs(t, err, ErrInvalidAuth)
}

func TestVerifyLoginWidgetWrongBotTokenFails(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	fields := widgetPayload(now)

	_, err := VerifyLoginWidget(fields, "999999:OTHER-TOKEN", 24*time.Hour, now)

	assert.ErrorIs(t, err, ErrInvalidAuth)
}

func TestVerifyLoginWidgetMissingHashFails(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	fields := widgetPayload(now)
	delete(fields, "hash")

	_, err := VerifyLoginWidget(fields, testBotToken, 24*time.Hour, now)

	assert.ErrorIs(t, err, ErrInvalidAuth)
}

func TestVerifyLoginWidgetStaleAuthDate(t *testing.T) {
	authTime := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	fields := widgetPayload(authTime)
	later := authTime.Add(48 * time.Hour)

	_, err := VerifyLoginWidget(fields, testBotToken, 24*time.Hour, later)
	assert.ErrorIs(t, err, ErrInvalidAuth)

	// A zero maxAge disables the freshness check entirely.
	_, err = VerifyLoginWidget(fields, testBotToken, 0, later)
	assert.NoError(t, err)
}

func TestVerifyLoginWidgetUppercaseHashAccepted(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	fields := widgetPayload(now)
	fields["hash"] = strings.ToUpper(fields["hash"])

	_, err := VerifyLoginWidget(fields, testBotToken, 24*time.Hour, now)

	assert.NoError(t, err)
}

func TestVerifyWebAppInitData(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	userJSON := `{"id":987654321,"first_name":"Ada","username":"ada"}`
	fields := map[string]string{
		"user":      userJSON,
		"auth_date": strconv.FormatInt(now.Unix(), 10),
		"query_id":  "AAH",
	}
	hash := signWebApp(fields, testBotToken)

	v := url.Values{}
	v.Set("user", userJSON)
	v.Set("auth_date", fields["auth_date"])
	v.Set("query_id", fields["query_id"])
	v.Set("hash", hash)

	user, err := VerifyWebAppInitData(v.Encode(), testBotToken, 24*time.Hour, now)

	require.NoError(t, err)
	assert.Equal(t, int64(987654321), user.ID)
	assert.Equal(t, "Ada", user.FirstName)
}

func TestVerifyWebAppInitDataWidgetKeyRejected(t *testing.T) {
	// The two schemes derive different HMAC keys from the same bot
	// token; a widget-signed blob must not pass webapp verification.
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	fields := map[string]string{
		"user":      `{"id":987654321,"first_name":"Ada"}`,
		"auth_date": strconv.FormatInt(now.Unix(), 10),
	}
	hash := signWidget(fields, testBotToken)

	v := url.Values{}
	v.Set("user", fields["user"])
	v.Set("auth_date", fields["auth_date"])
	v.Set("hash", hash)

	_, err := VerifyWebAppInitData(v.Encode(), testBotToken, 24*time.Hour, now)

	assert.ErrorIs(t, err, ErrInvalidAuth)
}

func TestVerifyWebAppInitDataGarbageFails(t *testing.T) {
	_, err := VerifyWebAppInitData("%zz", testBotToken, 0, time.Now())
	assert.ErrorIs(t, err, ErrInvalidAuth)

	_, err = VerifyWebAppInitData("user=notjson&hash=deadbeef", testBotToken, 0, time.Now())
	assert.ErrorIs(t, err, ErrInvalidAuth)
}
