package signing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ErrInitData is returned for Mini-App launch data that fails validation.
var ErrInitData = errors.New("invalid telegram init data")

// TelegramUser is the "user" object embedded in Mini-App init data.
type TelegramUser struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name,omitempty"`
	Username     string `json:"username,omitempty"`
	LanguageCode string `json:"language_code,omitempty"`
}

// UserID is the namespaced id records are stored under.
func (u TelegramUser) UserID() string {
	return "telegram_" + strconv.FormatInt(u.ID, 10)
}

// ValidateInitData checks the Mini-App init data hash against the bot token
// and returns the embedded user. maxAge <= 0 disables the auth_date check.
func ValidateInitData(initData, botToken string, maxAge time.Duration, now time.Time) (TelegramUser, error) {
	values, err := url.ParseQuery(initData)
	if err != nil {
		return TelegramUser{}, fmt.Errorf("%w: %v", ErrInitData, err)
	}
	hash := values.Get("hash")
	if hash == "" {
		return TelegramUser{}, fmt.Errorf("%w: missing hash", ErrInitData)
	}

	pairs := make([]string, 0, len(values))
	for k := range values {
		if k == "hash" {
			continue
		}
		pairs = append(pairs, k+"="+values.Get(k))
	}
	sort.Strings(pairs)

	expected := initDataHash(strings.Join(pairs, "\n"), botToken)
	if !hmac.Equal([]byte(expected), []byte(hash)) {
		return TelegramUser{}, fmt.Errorf("%w: hash mismatch", ErrInitData)
	}

	if maxAge > 0 {
		authDate, err := strconv.ParseInt(values.Get("auth_date"), 10, 64)
		if err != nil || now.Sub(time.Unix(authDate, 0)) > maxAge {
			return TelegramUser{}, fmt.Errorf("%w: stale auth_date", ErrInitData)
		}
	}

	var user TelegramUser
	if err := json.Unmarshal([]byte(values.Get("user")), &user); err != nil || user.ID == 0 {
		return TelegramUser{}, fmt.Errorf("%w: no user", ErrInitData)
	}
	return user, nil
}

// SignInitData produces the hash Telegram would attach to values. The bot
// uses it in tests and local tooling.
func SignInitData(values url.Values, botToken string) string {
	pairs := make([]string, 0, len(values))
	for k := range values {
		if k != "hash" {
			pairs = append(pairs, k+"="+values.Get(k))
		}
	}
	sort.Strings(pairs)
	return initDataHash(strings.Join(pairs, "\n"), botToken)
}

func initDataHash(dataCheck, botToken string) string {
	key := hmac.New(sha256.New, []byte("WebAppData"))
	key.Write([]byte(botToken))
	mac := hmac.New(sha256.New, key.Sum(nil))
	mac.Write([]byte(dataCheck))
	return hex.EncodeToString(mac.Sum(nil))
}
