package signing

import (
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Unix(1700000000, 0)

func TestSigner(t *testing.T) {
	s := NewSigner([]byte("topsecret"))
	sig := s.Sign(ScopeDownload, "file123", 1700000100)
	require.NotEmpty(t, sig)

	assert.NoError(t, s.Validate(ScopeDownload, "file123", "1700000100", sig, now))
	assert.ErrorIs(t, s.Validate(ScopeDownload, "wrong", "1700000100", sig, now), ErrBadSignature)
	assert.ErrorIs(t, s.Validate(ScopeDownload, "file123", "42", sig, now), ErrBadSignature)
	assert.ErrorIs(t, s.Validate(ScopeSign, "file123", "1700000100", sig, now), ErrBadSignature)
	assert.ErrorIs(t, s.Validate(ScopeDownload, "file123", "nope", sig, now), ErrBadSignature)
	assert.ErrorIs(t, s.Validate(ScopeDownload, "file123", "1700000100", sig, now.Add(time.Hour)), ErrExpired)
}

func TestLinks(t *testing.T) {
	s := NewSigner([]byte("k"))
	l := Links{Signer: s, BaseURL: "https://docs.test/", TTL: 5 * time.Minute, Now: func() time.Time { return now }}

	raw := l.DownloadURL("abc")
	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "/download/abc", u.Path)
	assert.Equal(t, strconv.FormatInt(now.Add(5*time.Minute).Unix(), 10), u.Query().Get("expires"))
	assert.NoError(t, s.Validate(ScopeDownload, "abc", u.Query().Get("expires"), u.Query().Get("signature"), now))

	assert.True(t, strings.HasPrefix(l.SignURL("r1"), "https://docs.test/sign/r1?"))
}

func TestInitData(t *testing.T) {
	const token = "123:ABC"
	v := url.Values{}
	v.Set("auth_date", strconv.FormatInt(now.Unix(), 10))
	v.Set("query_id", "AAE")
	v.Set("user", `{"id":42,"first_name":"Олена","username":"olena"}`)
	v.Set("hash", SignInitData(v, token))

	user, err := ValidateInitData(v.Encode(), token, time.Hour, now)
	require.NoError(t, err)
	assert.Equal(t, int64(42), user.ID)
	assert.Equal(t, "telegram_42", user.UserID())

	_, err = ValidateInitData(v.Encode(), "other", time.Hour, now)
	assert.ErrorIs(t, err, ErrInitData)

	_, err = ValidateInitData(v.Encode(), token, time.Minute, now.Add(2*time.Hour))
	assert.ErrorIs(t, err, ErrInitData)

	v.Set("user", `{"id":43}`)
	_, err = ValidateInitData(v.Encode(), token, 0, now)
	assert.ErrorIs(t, err, ErrInitData)

	_, err = ValidateInitData("auth_date=1", token, 0, now)
	assert.ErrorIs(t, err, ErrInitData)
}
