// Package uploads issues short-lived client upload credentials for the
// ImageKit media CDN. The browser uploads poster images directly; this
// service only signs the request so the private key never leaves the
// backend.
package uploads

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL matches the ImageKit SDK default for auth parameter expiry.
const DefaultTTL = 30 * time.Minute

// AuthParams is one single-use upload credential. The signature is the
// hex HMAC-SHA1 of token+expire under the account private key, which is
// the scheme ImageKit's upload endpoint verifies.
type AuthParams struct {
	Token     string `json:"token"`
	Expire    int64  `json:"expire"`
	Signature string `json:"signature"`
}

type Signer struct {
	PrivateKey []byte
	TTL        time.Duration

	// now is swappable in tests
	now func() time.Time
}

func NewSigner(privateKey string) *Signer {
	return &Signer{PrivateKey: []byte(privateKey), TTL: DefaultTTL, now: time.Now}
}

// AuthParams mints a fresh credential with a random token.
func (s *Signer) AuthParams() AuthParams {
	return s.sign(uuid.NewString())
}

func (s *Signer) sign(token string) AuthParams {
	ttl := s.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	expire := s.now().Add(ttl).Unix()

	mac := hmac.New(sha1.New, s.PrivateKey)
	mac.Write([]byte(token))
	mac.Write([]byte(strconv.FormatInt(expire, 10)))

	return AuthParams{
		Token:     token,
		Expire:    expire,
		Signature: hex.EncodeToString(mac.Sum(nil)),
	}
}

// Verify checks a credential this signer issued. Used in tests and by the
// local development upload stub.
func (s *Signer) Verify(p AuthParams) bool {
	if s.now().Unix() > p.Expire {
		return false
	}
	mac := hmac.New(sha1.New, s.PrivateKey)
	mac.Write([]byte(p.Token))
	mac.Write([]byte(strconv.FormatInt(p.Expire, 10)))
	want := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(p.Signature), []byte(want))
}
