package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/hkdf"
)

const WorkspaceCookieName = "dispo_workspace"

const cookieKeyInfo = "dispocesoir/workspace-cookie/v1"

// CookieCodec signs workspace IDs. A codec built from an empty secret
// passes values through unsigned.
type CookieCodec struct {
	key []byte
}

func NewCookieCodec(secret []byte) CookieCodec {
	if len(secret) == 0 {
		return CookieCodec{}
	}
	key := make([]byte, sha256.Size)
	kdf := hkdf.New(sha256.New, secret, nil, []byte(cookieKeyInfo))
	if _, err := io.ReadFull(kdf, key); err != nil {
		// hkdf only fails past 255*HashLen bytes of output.
		panic("auth: derive cookie key: " + err.Error())
	}
	return CookieCodec{key: key}
}

func (c CookieCodec) Signed() bool { return len(c.key) > 0 }

func (c CookieCodec) Encode(id string) string {
	if len(c.key) == 0 {
		return id
	}
	return id + "." + base64.RawURLEncoding.EncodeToString(c.mac(id))
}

func (c CookieCodec) Decode(cookieValue string) (string, bool) {
	if len(c.key) == 0 {
		return cookieValue, cookieValue != ""
	}

	id, sigB64, ok := strings.Cut(cookieValue, ".")
	if !ok || id == "" || sigB64 == "" {
		return "", false
	}

	sig, err := base64.RawURLEncoding.DecodeString(sigB64)
	if err != nil || len(sig) != sha256.Size {
		return "", false
	}
	if subtle.ConstantTimeCompare(sig, c.mac(id)) != 1 {
		return "", false
	}
	return id, true
}

func (c CookieCodec) mac(id string) []byte {
	m := hmac.New(sha256.New, c.key)
	_, _ = m.Write([]byte(id))
	return m.Sum(nil)
}

func SetWorkspaceCookie(w http.ResponseWriter, cookieValue string, ttl time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     WorkspaceCookieName,
		Value:    cookieValue,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(ttl.Seconds()),
		Expires:  time.Now().Add(ttl),
	})
}

func ClearWorkspaceCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     WorkspaceCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
	})
}
