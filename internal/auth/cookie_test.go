package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestCookieCodec_SignAndVerify(t *testing.T) {
	codec := NewCookieCodec([]byte(strings.Repeat("x", 32)))
	if !codec.Signed() {
		t.Fatalf("expected signing codec")
	}

	encoded := codec.Encode("abc")
	if encoded == "abc" {
		t.Fatalf("expected signed cookie value")
	}

	id, ok := codec.Decode(encoded)
	if !ok || id != "abc" {
		t.Fatalf("expected decode ok for signed cookie")
	}

	if _, ok := codec.Decode(encoded + "x"); ok {
		t.Fatalf("expected tampered cookie to fail verification")
	}
	if _, ok := codec.Decode("abc"); ok {
		t.Fatalf("expected unsigned value to be rejected")
	}
}

func TestCookieCodec_KeyDependsOnSecret(t *testing.T) {
	a := NewCookieCodec([]byte(strings.Repeat("a", 32)))
	b := NewCookieCodec([]byte(strings.Repeat("b", 32)))

	if _, ok := b.Decode(a.Encode("abc")); ok {
		t.Fatalf("expected cookie signed with another secret to fail")
	}
	if a.Encode("abc") != NewCookieCodec([]byte(strings.Repeat("a", 32))).Encode("abc") {
		t.Fatalf("expected deterministic signature for the same secret")
	}
}

func TestCookieCodec_Unsigned(t *testing.T) {
	codec := NewCookieCodec(nil)
	id, ok := codec.Decode("abc")
	if !ok || id != "abc" {
		t.Fatalf("expected unsigned cookie to decode")
	}
	if _, ok := codec.Decode(""); ok {
		t.Fatalf("expected empty cookie to fail")
	}
}

func TestWorkspaceCookieHelpers(t *testing.T) {
	rr := httptest.NewRecorder()
	SetWorkspaceCookie(rr, "v", 10*time.Minute, false)

	cookies := rr.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}
	if cookies[0].Name != WorkspaceCookieName {
		t.Fatalf("unexpected cookie name: %s", cookies[0].Name)
	}
	if cookies[0].HttpOnly != true || cookies[0].SameSite != http.SameSiteLaxMode {
		t.Fatalf("unexpected cookie attributes")
	}

	rr = httptest.NewRecorder()
	ClearWorkspaceCookie(rr, false)
	cookies = rr.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}
	if cookies[0].MaxAge != -1 {
		t.Fatalf("expected MaxAge=-1 on clear")
	}
}
