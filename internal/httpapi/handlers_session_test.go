package httpapi

import (
	"net/http"
	"testing"

	"DispoCeSoir/internal/domain"
)

func TestSignInEmptyCredentials(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(http.MethodPost, "/v1/session/sign-in", `{"email":"","password":"x"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status %d", rr.Code)
	}
	resp := decodeBody[validationEnvelope](t, rr)
	if resp.Error.Code != "validation_error" || resp.Error.Fields["email"] != "required" {
		t.Fatalf("unexpected error: %#v", resp.Error)
	}
	if _, ok := resp.Error.Fields["password"]; ok {
		t.Fatalf("password reported although present")
	}

	session := decodeBody[sessionResponse](t, env.do(http.MethodGet, "/v1/session", ""))
	if session.Identity != nil {
		t.Fatalf("identity set after failed sign in")
	}
}

func TestSignInUsesSeededIdentity(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(http.MethodPost, "/v1/session/sign-in", `{"email":"me@example.com","password":"pw"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rr.Code, rr.Body.String())
	}
	resp := decodeBody[sessionResponse](t, rr)
	if resp.Identity == nil || resp.Identity.Email != "me@example.com" || resp.Identity.Name != "Jean Dupont" {
		t.Fatalf("identity = %#v", resp.Identity)
	}
	if resp.Screen != "shell" || resp.View != "home" {
		t.Fatalf("route = %s/%s", resp.Screen, resp.View)
	}
}

func TestSignUpKeepsName(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(http.MethodPost, "/v1/session/sign-up", `{"name":"Alice","email":"alice@example.com","password":"pw"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("status %d: %s", rr.Code, rr.Body.String())
	}
	resp := decodeBody[sessionResponse](t, rr)
	if resp.Identity == nil || resp.Identity.Name != "Alice" || resp.Identity.Email != "alice@example.com" {
		t.Fatalf("identity = %#v", resp.Identity)
	}

	rr = env.do(http.MethodPost, "/v1/session/sign-up", `{"name":"","email":"bob@example.com","password":"pw"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("empty name accepted: %d", rr.Code)
	}
}

func TestSignInRejectsUnknownFields(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(http.MethodPost, "/v1/session/sign-in", `{"email":"a","password":"b","remember":true}`)
	if rr.Code != http.StatusBadRequest || errorCode(t, rr) != "bad_json" {
		t.Fatalf("unexpected response: %d %s", rr.Code, rr.Body.String())
	}
}

func TestSignOut(t *testing.T) {
	env := newTestEnv(t)
	env.signIn()

	if rr := env.do(http.MethodPost, "/v1/session/sign-out", ""); rr.Code != http.StatusNoContent {
		t.Fatalf("sign out status %d", rr.Code)
	}
	resp := decodeBody[sessionResponse](t, env.do(http.MethodGet, "/v1/session", ""))
	if resp.Identity != nil || resp.Screen != "auth" || resp.View != "" {
		t.Fatalf("after sign out = %#v", resp)
	}
}

func TestProfileUpdateMerges(t *testing.T) {
	env := newTestEnv(t)
	env.signIn()

	rr := env.do(http.MethodPatch, "/v1/session/profile", `{"bio":"Toujours partant"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rr.Code, rr.Body.String())
	}
	id := decodeBody[domain.Identity](t, rr)
	if id.Bio != "Toujours partant" || id.Name != "Jean Dupont" || id.Email != "jean@example.com" {
		t.Fatalf("identity = %#v", id)
	}

	rr = env.do(http.MethodPatch, "/v1/session/profile", `{"name":"  "}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("blank name accepted: %d", rr.Code)
	}
}
