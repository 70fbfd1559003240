package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestIssueAndParse(t *testing.T) {
	svc := NewAuthService("test-secret")
	tok, err := svc.IssueJWT("user-42")
	if err != nil {
		t.Fatalf("IssueJWT: %v", err)
	}
	claims, err := svc.Parse(tok)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.Sub != "user-42" {
		t.Errorf("sub = %q", claims.Sub)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	tok, _ := NewAuthService("secret-a").IssueJWT("u1")
	if _, err := NewAuthService("secret-b").Parse(tok); err == nil {
		t.Fatal("token from another secret accepted")
	}
}

func TestJWTMiddleware(t *testing.T) {
	svc := NewAuthService("test-secret")
	var gotSub string
	handler := JWTMiddleware(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSub, _ = SubjectFromContext(r.Context())
		w.WriteHeader(200)
	}))

	// No header.
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no header: status = %d", rec.Code)
	}

	// Garbage token.
	rec = httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer nope")
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad token: status = %d", rec.Code)
	}

	// Valid token attaches the subject.
	tok, _ := svc.IssueJWT("u7")
	rec = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	handler.ServeHTTP(rec, req)
	if rec.Code != 200 || gotSub != "u7" {
		t.Errorf("valid token: status = %d, sub = %q", rec.Code, gotSub)
	}
}
