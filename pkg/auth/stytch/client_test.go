package stytch

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAuthenticatePassword(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/passwords/authenticate" {
			t.Errorf("path = %q", r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "project-test" || pass != "secret-test" {
			t.Errorf("basic auth = %q/%q", user, pass)
		}

		var req passwordRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.SessionDurationMinutes != SessionDurationMinutes {
			t.Errorf("session_duration_minutes = %d", req.SessionDurationMinutes)
		}

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"user_id":     "user-test-123",
			"session_jwt": "jwt-abc",
			"session":     map[string]string{"session_id": "session-xyz"},
		})
	}))
	defer srv.Close()

	client := NewClient("project-test", "secret-test", false).WithBaseURL(srv.URL)
	session, err := client.AuthenticatePassword(context.Background(), "a@b.com", "hunter22")
	if err != nil {
		t.Fatalf("AuthenticatePassword() error = %v", err)
	}
	if session.StytchUserID != "user-test-123" {
		t.Errorf("StytchUserID = %q", session.StytchUserID)
	}
	if session.SessionJWT != "jwt-abc" {
		t.Errorf("SessionJWT = %q", session.SessionJWT)
	}
}

func TestAuthenticatePasswordRejected(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusNotFound} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error_type": "invalid_credentials"}`, status)
		}))

		client := NewClient("p", "s", false).WithBaseURL(srv.URL)
		_, err := client.AuthenticatePassword(context.Background(), "a@b.com", "wrong")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("status %d: err = %v, want ErrInvalidCredentials", status, err)
		}
		srv.Close()
	}
}

func TestAuthenticateJWT(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/sessions/authenticate" {
			t.Errorf("path = %q", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"session_jwt": "jwt-refreshed",
			"session": map[string]string{
				"session_id": "session-xyz",
				"user_id":    "user-test-123",
			},
		})
	}))
	defer srv.Close()

	client := NewClient("p", "s", false).WithBaseURL(srv.URL)
	session, err := client.AuthenticateJWT(context.Background(), "jwt-abc")
	if err != nil {
		t.Fatalf("AuthenticateJWT() error = %v", err)
	}
	if session.StytchUserID != "user-test-123" {
		t.Errorf("StytchUserID = %q", session.StytchUserID)
	}
}

func TestAuthenticateJWTExpired(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error_type": "session_not_found"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient("p", "s", false).WithBaseURL(srv.URL)
	_, err := client.AuthenticateJWT(context.Background(), "stale-jwt")
	if !errors.Is(err, ErrInvalidSessionToken) {
		t.Errorf("err = %v, want ErrInvalidSessionToken", err)
	}
}
