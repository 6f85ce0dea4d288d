package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"honnylove_storefront/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

type stubRefresher struct {
	mu    sync.Mutex
	calls []string
	token string
	err   error
	// before est appelé pendant le rafraîchissement (course déconnexion / reconnexion).
	before func()
}

func (s *stubRefresher) RefreshToken(_ context.Context, refreshToken string) (string, error) {
	s.mu.Lock()
	s.calls = append(s.calls, refreshToken)
	before := s.before
	s.mu.Unlock()
	if before != nil {
		before()
	}
	return s.token, s.err
}

func (s *stubRefresher) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "7", "exp": exp.Unix()})
	s, err := tok.SignedString([]byte("api-secret"))
	if err != nil {
		t.Fatalf("SignedString() error: %v", err)
	}
	return s
}

func TestResolveToken_NoSessionNoCall(t *testing.T) {
	r := &stubRefresher{token: "new"}
	p := NewTokenProvider(NewSession(), r)

	token, ok := p.ResolveToken(context.Background())
	if ok || token != "" {
		t.Errorf("ResolveToken() = (%q, %v), want (\"\", false)", token, ok)
	}
	if r.count() != 0 {
		t.Errorf("refresh calls = %d, want 0", r.count())
	}
}

func TestResolveToken_RefreshOnlyIsNotEnough(t *testing.T) {
	r := &stubRefresher{token: "new"}
	s := RestoreSession(Snapshot{RefreshToken: "refresh-1"})
	p := NewTokenProvider(s, r)

	if _, ok := p.ResolveToken(context.Background()); ok {
		t.Error("ResolveToken() ok without access token")
	}
	if r.count() != 0 {
		t.Errorf("refresh calls = %d, want 0", r.count())
	}
}

func TestResolveToken_SuccessReplacesAccessToken(t *testing.T) {
	r := &stubRefresher{token: "access-2"}
	s := NewSession()
	s.SetAuth(models.User{ID: 1, Email: "anna@example.com"}, "access-1", "refresh-1")
	p := NewTokenProvider(s, r)

	token, ok := p.ResolveToken(context.Background())
	if !ok || token != "access-2" {
		t.Fatalf("ResolveToken() = (%q, %v), want (%q, true)", token, ok, "access-2")
	}

	snap := s.Snapshot()
	if snap.AccessToken != "access-2" {
		t.Errorf("AccessToken = %q, want %q", snap.AccessToken, "access-2")
	}
	if snap.RefreshToken != "refresh-1" {
		t.Errorf("RefreshToken = %q, want %q", snap.RefreshToken, "refresh-1")
	}
	if snap.User == nil || snap.User.Email != "anna@example.com" {
		t.Errorf("User = %+v, want unchanged", snap.User)
	}
	if r.calls[0] != "refresh-1" {
		t.Errorf("refresh sent %q, want %q", r.calls[0], "refresh-1")
	}
}

func TestResolveToken_FailureLogsOut(t *testing.T) {
	r := &stubRefresher{err: errors.New("401")}
	s := NewSession()
	s.SetAuth(models.User{ID: 1}, "access-1", "refresh-1")
	p := NewTokenProvider(s, r)

	token, ok := p.ResolveToken(context.Background())
	if ok || token != "" {
		t.Errorf("ResolveToken() = (%q, %v), want (\"\", false)", token, ok)
	}
	snap := s.Snapshot()
	if snap.IsAuthenticated || snap.User != nil || snap.RefreshToken != "" {
		t.Errorf("session = %+v, want cleared", snap)
	}
	if r.count() != 1 {
		t.Errorf("refresh calls = %d, want 1 (no retry)", r.count())
	}
}

func TestResolveToken_FailureDoesNotClobberNewLogin(t *testing.T) {
	s := NewSession()
	s.SetAuth(models.User{ID: 1}, "access-1", "refresh-1")
	r := &stubRefresher{err: errors.New("401")}
	r.before = func() {
		s.SetAuth(models.User{ID: 2}, "access-b", "refresh-b")
	}
	p := NewTokenProvider(s, r)

	if _, ok := p.ResolveToken(context.Background()); ok {
		t.Fatal("ResolveToken() ok despite refresh failure")
	}
	if snap := s.Snapshot(); snap.RefreshToken != "refresh-b" {
		t.Errorf("RefreshToken = %q, want the newer login kept", snap.RefreshToken)
	}
}

func TestResolveToken_SuccessAfterLogoutIsDropped(t *testing.T) {
	s := NewSession()
	s.SetAuth(models.User{ID: 1}, "access-1", "refresh-1")
	r := &stubRefresher{token: "access-2"}
	r.before = s.Logout
	p := NewTokenProvider(s, r)

	p.ResolveToken(context.Background())
	if s.IsAuthenticated() {
		t.Error("session re-authenticated by a refresh that raced a logout")
	}
}

func TestResolveToken_ExpiryPolicy(t *testing.T) {
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	clock := WithClock(func() time.Time { return now })

	tests := []struct {
		name        string
		access      string
		wantRefresh int
	}{
		{"long-lived token reused", signedToken(t, now.Add(10*time.Minute)), 0},
		{"token inside skew refreshed", signedToken(t, now.Add(10*time.Second)), 1},
		{"expired token refreshed", signedToken(t, now.Add(-time.Minute)), 1},
		{"opaque token refreshed", "not-a-jwt", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &stubRefresher{token: "access-new"}
			s := NewSession()
			s.SetAuth(models.User{ID: 1}, tt.access, "refresh-1")
			p := NewTokenProvider(s, r, WithPolicy(RefreshOnExpiry, 30*time.Second), clock)

			token, ok := p.ResolveToken(context.Background())
			if !ok {
				t.Fatal("ResolveToken() not ok")
			}
			if r.count() != tt.wantRefresh {
				t.Errorf("refresh calls = %d, want %d", r.count(), tt.wantRefresh)
			}
			want := tt.access
			if tt.wantRefresh == 1 {
				want = "access-new"
			}
			if token != want {
				t.Errorf("token = %q, want %q", token, want)
			}
		})
	}
}

func TestResolveToken_AlwaysPolicyRefreshesValidToken(t *testing.T) {
	r := &stubRefresher{token: "access-new"}
	s := NewSession()
	s.SetAuth(models.User{ID: 1}, signedToken(t, time.Now().Add(time.Hour)), "refresh-1")
	p := NewTokenProvider(s, r)

	for i := 0; i < 3; i++ {
		p.ResolveToken(context.Background())
	}
	if r.count() != 3 {
		t.Errorf("refresh calls = %d, want 3", r.count())
	}
}
