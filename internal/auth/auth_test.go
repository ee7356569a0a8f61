package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/proofhq/proof/internal/api"
	"github.com/proofhq/proof/internal/session"
	"github.com/proofhq/proof/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	srv   *httptest.Server
	calls *atomic.Int32
	store *session.MemoryStore
	sess  *session.Session
}

func newHarness(t *testing.T, handler http.HandlerFunc) *harness {
	t.Helper()
	calls := &atomic.Int32{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	store := session.NewMemoryStore()
	sess, err := session.Open(context.Background(), store)
	require.NoError(t, err)
	return &harness{srv: srv, calls: calls, store: store, sess: sess}
}

func (h *harness) service(nav Navigator, delay time.Duration) *Service {
	return NewService(api.New(h.srv.URL, h.sess), h.sess, nav, delay, nil)
}

func okLogin(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte(`{"success":true,"data":{"accessToken":"A","refreshToken":"B","userId":"U","name":"Kim"}}`))
}

func TestRegisterValidationBlocksNetwork(t *testing.T) {
	tests := []struct {
		name    string
		profile models.Profile
		wantMsg string
	}{
		{
			name:    "short password",
			profile: models.Profile{Name: "Kim", Email: "kim@test.com", Password: "short1", ConfirmPassword: "short1"},
			wantMsg: MsgPasswordTooShort,
		},
		{
			name:    "seven characters",
			profile: models.Profile{Name: "Kim", Email: "kim@test.com", Password: "1234567", ConfirmPassword: "1234567"},
			wantMsg: MsgPasswordTooShort,
		},
		{
			name:    "mismatched confirmation",
			profile: models.Profile{Name: "Kim", Email: "kim@test.com", Password: "validpass1", ConfirmPassword: "validpass2"},
			wantMsg: MsgPasswordMismatch,
		},
		{
			name:    "missing name",
			profile: models.Profile{Email: "kim@test.com", Password: "validpass1", ConfirmPassword: "validpass1"},
			wantMsg: MsgMissingRegister,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, okLogin)
			_, err := h.service(nil, 0).Register(context.Background(), tt.profile)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantMsg, verr.Msg)
			assert.Zero(t, h.calls.Load(), "no request may be sent")
		})
	}
}

func TestLoginValidationBlocksNetwork(t *testing.T) {
	h := newHarness(t, okLogin)
	svc := h.service(nil, 0)

	_, err := svc.Login(context.Background(), "", "validpass1")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, MsgMissingLogin, verr.Msg)

	_, err = svc.Login(context.Background(), "user@test.com", "")
	require.ErrorAs(t, err, &verr)
	assert.Zero(t, h.calls.Load())
}

func TestLoginPersistsBeforeNavigating(t *testing.T) {
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/login", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "user@test.com", body["email"])
		assert.Equal(t, "validpass1", body["password"])
		okLogin(w, r)
	})

	var route string
	var navigatedAt time.Time
	nav := NavigatorFunc(func(r string) {
		// Persistence must already be complete when navigation happens
		for key, want := range map[string]string{
			session.KeyAccessToken:  "A",
			session.KeyRefreshToken: "B",
			session.KeyUserID:       "U",
		} {
			got, err := h.store.Get(context.Background(), key)
			assert.NoError(t, err)
			assert.Equal(t, want, got, key)
		}
		route = r
		navigatedAt = time.Now()
	})

	const delay = 50 * time.Millisecond
	start := time.Now()
	res, err := h.service(nav, delay).Login(context.Background(), "user@test.com", "validpass1")
	require.NoError(t, err)

	assert.Equal(t, "Kim", res.Name)
	assert.Equal(t, DashboardRoute, route)
	assert.GreaterOrEqual(t, navigatedAt.Sub(start), delay)
}

func TestLoginErrorCodes(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{
			name:    "invalid credentials ignores message field",
			status:  http.StatusUnauthorized,
			body:    `{"success":false,"error":{"code":"INVALID_CREDENTIALS","message":"wrong password, try again"}}`,
			wantMsg: MsgInvalidCredential,
		},
		{
			name:    "invalid credentials in a 200 envelope",
			status:  http.StatusOK,
			body:    `{"success":false,"error":{"code":"INVALID_CREDENTIALS","message":"nope"}}`,
			wantMsg: MsgInvalidCredential,
		},
		{
			name:    "user not found",
			status:  http.StatusNotFound,
			body:    `{"success":false,"error":{"code":"USER_NOT_FOUND","message":"no such user"}}`,
			wantMsg: MsgUserNotFound,
		},
		{
			name:    "unknown code uses backend message",
			status:  http.StatusBadRequest,
			body:    `{"success":false,"error":{"code":"ACCOUNT_LOCKED","message":"계정이 잠겼습니다"}}`,
			wantMsg: "계정이 잠겼습니다",
		},
		{
			name:    "unknown code without message uses generic text",
			status:  http.StatusInternalServerError,
			body:    `{"success":false,"error":{"code":"INTERNAL"}}`,
			wantMsg: MsgLoginFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})
			navigated := false
			_, err := h.service(NavigatorFunc(func(string) { navigated = true }), 0).
				Login(context.Background(), "user@test.com", "validpass1")

			var f *Failure
			require.ErrorAs(t, err, &f)
			assert.Equal(t, tt.wantMsg, f.Msg)
			assert.False(t, navigated)
			assert.False(t, h.sess.LoggedIn())
		})
	}
}

func TestRegisterEmailTaken(t *testing.T) {
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"success":false,"error":{"code":"EMAIL_ALREADY_EXISTS","message":"duplicate"}}`))
	})

	_, err := h.service(nil, 0).Register(context.Background(), models.Profile{
		Name: "Kim", Email: "kim@test.com", Password: "validpass1", ConfirmPassword: "validpass1",
	})
	var f *Failure
	require.ErrorAs(t, err, &f)
	assert.Equal(t, MsgEmailTaken, f.Msg)
}

func TestNetworkFailureIsDistinct(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	sess, err := session.Open(context.Background(), session.NewMemoryStore())
	require.NoError(t, err)
	svc := NewService(api.New(url, sess), sess, nil, 0, nil)

	_, err = svc.Login(context.Background(), "user@test.com", "validpass1")
	var f *Failure
	require.ErrorAs(t, err, &f)
	assert.Equal(t, MsgNetwork, f.Msg)
	assert.True(t, errors.Is(err, api.ErrNetwork))
}

func TestLogoutClearsEvenWhenBackendFails(t *testing.T) {
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	ctx := context.Background()
	require.NoError(t, h.sess.SaveCredentials(ctx, session.Credentials{AccessToken: "A", RefreshToken: "B", UserID: "U"}))

	require.NoError(t, h.service(nil, 0).Logout(ctx))
	assert.False(t, h.sess.LoggedIn())
}

func TestValidateProfileCountsRunes(t *testing.T) {
	// eight Hangul syllables are eight characters even though they are 24 bytes
	p := models.Profile{Name: "Kim", Email: "kim@test.com", Password: "가나다라마바사아", ConfirmPassword: "가나다라마바사아"}
	assert.NoError(t, ValidateProfile(p))
}

func TestRejectedLoginKeepsCodeMessageWithStaleSession(t *testing.T) {
	refreshed := &atomic.Int32{}
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/refresh" {
			refreshed.Add(1)
		}
		w.WriteHeader(http.StatusUnauthorized)
		if r.URL.Path == "/auth/login" {
			w.Write([]byte(`{"success":false,"error":{"code":"INVALID_CREDENTIALS","message":"bad"}}`))
		}
	})
	ctx := context.Background()
	require.NoError(t, h.sess.SaveCredentials(ctx, session.Credentials{AccessToken: "old", RefreshToken: "stale", UserID: "U"}))

	_, err := h.service(nil, 0).Login(ctx, "user@test.com", "wrongpass1")

	var f *Failure
	require.ErrorAs(t, err, &f)
	assert.Equal(t, MsgInvalidCredential, f.Msg)
	assert.Zero(t, refreshed.Load(), "a rejected login must not refresh tokens")
	assert.Equal(t, int32(1), h.calls.Load())
}
