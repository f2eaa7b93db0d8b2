package session_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/tenant-platform-client/internal/models"
	"github.com/magabrotheeeer/tenant-platform-client/internal/session"
)

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func newTestSession(t *testing.T, handler http.Handler) (*session.Session, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	s, err := session.New(newNoopLogger(), srv.URL, 5*time.Second)
	require.NoError(t, err)
	return s, srv
}

const authCheckBody = `{
	"email": "tenant@example.com",
	"verified": true,
	"id": 42,
	"type": "tenant",
	"subscriptions": [
		{"bbl": "3012380016", "housenumber": "654", "streetname": "PARK PLACE", "zip": "11216", "boro": "BROOKLYN"}
	],
	"subscription_limit": 15
}`

func TestFetchUser_CachesResult(t *testing.T) {
	var authChecks int64
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/auth_check", func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt64(&authChecks, 1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(authCheckBody))
	})
	s, _ := newTestSession(t, mux)

	first, err := s.FetchUser(context.Background())
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, "tenant@example.com", first.Email)
	assert.Equal(t, 42, first.ID)
	assert.Equal(t, "tenant", first.Type)
	assert.Equal(t, 15, first.SubscriptionLimit)
	require.Len(t, first.Subscriptions, 1)
	assert.Equal(t, "3012380016", first.Subscriptions[0].BBL)

	second, err := s.FetchUser(context.Background())
	require.NoError(t, err)
	require.NotNil(t, second)

	assert.Equal(t, int64(1), atomic.LoadInt64(&authChecks), "second call must hit the cache")
}

func TestFetchUser_ClearUserReissuesCheck(t *testing.T) {
	var authChecks int64
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/auth_check", func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt64(&authChecks, 1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(authCheckBody))
	})
	s, _ := newTestSession(t, mux)

	_, err := s.FetchUser(context.Background())
	require.NoError(t, err)

	s.ClearUser()

	_, err = s.FetchUser(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(2), atomic.LoadInt64(&authChecks))
}

func TestFetchUser_NoActiveSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/auth_check", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	s, _ := newTestSession(t, mux)

	user, err := s.FetchUser(context.Background())
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestFetchUser_ReturnedUserDoesNotAliasCache(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/auth_check", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(authCheckBody))
	})
	s, _ := newTestSession(t, mux)

	first, err := s.FetchUser(context.Background())
	require.NoError(t, err)
	first.Subscriptions[0].BBL = "mutated"

	second, err := s.FetchUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "3012380016", second.Subscriptions[0].BBL)
}

func TestFetchUser_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	s, err := session.New(newNoopLogger(), srv.URL, time.Second)
	require.NoError(t, err)

	_, err = s.FetchUser(context.Background())
	require.Error(t, err)

	var reqErr *session.RequestError
	assert.True(t, errors.As(err, &reqErr))
}

func TestRegister_RefreshesCacheBeforeReturn(t *testing.T) {
	var authChecks int64
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/register", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "new.tenant@example.com", r.PostForm.Get("username"))
		assert.Equal(t, "tenant", r.PostForm.Get("user_type"))
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/auth/auth_check", func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt64(&authChecks, 1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"email":"new.tenant@example.com","verified":false,"id":7,"type":"tenant","subscriptions":[],"subscription_limit":15}`))
	})
	s, _ := newTestSession(t, mux)

	err := s.Register(context.Background(), "New.Tenant@Example.com", "password123", "tenant")
	require.NoError(t, err)
	assert.Equal(t, int64(1), atomic.LoadInt64(&authChecks))

	// кэш уже заполнен, повторного auth_check не будет
	user, err := s.FetchUser(context.Background())
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "new.tenant@example.com", user.Email)
	assert.Equal(t, int64(1), atomic.LoadInt64(&authChecks))
}

func TestRegister_InvalidInput(t *testing.T) {
	s, _ := newTestSession(t, http.NotFoundHandler())

	err := s.Register(context.Background(), "not-an-email", "password123", "tenant")
	assert.Error(t, err)

	err = s.Register(context.Background(), "tenant@example.com", "short", "tenant")
	assert.Error(t, err)
}

func TestLogin_LowercasesUsernameAndSkipsCache(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "tenant@example.com", r.PostForm.Get("username"))
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token":"session-token","expires_at":1893456000}`))
	})
	s, _ := newTestSession(t, mux)

	payload, err := s.Login(context.Background(), "Tenant@Example.COM", "password123")
	require.NoError(t, err)
	assert.Equal(t, "session-token", payload.Token)
	assert.Equal(t, int64(1893456000), payload.ExpiresAt)
}

func TestLogin_Rejected(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	s, _ := newTestSession(t, mux)

	_, err := s.Login(context.Background(), "tenant@example.com", "wrong-password")
	require.Error(t, err)

	var statusErr *session.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
}

func TestIsEmailAlreadyUsed_NormalizesCase(t *testing.T) {
	var gotPath string
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/account_exists/", func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	})
	s, _ := newTestSession(t, mux)

	used, err := s.IsEmailAlreadyUsed(context.Background(), "A@B.com")
	require.NoError(t, err)
	assert.True(t, used)
	assert.Equal(t, "/auth/account_exists/a@b.com", gotPath)
}

func TestIsEmailAlreadyUsed_NotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/account_exists/", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	s, _ := newTestSession(t, mux)

	used, err := s.IsEmailAlreadyUsed(context.Background(), "free@example.com")
	require.NoError(t, err)
	assert.False(t, used)
}

func TestResetPassword_Success(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/set_password", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "tok123", r.PostForm.Get("token"))
		assert.Equal(t, "newpass", r.PostForm.Get("password"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status_code":200,"status_text":"ok"}`))
	})
	s, _ := newTestSession(t, mux)

	result := s.ResetPassword(context.Background(), "tok123", "newpass")
	assert.Equal(t, models.ResetStatusSuccess, result.StatusCode)
	assert.Equal(t, "ok", result.StatusText)
	assert.Empty(t, result.Error)
}

func TestResetPassword_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	s, err := session.New(newNoopLogger(), srv.URL, time.Second)
	require.NoError(t, err)

	result := s.ResetPassword(context.Background(), "tok123", "newpass")
	assert.Equal(t, models.ResetStatusUnknown, result.StatusCode)
	assert.Empty(t, result.StatusText)
	assert.NotEmpty(t, result.Error)
}

func TestResetPassword_ExpiredToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/set_password", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		// тело интерпретируется и при неуспешном HTTP-статусе
		w.WriteHeader(http.StatusGone)
		_, _ = w.Write([]byte(`{"status_code":410,"status_text":"token expired"}`))
	})
	s, _ := newTestSession(t, mux)

	result := s.ResetPassword(context.Background(), "old-token", "newpass")
	assert.Equal(t, models.ResetStatusExpired, result.StatusCode)
	assert.Equal(t, "token expired", result.StatusText)
	assert.Empty(t, result.Error)
}

func TestResetPasswordCheck_TokenFromPageQuery(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/reset_password/check", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "page-token", r.PostForm.Get("token"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status_code":200,"status_text":"valid"}`))
	})
	s, _ := newTestSession(t, mux)
	s.SetPageQuery(url.Values{"token": []string{"page-token"}})

	result := s.ResetPasswordCheck(context.Background())
	assert.Equal(t, models.ResetStatusSuccess, result.StatusCode)
}

func TestResetPasswordRequest_NoUsernameNoToken(t *testing.T) {
	var gotToken string
	var called bool
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/reset_password_request_with_token", func(w http.ResponseWriter, r *http.Request) {
		called = true
		gotToken = r.URL.Query().Get("token")
		w.WriteHeader(http.StatusOK)
	})
	s, _ := newTestSession(t, mux)

	err := s.ResetPasswordRequest(context.Background(), "")
	require.NoError(t, err)
	assert.True(t, called, "request must be issued even without a token")
	assert.Empty(t, gotToken)
}

func TestResetPasswordRequest_ByUsername(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/reset_password_request", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "tenant@example.com", r.PostForm.Get("username"))
		w.WriteHeader(http.StatusOK)
	})
	s, _ := newTestSession(t, mux)

	err := s.ResetPasswordRequest(context.Background(), "Tenant@Example.com")
	assert.NoError(t, err)
}

func TestVerifyEmail_CodeAndUTMFromPageQuery(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/verify_email", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "verify-code", r.PostForm.Get("code"))
		assert.Equal(t, "email_campaign", r.PostForm.Get("utm_source"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status_code":208,"status_text":"already verified"}`))
	})
	s, _ := newTestSession(t, mux)
	s.SetPageQuery(url.Values{
		"code":       []string{"verify-code"},
		"utm_source": []string{"email_campaign"},
	})

	result := s.VerifyEmail(context.Background())
	assert.Equal(t, models.VerifyStatusAlreadyVerified, result.StatusCode)
	assert.Equal(t, "already verified", result.StatusText)
	assert.Empty(t, result.Error)
}

func TestVerifyEmail_MalformedResponse(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/verify_email", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	})
	s, _ := newTestSession(t, mux)

	result := s.VerifyEmail(context.Background())
	assert.Equal(t, models.VerifyStatusUnknown, result.StatusCode)
	assert.NotEmpty(t, result.Error)
}

func TestResendVerifyEmail_WithToken(t *testing.T) {
	var gotToken string
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/resend_verification_with_token", func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.URL.Query().Get("token")
		w.WriteHeader(http.StatusOK)
	})
	s, _ := newTestSession(t, mux)

	err := s.ResendVerifyEmail(context.Background(), "mail-token")
	require.NoError(t, err)
	assert.Equal(t, "mail-token", gotToken)
}

func TestBuildingSubscribe_ReturnsUpdatedList(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/subscriptions/3012380016", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "654", r.PostForm.Get("housenumber"))
		assert.Equal(t, "PARK PLACE", r.PostForm.Get("streetname"))
		assert.Equal(t, "11216", r.PostForm.Get("zip"))
		assert.Equal(t, "BROOKLYN", r.PostForm.Get("boro"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"subscriptions":[{"bbl":"3012380016","housenumber":"654","streetname":"PARK PLACE","zip":"11216","boro":"BROOKLYN"}]}`))
	})
	s, _ := newTestSession(t, mux)

	subs, err := s.BuildingSubscribe(context.Background(), "3012380016", "654", "PARK PLACE", "11216", "BROOKLYN")
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "3012380016", subs[0].BBL)
}

func TestBuildingUnsubscribe_SendsDelete(t *testing.T) {
	var gotMethod string
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/subscriptions/1234567890", func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"subscriptions":[]}`))
	})
	s, _ := newTestSession(t, mux)

	subs, err := s.BuildingUnsubscribe(context.Background(), "1234567890")
	require.NoError(t, err)
	assert.Empty(t, subs)
	assert.Equal(t, http.MethodDelete, gotMethod)
}

func TestEmailUserSubscriptions_TokenInQuery(t *testing.T) {
	var gotToken string
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/email/subscriptions", func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.URL.Query().Get("token")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"subscriptions":[{"bbl":"1000010001"}]}`))
	})
	s, _ := newTestSession(t, mux)

	subs, err := s.EmailUserSubscriptions(context.Background(), "mail-token")
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "mail-token", gotToken)
}

func TestEmailUnsubscribeAll_ServerRejection(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/email/unsubscribe", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	s, _ := newTestSession(t, mux)

	err := s.EmailUnsubscribeAll(context.Background(), "stale-token")
	require.Error(t, err)

	var statusErr *session.StatusError
	var reqErr *session.RequestError
	assert.True(t, errors.As(err, &statusErr))
	assert.False(t, errors.As(err, &reqErr))
}

func TestSetUser_PopulatesCacheWithoutIO(t *testing.T) {
	var authChecks int64
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/auth_check", func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt64(&authChecks, 1)
		w.WriteHeader(http.StatusUnauthorized)
	})
	s, _ := newTestSession(t, mux)

	s.SetUser(&models.User{Email: "manual@example.com", Type: "partner"})

	user, err := s.FetchUser(context.Background())
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "manual@example.com", user.Email)
	assert.Equal(t, int64(0), atomic.LoadInt64(&authChecks))
}

func TestLogout_DoesNotClearCache(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/logout", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	s, _ := newTestSession(t, mux)
	s.SetUser(&models.User{Email: "tenant@example.com"})

	require.NoError(t, s.Logout(context.Background()))

	// сброс кэша — обязанность вызывающего кода
	user, err := s.FetchUser(context.Background())
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "tenant@example.com", user.Email)
}

func TestUpdateEmail_Lowercases(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/update", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "new@example.com", r.PostForm.Get("email"))
		w.WriteHeader(http.StatusOK)
	})
	s, _ := newTestSession(t, mux)

	assert.NoError(t, s.UpdateEmail(context.Background(), "NEW@Example.Com"))
}
