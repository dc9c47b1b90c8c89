package login

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"leafdesk/infrastructure/apiclient"
	"leafdesk/infrastructure/cache"
	sessioncookie "leafdesk/infrastructure/session"
	"leafdesk/infrastructure/sqlite"
	"leafdesk/models"
)

func testUser() models.User {
	return models.User{UserID: models.NewID("9"), UserName: "kamala", FactoryID: models.NewID("2"), Token: "tok"}
}

func openTestStore(t *testing.T) *sessioncookie.Store {
	t.Helper()
	db, err := sqlite.OpenDB(filepath.Join(t.TempDir(), "login.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("runtime caller unavailable")
	}
	migrationsDir := filepath.Join(filepath.Dir(file), "..", "..", "infrastructure", "sqlite", "migrations")
	if err := sqlite.ApplyMigrations(context.Background(), db, migrationsDir); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return sessioncookie.NewStore(db, cache.NewUserSessionCache(), false)
}

func fakeLoginAPI(t *testing.T, status int, body string, calls *int32) *apiclient.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		if r.URL.Path != "/UserMas/login" || r.Method != http.MethodPost {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return apiclient.New(srv.URL, nil)
}

func postLogin(values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestCreateLoginHandler_MissingFieldsMakesNoAPICall(t *testing.T) {
	var calls int32
	api := fakeLoginAPI(t, http.StatusOK, `{}`, &calls)
	handler := CreateLoginHandler(api, openTestStore(t), time.Hour)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, postLogin(url.Values{"userName": {""}, "password": {""}}))

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "Username is required") || !strings.Contains(body, "Password is required") {
		t.Fatalf("expected both inline errors, got %s", body)
	}
	if n := atomic.LoadInt32(&calls); n != 0 {
		t.Fatalf("expected no API call, got %d", n)
	}
}

func TestCreateLoginHandler_UnauthorizedUsesServerText(t *testing.T) {
	var calls int32
	api := fakeLoginAPI(t, http.StatusUnauthorized, `{"error":"Account locked"}`, &calls)
	handler := CreateLoginHandler(api, openTestStore(t), time.Hour)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, postLogin(url.Values{"userName": {"nimal"}, "password": {"bad"}}))

	if rr.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != "/login?error=Account+locked" {
		t.Fatalf("unexpected redirect %q", loc)
	}
}

func TestLoginErrorMessageDefaults(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"401 without text", http.StatusUnauthorized, `{}`, "Invalid username or password"},
		{"500 without text", http.StatusInternalServerError, ``, "An error occurred"},
		{"500 with text", http.StatusInternalServerError, `{"error":"db down"}`, "db down"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var calls int32
			api := fakeLoginAPI(t, tc.status, tc.body, &calls)
			_, err := api.Login(context.Background(), "u", "p")
			if got := loginErrorMessage(err); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestCreateLoginHandler_SuccessStoresSessionAndRedirects(t *testing.T) {
	var calls int32
	api := fakeLoginAPI(t, http.StatusOK, `{"userId":7,"userName":"nimal","factoryId":3,"token":"remote-token"}`, &calls)
	store := openTestStore(t)
	handler := CreateLoginHandler(api, store, time.Hour)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, postLogin(url.Values{"userName": {"nimal"}, "password": {"secret"}}))

	if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != "/" {
		t.Fatalf("expected redirect to /, got %d %q", rr.Code, rr.Header().Get("Location"))
	}
	var token string
	for _, c := range rr.Result().Cookies() {
		if c.Name == sessioncookie.CookieName {
			token = c.Value
		}
	}
	if token == "" {
		t.Fatalf("expected session cookie")
	}

	sess, err := store.Load(context.Background(), token)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	if sess.APIToken != "remote-token" || sess.FactoryID != "3" || sess.User.UserName != "nimal" {
		t.Fatalf("unexpected session: %+v", sess)
	}
}

func TestGetLoginScreenHandler_RedirectsSignedInUser(t *testing.T) {
	store := openTestStore(t)
	var calls int32
	api := fakeLoginAPI(t, http.StatusOK, `{"userId":1,"userName":"a","factoryId":1,"token":"t"}`, &calls)
	user, err := api.Login(context.Background(), "a", "b")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	sess, err := establishSession(context.Background(), store, user, time.Hour)
	if err != nil {
		t.Fatalf("establish session: %v", err)
	}

	for _, path := range []string{"/login", "/signup"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.AddCookie(&http.Cookie{Name: sessioncookie.CookieName, Value: sess.ID})
		rr := httptest.NewRecorder()
		if path == "/login" {
			GetLoginScreenHandler(store).ServeHTTP(rr, req)
		} else {
			GetSignupScreenHandler(store).ServeHTTP(rr, req)
		}
		if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != "/" {
			t.Fatalf("%s: expected redirect to /, got %d", path, rr.Code)
		}
	}

	rr := httptest.NewRecorder()
	GetLoginScreenHandler(store).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/login?error=Invalid+username+or+password", nil))
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "Invalid username or password") {
		t.Fatalf("expected login form with error toast, got %d", rr.Code)
	}
}

func TestLogoutHandlerDeletesSession(t *testing.T) {
	store := openTestStore(t)
	sess, err := establishSession(context.Background(), store, testUser(), time.Hour)
	if err != nil {
		t.Fatalf("establish: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: sessioncookie.CookieName, Value: sess.ID})
	rr := httptest.NewRecorder()
	LogoutHandler(store).ServeHTTP(rr, req)

	if rr.Header().Get("Location") != "/login" {
		t.Fatalf("expected redirect to /login")
	}
	if _, err := store.Load(context.Background(), sess.ID); err == nil {
		t.Fatalf("expected session to be gone")
	}
}
