package http

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/uptrace/bun"
	"github.com/xuri/excelize/v2"

	"leafdesk/frontend/shared/app"
	sessioncontext "leafdesk/frontend/shared/context"
	"leafdesk/infrastructure/apiclient"
	"leafdesk/infrastructure/audit"
	"leafdesk/infrastructure/cache"
	sessioncookie "leafdesk/infrastructure/session"
	"leafdesk/infrastructure/sqlite"
)

const testPassword = "Tea123!Leaf"

// remoteAPI stands in for the REST backend. expire makes every data call 401.
// Posted suppliers are appended to the factory's supplier list.
type remoteAPI struct {
	mu      sync.Mutex
	auths   []string
	expire  bool
	created []string
}

func (f *remoteAPI) setExpired(v bool) {
	f.mu.Lock()
	f.expire = v
	f.mu.Unlock()
}

func (f *remoteAPI) createdSuppliers() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.created...)
}

func (f *remoteAPI) authHeaders() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.auths))
	copy(out, f.auths)
	return out
}

func (f *remoteAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.auths = append(f.auths, r.Header.Get("Authorization"))
	expired := f.expire
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if r.URL.Path == "/UserMas/login" {
		body, _ := io.ReadAll(r.Body)
		if !bytes.Contains(body, []byte(`"password":"`+testPassword+`"`)) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"Invalid username or password"}`))
			return
		}
		_, _ = w.Write([]byte(`{"userId":7,"userName":"nimal","factoryId":3,"token":"remote-token"}`))
		return
	}
	if expired {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"Token expired"}`))
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/SupplierMas" {
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.created = append(f.created, string(body))
		f.mu.Unlock()
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"message":"created"}`))
		return
	}

	switch r.URL.Path {
	case "/FactoryMas/3":
		_, _ = w.Write([]byte(`{"factoryId":3,"factoryCode":"KT","name":"Kandy Tea","description":"Estate","address":"Kandy","phoneNumber":"0812345678"}`))
	case "/SupplierMas/byFactory/3":
		list := []string{`{"supId":1,"supCode":"S01","supName":"Perera","inActive":false}`, `{"supId":2,"supCode":"S02","supName":"Silva","inActive":true}`}
		f.mu.Lock()
		list = append(list, f.created...)
		f.mu.Unlock()
		_, _ = w.Write([]byte("[" + strings.Join(list, ",") + "]"))
	case "/GreenLeafBls/byFactory/3":
		_, _ = w.Write([]byte(`[{"trNo":11,"date":"2024-01-05T07:30:00","supplier":"S01","netQty":"12.50"},{"trNo":12,"date":"2024-01-06T08:00:00","supplier":"S02","netQty":7.25},{"trNo":13,"date":"2024-02-01T08:00:00","supplier":"S01","netQty":3}]`))
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"not found"}`))
	}
}

type integrationEnv struct {
	server *httptest.Server
	remote *remoteAPI
	db     *sqlite.DB
}

func setupIntegrationServer(t *testing.T) (*integrationEnv, *http.Client) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "server-integration.db")
	db, err := sqlite.OpenDB(dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("runtime caller unavailable")
	}
	migrationsDir := filepath.Join(filepath.Dir(file), "..", "sqlite", "migrations")
	if err := sqlite.ApplyMigrations(context.Background(), db, migrationsDir); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	remote := &remoteAPI{}
	remoteSrv := httptest.NewServer(remote)

	store := sessioncookie.NewStore(db, cache.NewUserSessionCache(), false)
	deps := &app.Deps{
		API:       apiclient.New(remoteSrv.URL, store.TokenSource(sessioncontext.GetSessionFromContext), apiclient.WithTimeout(5*time.Second)),
		DB:        db,
		Sessions:  store,
		Audit:     audit.NewService(db),
		Factories: cache.NewFactoryCache(time.Hour),
		Location:  time.UTC,
	}

	s := NewServer("127.0.0.1:0", deps, time.Hour)
	ts := httptest.NewServer(s.Handler())
	env := &integrationEnv{server: ts, remote: remote, db: db}
	t.Cleanup(func() {
		env.server.Close()
		remoteSrv.Close()
		_ = env.db.Close()
	})

	return env, newHTTPClient(t)
}

func newHTTPClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func postForm(t *testing.T, client *http.Client, baseURL, path string, data url.Values) *http.Response {
	t.Helper()
	if data == nil {
		data = url.Values{}
	}
	if token := csrfToken(t, client, baseURL); token != "" {
		data.Set("_csrf", token)
	}
	resp, err := client.PostForm(baseURL+path, data)
	if err != nil {
		t.Fatalf("POST %s failed: %v", path, err)
	}
	return resp
}

func get(t *testing.T, client *http.Client, baseURL, path string) *http.Response {
	t.Helper()
	resp, err := client.Get(baseURL + path)
	if err != nil {
		t.Fatalf("GET %s failed: %v", path, err)
	}
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(body)
}

func csrfToken(t *testing.T, client *http.Client, baseURL string) string {
	t.Helper()
	u, err := url.Parse(baseURL)
	if err != nil {
		t.Fatalf("parse base url: %v", err)
	}
	for _, c := range client.Jar.Cookies(u) {
		if c.Name == "X-CSRF-Token" {
			return c.Value
		}
	}
	return ""
}

func loginAs(t *testing.T, client *http.Client, baseURL, username, password string) {
	t.Helper()

	resp := get(t, client, baseURL, "/login")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected login page 200, got %d", resp.StatusCode)
	}
	_ = resp.Body.Close()

	resp = postForm(t, client, baseURL, "/login", url.Values{
		"userName": {username},
		"password": {password},
	})
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected login 303, got %d", resp.StatusCode)
	}
	if location := resp.Header.Get("Location"); location != "/" {
		t.Fatalf("unexpected login redirect: %s", location)
	}
	_ = resp.Body.Close()
}

func countExportRuns(t *testing.T, db *sqlite.DB, userID, exportType string) int64 {
	t.Helper()
	var count int64
	err := db.WithReadTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`SELECT COUNT(*) FROM export_runs WHERE user_id = ? AND export_type = ?`, userID, exportType).Scan(ctx, &count)
	})
	if err != nil {
		t.Fatalf("count export runs: %v", err)
	}
	return count
}

func countSessions(t *testing.T, db *sqlite.DB) int64 {
	t.Helper()
	var count int64
	err := db.WithReadTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`SELECT COUNT(*) FROM sessions`).Scan(ctx, &count)
	})
	if err != nil {
		t.Fatalf("count sessions: %v", err)
	}
	return count
}

func TestHealth(t *testing.T) {
	env, client := setupIntegrationServer(t)
	resp := get(t, client, env.server.URL, "/health")
	if body := readBody(t, resp); resp.StatusCode != http.StatusOK || body != "ok" {
		t.Fatalf("unexpected health response %d %q", resp.StatusCode, body)
	}
}

func TestAssetsServed(t *testing.T) {
	env, client := setupIntegrationServer(t)
	resp := get(t, client, env.server.URL, "/assets/app.css")
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, ".topnav") {
		t.Fatalf("expected stylesheet, got %d", resp.StatusCode)
	}
}

func TestCSRFPostWithoutTokenRejected(t *testing.T) {
	env, client := setupIntegrationServer(t)

	// No GET first: no CSRF token available in cookie or form.
	resp, err := client.PostForm(env.server.URL+"/login", url.Values{
		"userName": {"nimal"},
		"password": {testPassword},
	})
	if err != nil {
		t.Fatalf("post login: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for missing csrf, got %d", resp.StatusCode)
	}
}

func TestCSRFPostWithTokenAccepted(t *testing.T) {
	env, client := setupIntegrationServer(t)
	loginAs(t, client, env.server.URL, "nimal", testPassword)
}

func TestCSRFPostWithWrongTokenRejected(t *testing.T) {
	env, client := setupIntegrationServer(t)
	_ = readBody(t, get(t, client, env.server.URL, "/login"))

	resp, err := client.PostForm(env.server.URL+"/login", url.Values{
		"userName": {"nimal"},
		"password": {testPassword},
		"_csrf":    {"not-the-cookie"},
	})
	if err != nil {
		t.Fatalf("post login: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for mismatched csrf, got %d", resp.StatusCode)
	}
}

func TestCSRFPostWithoutToken_SameOriginRefererAccepted(t *testing.T) {
	env, client := setupIntegrationServer(t)
	loginAs(t, client, env.server.URL, "nimal", testPassword)

	req, err := http.NewRequest(http.MethodPost, env.server.URL+"/logout", strings.NewReader(""))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Referer", env.server.URL+"/suppliers")

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("post logout without csrf token: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected same-origin csrf fallback 303, got %d", resp.StatusCode)
	}
	if resp.Header.Get("Location") != "/login" {
		t.Fatalf("unexpected logout redirect: %s", resp.Header.Get("Location"))
	}
}

func TestCSRFPostWithoutToken_CrossOriginRejected(t *testing.T) {
	env, client := setupIntegrationServer(t)
	loginAs(t, client, env.server.URL, "nimal", testPassword)

	req, err := http.NewRequest(http.MethodPost, env.server.URL+"/logout", strings.NewReader(""))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Origin", "https://evil.example")
	req.Header.Set("Referer", "https://evil.example/attack")

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("post cross-origin request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for cross-origin missing csrf token, got %d", resp.StatusCode)
	}
	if countSessions(t, env.db) != 1 {
		t.Fatalf("expected session to survive rejected logout")
	}
}

func TestProtectedRoutesRedirectGuests(t *testing.T) {
	env, client := setupIntegrationServer(t)
	for _, path := range []string{"/", "/suppliers", "/factory", "/green-leaf", "/exports"} {
		resp := get(t, client, env.server.URL, path)
		_ = resp.Body.Close()
		if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/login" {
			t.Fatalf("%s: expected redirect to /login, got %d %s", path, resp.StatusCode, resp.Header.Get("Location"))
		}
	}
}

func TestLoginWithWrongPasswordShowsServerMessage(t *testing.T) {
	env, client := setupIntegrationServer(t)
	_ = readBody(t, get(t, client, env.server.URL, "/login"))

	resp := postForm(t, client, env.server.URL, "/login", url.Values{
		"userName": {"nimal"},
		"password": {"wrong"},
	})
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/login?error=Invalid+username+or+password" {
		t.Fatalf("unexpected redirect %s", loc)
	}
	if countSessions(t, env.db) != 0 {
		t.Fatalf("expected no session")
	}
}

func TestSignedInUserSkipsLoginScreen(t *testing.T) {
	env, client := setupIntegrationServer(t)
	loginAs(t, client, env.server.URL, "nimal", testPassword)

	resp := get(t, client, env.server.URL, "/login")
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/" {
		t.Fatalf("expected redirect to dashboard, got %d %s", resp.StatusCode, resp.Header.Get("Location"))
	}
}

func TestAuthenticatedPagesUseRemoteToken(t *testing.T) {
	env, client := setupIntegrationServer(t)
	loginAs(t, client, env.server.URL, "nimal", testPassword)

	resp := get(t, client, env.server.URL, "/")
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected dashboard 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "<small>Kandy Tea</small>") {
		t.Fatalf("expected factory name in navigation")
	}

	resp = get(t, client, env.server.URL, "/suppliers")
	body = readBody(t, resp)
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, "Perera") || !strings.Contains(body, "Silva") {
		t.Fatalf("expected supplier list, got %d", resp.StatusCode)
	}

	resp = get(t, client, env.server.URL, "/factory")
	body = readBody(t, resp)
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, `value="0812345678"`) {
		t.Fatalf("expected factory form, got %d", resp.StatusCode)
	}

	resp = get(t, client, env.server.URL, "/green-leaf?from=2024-01-01&to=2024-01-31")
	body = readBody(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected green leaf 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "2 records, net 19.75 kg") {
		t.Fatalf("expected filtered summary")
	}

	auths := env.remote.authHeaders()
	if len(auths) < 2 || auths[0] != "Bearer" {
		t.Fatalf("expected anonymous login call first, got %v", auths)
	}
	for _, a := range auths[1:] {
		if a != "Bearer remote-token" {
			t.Fatalf("expected remote token on data calls, got %q", a)
		}
	}
}

func TestRemoteUnauthorizedForcesRelogin(t *testing.T) {
	env, client := setupIntegrationServer(t)
	loginAs(t, client, env.server.URL, "nimal", testPassword)
	env.remote.setExpired(true)

	resp := get(t, client, env.server.URL, "/suppliers")
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/login?error=Token+expired" {
		t.Fatalf("unexpected redirect %s", loc)
	}
	if countSessions(t, env.db) != 0 {
		t.Fatalf("expected session removed after remote 401")
	}

	env.remote.setExpired(false)
	resp = get(t, client, env.server.URL, "/suppliers")
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/login" {
		t.Fatalf("expected guest redirect after forced logout, got %d %s", resp.StatusCode, resp.Header.Get("Location"))
	}
}

func TestGreenLeafExportRunLogged(t *testing.T) {
	env, client := setupIntegrationServer(t)
	loginAs(t, client, env.server.URL, "nimal", testPassword)

	resp := get(t, client, env.server.URL, "/green-leaf/export.xlsx?from=2024-01-01&to=2024-01-31")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected export status 200, got %d", resp.StatusCode)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "GreenLeaf_Report.xlsx") {
		t.Fatalf("unexpected content disposition %q", cd)
	}
	body := readBody(t, resp)

	wb, err := excelize.OpenReader(strings.NewReader(body))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	rows, err := wb.GetRows("Filtered Data")
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(rows))
	}

	// The run is recorded after the body is written.
	var count int64
	for i := 0; i < 50; i++ {
		if count = countExportRuns(t, env.db, "7", "green_leaf_xlsx"); count > 0 {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if count != 1 {
		t.Fatalf("expected 1 export run, got %d", count)
	}

	resp = get(t, client, env.server.URL, "/exports")
	page := readBody(t, resp)
	if resp.StatusCode != http.StatusOK || !strings.Contains(page, "GreenLeaf_Report.xlsx") {
		t.Fatalf("expected export history to list the run")
	}
}

func TestDeliverySlipFetchFailureRedirects(t *testing.T) {
	env, client := setupIntegrationServer(t)
	loginAs(t, client, env.server.URL, "nimal", testPassword)

	// The backend has no single-record route for 11.
	resp := get(t, client, env.server.URL, "/green-leaf/11/slip.pdf")
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected redirect for unknown record, got %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); !strings.HasPrefix(loc, "/green-leaf") || !strings.Contains(loc, "level=error") {
		t.Fatalf("unexpected redirect %s", loc)
	}
}

func TestLogoutEndsSession(t *testing.T) {
	env, client := setupIntegrationServer(t)
	loginAs(t, client, env.server.URL, "nimal", testPassword)

	resp := postForm(t, client, env.server.URL, "/logout", nil)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/login" {
		t.Fatalf("expected logout redirect, got %d %s", resp.StatusCode, resp.Header.Get("Location"))
	}
	if countSessions(t, env.db) != 0 {
		t.Fatalf("expected session row removed")
	}

	resp = get(t, client, env.server.URL, "/")
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/login" {
		t.Fatalf("expected dashboard to require login again")
	}
}

func TestCreateSupplierShowsInRefetchedList(t *testing.T) {
	env, client := setupIntegrationServer(t)
	loginAs(t, client, env.server.URL, "nimal", testPassword)

	resp := postForm(t, client, env.server.URL, "/suppliers", url.Values{
		"supCode":   {"S1"},
		"supName":   {"Fernando"},
		"comName":   {"Hill Leaf Co"},
		"telephone": {"0771234567"},
		"inActive":  {"false"},
	})
	readBody(t, resp)
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", resp.StatusCode)
	}
	loc := resp.Header.Get("Location")
	if !strings.HasPrefix(loc, "/suppliers") {
		t.Fatalf("expected redirect to supplier list, got %q", loc)
	}

	created := env.remote.createdSuppliers()
	if len(created) != 1 || !strings.Contains(created[0], `"supCode":"S1"`) || !strings.Contains(created[0], `"factoryId":3`) {
		t.Fatalf("unexpected posted supplier %v", created)
	}

	resp = get(t, client, env.server.URL, loc)
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	for _, want := range []string{"<td>S1</td>", "<td>Fernando</td>", "Supplier added successfully!"} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in re-fetched list", want)
		}
	}
}
