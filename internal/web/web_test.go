package web

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/reiharu06171214-ux/giftlog/internal/auth"
	"github.com/reiharu06171214-ux/giftlog/internal/calendar"
	"github.com/reiharu06171214-ux/giftlog/internal/ledger"
	"github.com/reiharu06171214-ux/giftlog/internal/middleware"
	"github.com/reiharu06171214-ux/giftlog/internal/models"
	"github.com/reiharu06171214-ux/giftlog/internal/storage/sqlite"
)

func setupTestApp(t *testing.T) http.Handler {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "web.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	l := ledger.New(store)
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost)

	srv, err := New(l, authenticator, store, jwtManager, Options{Metrics: middleware.NewMetrics()})
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}

	mux := http.NewServeMux()
	srv.Register(mux)
	return mux
}

// browser replays cookies between requests like a real client would.
type browser struct {
	t       *testing.T
	h       http.Handler
	cookies map[string]*http.Cookie
}

func newBrowser(t *testing.T, h http.Handler) *browser {
	return &browser{t: t, h: h, cookies: map[string]*http.Cookie{}}
}

func (b *browser) do(method, path string, form url.Values) (*http.Response, string) {
	b.t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, c := range b.cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	b.h.ServeHTTP(rec, req)

	resp := rec.Result()
	for _, c := range resp.Cookies() {
		if c.MaxAge < 0 || c.Value == "" {
			delete(b.cookies, c.Name)
			continue
		}
		b.cookies[c.Name] = c
	}
	data, _ := io.ReadAll(resp.Body)
	return resp, string(data)
}

func (b *browser) get(path string) (*http.Response, string) {
	return b.do(http.MethodGet, path, nil)
}

func (b *browser) post(path string, form url.Values) (*http.Response, string) {
	return b.do(http.MethodPost, path, form)
}

func (b *browser) signUp(email string) {
	b.t.Helper()
	resp, _ := b.post("/register", url.Values{"email": {email}, "password": {"password123"}})
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/" {
		b.t.Fatalf("register: status %d location %q", resp.StatusCode, resp.Header.Get("Location"))
	}
	if _, ok := b.cookies[middleware.SessionCookie]; !ok {
		b.t.Fatal("register did not set a session cookie")
	}
}

func assertContains(t *testing.T, body string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(body, w) {
			t.Errorf("expected body to contain %q", w)
		}
	}
}

func TestPagesRequireSession(t *testing.T) {
	b := newBrowser(t, setupTestApp(t))

	for _, path := range []string{"/", "/gifts", "/gifts/new", "/gifts/1/edit", "/givers", "/categories", "/calendar.ics", "/logout"} {
		resp, _ := b.get(path)
		if resp.StatusCode != http.StatusSeeOther {
			t.Errorf("%s: expected 303, got %d", path, resp.StatusCode)
		}
		if loc := resp.Header.Get("Location"); loc != middleware.LoginPath {
			t.Errorf("%s: expected redirect to login, got %q", path, loc)
		}
	}
}

func TestSessionForMissingUserIsRejected(t *testing.T) {
	b := newBrowser(t, setupTestApp(t))

	token, err := auth.NewJWTManager("test-secret", time.Hour).Generate(&models.User{ID: 99, Email: "gone@example.com"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	requests := []struct {
		method string
		path   string
		form   url.Values
	}{
		{http.MethodGet, "/gifts", nil},
		{http.MethodPost, "/gifts/new", url.Values{"title": {"Orphan"}}},
		{http.MethodPost, "/givers", url.Values{"name": {"Nobody"}}},
	}
	for _, req := range requests {
		b.cookies[middleware.SessionCookie] = &http.Cookie{Name: middleware.SessionCookie, Value: token}

		resp, _ := b.do(req.method, req.path, req.form)
		if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != middleware.LoginPath {
			t.Errorf("%s %s: got %d %q, want redirect to login", req.method, req.path, resp.StatusCode, resp.Header.Get("Location"))
		}
		if _, ok := b.cookies[middleware.SessionCookie]; ok {
			t.Errorf("%s %s: session cookie was not cleared", req.method, req.path)
		}
	}
}

func TestRegisterSeedsDefaults(t *testing.T) {
	b := newBrowser(t, setupTestApp(t))
	b.signUp("alice@example.com")

	resp, body := b.get("/")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("home: expected 200, got %d", resp.StatusCode)
	}
	assertContains(t, body, "Welcome to GiftLog!", "You have recorded 0 gifts.", "alice@example.com")

	_, body = b.get("/categories")
	assertContains(t, body, "Food", "Cosmetics", "Household", "Other")

	_, body = b.get("/givers")
	assertContains(t, body, "Father", "Mother")
}

func TestRegisterErrors(t *testing.T) {
	h := setupTestApp(t)
	newBrowser(t, h).signUp("bob@example.com")

	tests := []struct {
		name  string
		form  url.Values
		flash string
	}{
		{"missing fields", url.Values{"email": {""}, "password": {""}}, "Please enter an email and a password."},
		{"duplicate email", url.Values{"email": {"BOB@example.com"}, "password": {"password123"}}, "That email is already registered."},
		{"short password", url.Values{"email": {"carol@example.com"}, "password": {"short"}}, "Password must be at least 8 characters."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBrowser(t, h)
			resp, _ := b.post("/register", tt.form)
			if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/register" {
				t.Fatalf("expected redirect back to /register, got %d %q", resp.StatusCode, resp.Header.Get("Location"))
			}
			_, body := b.get("/register")
			assertContains(t, body, tt.flash)
		})
	}
}

func TestLogin(t *testing.T) {
	h := setupTestApp(t)
	newBrowser(t, h).signUp("dave@example.com")

	b := newBrowser(t, h)
	resp, body := b.post("/login", url.Values{"email": {"dave@example.com"}, "password": {"nope-nope"}})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("failed login: expected 200, got %d", resp.StatusCode)
	}
	assertContains(t, body, "Incorrect email or password.")
	if _, ok := b.cookies[middleware.SessionCookie]; ok {
		t.Fatal("failed login must not set a session")
	}

	resp, _ = b.post("/login", url.Values{"email": {" Dave@Example.com "}, "password": {"password123"}})
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("login: expected 303, got %d", resp.StatusCode)
	}
	resp, _ = b.get("/gifts")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("gifts after login: expected 200, got %d", resp.StatusCode)
	}

	resp, _ = b.get("/logout")
	if resp.Header.Get("Location") != middleware.LoginPath {
		t.Errorf("logout: expected redirect to login, got %q", resp.Header.Get("Location"))
	}
	if _, ok := b.cookies[middleware.SessionCookie]; ok {
		t.Error("logout did not clear the session cookie")
	}
	resp, _ = b.get("/gifts")
	if resp.StatusCode != http.StatusSeeOther {
		t.Errorf("gifts after logout: expected 303, got %d", resp.StatusCode)
	}
}

func TestCreateGiftRequiresTitle(t *testing.T) {
	b := newBrowser(t, setupTestApp(t))
	b.signUp("erin@example.com")

	resp, body := b.post("/gifts/new", url.Values{"title": {"  "}, "memo": {"from the neighbours"}, "amount": {"500"}})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	assertContains(t, body, "Title is required.", "from the neighbours", `value="500"`)

	_, body = b.get("/")
	assertContains(t, body, "You have recorded 0 gifts.")
}

func TestCreateAndFilterGifts(t *testing.T) {
	b := newBrowser(t, setupTestApp(t))
	b.signUp("frank@example.com")

	gifts := []url.Values{
		{"title": {"Tea set"}, "received_date": {"2024-03-01"}, "amount": {"12345"}, "thank_you_sent": {"on"}},
		{"title": {"Chocolate"}, "received_date": {"2024-03-05"}, "amount": {"800"}},
		{"title": {"Postcard"}, "received_date": {"2024-03-03"}, "amount": {"abc"}},
	}
	for _, g := range gifts {
		resp, _ := b.post("/gifts/new", g)
		if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/gifts" {
			t.Fatalf("create %s: status %d location %q", g.Get("title"), resp.StatusCode, resp.Header.Get("Location"))
		}
	}

	resp, body := b.get("/gifts")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	assertContains(t, body, "Gift added.", "Total: 13,145", "Average: 6,572", "12,345")
	if i, j := strings.Index(body, "Chocolate"), strings.Index(body, "Tea set"); i < 0 || j < 0 || i > j {
		t.Error("expected newest gift first")
	}

	_, body = b.get("/gifts?q=TEA&min_amount=x")
	assertContains(t, body, "Tea set", "Total: 12,345")
	if strings.Contains(body, "Chocolate") {
		t.Error("text filter should exclude Chocolate")
	}

	_, body = b.get("/gifts?amount_only=1&max_amount=1000")
	assertContains(t, body, "Chocolate")
	if strings.Contains(body, "Postcard") || strings.Contains(body, "Tea set") {
		t.Error("amount filter kept the wrong gifts")
	}
}

func TestEditGift(t *testing.T) {
	h := setupTestApp(t)
	b := newBrowser(t, h)
	b.signUp("gina@example.com")

	b.post("/gifts/new", url.Values{"title": {"Vase"}, "received_date": {"2024-02-02"}, "memo": {"blue"}})

	resp, body := b.get("/gifts/1/edit")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("edit form: expected 200, got %d", resp.StatusCode)
	}
	assertContains(t, body, `value="Vase"`, "2024-02-02", "blue")

	resp, _ = b.post("/gifts/1/edit", url.Values{"title": {""}, "return_due_date": {"2024-03-01"}})
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("update: expected 303, got %d", resp.StatusCode)
	}

	_, body = b.get("/gifts")
	assertContains(t, body, "Gift updated.", "Vase", "2024-02-02", "2024-03-01")
	if strings.Contains(body, "blue") {
		t.Error("memo should be cleared by an empty edit")
	}

	other := newBrowser(t, h)
	other.signUp("hank@example.com")
	for _, path := range []string{"/gifts/1/edit", "/gifts/999/edit", "/gifts/abc/edit", "/gifts/0/edit"} {
		resp, body := other.get(path)
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("%s: expected 404, got %d", path, resp.StatusCode)
		}
		assertContains(t, body, "Not found")
	}
	resp, _ = other.post("/gifts/1/edit", url.Values{"title": {"Mine now"}})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("foreign update: expected 404, got %d", resp.StatusCode)
	}
}

func TestGiversAndCategories(t *testing.T) {
	b := newBrowser(t, setupTestApp(t))
	b.signUp("iris@example.com")

	resp, _ := b.post("/givers", url.Values{"name": {"Aunt May"}, "contact": {"may@example.com"}})
	if resp.Header.Get("Location") != "/givers" {
		t.Fatalf("expected redirect to /givers, got %q", resp.Header.Get("Location"))
	}
	_, body := b.get("/givers")
	assertContains(t, body, "Giver added.", "Aunt May", "may@example.com")

	b.post("/givers", url.Values{"name": {"   "}})
	_, body = b.get("/givers")
	if strings.Contains(body, "Giver added.") {
		t.Error("blank giver name should not be added")
	}

	b.post("/categories", url.Values{"name": {"Books"}})
	_, body = b.get("/categories")
	assertContains(t, body, "Category added.", "Books")
}

func TestCalendarFeed(t *testing.T) {
	b := newBrowser(t, setupTestApp(t))
	b.signUp("jane@example.com")

	b.post("/gifts/new", url.Values{"title": {"Tea set"}, "return_due_date": {"2024-05-01"}})
	b.post("/gifts/new", url.Values{"title": {"Done"}, "return_due_date": {"2024-05-02"}, "return_done": {"on"}})
	b.post("/gifts/new", url.Values{"title": {"No due date"}})

	resp, body := b.get("/calendar.ics")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != calendar.ContentType {
		t.Errorf("Content-Type: got %q", ct)
	}
	if cd := resp.Header.Get("Content-Disposition"); cd != "attachment; filename=giftlog.ics" {
		t.Errorf("Content-Disposition: got %q", cd)
	}
	assertContains(t, body, "BEGIN:VCALENDAR\r\n", "SUMMARY:Return gift: Tea set", "DTSTART;VALUE=DATE:20240501")
	if strings.Count(body, "BEGIN:VEVENT") != 1 {
		t.Errorf("expected exactly one event, got body:\n%s", body)
	}
}

func TestUnknownPath(t *testing.T) {
	b := newBrowser(t, setupTestApp(t))

	resp, body := b.get("/no/such/page")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	assertContains(t, body, "Not found")
}

func TestFormatAmount(t *testing.T) {
	n := int64(-1234567)
	tests := []struct {
		in   any
		want string
	}{
		{int64(0), "0"},
		{int64(999), "999"},
		{int64(1000), "1,000"},
		{&n, "-1,234,567"},
		{(*int64)(nil), ""},
	}
	for _, tt := range tests {
		if got := formatAmount(tt.in); got != tt.want {
			t.Errorf("formatAmount(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
