package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/alextreichler/openmarket/internal/ledger"
	"github.com/alextreichler/openmarket/internal/store"
)

const (
	deployer = "0xdeployer"
	buyer    = "0xbuyer"
	secret   = "correct horse battery staple"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

type testEnv struct {
	t         *testing.T
	srv       *httptest.Server
	ledger    *ledger.Ledger
	store     *store.Store
	uploadDir string
}

type envOptions struct {
	limiter *RateLimiter
	wrap    func(http.Handler) http.Handler
}

func newTestEnv(t *testing.T, opts envOptions) *testEnv {
	t.Helper()
	ctx := context.Background()

	st, err := store.NewStore(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate(ctx))

	l, err := ledger.Open(ctx, st, deployer, ledger.WithClock(func() time.Time {
		return time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC)
	}))
	require.NoError(t, err)

	for _, id := range []string{deployer, buyer} {
		hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.MinCost)
		require.NoError(t, err)
		require.NoError(t, st.CreateAccount(ctx, id, string(hash)))
	}

	uploadDir := t.TempDir()
	admin := &AdminHandler{Ledger: l, Accounts: st, SessionStore: sessions.NewCookieStore(testKey)}
	lh := &LedgerHandler{Ledger: l, UploadDir: uploadDir}

	var handler http.Handler = NewMux(admin, lh, opts.limiter)
	if opts.wrap != nil {
		handler = opts.wrap(handler)
	}
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &testEnv{t: t, srv: srv, ledger: l, store: st, uploadDir: uploadDir}
}

// client returns an HTTP client with its own cookie jar, logged in as
// identity unless identity is empty.
func (e *testEnv) client(identity string) *http.Client {
	e.t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(e.t, err)
	c := &http.Client{Jar: jar}
	if identity != "" {
		status, _ := e.call(c, http.MethodPost, "/login", loginRequest{Identity: identity, Secret: secret})
		require.Equal(e.t, http.StatusOK, status)
	}
	return c
}

// call sends body as JSON and decodes the JSON response into a generic map.
func (e *testEnv) call(c *http.Client, method, path string, body any) (int, map[string]any) {
	e.t.Helper()
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(e.t, err)
		rd = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, e.srv.URL+path, rd)
	require.NoError(e.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.Do(req)
	require.NoError(e.t, err)
	return decodeResponse(e.t, resp)
}

func decodeResponse(t *testing.T, resp *http.Response) (int, map[string]any) {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(bytes.TrimSpace(data)) > 0 {
		require.NoError(t, json.Unmarshal(data, &out), "body: %s", data)
	}
	return resp.StatusCode, out
}

// setupListing registers deployer, lists a pechay basket and funds buyer.
func (e *testEnv) setupListing(seller *http.Client, fund int64) {
	e.t.Helper()
	status, _ := e.call(seller, http.MethodPost, "/farmers", registerRequest{Name: "Danki", City: "Baguio", Barangay: "Burnham"})
	require.Equal(e.t, http.StatusOK, status)
	status, body := e.call(seller, http.MethodPost, "/items", ledger.Listing{
		Name: "Pechay", Category: "Vegetable", Image: "ipfs://pechay.jpg", Unit: "basket", Cost: 1, Rating: 4, Stock: 56,
	})
	require.Equal(e.t, http.StatusCreated, status, body)
	if fund > 0 {
		status, body = e.call(seller, http.MethodPost, "/accounts/"+buyer+"/credit", creditRequest{Amount: fund})
		require.Equal(e.t, http.StatusOK, status, body)
	}
}
