package handlers_test

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/devalvin/storefront-golang/internal/auth"
	"github.com/devalvin/storefront-golang/internal/config"
	"github.com/devalvin/storefront-golang/internal/handlers"
	"github.com/devalvin/storefront-golang/internal/models"
	"github.com/devalvin/storefront-golang/internal/routes"
	"github.com/gin-gonic/gin"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

// The handler SQL is written portably (? placeholders, LastInsertId,
// RowsAffected), so the tests drive the full handler stack against an
// in-memory SQLite database instead of a MySQL server.
var testSchema = []string{
	`CREATE TABLE users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		name TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'customer',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE products (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		slug TEXT NOT NULL,
		description TEXT,
		price REAL NOT NULL,
		image_url TEXT,
		category TEXT,
		stock INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE orders (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		total_amount REAL NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (user_id) REFERENCES users (id)
	)`,
	`CREATE TABLE order_items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		order_id INTEGER NOT NULL,
		product_id INTEGER NOT NULL,
		quantity INTEGER NOT NULL,
		price REAL NOT NULL,
		FOREIGN KEY (order_id) REFERENCES orders (id),
		FOREIGN KEY (product_id) REFERENCES products (id)
	)`,
}

type testApp struct {
	t      *testing.T
	db     *sql.DB
	router *gin.Engine
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sql.Open("sqlite3", "file::memory:?_foreign_keys=on")
	require.NoError(t, err)
	// One connection keeps the in-memory database alive for the whole test.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	for _, stmt := range testSchema {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}

	cfg := config.Load()
	cfg.UploadPath = t.TempDir()

	h := &handlers.Handlers{DB: db, Cfg: cfg}
	return &testApp{t: t, db: db, router: routes.SetupRouter(h)}
}

// do performs one request against the full router.
func (app *testApp) do(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	app.t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(app.t, err)
		rdr = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), target), w.Body.String())
}

// registerUser registers a customer through the real endpoint and returns
// the issued token and user id.
func (app *testApp) registerUser(email, name string) (string, int64) {
	app.t.Helper()

	w := app.do(http.MethodPost, "/auth/register", gin.H{
		"email":    email,
		"password": "Passw0rd",
		"name":     name,
	}, "")
	require.Equal(app.t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID int64 `json:"id"`
		} `json:"user"`
	}
	decodeBody(app.t, w, &resp)
	require.NotEmpty(app.t, resp.Token)
	return resp.Token, resp.User.ID
}

// adminUser inserts an admin account directly and mints a token for it.
func (app *testApp) adminUser(email string) string {
	app.t.Helper()

	var password models.Password
	require.NoError(app.t, password.Set("Admin123"))

	res, err := app.db.Exec(
		"INSERT INTO users (email, password_hash, name, role, created_at) VALUES (?, ?, ?, ?, ?)",
		email, password.Hash, "Admin User", models.RoleAdmin, time.Now(),
	)
	require.NoError(app.t, err)
	id, err := res.LastInsertId()
	require.NoError(app.t, err)

	token, err := auth.GenerateToken(id, email, models.RoleAdmin)
	require.NoError(app.t, err)
	return token
}

// insertProduct writes a catalog row directly so tests control created_at.
// An empty category is stored as NULL.
func (app *testApp) insertProduct(name, description, category string, price float64, stock int, createdAt time.Time) int64 {
	app.t.Helper()

	var cat interface{}
	if category != "" {
		cat = category
	}

	res, err := app.db.Exec(
		"INSERT INTO products (name, slug, description, price, image_url, category, stock, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		name, slugify(name), description, price, nil, cat, stock, createdAt,
	)
	require.NoError(app.t, err)
	id, err := res.LastInsertId()
	require.NoError(app.t, err)
	return id
}

// slugify is only for fixture rows; the handlers use gosimple/slug.
func slugify(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			out = append(out, r)
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
		case r == ' ':
			out = append(out, '-')
		}
	}
	return string(out)
}

// productStock reads the current stock for assertions on decrement behavior.
func (app *testApp) productStock(id int64) int {
	app.t.Helper()
	var stock int
	require.NoError(app.t, app.db.QueryRow("SELECT stock FROM products WHERE id = ?", id).Scan(&stock))
	return stock
}

// countRows counts rows in a table, used to assert rollbacks left nothing.
func (app *testApp) countRows(table string) int {
	app.t.Helper()
	var n int
	require.NoError(app.t, app.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&n))
	return n
}
