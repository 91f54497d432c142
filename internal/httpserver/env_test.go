package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"restaurantapi/internal/middleware/auth"
	"restaurantapi/internal/models"
	"restaurantapi/internal/policy"
	"restaurantapi/internal/repo"
	"restaurantapi/internal/service"
)

type testEnv struct {
	T     *testing.T
	E     *echo.Echo
	DB    *gorm.DB
	Repo  *repo.GormRepo
	Menu  *MenuHandler
	Cart  *CartHandler
	Order *OrderHandler
	Group *GroupHandler
	Auth  *AuthHandler
}

func newTestEnv(t *testing.T) *testEnv {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.GroupMembership{},
		&models.Category{},
		&models.MenuItem{},
		&models.CartLine{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	r := repo.New(db)
	return &testEnv{
		T:     t,
		E:     echo.New(),
		DB:    db,
		Repo:  r,
		Menu:  &MenuHandler{Svc: &service.CatalogService{Repo: r}},
		Cart:  &CartHandler{Svc: &service.CartService{Repo: r}},
		Order: &OrderHandler{Svc: &service.OrderService{Repo: r}},
		Group: &GroupHandler{Svc: &service.GroupService{Repo: r}},
		Auth:  &AuthHandler{Svc: &service.AuthService{Repo: r, JWTSecret: []byte("test-secret")}},
	}
}

func (env *testEnv) doJSONRequest(method, target string, body any) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

// as stamps the caller into the context the way the auth middleware would.
func (env *testEnv) as(c echo.Context, user *models.User) {
	groups, err := env.Repo.GroupsOf(c.Request().Context(), user.ID)
	require.NoError(env.T, err)
	c.Set(auth.ContextUserKey, user)
	c.Set(auth.ContextRoleKey, policy.ResolveRole(user, groups))
}

func (env *testEnv) seedUser(username string, groups ...string) *models.User {
	user := &models.User{Username: username, PasswordHash: "x"}
	require.NoError(env.T, env.DB.Create(user).Error)
	for _, g := range groups {
		require.NoError(env.T, env.DB.Create(&models.GroupMembership{UserID: user.ID, Group: g}).Error)
	}
	return user
}

func (env *testEnv) seedAdmin(username string) *models.User {
	user := &models.User{Username: username, PasswordHash: "x", IsSuperuser: true}
	require.NoError(env.T, env.DB.Create(user).Error)
	return user
}

func (env *testEnv) seedCategory(title, slug string) *models.Category {
	cat := &models.Category{Title: title, Slug: slug}
	require.NoError(env.T, env.DB.Create(cat).Error)
	return cat
}

func (env *testEnv) seedMenuItem(title, price string, cat *models.Category) *models.MenuItem {
	item := &models.MenuItem{
		Title:      title,
		Price:      dec(price),
		CategoryID: cat.ID,
	}
	require.NoError(env.T, env.DB.Create(item).Error)
	return item
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func requireDetail(t *testing.T, rec *httptest.ResponseRecorder, want string) {
	t.Helper()
	var resp detailResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, want, resp.Detail)
}
