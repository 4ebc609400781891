package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ariefcatur/restaurant-delivery/internal/auth"
	"github.com/ariefcatur/restaurant-delivery/internal/catalog"
	"github.com/ariefcatur/restaurant-delivery/internal/orders"
	"github.com/ariefcatur/restaurant-delivery/internal/redisx"
)

const (
	testSecret   = "test-secret-with-enough-bytes-32!"
	testIssuer   = "restaurant-delivery"
	testAudience = "restaurant-delivery-clients"
)

var (
	margheritaID = "6c1f1d2e-4a8b-4f4e-9a51-000000000001"
	colaID       = "6c1f1d2e-4a8b-4f4e-9a51-000000000008"
)

type testAPI struct {
	t      *testing.T
	router http.Handler
	issuer *auth.JWTIssuer
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	logger := zap.NewNop()
	store := orders.NewMemoryStore()
	dishes := catalog.NewMemoryRepo(catalog.SampleDishes()...)
	gate := auth.NewGate(auth.NewJWTParser(testSecret, testIssuer, testAudience), redisx.NewRevocationStore(rdb))

	h := &Handler{
		Catalog:   catalog.NewService(dishes, store, logger),
		Ledger:    orders.NewLedger(store, dishes, logger),
		Lifecycle: orders.NewLifecycle(store, orders.NopEvents{}, logger),
		Gate:      gate,
		Logger:    logger,
		Timeout:   time.Second,
	}
	r := NewRouter(logger)
	h.Register(r)
	return &testAPI{t: t, router: r, issuer: auth.NewJWTIssuer(testSecret, testIssuer, testAudience)}
}

func (a *testAPI) token(userID uuid.UUID) string {
	a.t.Helper()
	tok, err := a.issuer.Issue(userID, time.Hour)
	if err != nil {
		a.t.Fatalf("Issue() error = %v", err)
	}
	return tok
}

func (a *testAPI) do(method, path, token, body string) *httptest.ResponseRecorder {
	a.t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestOrderFlow(t *testing.T) {
	api := newTestAPI(t)
	user := api.token(uuid.New())

	for _, dish := range []string{margheritaID, margheritaID, colaID} {
		if rec := api.do(http.MethodPost, "/api/basket/dish/"+dish, user, ""); rec.Code != http.StatusOK {
			t.Fatalf("add %s: status = %d body = %s", dish, rec.Code, rec.Body)
		}
	}

	rec := api.do(http.MethodGet, "/api/basket", user, "")
	lines := decode[[]orders.BasketLine](t, rec)
	if len(lines) != 2 {
		t.Fatalf("basket lines = %d, want 2", len(lines))
	}

	rec = api.do(http.MethodPost, "/api/order", user, `{"deliveryTime":"2024-05-01T18:30:00Z","address":"Main st 1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("create order: status = %d body = %s", rec.Code, rec.Body)
	}
	created := decode[CreateOrderResp](t, rec)

	rec = api.do(http.MethodGet, "/api/order/"+created.OrderID.String(), user, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get order: status = %d", rec.Code)
	}
	order := decode[orders.Order](t, rec)
	if order.Price.StringFixed(2) != "22.00" || len(order.Lines) != 2 || order.Status != orders.StatusInProcess {
		t.Fatalf("order = %+v", order)
	}

	rec = api.do(http.MethodGet, "/api/dish/"+colaID+"/rating/check", user, "")
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "true" {
		t.Fatalf("rating check: status = %d body = %s", rec.Code, rec.Body)
	}

	path := "/api/order/" + created.OrderID.String() + "/status"
	if rec := api.do(http.MethodPost, path, user, ""); rec.Code != http.StatusOK {
		t.Fatalf("confirm: status = %d body = %s", rec.Code, rec.Body)
	}
	if rec := api.do(http.MethodPost, path, user, ""); rec.Code != http.StatusConflict {
		t.Fatalf("second confirm: status = %d, want 409", rec.Code)
	}

	rec = api.do(http.MethodGet, "/api/order", user, "")
	list := decode[[]orders.Order](t, rec)
	if len(list) != 1 || list[0].Status != orders.StatusDelivered {
		t.Fatalf("orders = %+v", list)
	}
}

func TestErrorMapping(t *testing.T) {
	api := newTestAPI(t)
	user := api.token(uuid.New())

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   string
		want   int
	}{
		{name: "no token", method: http.MethodGet, path: "/api/basket", want: http.StatusUnauthorized},
		{name: "garbage token", method: http.MethodGet, path: "/api/basket", token: "nope", want: http.StatusUnauthorized},
		{name: "unknown dish", method: http.MethodPost, path: "/api/basket/dish/" + uuid.NewString(), token: user, want: http.StatusNotFound},
		{name: "bad dish id", method: http.MethodPost, path: "/api/basket/dish/abc", token: user, want: http.StatusBadRequest},
		{name: "unknown line", method: http.MethodDelete, path: "/api/basket/dish/" + uuid.NewString() + "?increase=true", token: user, want: http.StatusNotFound},
		{name: "empty basket", method: http.MethodPost, path: "/api/order", token: user, body: `{"deliveryTime":"2024-05-01T18:30:00Z","address":"Main st 1"}`, want: http.StatusBadRequest},
		{name: "bad json", method: http.MethodPost, path: "/api/order", token: user, body: `{`, want: http.StatusBadRequest},
		{name: "unknown order", method: http.MethodGet, path: "/api/order/" + uuid.NewString(), token: user, want: http.StatusNotFound},
		{name: "rating out of range", method: http.MethodPost, path: "/api/dish/" + colaID + "/rating?ratingScore=11", token: user, want: http.StatusBadRequest},
		{name: "unknown category", method: http.MethodGet, path: "/api/dish?categories=Sushi", want: http.StatusBadRequest},
		{name: "page zero", method: http.MethodGet, path: "/api/dish?page=0", want: http.StatusBadRequest},
		{name: "menu is public", method: http.MethodGet, path: "/api/dish?categories=Pizza&sorting=PriceDesc", want: http.StatusOK},
		{name: "health", method: http.MethodGet, path: "/healthz", want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.do(tt.method, tt.path, tt.token, tt.body)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.want, rec.Body)
			}
		})
	}
}

func TestUnauthorizedHidesCause(t *testing.T) {
	api := newTestAPI(t)
	rec := api.do(http.MethodGet, "/api/order", "not-a-jwt", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	resp := decode[Response](t, rec)
	if resp.Message != unauthorizedMessage {
		t.Errorf("message = %q, want the fixed message", resp.Message)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	api := newTestAPI(t)
	user := api.token(uuid.New())

	if rec := api.do(http.MethodGet, "/api/basket", user, ""); rec.Code != http.StatusOK {
		t.Fatalf("before logout: status = %d", rec.Code)
	}
	if rec := api.do(http.MethodPost, "/api/account/logout", user, ""); rec.Code != http.StatusOK {
		t.Fatalf("logout: status = %d body = %s", rec.Code, rec.Body)
	}
	if rec := api.do(http.MethodGet, "/api/basket", user, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("after logout: status = %d, want 401", rec.Code)
	}
}

func TestListDishesPaging(t *testing.T) {
	api := newTestAPI(t)
	rec := api.do(http.MethodGet, "/api/dish?vegetarian=true&sorting=NameAsc", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	page := decode[catalog.Page](t, rec)
	if page.Pagination.Current != 1 || page.Pagination.Size != catalog.PageSize {
		t.Errorf("pagination = %+v", page.Pagination)
	}
	for _, d := range page.Dishes {
		if !d.Vegetarian {
			t.Errorf("dish %s is not vegetarian", d.Name)
		}
	}
	if len(page.Dishes) == 0 || page.Dishes[0].Name != "Cola" {
		t.Errorf("first dish = %+v, want Cola", page.Dishes)
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{header: "Bearer abc", want: "abc"},
		{header: "bearer abc", want: "abc"},
		{header: "Basic abc", want: ""},
		{header: "abc", want: ""},
		{header: "", want: ""},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", tt.header)
		if got := bearerToken(r); got != tt.want {
			t.Errorf("bearerToken(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}

func TestRateDishRejectsNonFiniteScores(t *testing.T) {
	api := newTestAPI(t)
	user := api.token(uuid.New())

	for _, score := range []string{"NaN", "nan", "Inf", "-Inf", "abc", ""} {
		rec := api.do(http.MethodPost, "/api/dish/"+margheritaID+"/rating?ratingScore="+score, user, "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("ratingScore=%q: status = %d, want 400", score, rec.Code)
		}
	}

	rec := api.do(http.MethodGet, "/api/dish/"+margheritaID, "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get dish: status = %d", rec.Code)
	}
	dish := decode[catalog.Dish](t, rec)
	if dish.Rating != nil {
		t.Errorf("Rating = %v, want unset", *dish.Rating)
	}

	rec = api.do(http.MethodGet, "/api/dish", "", "")
	page := decode[catalog.Page](t, rec)
	if len(page.Dishes) == 0 {
		t.Error("menu is empty after rejected ratings")
	}
}
