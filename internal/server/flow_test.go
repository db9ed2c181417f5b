package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/auth"
	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/handler"
	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/infra/db/dbtest"
	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/infra/redisstore"
	infraRepo "github.com/btran-developer/gmice-online-ecommerce-back-end/internal/infra/repository"
	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/middleware"
	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/search"
	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/server"
	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/templates"
	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/tokenledger"
	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/usecase"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type outbox struct {
	mu   sync.Mutex
	sent []usecase.MailMessage
}

func (o *outbox) Send(ctx context.Context, m usecase.MailMessage) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sent = append(o.sent, m)
	return nil
}

func (o *outbox) last(t *testing.T) usecase.MailMessage {
	t.Helper()
	o.mu.Lock()
	defer o.mu.Unlock()
	require.NotEmpty(t, o.sent)
	return o.sent[len(o.sent)-1]
}

type shop struct {
	url    string
	mails  *outbox
	admins *usecase.UserAdminUsecase
}

// newShop wires the whole API against SQLite and miniredis.
func newShop(t *testing.T) *shop {
	t.Helper()
	log := zap.NewNop()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	gdb := dbtest.Open(t)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	kv := redisstore.New(client)

	txm := infraRepo.NewTxManagerGorm(gdb)
	carts := infraRepo.NewCartGormRepository(gdb)
	products := infraRepo.NewProductGormRepository(gdb)
	tags := infraRepo.NewTagGormRepository(gdb)
	brands := infraRepo.NewBrandGormRepository(gdb)
	features := infraRepo.NewFeatureGormRepository(gdb)
	users := infraRepo.NewUserGormRepository(gdb)
	orders := infraRepo.NewOrderGormRepository(gdb)

	index := search.NewSynchronizer(nil, log)
	index.Register(search.ProductSource(products))

	renderer, err := templates.New()
	require.NoError(t, err)
	mails := &outbox{}
	hasher := auth.NewBcryptPasswordHasher(bcrypt.MinCost)
	issuer := auth.NewIssuer("flow-secret", 15*time.Minute, time.Hour)

	activations := usecase.NewActivationUsecase(kv, users, mails, renderer, usecase.ActivationConfig{Sender: "shop@gmice.test"}, log)
	authUC := usecase.NewAuthUsecase(txm, users, carts, hasher, issuer, tokenledger.New(kv, log), activations, log)
	orderUC := usecase.NewOrderUsecase(txm, orders, usecase.AcceptAllGateway{}, usecase.SystemClock{}, log)
	admins := usecase.NewUserAdminUsecase(users, hasher, log)

	limiter := middleware.NewRateLimiter(ctx)
	guards := handler.Guards{
		Access:     middleware.AuthJWT(authUC, auth.AccessToken),
		Refresh:    middleware.AuthJWT(authUC, auth.RefreshToken),
		BackOffice: middleware.BackOfficeGuard(users),
		Admin:      middleware.AdminGuard(),
		Strict:     limiter.Middleware(middleware.TierStrict),
		General:    limiter.Middleware(middleware.TierGeneral),
	}

	srv := server.New(server.Options{Addr: "127.0.0.1:0"}, log, guards,
		handler.NewCartHandler(usecase.NewCartUsecase(txm, carts, users, log)),
		handler.NewOrderHandler(orderUC),
		handler.NewUserHandler(authUC, orderUC),
		handler.NewProductHandler(usecase.NewProductUsecase(products, tags, brands, index, log)),
		handler.NewActivationHandler(activations, renderer, "https://gmice.test"),
		handler.NewAdminCatalogHandler(usecase.NewCatalogAdminUsecase(products, tags, brands, features, index, log)),
		handler.NewAdminOrderHandler(usecase.NewOrderAdminUsecase(orders, log)),
	)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	return &shop{url: ts.URL, mails: mails, admins: admins}
}

func (s *shop) call(t *testing.T, method, path, bearer string, body any, want int) []byte {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, s.url+path, r)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, want, resp.StatusCode, "%s %s: %s", method, path, data)
	return data
}

func (s *shop) login(t *testing.T, email, password string) usecase.LoginOutput {
	t.Helper()
	var out usecase.LoginOutput
	body := s.call(t, http.MethodPost, "/api/user/login", "", map[string]string{"email": email, "password": password}, http.StatusOK)
	require.NoError(t, json.Unmarshal(body, &out))
	require.NotEmpty(t, out.AccessToken)
	return out
}

var activationPath = regexp.MustCompile(`/activation/[0-9a-f]{32}\?email=[^\s"<]+`)

func TestShoppingFlow(t *testing.T) {
	s := newShop(t)

	_, err := s.admins.CreateSuperuser(context.Background(), "boss@gmice.test", "boss-pass")
	require.NoError(t, err)
	admin := s.login(t, "boss@gmice.test", "boss-pass").AccessToken

	// catalog
	var product struct {
		ID int64 `json:"id"`
	}
	body := s.call(t, http.MethodPost, "/admin/api/products", admin, map[string]any{
		"name":     "Viper Mini",
		"price":    "39.99",
		"active":   true,
		"in_stock": true,
	}, http.StatusCreated)
	require.NoError(t, json.Unmarshal(body, &product))

	var list usecase.ProductListOutput
	require.NoError(t, json.Unmarshal(s.call(t, http.MethodGet, "/api/products", "", nil, http.StatusOK), &list))
	require.Len(t, list.Products, 1)
	assert.Equal(t, "viper-mini", list.Products[0].Slug)

	// registration and activation
	s.call(t, http.MethodPost, "/api/user", "", map[string]string{
		"first_name": "Ann",
		"last_name":  "Lee",
		"email":      "ann@gmice.test",
		"password":   "ann-secret",
	}, http.StatusCreated)

	s.call(t, http.MethodPost, "/api/user/login", "", map[string]string{"email": "ann@gmice.test", "password": "ann-secret"}, http.StatusUnauthorized)

	link := activationPath.FindString(s.mails.last(t).Text)
	require.NotEmpty(t, link)
	s.call(t, http.MethodGet, link, "", nil, http.StatusOK)
	s.call(t, http.MethodGet, link, "", nil, http.StatusNotFound)

	shopper := s.login(t, "ann@gmice.test", "ann-secret")
	userID := shopper.User.UserID
	assert.Nil(t, shopper.User.ActiveCartID)

	// cart
	var created struct {
		CartID int64 `json:"cart_id"`
	}
	require.NoError(t, json.Unmarshal(s.call(t, http.MethodPost, "/api/cart", "", map[string]int64{"user_id": userID}, http.StatusOK), &created))
	cartPath := "/api/cart/" + strconv.FormatInt(created.CartID, 10)

	var added struct {
		Line usecase.CartLineOutput `json:"cartline"`
	}
	require.NoError(t, json.Unmarshal(s.call(t, http.MethodPatch, cartPath, "", map[string]int64{"product_id": product.ID}, http.StatusOK), &added))
	s.call(t, http.MethodPut, cartPath, "", map[string]int64{"cartline_id": added.Line.ID, "quantity": 2}, http.StatusOK)

	var cart struct {
		Cart usecase.CartOutput `json:"cart"`
	}
	require.NoError(t, json.Unmarshal(s.call(t, http.MethodGet, cartPath, "", nil, http.StatusOK), &cart))
	require.Len(t, cart.Cart.Lines, 1)
	assert.Equal(t, int64(2), cart.Cart.Lines[0].Quantity)

	// checkout
	var placed struct {
		OrderID int64 `json:"order_id"`
	}
	require.NoError(t, json.Unmarshal(s.call(t, http.MethodPost, "/api/order", "", map[string]any{
		"cart_id":           created.CartID,
		"user_id":           userID,
		"billing_address1":  "1 Main St",
		"billing_city":      "Austin",
		"billing_state":     "TX",
		"billing_zip":       73301,
		"shipping_address1": "1 Main St",
		"shipping_city":     "Austin",
		"shipping_state":    "TX",
		"shipping_zip":      73301,
		"contact":           "555-0100",
		"payment_token":     "tok_visa",
	}, http.StatusOK), &placed))
	s.call(t, http.MethodGet, cartPath, "", nil, http.StatusNotFound)

	ordersPath := "/api/user/" + strconv.FormatInt(userID, 10) + "/orders"
	s.call(t, http.MethodGet, ordersPath, "", nil, http.StatusUnauthorized)

	var history struct {
		Orders []usecase.OrderOutput `json:"orders"`
	}
	require.NoError(t, json.Unmarshal(s.call(t, http.MethodGet, ordersPath, shopper.AccessToken, nil, http.StatusOK), &history))
	require.Len(t, history.Orders, 1)
	assert.Equal(t, placed.OrderID, history.Orders[0].ID)
	assert.Equal(t, "NEW", history.Orders[0].Status)
	assert.Equal(t, "79.98", history.Orders[0].Total.StringFixed(2))

	// back office
	statusPath := "/admin/api/orders/" + strconv.FormatInt(placed.OrderID, 10) + "/status"
	s.call(t, http.MethodPut, statusPath, shopper.AccessToken, map[string]string{"status": "COMPLETE"}, http.StatusForbidden)
	s.call(t, http.MethodPut, statusPath, admin, map[string]string{"status": "COMPLETE"}, http.StatusOK)

	// logout
	s.call(t, http.MethodPost, "/api/user/revoke-access", shopper.AccessToken, nil, http.StatusOK)
	s.call(t, http.MethodGet, ordersPath, shopper.AccessToken, nil, http.StatusUnauthorized)
}
