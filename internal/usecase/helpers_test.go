package usecase_test

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/auth"
	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/domain/model"
	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/infra/db/dbtest"
	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/infra/redisstore"
	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/infra/repository"
	repo "github.com/btran-developer/gmice-online-ecommerce-back-end/internal/repository"
	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/search"
	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/templates"
	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/tokenledger"
	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/usecase"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// env wires usecases to a private SQLite database and an in-memory redis.
type env struct {
	db *gorm.DB
	mr *miniredis.Miniredis

	tx       *repository.TxManagerGorm
	carts    *repository.CartGormRepository
	products *repository.ProductGormRepository
	tags     *repository.TagGormRepository
	brands   *repository.BrandGormRepository
	features *repository.FeatureGormRepository
	users    *repository.UserGormRepository
	orders   *repository.OrderGormRepository

	store    *redisstore.Store
	mailer   *fakeMailer
	renderer *templates.Renderer
	hasher   *auth.BcryptPasswordHasher
	issuer   *auth.Issuer
	ledger   *tokenledger.Ledger
}

func newEnv(t *testing.T) *env {
	t.Helper()

	gdb := dbtest.Open(t)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	renderer, err := templates.New()
	require.NoError(t, err)

	store := redisstore.New(client)
	return &env{
		db:       gdb,
		mr:       mr,
		tx:       repository.NewTxManagerGorm(gdb),
		carts:    repository.NewCartGormRepository(gdb),
		products: repository.NewProductGormRepository(gdb),
		tags:     repository.NewTagGormRepository(gdb),
		brands:   repository.NewBrandGormRepository(gdb),
		features: repository.NewFeatureGormRepository(gdb),
		users:    repository.NewUserGormRepository(gdb),
		orders:   repository.NewOrderGormRepository(gdb),
		store:    store,
		mailer:   &fakeMailer{},
		renderer: renderer,
		hasher:   auth.NewBcryptPasswordHasher(bcrypt.MinCost),
		issuer:   auth.NewIssuer("test-secret", 15*time.Minute, 30*24*time.Hour),
		ledger:   tokenledger.New(store, zap.NewNop()),
	}
}

func (e *env) cartUsecase() *usecase.CartUsecase {
	return usecase.NewCartUsecase(e.tx, e.carts, e.users, zap.NewNop())
}

func (e *env) orderUsecase(payments usecase.PaymentGateway) *usecase.OrderUsecase {
	return usecase.NewOrderUsecase(e.tx, e.orders, payments, fixedClock{}, zap.NewNop())
}

func (e *env) activationUsecase() *usecase.ActivationUsecase {
	return usecase.NewActivationUsecase(e.store, e.users, e.mailer, e.renderer, usecase.ActivationConfig{
		APIDomain: "https://api.gmice.test",
		Sender:    "no-reply@gmice.test",
	}, zap.NewNop())
}

func (e *env) authUsecase() *usecase.AuthUsecase {
	return usecase.NewAuthUsecase(e.tx, e.users, e.carts, e.hasher, e.issuer, e.ledger, e.activationUsecase(), zap.NewNop())
}

func (e *env) seedProduct(t *testing.T, name, price string, active bool) model.Product {
	t.Helper()
	p := model.Product{Name: name, Price: decimal.RequireFromString(price), InStock: true, Active: active}
	require.NoError(t, e.products.Create(context.Background(), &p))
	return p
}

func (e *env) seedUser(t *testing.T, email, password string, active bool) model.User {
	t.Helper()
	hash, err := e.hasher.Hash(password)
	require.NoError(t, err)
	u := model.User{FirstName: "Ada", LastName: "Lovelace", Email: email, PasswordHash: hash, Active: active}
	require.NoError(t, e.users.Create(context.Background(), &u))
	return u
}

func (e *env) seedCart(t *testing.T, ownerID *int64, lines map[int64]int64) model.Cart {
	t.Helper()
	ctx := context.Background()
	c := model.Cart{Status: model.CartStatusOpen, UserID: ownerID}
	require.NoError(t, e.carts.Create(ctx, &c))
	for productID, qty := range lines {
		require.NoError(t, e.carts.AddLine(ctx, &model.CartLine{CartID: c.ID, ProductID: productID, Quantity: qty}))
	}
	return c
}

// quantities returns product id -> quantity for an OPEN cart.
func (e *env) quantities(t *testing.T, cartID int64) map[int64]int64 {
	t.Helper()
	lines, err := e.carts.ListByCartID(context.Background(), cartID)
	require.NoError(t, err)
	out := map[int64]int64{}
	for _, l := range lines {
		out[l.ProductID] = l.Quantity
	}
	return out
}

func requireKind(t *testing.T, err error, kind usecase.Kind) *usecase.Error {
	t.Helper()
	require.Error(t, err)
	ue, ok := usecase.AsError(err)
	require.True(t, ok, "expected *usecase.Error, got %T: %v", err, err)
	require.Equal(t, kind, ue.Kind, ue.Message)
	return ue
}

func adminFilter() repo.AdminOrderListFilter {
	return repo.AdminOrderListFilter{Page: 1, PerPage: 20}
}

type fixedClock struct{}

func (fixedClock) Now() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }

type fakeMailer struct {
	mu   sync.Mutex
	sent []usecase.MailMessage
	err  error

	// onSend runs before the message is recorded
	onSend func(ctx context.Context, msg usecase.MailMessage)
}

func (m *fakeMailer) Send(ctx context.Context, msg usecase.MailMessage) error {
	if m.onSend != nil {
		m.onSend(ctx, msg)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *fakeMailer) last(t *testing.T) usecase.MailMessage {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.sent, "no mail sent")
	return m.sent[len(m.sent)-1]
}

var activationIDPattern = regexp.MustCompile(`/activation/([0-9a-f]{32})\?`)

func activationID(t *testing.T, msg usecase.MailMessage) string {
	t.Helper()
	m := activationIDPattern.FindStringSubmatch(msg.Text)
	require.Len(t, m, 2, "no activation link in %q", msg.Text)
	return m[1]
}

type declineGateway struct{}

func (declineGateway) Charge(ctx context.Context, token string, amount decimal.Decimal) error {
	return errors.New("card declined")
}

type recordingGateway struct {
	token  string
	amount decimal.Decimal
}

func (g *recordingGateway) Charge(ctx context.Context, token string, amount decimal.Decimal) error {
	g.token, g.amount = token, amount
	return nil
}

type countingReindexer struct {
	calls []string
	err   error
}

func (r *countingReindexer) ReindexAll(ctx context.Context, index string) error {
	r.calls = append(r.calls, index)
	return r.err
}

type fakeSearcher struct {
	hits       search.Hits
	err        error
	gotQuery   string
	gotPage    int
	gotPerPage int
}

func (s *fakeSearcher) Search(ctx context.Context, index, query string, page, perPage int) (search.Hits, error) {
	s.gotQuery, s.gotPage, s.gotPerPage = query, page, perPage
	return s.hits, s.err
}
