package handler_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/handler"
	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/templates"
	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeActivations struct {
	activateErr error
	resendErr   error
	activated   []string
	resent      []string
}

func (f *fakeActivations) Activate(_ context.Context, id string) error {
	f.activated = append(f.activated, id)
	return f.activateErr
}

func (f *fakeActivations) Resend(_ context.Context, email string) error {
	f.resent = append(f.resent, email)
	return f.resendErr
}

func (f *fakeActivations) ResendLink(email string) string {
	return "https://api.gmice.test/activation/resend?email=" + email
}

func newActivationServer(t *testing.T, uc handler.ActivationService) *echo.Echo {
	t.Helper()
	r, err := templates.New()
	require.NoError(t, err)
	e := echo.New()
	handler.NewActivationHandler(uc, r, "https://gmice.test").RegisterRoutes(e, handler.Guards{})
	return e
}

func TestActivationHandler_Activate(t *testing.T) {
	uc := &fakeActivations{}

	rec := do(t, newActivationServer(t, uc), http.MethodGet, "/activation/abc123?email=ada@x.io", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "text/html")
	assert.Contains(t, rec.Body.String(), "Account activated")
	assert.Contains(t, rec.Body.String(), "https://gmice.test")
	assert.Equal(t, []string{"abc123"}, uc.activated)
}

func TestActivationHandler_ExpiredLinkOffersResend(t *testing.T) {
	uc := &fakeActivations{activateErr: usecase.ErrActivationLinkExpired}

	rec := do(t, newActivationServer(t, uc), http.MethodGet, "/activation/abc123?email=ada", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Activation Link Expired")
	assert.Contains(t, rec.Body.String(), "/activation/resend?email=ada")
}

func TestActivationHandler_ErrorPages(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		text   string
	}{
		{"user gone", usecase.NotFound("User"), http.StatusNotFound, "The user for link does not exist..."},
		{"store down", errors.New("redis: closed"), http.StatusInternalServerError, "Something went wrong..."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			uc := &fakeActivations{activateErr: tc.err}
			rec := do(t, newActivationServer(t, uc), http.MethodGet, "/activation/abc?email=ada", "")
			assert.Equal(t, tc.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.text)
		})
	}
}

func TestActivationHandler_MissingEmail(t *testing.T) {
	uc := &fakeActivations{}
	e := newActivationServer(t, uc)

	rec := do(t, e, http.MethodGet, "/activation/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, e, http.MethodGet, "/activation/resend", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Empty(t, uc.activated)
	assert.Empty(t, uc.resent)
}

func TestActivationHandler_Resend(t *testing.T) {
	uc := &fakeActivations{}

	rec := do(t, newActivationServer(t, uc), http.MethodGet, "/activation/resend?email=ada%40x.io", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Activation Resent")
	assert.Equal(t, []string{"ada@x.io"}, uc.resent)
}

func TestActivationHandler_ResendAlreadyActive(t *testing.T) {
	uc := &fakeActivations{resendErr: usecase.InvalidArgument("Account is already activated")}

	rec := do(t, newActivationServer(t, uc), http.MethodGet, "/activation/resend?email=ada%40x.io", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Account is already activated")
}
