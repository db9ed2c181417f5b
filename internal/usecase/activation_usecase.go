package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/domain/model"
	repo "github.com/btran-developer/gmice-online-ecommerce-back-end/internal/repository"
	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/templates"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const activationKeyPrefix = "activation:"

// ErrActivationLinkExpired is returned for unknown or expired links.
var ErrActivationLinkExpired = &Error{Kind: KindNotFound, Message: "Activation link not found."}

type ActivationConfig struct {
	// APIDomain prefixes the links, e.g. https://api.gmice.test
	APIDomain string
	Sender    string
	TTL       time.Duration
}

type ActivationUsecase struct {
	store    KeyValueStore
	users    repo.UserRepository
	mailer   Mailer
	renderer EmailRenderer
	cfg      ActivationConfig
	log      *zap.Logger
}

func NewActivationUsecase(
	store KeyValueStore,
	users repo.UserRepository,
	mailer Mailer,
	renderer EmailRenderer,
	cfg ActivationConfig,
	log *zap.Logger,
) *ActivationUsecase {
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Minute
	}
	return &ActivationUsecase{
		store:    store,
		users:    users,
		mailer:   mailer,
		renderer: renderer,
		cfg:      cfg,
		log:      log,
	}
}

// SendLink stores a fresh activation link for user and mails it.
func (u *ActivationUsecase) SendLink(ctx context.Context, user model.User) error {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	if err := u.store.Set(ctx, activationKeyPrefix+id, strconv.FormatInt(user.ID, 10), u.cfg.TTL); err != nil {
		return err
	}

	text, html, err := u.renderer.Email(templates.AccountActivation, templates.ActivationEmail{Link: u.ActivationLink(id, user.Email)})
	if err != nil {
		return fmt.Errorf("render activation email: %w", err)
	}
	return u.mailer.Send(ctx, MailMessage{
		Subject:    "Account Activation",
		Sender:     u.cfg.Sender,
		Recipients: []string{user.Email},
		Text:       text,
		HTML:       html,
	})
}

func (u *ActivationUsecase) ActivationLink(id, email string) string {
	return strings.TrimRight(u.cfg.APIDomain, "/") + "/activation/" + id + "?" + url.Values{"email": {email}}.Encode()
}

func (u *ActivationUsecase) ResendLink(email string) string {
	return strings.TrimRight(u.cfg.APIDomain, "/") + "/activation/resend?" + url.Values{"email": {email}}.Encode()
}

// Activate resolves the link, activates the user and consumes the link.
func (u *ActivationUsecase) Activate(ctx context.Context, activationID string) error {
	const method = "ActivationUsecase.Activate"

	key := activationKeyPrefix + activationID
	raw, found, err := u.store.Get(ctx, key)
	if err != nil {
		return internal(ctx, u.log, method, err)
	}
	if !found {
		return ErrActivationLinkExpired
	}
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return internal(ctx, u.log, method, fmt.Errorf("activation %s: bad user id %q", activationID, raw))
	}

	if err := u.users.SetActive(ctx, userID, true); err != nil {
		return notFoundOr(ctx, u.log, method, err, "User")
	}
	if err := u.store.Delete(ctx, key); err != nil {
		// the link expires on its own
		logWarn(ctx, u.log, method, "activation link not deleted", err)
	}
	return nil
}

// Resend issues a new link to an inactive account.
func (u *ActivationUsecase) Resend(ctx context.Context, email string) error {
	const method = "ActivationUsecase.Resend"

	user, err := u.users.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return notFoundOr(ctx, u.log, method, err, "User")
	}
	if user.Active {
		return InvalidArgument("Account is already activated")
	}
	if err := u.SendLink(ctx, user); err != nil {
		return internal(ctx, u.log, method, err)
	}
	return nil
}

// IsActivationExpired reports whether err means the link is gone.
func IsActivationExpired(err error) bool {
	return errors.Is(err, ErrActivationLinkExpired)
}
