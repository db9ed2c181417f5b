package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/auth"
	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/domain/model"
	repo "github.com/btran-developer/gmice-online-ecommerce-back-end/internal/repository"

	"go.uber.org/zap"
)

const MsgRegistered = "Account is successfully created. Please check email for activation"

type AuthUsecase struct {
	tx          repo.TransactionManager
	users       repo.UserRepository
	carts       repo.CartRepository
	hasher      PasswordHasher
	issuer      TokenIssuer
	ledger      TokenLedger
	activations *ActivationUsecase
	log         *zap.Logger
}

func NewAuthUsecase(
	tx repo.TransactionManager,
	users repo.UserRepository,
	carts repo.CartRepository,
	hasher PasswordHasher,
	issuer TokenIssuer,
	ledger TokenLedger,
	activations *ActivationUsecase,
	log *zap.Logger,
) *AuthUsecase {
	return &AuthUsecase{
		tx:          tx,
		users:       users,
		carts:       carts,
		hasher:      hasher,
		issuer:      issuer,
		ledger:      ledger,
		activations: activations,
		log:         log,
	}
}

type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

type LoginInput struct {
	Email    string
	Password string
}

type UserSummary struct {
	UserID       int64  `json:"user_id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	ActiveCartID *int64 `json:"active_cart_id"`
}

type LoginOutput struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	User         UserSummary `json:"user"`
}

type RefreshOutput struct {
	AccessToken string      `json:"access_token"`
	User        UserSummary `json:"user"`
}

// Register creates an inactive user and then mails an activation link. The
// mail goes out only after the user row commits; when it fails the user stays
// inactive and can ask for a fresh link through Resend.
func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput) error {
	const method = "AuthUsecase.Register"

	email := NormalizeEmail(in.Email)
	if !IsEmailLike(email) {
		return InvalidArgument("A valid email is required")
	}
	if len(in.Password) < minPasswordLen {
		return InvalidArgument(fmt.Sprintf("Password must be at least %d characters", minPasswordLen))
	}

	hashed, err := u.hasher.Hash(in.Password)
	if err != nil {
		return internal(ctx, u.log, method, err)
	}

	var user model.User
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		_, err := r.Users().FindByEmail(ctx, email)
		if err == nil {
			return Conflict(MsgEmailTaken)
		}
		if !errors.Is(err, repo.ErrNotFound) {
			return err
		}

		user = model.User{
			FirstName:    strings.TrimSpace(in.FirstName),
			LastName:     strings.TrimSpace(in.LastName),
			Email:        email,
			PasswordHash: hashed,
			Active:       false,
		}
		if err := r.Users().Create(ctx, &user); err != nil {
			if errors.Is(err, repo.ErrDuplicate) {
				return Conflict(MsgEmailTaken)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return passThrough(ctx, u.log, method, err)
	}

	if err := u.activations.SendLink(ctx, user); err != nil {
		logWarn(ctx, u.log, method, "activation link not sent", err)
	}
	return nil
}

func (u *AuthUsecase) Login(ctx context.Context, in LoginInput) (LoginOutput, error) {
	const method = "AuthUsecase.Login"

	user, err := u.users.FindByEmail(ctx, NormalizeEmail(in.Email))
	if errors.Is(err, repo.ErrNotFound) {
		return LoginOutput{}, Unauthorized(MsgBadLogin)
	}
	if err != nil {
		return LoginOutput{}, internal(ctx, u.log, method, err)
	}
	if !u.hasher.Verify(in.Password, user.PasswordHash) {
		return LoginOutput{}, Unauthorized(MsgBadLogin)
	}
	if !user.Active {
		return LoginOutput{}, Unauthorized(MsgNotConfirmed)
	}

	access, err := u.issue(ctx, user.ID, auth.AccessToken, true)
	if err != nil {
		return LoginOutput{}, internal(ctx, u.log, method, err)
	}
	refresh, err := u.issue(ctx, user.ID, auth.RefreshToken, false)
	if err != nil {
		return LoginOutput{}, internal(ctx, u.log, method, err)
	}

	summary, err := u.summary(ctx, user)
	if err != nil {
		return LoginOutput{}, internal(ctx, u.log, method, err)
	}
	return LoginOutput{AccessToken: access.Raw, RefreshToken: refresh.Raw, User: summary}, nil
}

// Refresh issues a non-fresh access token for the holder of a refresh token.
func (u *AuthUsecase) Refresh(ctx context.Context, userID int64) (RefreshOutput, error) {
	const method = "AuthUsecase.Refresh"

	user, err := u.users.FindActiveByID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return RefreshOutput{}, Unauthorized("Unauthorized")
	}
	if err != nil {
		return RefreshOutput{}, internal(ctx, u.log, method, err)
	}

	access, err := u.issue(ctx, user.ID, auth.AccessToken, false)
	if err != nil {
		return RefreshOutput{}, internal(ctx, u.log, method, err)
	}
	summary, err := u.summary(ctx, user)
	if err != nil {
		return RefreshOutput{}, internal(ctx, u.log, method, err)
	}
	return RefreshOutput{AccessToken: access.Raw, User: summary}, nil
}

// Revoke marks the presented token as revoked. It returns the logout message.
func (u *AuthUsecase) Revoke(ctx context.Context, claims *auth.Claims) (string, error) {
	const method = "AuthUsecase.Revoke"

	if claims == nil || claims.ID == "" {
		return "", Unauthorized("Unauthorized")
	}
	if err := u.ledger.Revoke(ctx, claims.ID, u.issuer.Lifetime(claims.Type)); err != nil {
		return "", internal(ctx, u.log, method, err)
	}
	return fmt.Sprintf("User %s successfully logged out.", claims.Subject), nil
}

// Authenticate verifies a raw token and consults the ledger. Anything the
// ledger cannot confirm as live is rejected.
func (u *AuthUsecase) Authenticate(ctx context.Context, raw string, t auth.TokenType) (*auth.Claims, error) {
	claims, err := u.issuer.Parse(raw, t)
	if err != nil {
		return nil, Unauthorized("Unauthorized")
	}
	if u.ledger.IsRevoked(ctx, claims.ID) {
		return nil, Unauthorized("Token has been revoked")
	}
	return claims, nil
}

func (u *AuthUsecase) issue(ctx context.Context, userID int64, t auth.TokenType, fresh bool) (auth.Token, error) {
	tok, err := u.issuer.Issue(userID, t, fresh)
	if err != nil {
		return auth.Token{}, err
	}
	if err := u.ledger.Record(ctx, tok.JTI, tok.Lifetime); err != nil {
		return auth.Token{}, fmt.Errorf("record %s token: %w", t, err)
	}
	return tok, nil
}

func (u *AuthUsecase) summary(ctx context.Context, user model.User) (UserSummary, error) {
	s := UserSummary{
		UserID:    user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
	}
	cart, err := u.carts.FindLatestOpenByUserID(ctx, user.ID)
	switch {
	case err == nil:
		s.ActiveCartID = &cart.ID
	case !errors.Is(err, repo.ErrNotFound):
		return UserSummary{}, err
	}
	return s, nil
}
