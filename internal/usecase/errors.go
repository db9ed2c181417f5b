package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/logger"
	repo "github.com/btran-developer/gmice-online-ecommerce-back-end/internal/repository"

	"go.uber.org/zap"
)

// Kind classifies a failure. Handlers map it to a status code.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindInvalidArgument
	KindConflict
	KindUnauthorized
	KindForbidden
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindInvalidArgument:
		return "invalid_argument"
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	default:
		return "internal"
	}
}

const (
	MsgInternal     = "Internal server error."
	MsgBadQuantity  = "0 or negative quantity is not allowed"
	MsgCartEmpty    = "Cart is empty"
	MsgEmailTaken   = "Email is already taken"
	MsgBadLogin     = "Wrong email or password"
	MsgNotConfirmed = "You have not confirmed registration. Please check your email"
)

// Error is the only error type usecases return to handlers.
// Message is safe to show to clients.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func AsError(err error) (*Error, bool) {
	var ue *Error
	ok := errors.As(err, &ue)
	return ue, ok
}

// KindOf returns KindInternal for anything that is not an *Error.
func KindOf(err error) Kind {
	if ue, ok := AsError(err); ok {
		return ue.Kind
	}
	return KindInternal
}

// NotFound formats "<what> not found.", e.g. NotFound("Cart 7").
func NotFound(what string) error {
	return &Error{Kind: KindNotFound, Message: what + " not found."}
}

func NotFoundf(format string, args ...any) error {
	return NotFound(fmt.Sprintf(format, args...))
}

func InvalidArgument(msg string) error {
	return &Error{Kind: KindInvalidArgument, Message: msg}
}

func Conflict(msg string) error {
	return &Error{Kind: KindConflict, Message: msg}
}

func Unauthorized(msg string) error {
	return &Error{Kind: KindUnauthorized, Message: msg}
}

func Forbidden(msg string) error {
	return &Error{Kind: KindForbidden, Message: msg}
}

// internal logs err and hides it behind the generic message.
func internal(ctx context.Context, base *zap.Logger, method string, err error) error {
	logger.FromCtx(ctx, base).Error("usecase failed",
		zap.String("layer", "usecase"),
		zap.String("method", method),
		zap.Error(err),
	)
	return &Error{Kind: KindInternal, Message: MsgInternal, Err: err}
}

// notFoundOr maps repo.ErrNotFound to NotFound(what) and anything else to internal.
func notFoundOr(ctx context.Context, base *zap.Logger, method string, err error, what string) error {
	if errors.Is(err, repo.ErrNotFound) {
		return NotFound(what)
	}
	return internal(ctx, base, method, err)
}

// passThrough keeps *Error values produced inside a transaction callback.
func passThrough(ctx context.Context, base *zap.Logger, method string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := AsError(err); ok {
		return err
	}
	return internal(ctx, base, method, err)
}

func logWarn(ctx context.Context, base *zap.Logger, method, msg string, err error) {
	logger.FromCtx(ctx, base).Warn(msg,
		zap.String("layer", "usecase"),
		zap.String("method", method),
		zap.Error(err),
	)
}
