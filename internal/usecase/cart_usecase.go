package usecase

import (
	"context"
	"errors"

	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/domain/model"
	repo "github.com/btran-developer/gmice-online-ecommerce-back-end/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CartUsecase is the cart engine: anonymous or owned carts and their lines.
type CartUsecase struct {
	tx    repo.TransactionManager
	carts repo.CartRepository
	users repo.UserRepository
	log   *zap.Logger
}

func NewCartUsecase(
	tx repo.TransactionManager,
	carts repo.CartRepository,
	users repo.UserRepository,
	log *zap.Logger,
) *CartUsecase {
	return &CartUsecase{tx: tx, carts: carts, users: users, log: log}
}

type CartImageOutput struct {
	ImageURL     string `json:"image_url"`
	ThumbnailURL string `json:"thumbnail_url"`
	Main         bool   `json:"main"`
}

type CartProductOutput struct {
	ID     int64             `json:"id"`
	Name   string            `json:"name"`
	Brand  string            `json:"brand"`
	Price  decimal.Decimal   `json:"price"`
	Images []CartImageOutput `json:"images"`
}

type CartLineOutput struct {
	ID       int64             `json:"id"`
	Quantity int64             `json:"quantity"`
	Product  CartProductOutput `json:"product"`
}

type CartOutput struct {
	ID     int64            `json:"id"`
	Status string           `json:"status"`
	Lines  []CartLineOutput `json:"cart_lines"`
}

type MergeCartsInput struct {
	FromCartID int64
	ToCartID   *int64
	UserID     int64
}

// Create opens a new cart, owned by ownerID when it is positive.
func (u *CartUsecase) Create(ctx context.Context, ownerID int64) (int64, error) {
	const method = "CartUsecase.Create"

	cart := model.Cart{Status: model.CartStatusOpen}
	if ownerID > 0 {
		if _, err := u.users.FindByID(ctx, ownerID); err != nil {
			return 0, notFoundOr(ctx, u.log, method, err, userName(ownerID))
		}
		cart.UserID = &ownerID
	}
	if err := u.carts.Create(ctx, &cart); err != nil {
		return 0, internal(ctx, u.log, method, err)
	}
	return cart.ID, nil
}

// Get returns an OPEN cart with its lines.
func (u *CartUsecase) Get(ctx context.Context, cartID int64) (CartOutput, error) {
	cart, err := u.carts.FindOpenByID(ctx, cartID)
	if err != nil {
		return CartOutput{}, notFoundOr(ctx, u.log, "CartUsecase.Get", err, cartName(cartID))
	}
	return toCartOutput(cart), nil
}

// UpsertLine adds one unit of productID, creating the line when needed.
func (u *CartUsecase) UpsertLine(ctx context.Context, cartID, productID int64) (CartLineOutput, error) {
	const method = "CartUsecase.UpsertLine"

	var lineID int64
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Carts().LockOpenByID(ctx, cartID); err != nil {
			return notFoundOr(ctx, u.log, method, err, cartName(cartID))
		}

		line, err := r.CartLines().FindForUpdate(ctx, cartID, productID)
		if err == nil {
			lineID = line.ID
			return r.CartLines().UpdateQuantity(ctx, line.ID, line.Quantity+1)
		}
		if !errors.Is(err, repo.ErrNotFound) {
			return err
		}

		p, err := r.Products().FindByID(ctx, productID)
		if err != nil {
			return notFoundOr(ctx, u.log, method, err, productName(productID))
		}
		if !p.Active {
			return NotFound(productName(productID))
		}

		line = model.CartLine{CartID: cartID, ProductID: productID, Quantity: 1}
		if err := r.CartLines().AddLine(ctx, &line); err != nil {
			return err
		}
		lineID = line.ID
		return nil
	})
	if err != nil {
		return CartLineOutput{}, passThrough(ctx, u.log, method, err)
	}
	return u.lineOutput(ctx, method, cartID, lineID)
}

// SetLineQuantity replaces the quantity of a line. qty must be positive.
func (u *CartUsecase) SetLineQuantity(ctx context.Context, cartID, lineID, qty int64) (CartLineOutput, error) {
	const method = "CartUsecase.SetLineQuantity"

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Carts().LockOpenByID(ctx, cartID); err != nil {
			return notFoundOr(ctx, u.log, method, err, cartName(cartID))
		}
		if _, err := r.CartLines().FindInCart(ctx, cartID, lineID); err != nil {
			return notFoundOr(ctx, u.log, method, err, cartLineName(lineID))
		}
		if qty <= 0 {
			return InvalidArgument(MsgBadQuantity)
		}
		return r.CartLines().UpdateQuantity(ctx, lineID, qty)
	})
	if err != nil {
		return CartLineOutput{}, passThrough(ctx, u.log, method, err)
	}
	return u.lineOutput(ctx, method, cartID, lineID)
}

// RemoveLine deletes a line and returns its id.
func (u *CartUsecase) RemoveLine(ctx context.Context, cartID, lineID int64) (int64, error) {
	const method = "CartUsecase.RemoveLine"

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Carts().LockOpenByID(ctx, cartID); err != nil {
			return notFoundOr(ctx, u.log, method, err, cartName(cartID))
		}
		if _, err := r.CartLines().FindInCart(ctx, cartID, lineID); err != nil {
			return notFoundOr(ctx, u.log, method, err, cartLineName(lineID))
		}
		return r.CartLines().DeleteLine(ctx, lineID)
	})
	if err != nil {
		return 0, passThrough(ctx, u.log, method, err)
	}
	return lineID, nil
}

// Merge folds the lines of an anonymous cart into the user's cart. When
// there is no other OPEN cart to merge into, the user claims the from cart.
func (u *CartUsecase) Merge(ctx context.Context, in MergeCartsInput) (CartOutput, error) {
	const method = "CartUsecase.Merge"

	resultID := in.FromCartID
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		open, err := lockCarts(ctx, r.Carts(), in.FromCartID, in.ToCartID)
		if err != nil {
			return err
		}
		if !open[in.FromCartID] {
			return NotFound("From cart")
		}

		if _, err := r.Users().FindActiveByID(ctx, in.UserID); err != nil {
			return notFoundOr(ctx, u.log, method, err, userName(in.UserID))
		}

		if in.ToCartID == nil || *in.ToCartID == in.FromCartID || !open[*in.ToCartID] {
			return r.Carts().SetOwner(ctx, in.FromCartID, in.UserID)
		}

		toID := *in.ToCartID
		resultID = toID
		lines, err := r.CartLines().ListByCartID(ctx, in.FromCartID)
		if err != nil {
			return err
		}
		for _, line := range lines {
			existing, err := r.CartLines().FindForUpdate(ctx, toID, line.ProductID)
			switch {
			case err == nil:
				if err := r.CartLines().UpdateQuantity(ctx, existing.ID, existing.Quantity+line.Quantity); err != nil {
					return err
				}
				if err := r.CartLines().DeleteLine(ctx, line.ID); err != nil {
					return err
				}
			case errors.Is(err, repo.ErrNotFound):
				if err := r.CartLines().MoveToCart(ctx, line.ID, toID); err != nil {
					return err
				}
			default:
				return err
			}
		}
		return nil
	})
	if err != nil {
		return CartOutput{}, passThrough(ctx, u.log, method, err)
	}
	return u.Get(ctx, resultID)
}

// lockCarts locks the OPEN carts among from and to in ascending id order
// and reports which of them are OPEN.
func lockCarts(ctx context.Context, carts repo.CartRepository, fromID int64, toID *int64) (map[int64]bool, error) {
	ids := []int64{fromID}
	if toID != nil && *toID != fromID {
		if *toID < fromID {
			ids = []int64{*toID, fromID}
		} else {
			ids = append(ids, *toID)
		}
	}

	open := make(map[int64]bool, len(ids))
	for _, id := range ids {
		_, err := carts.LockOpenByID(ctx, id)
		switch {
		case err == nil:
			open[id] = true
		case errors.Is(err, repo.ErrNotFound):
		default:
			return nil, err
		}
	}
	return open, nil
}

func (u *CartUsecase) lineOutput(ctx context.Context, method string, cartID, lineID int64) (CartLineOutput, error) {
	cart, err := u.carts.FindOpenByID(ctx, cartID)
	if err != nil {
		return CartLineOutput{}, notFoundOr(ctx, u.log, method, err, cartName(cartID))
	}
	for _, l := range cart.Lines {
		if l.ID == lineID {
			return toCartLineOutput(l), nil
		}
	}
	return CartLineOutput{}, NotFound(cartLineName(lineID))
}

func toCartOutput(c model.Cart) CartOutput {
	lines := make([]CartLineOutput, 0, len(c.Lines))
	for _, l := range c.Lines {
		lines = append(lines, toCartLineOutput(l))
	}
	return CartOutput{ID: c.ID, Status: string(c.Status), Lines: lines}
}

func toCartLineOutput(l model.CartLine) CartLineOutput {
	out := CartLineOutput{ID: l.ID, Quantity: l.Quantity}
	if p := l.Product; p != nil {
		out.Product = CartProductOutput{
			ID:     p.ID,
			Name:   p.Name,
			Price:  p.Price,
			Images: make([]CartImageOutput, 0, len(p.Images)),
		}
		if p.Brand != nil {
			out.Product.Brand = p.Brand.Name
		}
		for _, img := range p.Images {
			out.Product.Images = append(out.Product.Images, CartImageOutput{
				ImageURL:     img.ImageURL,
				ThumbnailURL: img.ThumbnailURL,
				Main:         img.Main,
			})
		}
	} else {
		out.Product.ID = l.ProductID
	}
	return out
}
