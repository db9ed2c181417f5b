package repository

import "context"

// TxRepos are bound to one transaction.
type TxRepos interface {
	Carts() CartRepository
	CartLines() CartLineRepository
	Orders() OrderRepository
	Products() ProductRepository
	Users() UserRepository
}

// TransactionManager hides begin/commit/rollback from usecases.
// A non-nil error returned by fn rolls the transaction back.
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
