package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/domain/model"
	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/domain/optional"
	repo "github.com/btran-developer/gmice-online-ecommerce-back-end/internal/repository"

	"go.uber.org/zap"
)

// UserAdminUsecase manages accounts from the back office.
type UserAdminUsecase struct {
	users  repo.UserRepository
	hasher PasswordHasher
	log    *zap.Logger
}

func NewUserAdminUsecase(users repo.UserRepository, hasher PasswordHasher, log *zap.Logger) *UserAdminUsecase {
	return &UserAdminUsecase{users: users, hasher: hasher, log: log}
}

type UserListInput struct {
	Page    int
	PerPage int
	Email   string
}

type UserListOutput struct {
	Users   []model.User `json:"users"`
	Total   int64        `json:"total"`
	Page    int          `json:"page"`
	PerPage int          `json:"per_page"`
}

type UserCreateInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Active    bool   `json:"active"`
	Staff     bool   `json:"staff"`
	Admin     bool   `json:"admin"`
}

type UserUpdateInput struct {
	FirstName optional.Value[string] `json:"first_name"`
	LastName  optional.Value[string] `json:"last_name"`
	Email     optional.Value[string] `json:"email"`
	Password  optional.Value[string] `json:"password"`
	Active    optional.Value[bool]   `json:"active"`
	Staff     optional.Value[bool]   `json:"staff"`
	Admin     optional.Value[bool]   `json:"admin"`
}

const (
	defaultAdminPerPage = 20
	maxAdminPerPage     = 100
)

func adminPaging(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = defaultAdminPerPage
	}
	if perPage > maxAdminPerPage {
		perPage = maxAdminPerPage
	}
	return page, perPage
}

func (u *UserAdminUsecase) List(ctx context.Context, in UserListInput) (UserListOutput, error) {
	page, perPage := adminPaging(in.Page, in.PerPage)
	users, total, err := u.users.List(ctx, repo.UserListFilter{
		Page:    page,
		PerPage: perPage,
		Email:   strings.TrimSpace(in.Email),
	})
	if err != nil {
		return UserListOutput{}, internal(ctx, u.log, "UserAdminUsecase.List", err)
	}
	return UserListOutput{Users: users, Total: total, Page: page, PerPage: perPage}, nil
}

func (u *UserAdminUsecase) Get(ctx context.Context, id int64) (model.User, error) {
	user, err := u.users.FindByID(ctx, id)
	if err != nil {
		return model.User{}, notFoundOr(ctx, u.log, "UserAdminUsecase.Get", err, userName(id))
	}
	return user, nil
}

// Create adds an account directly, skipping email activation.
func (u *UserAdminUsecase) Create(ctx context.Context, in UserCreateInput) (model.User, error) {
	const method = "UserAdminUsecase.Create"

	email := NormalizeEmail(in.Email)
	if !IsEmailLike(email) {
		return model.User{}, InvalidArgument("email is invalid")
	}
	if len(in.Password) < minPasswordLen {
		return model.User{}, InvalidArgument("password must be at least 8 characters")
	}
	hash, err := u.hasher.Hash(in.Password)
	if err != nil {
		return model.User{}, internal(ctx, u.log, method, err)
	}

	user := model.User{
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        email,
		PasswordHash: hash,
		Active:       in.Active,
		Staff:        in.Staff || in.Admin,
		Admin:        in.Admin,
	}
	if err := u.users.Create(ctx, &user); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return model.User{}, Conflict(MsgEmailTaken)
		}
		return model.User{}, internal(ctx, u.log, method, err)
	}
	return user, nil
}

// CreateSuperuser creates an active admin.
func (u *UserAdminUsecase) CreateSuperuser(ctx context.Context, email, password string) (model.User, error) {
	return u.Create(ctx, UserCreateInput{
		Email:    email,
		Password: password,
		Active:   true,
		Staff:    true,
		Admin:    true,
	})
}

func (u *UserAdminUsecase) Update(ctx context.Context, id int64, in UserUpdateInput) (model.User, error) {
	const method = "UserAdminUsecase.Update"

	user, err := u.Get(ctx, id)
	if err != nil {
		return model.User{}, err
	}

	in.FirstName.Apply(&user.FirstName)
	in.LastName.Apply(&user.LastName)
	in.Active.Apply(&user.Active)
	in.Staff.Apply(&user.Staff)
	in.Admin.Apply(&user.Admin)
	if user.Admin {
		user.Staff = true
	}
	if email, ok := in.Email.Get(); ok {
		email = NormalizeEmail(email)
		if !IsEmailLike(email) {
			return model.User{}, InvalidArgument("email is invalid")
		}
		user.Email = email
	}
	if pw, ok := in.Password.Get(); ok {
		if len(pw) < minPasswordLen {
			return model.User{}, InvalidArgument("password must be at least 8 characters")
		}
		hash, err := u.hasher.Hash(pw)
		if err != nil {
			return model.User{}, internal(ctx, u.log, method, err)
		}
		user.PasswordHash = hash
	}

	if err := u.users.Update(ctx, &user); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return model.User{}, Conflict(MsgEmailTaken)
		}
		return model.User{}, notFoundOr(ctx, u.log, method, err, userName(id))
	}
	return user, nil
}
