package users

import (
	"context"
)

// Repository is the durable user store. GetByEmail and GetByID return
// common.ErrorNotFound when no record matches; Create returns
// common.ErrEmailExists on a duplicate email.
type Repository interface {
	Create(ctx context.Context, user *User) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	Update(ctx context.Context, user *User) error
}
