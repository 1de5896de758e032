package store

import "github.com/tiffinhub/tiffinhub/pkg/model"

// UsersStore abstracts merchant account storage.
type UsersStore interface {
	// FetchUser retrieves a user by internal id.
	// Returns ErrRecordNotFound if absent.
	FetchUser(id string) (*model.User, error)

	// FetchUserByEmail retrieves a user by email address.
	FetchUserByEmail(email string) (*model.User, error)

	// ListUsers returns every user account, newest first.
	ListUsers(limit, offset int) ([]model.User, error)

	// UpdateUser applies the given column changes to a user.
	UpdateUser(id string, changes map[string]interface{}) (*model.User, error)
}
