package gorm

import (
	"errors"

	"gorm.io/gorm"

	"github.com/tiffinhub/tiffinhub/pkg/model"
	"github.com/tiffinhub/tiffinhub/pkg/server/store"
)

// Ensure UsersStore implements store.UsersStore
var _ store.UsersStore = (*UsersStore)(nil)

// UsersStore implements store.UsersStore using GORM
type UsersStore struct {
	db *gorm.DB
}

// NewUsersStore creates a new UsersStore
func NewUsersStore(db *gorm.DB) *UsersStore {
	return &UsersStore{db: db}
}

// FetchUser retrieves a user by internal id
func (s *UsersStore) FetchUser(id string) (*model.User, error) {
	var user model.User
	err := s.db.Where(&model.User{ID: id}).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrRecordNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FetchUserByEmail retrieves a user by email address
func (s *UsersStore) FetchUserByEmail(email string) (*model.User, error) {
	var user model.User
	err := s.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrRecordNotFound
		}
		return nil, err
	}
	return &user, nil
}

// ListUsers returns every user account, newest first
func (s *UsersStore) ListUsers(limit, offset int) ([]model.User, error) {
	query := s.db.Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var users []model.User
	if err := query.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateUser applies the given column changes to a user
func (s *UsersStore) UpdateUser(id string, changes map[string]interface{}) (*model.User, error) {
	tx := s.db.Model(&model.User{}).Where("id = ?", id).Updates(changes)
	if tx.Error != nil {
		return nil, tx.Error
	}
	if tx.RowsAffected == 0 {
		return nil, store.ErrRecordNotFound
	}
	return s.FetchUser(id)
}
