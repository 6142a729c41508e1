package repositories

import (
	"github.com/pinstash/pinstash/backend/internal/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user record operations
type UserRepository interface {
	CreateUser(user *models.User) error
	GetUserByPublicID(publicID string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	UpdateUser(user *models.User) error
	GetUsersByPublicIDs(publicIDs []string) (map[string]models.UserCompact, error)
}

// PostgresUserRepository implements UserRepository for PostgreSQL
type PostgresUserRepository struct {
	db *gorm.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository
func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// CreateUser creates a new user record
func (r *PostgresUserRepository) CreateUser(user *models.User) error {
	return r.db.Create(user).Error
}

// GetUserByPublicID retrieves a user by the public id referenced from
// pin documents
func (r *PostgresUserRepository) GetUserByPublicID(publicID string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("firebase_uid = ?", publicID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email
func (r *PostgresUserRepository) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser updates an existing user record
func (r *PostgresUserRepository) UpdateUser(user *models.User) error {
	return r.db.Save(user).Error
}

// GetUsersByPublicIDs retrieves compact author records for a set of
// public ids, keyed by id. Missing users are simply absent from the map.
func (r *PostgresUserRepository) GetUsersByPublicIDs(publicIDs []string) (map[string]models.UserCompact, error) {
	result := make(map[string]models.UserCompact)
	if len(publicIDs) == 0 {
		return result, nil
	}
	var users []models.User
	if err := r.db.Where("firebase_uid IN ?", publicIDs).Find(&users).Error; err != nil {
		return nil, err
	}
	for _, u := range users {
		result[u.FirebaseUID] = u.ToCompact()
	}
	return result, nil
}
