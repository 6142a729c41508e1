package models

import (
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model  `json:"-"`
	ID          uint   `json:"-" gorm:"primaryKey"`
	Name        string `json:"name"`
	Email       string `json:"email" gorm:"uniqueIndex"`
	Image       string `json:"image"` // avatar URL from the auth provider
	Password    string `json:"-"`     // hashed, only set for local accounts
	FirebaseUID string `json:"id" gorm:"uniqueIndex"` // public id used in pin documents
}

// ToCompact returns the subset of user fields embedded in feed responses.
func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:    u.FirebaseUID,
		Name:  u.Name,
		Image: u.Image,
	}
}

// UserCompact is the author shape attached to enriched pins and comments.
type UserCompact struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

// Session is the authenticated user's identity for the current request,
// extracted from the JWT by the auth middleware. It is never persisted.
type Session struct {
	UserID string `json:"id"`
	Name   string `json:"name"`
	Image  string `json:"image"`
}

type CreateLocalUserRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims.
// They carry the full session so handlers never re-query the auth provider.
type JwtCustomClaims struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Image  string `json:"image"`
	jwt.RegisteredClaims
}
