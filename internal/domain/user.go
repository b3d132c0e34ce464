package domain

import "time"

type User struct {
	UserID       string    `json:"id" dynamodbav:"user_id" bson:"_id"`
	Username     string    `json:"username" dynamodbav:"username" bson:"username"`
	Email        string    `json:"email" dynamodbav:"email" bson:"email"`
	PasswordHash string    `json:"-" dynamodbav:"password_hash" bson:"password_hash"`
	CreatedAt    time.Time `json:"created_at" dynamodbav:"created_at" bson:"created_at"`
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,maxbytes=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Identity is the authenticated caller resolved from a verified token.
// It lives only for the duration of one request.
type Identity struct {
	UserID string
}
