package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Role identifies the actor kind behind a token.
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// AdminSession is the persisted "logged-in admin" marker.
type AdminSession struct {
	Username   string    `json:"username"`
	Name       string    `json:"name"`
	SignedInAt time.Time `json:"signedInAt"`
}

// StudentLoginRequest authenticates a student by name and student number.
type StudentLoginRequest struct {
	Name          string `json:"name" validate:"required"`
	StudentNumber string `json:"studentNumber" validate:"required"`
}

// AdminLoginRequest authenticates an administrator.
type AdminLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the issued token with the session it belongs to.
type LoginResponse struct {
	AccessToken string        `json:"access_token"`
	ExpiresIn   int64         `json:"expires_in"`
	IssuedAt    time.Time     `json:"issued_at"`
	Role        Role          `json:"role"`
	Student     *Student      `json:"student,omitempty"`
	Admin       *AdminSession `json:"admin,omitempty"`
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	Role          Role   `json:"role"`
	StudentNumber int    `json:"student_number,omitempty"`
	Username      string `json:"username,omitempty"`
	Name          string `json:"name"`
	jwt.RegisteredClaims
}
