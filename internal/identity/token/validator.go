package token

import (
	"alphaseek/internal/platform/middleware"
)

// Validator adapts the token service to the auth middleware contract.
type Validator struct {
	svc *Service
}

func NewValidator(svc *Service) *Validator {
	return &Validator{svc: svc}
}

func (v *Validator) ValidateToken(tokenString string) (*middleware.JWTClaims, error) {
	claims, err := v.svc.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return &middleware.JWTClaims{
		UserID:    claims.UserID,
		SessionID: claims.SessionID,
		Email:     claims.Email,
	}, nil
}
