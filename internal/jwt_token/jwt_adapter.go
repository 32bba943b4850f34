package jwttoken

import (
	"dojoroll/internal/platform/middleware"
	id "dojoroll/pkg/domain"
	dErrors "dojoroll/pkg/domain-errors"
)

// JWTServiceAdapter bridges the JWT service to the middleware validator
// interface, converting raw claim strings into domain types at the trust
// boundary.
type JWTServiceAdapter struct {
	service *JWTService
}

func NewJWTServiceAdapter(service *JWTService) *JWTServiceAdapter {
	return &JWTServiceAdapter{service: service}
}

func (a *JWTServiceAdapter) ValidateToken(tokenString string) (*middleware.JWTClaims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	personID, err := id.ParsePersonID(claims.PersonID)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "token carries a malformed person ID")
	}
	role, err := id.ParseRole(claims.Role)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "token carries an unknown role")
	}

	return &middleware.JWTClaims{PersonID: personID, Role: role}, nil
}
