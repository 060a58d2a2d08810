package models

import "github.com/golang-jwt/jwt/v5"

// RoleOperator is the only role the HTTP API knows about.
const RoleOperator = "operator"

// Claims defines the structure of the JWT claims.
type Claims struct {
	Operator string `json:"operator"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}
