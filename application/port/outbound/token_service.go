package outbound

type TokenClaims struct {
	ProfileID string `json:"profile_id"`
	Email     string `json:"email"`
}

type TokenService interface {
	GenerateAccessToken(claims TokenClaims) (string, error)
	GenerateRefreshToken() (string, error)
	ValidateAccessToken(token string) (*TokenClaims, error)
}
