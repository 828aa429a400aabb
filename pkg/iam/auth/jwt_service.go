package auth

import (
	"time"

	"github.com/Abraxas-365/talentgate/pkg/config"
	"github.com/Abraxas-365/talentgate/pkg/kernel"
	"github.com/golang-jwt/jwt/v5"
)

// JWTService is the HS256 TokenService.
type JWTService struct {
	secretKey      []byte
	accessTokenTTL time.Duration
	issuer         string
	audience       []string
}

func NewJWTServiceFromConfig(cfg *config.JWTConfig) *JWTService {
	return &JWTService{
		secretKey:      []byte(cfg.SecretKey),
		accessTokenTTL: cfg.AccessTokenTTL,
		issuer:         cfg.Issuer,
		audience:       cfg.Audience,
	}
}

type JWTClaims struct {
	UserID kernel.UserID `json:"user_id"`
	Email  string        `json:"email"`
	Name   string        `json:"name"`
	Scopes []string      `json:"scopes"`
	jwt.RegisteredClaims
}

// GenerateAccessToken signs a token. Recognised claims: email, name, scopes.
func (j *JWTService) GenerateAccessToken(userID kernel.UserID, claims map[string]any) (string, error) {
	issued := jwt.NewNumericDate(time.Now())
	granted, _ := claims["scopes"].([]string)

	c := JWTClaims{
		UserID: userID,
		Scopes: append([]string{}, granted...),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.issuer,
			Subject:   string(userID),
			Audience:  j.audience,
			IssuedAt:  issued,
			NotBefore: issued,
			ExpiresAt: jwt.NewNumericDate(issued.Add(j.accessTokenTTL)),
		},
	}
	c.Email, _ = claims["email"].(string)
	c.Name, _ = claims["name"].(string)

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(j.secretKey)
	if err != nil {
		return "", ErrTokenGenerationFailed().WithCause(err)
	}
	return signed, nil
}

// ValidateAccessToken accepts only HS256 tokens from the configured issuer
// and, when set, audience.
func (j *JWTService) ValidateAccessToken(raw string) (*TokenClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(j.issuer),
	}
	if len(j.audience) > 0 {
		opts = append(opts, jwt.WithAudience(j.audience[0]))
	}

	var c JWTClaims
	if _, err := jwt.ParseWithClaims(raw, &c, func(*jwt.Token) (any, error) {
		return j.secretKey, nil
	}, opts...); err != nil {
		return nil, ErrTokenValidationFailed().WithDetail("reason", err.Error())
	}

	out := &TokenClaims{
		UserID: c.UserID,
		Email:  c.Email,
		Name:   c.Name,
		Scopes: c.Scopes,
	}
	if out.UserID.IsEmpty() {
		out.UserID = kernel.UserID(c.Subject)
	}
	if c.IssuedAt != nil {
		out.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		out.ExpiresAt = c.ExpiresAt.Time
	}
	return out, nil
}
