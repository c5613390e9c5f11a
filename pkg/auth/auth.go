package auth

import (
	"context"
	"os"

	"github.com/golang-jwt/jwt/v4"
)

const (
	RoleStudent   = "student"
	RoleLibrarian = "librarian"

	DefaultMaxBooksAllowed = 5
)

var JWTKey = jwtKey()

func jwtKey() []byte {
	if k := os.Getenv("JWT_KEY"); k != "" {
		return []byte(k)
	}
	return []byte("library-jwt-key")
}

// Profile is the identity the service trusts: it arrives inside the JWT and
// is never looked up locally.
type Profile struct {
	Username        string `json:"username"`
	Role            string `json:"role"`
	MaxBooksAllowed int    `json:"maxBooksAllowed"`
}

func (p Profile) IsLibrarian() bool {
	return p.Role == RoleLibrarian
}

type Claims struct {
	jwt.RegisteredClaims
	Profile Profile `json:"profile"`
}

type ctxKey int

const profileKey ctxKey = iota

func SetAuthContext(ctx context.Context, p Profile) context.Context {
	if p.MaxBooksAllowed <= 0 {
		p.MaxBooksAllowed = DefaultMaxBooksAllowed
	}
	return context.WithValue(ctx, profileKey, p)
}

func FromContext(ctx context.Context) (Profile, bool) {
	p, ok := ctx.Value(profileKey).(Profile)
	return p, ok
}
