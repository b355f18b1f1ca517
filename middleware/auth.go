package middleware

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionCookieName is the cookie the join action writes the identity claim
// into, and the first place the socket gateway looks for it.
const SessionCookieName = "session"

// ClaimTTL bounds how long a minted identity claim stays valid.
const ClaimTTL = 4 * time.Hour

func sessionSecret() []byte {
	return []byte(os.Getenv("SESSION_SECRET"))
}

// MintSessionClaim signs an identity claim binding a participant to a game:
// subject = player id, issuer = game id. The claim is the only credential a
// participant ever holds; whoever mints it (the join action here, possibly an
// anonymous-claim issuer elsewhere) just has to produce this same shape.
func MintSessionClaim(playerID, gameID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   playerID,
		Issuer:    gameID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ClaimTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(sessionSecret())
}

// VerifySessionClaim validates a signed claim and returns the bound
// (playerID, gameID) pair. Expired or tampered tokens fail here, before any
// game state is touched.
func VerifySessionClaim(tokenString string) (playerID, gameID string, err error) {
	claims := &jwt.RegisteredClaims{}
	_, err = jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return sessionSecret(), nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithExpirationRequired())
	if err != nil {
		return "", "", fmt.Errorf("invalid session claim: %w", err)
	}
	if claims.Subject == "" || claims.Issuer == "" {
		return "", "", fmt.Errorf("session claim missing subject or issuer")
	}
	return claims.Subject, claims.Issuer, nil
}

// Socketio_JWT_decoder extracts and verifies the identity claim from a
// socket.io handshake auth map. Accepts either a raw token under "session"
// (cookie-shaped clients) or a "Bearer ..." value under "authorization".
func Socketio_JWT_decoder(authData map[string]interface{}) (playerID, gameID string, err error) {
	if raw, exists := authData[SessionCookieName].(string); exists && raw != "" {
		return VerifySessionClaim(raw)
	}

	header, exists := authData["authorization"].(string)
	if !exists || header == "" {
		return "", "", fmt.Errorf("no session claim provided in handshake")
	}
	tokenString := strings.TrimPrefix(header, "Bearer ")
	return VerifySessionClaim(tokenString)
}
