package utils // package utils provides helper functions for session tokens and hashing

import (
    "errors" // sentinel errors for token validation
    "time"   // time utilities for generating expirations

    "github.com/golang-jwt/jwt/v5" // JWT library for signing the session cookie
    "github.com/google/uuid"       // random session identifiers
)

// ErrInvalidSessionToken is returned when a session cookie fails signature
// or expiry checks, or carries no session id.
var ErrInvalidSessionToken = errors.New("invalid session token")

// SessionToken is the signed cookie value handed to the browser.  The
// Token field contains the compact JWT; Exp records when it stops being
// accepted.  The token only names a session; the identity itself stays in
// the server-side session store.
type SessionToken struct {
    Token string    // the serialized JWT string
    Exp   time.Time // the UTC expiration time
}

// NewSessionID returns a fresh random session identifier.
func NewSessionID() string {
    return uuid.NewString()
}

// NewSessionToken signs an HS256 JWT whose subject is the session id.  A
// client cannot forge or guess a session id without the secret.
func NewSessionToken(secret, sessionID string, ttl time.Duration) (SessionToken, error) {
    now := time.Now().UTC()
    exp := now.Add(ttl)
    claims := jwt.RegisteredClaims{
        Subject:   sessionID,
        IssuedAt:  jwt.NewNumericDate(now),
        ExpiresAt: jwt.NewNumericDate(exp),
    }
    signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
    if err != nil {
        return SessionToken{}, err
    }
    return SessionToken{Token: signed, Exp: exp}, nil
}

// ParseSessionToken verifies a cookie value and returns the session id it
// names.  Tokens signed with another algorithm or secret are rejected.
func ParseSessionToken(secret, raw string) (string, error) {
    var claims jwt.RegisteredClaims
    tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, ErrInvalidSessionToken
        }
        return []byte(secret), nil
    }, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
    if err != nil || !tok.Valid || claims.Subject == "" {
        return "", ErrInvalidSessionToken
    }
    return claims.Subject, nil
}
