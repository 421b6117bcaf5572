package utils // package utils provides helper functions for token creation and hashing

import (
    "errors"
    "time"

    "github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// ErrTokenExpired is returned by ParseAccessToken when the token's
// expiry instant has passed. Callers distinguish it from other parse
// failures so clients can be told to re-authenticate rather than be
// treated as forgers.
var ErrTokenExpired = errors.New("token expired")

// ErrTokenInvalid covers every other verification failure: bad
// signature, wrong algorithm, malformed encoding, missing claims.
var ErrTokenInvalid = errors.New("invalid token")

// AccessToken represents a signed JWT access token along with its expiry.
// The Token field contains the serialized JWT string. Exp stores the UTC
// expiration time. Access tokens are sent in the Authorization header
// when calling protected endpoints.
type AccessToken struct {
    Token string
    Exp   time.Time
}

// Claims is the identity encoded in an access token: the subject user
// id plus the email and role needed for authorization decisions.
type Claims struct {
    UserID string
    Email  string
    Role   string
}

// NewAccessToken builds and signs an HS256 JWT for a user. The JWT
// carries the subject (sub), email and role claims, plus exp and iat.
// ttlMin controls the token lifetime in minutes.
func NewAccessToken(secret, userID, email, role string, ttlMin int) (AccessToken, error) {
    now := time.Now().UTC()
    exp := now.Add(time.Duration(ttlMin) * time.Minute)
    claims := jwt.MapClaims{
        "sub":   userID,
        "email": email,
        "role":  role,
        "exp":   exp.Unix(),
        "iat":   now.Unix(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return AccessToken{}, err
    }
    return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken verifies a serialized token and returns the identity
// it encodes. Only HMAC-signed tokens are accepted; a token whose
// header names any other algorithm is rejected, so a forger cannot
// downgrade verification by picking their own method.
func ParseAccessToken(secret, raw string) (Claims, error) {
    tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, ErrTokenInvalid
        }
        return []byte(secret), nil
    })
    if err != nil {
        if errors.Is(err, jwt.ErrTokenExpired) {
            return Claims{}, ErrTokenExpired
        }
        return Claims{}, ErrTokenInvalid
    }
    if !tok.Valid {
        return Claims{}, ErrTokenInvalid
    }
    mc, ok := tok.Claims.(jwt.MapClaims)
    if !ok {
        return Claims{}, ErrTokenInvalid
    }
    sub, _ := mc["sub"].(string)
    email, _ := mc["email"].(string)
    role, _ := mc["role"].(string)
    if sub == "" || role == "" {
        return Claims{}, ErrTokenInvalid
    }
    return Claims{UserID: sub, Email: email, Role: role}, nil
}
