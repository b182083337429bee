// Copyright (c) 2026 UzEvently. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides the signed client identity token.
//
// # Architecture
//
// Every browser is identified by a random client ID carried in an HS256 JWT
// cookie. The token proves the ID was issued by this gateway; it carries no
// user data. Who is logged in is resolved server-side from the session store.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taibuivan/uzevently/pkg/uuidv7"
)

// ClientClaims is the payload of the client cookie.
type ClientClaims struct {
	jwt.RegisteredClaims

	// ClientID is abbreviated to keep the cookie small.
	ClientID string `json:"cid"`
}

// ClientTokens issues and verifies client identity tokens.
type ClientTokens struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewClientTokens creates a token service signing with secret.
func NewClientTokens(secret, issuer string, ttl time.Duration) (*ClientTokens, error) {
	if len(secret) < 16 {
		return nil, errors.New("sec: client token secret must be at least 16 bytes")
	}
	return &ClientTokens{secret: []byte(secret), issuer: issuer, ttl: ttl}, nil
}

// TTL returns the lifetime of issued tokens.
func (service *ClientTokens) TTL() time.Duration {
	return service.ttl
}

// Issue mints a new client ID and its signed token.
func (service *ClientTokens) Issue() (clientID, token string, err error) {
	clientID = uuidv7.New()
	currentTime := time.Now()

	claims := ClientClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   clientID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(service.ttl)),
		},
		ClientID: clientID,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(service.secret)
	if err != nil {
		return "", "", fmt.Errorf("sec: failed to sign client token: %w", err)
	}

	return clientID, signed, nil
}

// Verify checks the signature, issuer and expiry of a client token and
// returns the client ID it carries.
func (service *ClientTokens) Verify(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ClientClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return service.secret, nil
	}, jwt.WithIssuer(service.issuer))
	if err != nil {
		return "", fmt.Errorf("sec: invalid client token: %w", err)
	}

	claims, ok := token.Claims.(*ClientClaims)
	if !ok || !token.Valid || !uuidv7.Valid(claims.ClientID) {
		return "", errors.New("sec: invalid client token claims")
	}

	return claims.ClientID, nil
}
