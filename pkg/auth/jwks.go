package auth

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingKeyID = errors.New("jwks: token header has no kid")
	ErrUnknownKeyID = errors.New("jwks: no key published for kid")
)

// jwk is the subset of RFC 7517 fields needed for RSA signature keys
type jwk struct {
	Kid string `json:"kid"`
	Kty string `json:"kty"`
	Use string `json:"use"`
	N   string `json:"n"`
	E   string `json:"e"`
}

// KeySet verifies RS256 tokens against the keys an identity provider publishes.
// Keys are decoded once per fetch. An unknown kid refetches the set, but never
// more often than minRefresh, so a flood of forged kids cannot hammer the provider.
type KeySet struct {
	url        string
	client     *http.Client
	minRefresh time.Duration
	now        func() time.Time

	mu      sync.Mutex
	keys    map[string]*rsa.PublicKey
	fetched time.Time
}

type KeySetOption func(*KeySet)

func WithHTTPClient(client *http.Client) KeySetOption {
	return func(ks *KeySet) { ks.client = client }
}

func WithMinRefresh(d time.Duration) KeySetOption {
	return func(ks *KeySet) { ks.minRefresh = d }
}

func NewKeySet(url string, opts ...KeySetOption) *KeySet {
	ks := &KeySet{
		url:        url,
		client:     &http.Client{Timeout: 5 * time.Second},
		minRefresh: time.Minute,
		now:        time.Now,
		keys:       map[string]*rsa.PublicKey{},
	}
	for _, opt := range opts {
		opt(ks)
	}
	return ks
}

// Keyfunc adapts the set to jwt.Keyfunc
func (ks *KeySet) Keyfunc(token *jwt.Token) (any, error) {
	if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
		return nil, fmt.Errorf("jwks: unexpected signing method %v", token.Header["alg"])
	}
	kid, _ := token.Header["kid"].(string)
	if kid == "" {
		return nil, ErrMissingKeyID
	}
	return ks.Key(context.Background(), kid)
}

// Key returns the public key for kid, refetching the set once if it is unknown
func (ks *KeySet) Key(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	ks.mu.Lock()
	defer ks.mu.Unlock()

	if key, ok := ks.keys[kid]; ok {
		return key, nil
	}
	if !ks.fetched.IsZero() && ks.now().Sub(ks.fetched) < ks.minRefresh {
		return nil, fmt.Errorf("%w %q", ErrUnknownKeyID, kid)
	}
	if err := ks.refreshLocked(ctx); err != nil {
		return nil, err
	}
	if key, ok := ks.keys[kid]; ok {
		return key, nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownKeyID, kid)
}

// Refresh fetches the published set now, replacing cached keys on success
func (ks *KeySet) Refresh(ctx context.Context) error {
	ks.mu.Lock()
	defer ks.mu.Unlock()
	return ks.refreshLocked(ctx)
}

func (ks *KeySet) refreshLocked(ctx context.Context) error {
	// A failed fetch also starts the cooldown
	ks.fetched = ks.now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ks.url, nil)
	if err != nil {
		return fmt.Errorf("jwks: build request: %w", err)
	}
	resp, err := ks.client.Do(req)
	if err != nil {
		return fmt.Errorf("jwks: fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("jwks: fetch: unexpected status %d", resp.StatusCode)
	}

	var set struct {
		Keys []jwk `json:"keys"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&set); err != nil {
		return fmt.Errorf("jwks: decode: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey, len(set.Keys))
	for _, k := range set.Keys {
		if k.Kty != "RSA" || (k.Use != "" && k.Use != "sig") || k.Kid == "" {
			continue
		}
		pub, err := k.rsaPublicKey()
		if err != nil {
			return fmt.Errorf("jwks: key %q: %w", k.Kid, err)
		}
		keys[k.Kid] = pub
	}
	ks.keys = keys
	return nil
}

func (k jwk) rsaPublicKey() (*rsa.PublicKey, error) {
	n, err := base64.RawURLEncoding.DecodeString(k.N)
	if err != nil {
		return nil, fmt.Errorf("modulus: %w", err)
	}
	e, err := base64.RawURLEncoding.DecodeString(k.E)
	if err != nil {
		return nil, fmt.Errorf("exponent: %w", err)
	}
	exp := new(big.Int).SetBytes(e)
	if len(n) == 0 || !exp.IsInt64() || exp.Int64() < 3 || exp.Int64() > 1<<31-1 {
		return nil, errors.New("invalid RSA parameters")
	}
	return &rsa.PublicKey{N: new(big.Int).SetBytes(n), E: int(exp.Int64())}, nil
}
