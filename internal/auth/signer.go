package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Signer handles HMAC-SHA256 signing for Binance Futures API requests.
// It holds no mutable state and is safe for concurrent use.
type Signer struct {
	apiKey     string
	apiSecret  string
	recvWindow int64
}

// NewSigner creates a new signer with the default 5000ms recv window
func NewSigner(apiKey, apiSecret string) *Signer {
	return &Signer{
		apiKey:     apiKey,
		apiSecret:  apiSecret,
		recvWindow: 5000,
	}
}

// NewSignerWithRecvWindow creates a new signer with a custom recv window
func NewSignerWithRecvWindow(apiKey, apiSecret string, recvWindow int64) *Signer {
	return &Signer{
		apiKey:     apiKey,
		apiSecret:  apiSecret,
		recvWindow: recvWindow,
	}
}

// APIKey returns the API key
func (s *Signer) APIKey() string {
	return s.apiKey
}

// RecvWindow returns the recv window value in milliseconds
func (s *Signer) RecvWindow() int64 {
	return s.recvWindow
}

// Sign generates the HMAC-SHA256 signature over the given parameters.
// The payload is each key=value pair joined by "&" with keys sorted
// byte-wise ascending, exactly the string the exchange hashes on its side.
// Any existing "signature" entry is excluded from the payload.
func (s *Signer) Sign(params url.Values) string {
	keys := make([]string, 0, len(params))
	for key := range params {
		if key == "signature" {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, key+"="+params.Get(key))
	}

	h := hmac.New(sha256.New, []byte(s.apiSecret))
	h.Write([]byte(strings.Join(pairs, "&")))

	return hex.EncodeToString(h.Sum(nil))
}

// SignedParams returns a copy of params extended with timestamp, recvWindow
// and signature. The timestamp is captured at call time; the signature is
// computed last, over everything else.
func (s *Signer) SignedParams(params url.Values) url.Values {
	signed := make(url.Values, len(params)+3)
	for key, values := range params {
		for _, value := range values {
			signed.Add(key, value)
		}
	}

	signed.Set("timestamp", strconv.FormatInt(time.Now().UnixMilli(), 10))
	if signed.Get("recvWindow") == "" {
		signed.Set("recvWindow", strconv.FormatInt(s.recvWindow, 10))
	}

	signed.Set("signature", s.Sign(signed))

	return signed
}

// ValidateSignature verifies a signature against the given parameters
// using a constant-time comparison.
func (s *Signer) ValidateSignature(params url.Values, signature string) bool {
	expected := s.Sign(params)
	return hmac.Equal([]byte(expected), []byte(signature))
}
