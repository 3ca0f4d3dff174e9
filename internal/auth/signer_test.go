package auth

import (
	"fmt"
	"net/url"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewSigner(t *testing.T) {
	t.Run("creates signer with credentials", func(t *testing.T) {
		signer := NewSigner("test-api-key", "test-api-secret")

		assert.NotNil(t, signer)
		assert.Equal(t, "test-api-key", signer.APIKey())
		assert.Equal(t, int64(5000), signer.RecvWindow())
	})

	t.Run("allows custom recv window", func(t *testing.T) {
		signer := NewSignerWithRecvWindow("key", "secret", 10000)
		assert.Equal(t, int64(10000), signer.RecvWindow())
	})
}

func TestSign(t *testing.T) {
	// Known test vectors from the Binance API documentation
	apiKey := "vmPUZE6mv9SD5VNHk4HlWFsOr6aKE2zvsw0MuIgwCIPy6utIco14y7Ju91duEh8A"
	apiSecret := "NhqPtmdSJYdKjVHjA7PZj4Mge3R5YNiP1e3UZjInClVN65XAbvqqM6A7H5fATj0j"

	signer := NewSigner(apiKey, apiSecret)

	t.Run("signs order parameters", func(t *testing.T) {
		params := url.Values{}
		params.Set("symbol", "LTCBTC")
		params.Set("side", "BUY")
		params.Set("type", "LIMIT")
		params.Set("timeInForce", "GTC")
		params.Set("quantity", "1")
		params.Set("price", "0.1")
		params.Set("recvWindow", "5000")
		params.Set("timestamp", "1499827319559")

		// Payload with keys in ascending order:
		// price=0.1&quantity=1&recvWindow=5000&side=BUY&symbol=LTCBTC&timeInForce=GTC&timestamp=1499827319559&type=LIMIT
		expected := "70fd30433bc3a2e3b5ff17d075e50538dde3734841da6dc28d79113dd37fa9c7"
		assert.Equal(t, expected, signer.Sign(params))
	})

	t.Run("signs timestamp-only parameters", func(t *testing.T) {
		params := url.Values{}
		params.Set("timestamp", "1499827319559")

		expected := "2222d49722f6af5da13f6da6bfc0d7de19ca2815ebc98bbc49e4942268472f3f"
		assert.Equal(t, expected, signer.Sign(params))
	})

	t.Run("is deterministic regardless of insertion order", func(t *testing.T) {
		params1 := url.Values{}
		params1.Set("symbol", "BTCUSDT")
		params1.Set("side", "BUY")
		params1.Set("timestamp", "1499827319559")

		params2 := url.Values{}
		params2.Set("timestamp", "1499827319559")
		params2.Set("side", "BUY")
		params2.Set("symbol", "BTCUSDT")

		assert.Equal(t, signer.Sign(params1), signer.Sign(params2))
		assert.Equal(t, signer.Sign(params1), signer.Sign(params1))
	})

	t.Run("produces different signatures for different parameters", func(t *testing.T) {
		params1 := url.Values{}
		params1.Set("symbol", "BTCUSDT")
		params1.Set("timestamp", "1499827319559")

		params2 := url.Values{}
		params2.Set("symbol", "ETHUSDT")
		params2.Set("timestamp", "1499827319559")

		assert.NotEqual(t, signer.Sign(params1), signer.Sign(params2))
	})

	t.Run("excludes the signature field from the payload", func(t *testing.T) {
		params := url.Values{}
		params.Set("timestamp", "1499827319559")

		want := signer.Sign(params)

		params.Set("signature", "deadbeef")
		assert.Equal(t, want, signer.Sign(params))
	})
}

func TestSignedParams(t *testing.T) {
	signer := NewSigner("test-api-key", "test-api-secret")

	t.Run("adds timestamp, recvWindow and signature", func(t *testing.T) {
		params := url.Values{}
		params.Set("symbol", "BTCUSDT")
		params.Set("side", "BUY")

		signed := signer.SignedParams(params)

		assert.Equal(t, "BTCUSDT", signed.Get("symbol"))
		assert.Equal(t, "BUY", signed.Get("side"))
		assert.NotEmpty(t, signed.Get("timestamp"))
		assert.Equal(t, "5000", signed.Get("recvWindow"))
		assert.NotEmpty(t, signed.Get("signature"))
	})

	t.Run("does not modify the input parameters", func(t *testing.T) {
		params := url.Values{}
		params.Set("symbol", "BTCUSDT")

		signed := signer.SignedParams(params)

		assert.Len(t, params, 1)
		assert.Empty(t, params.Get("timestamp"))
		assert.Empty(t, params.Get("signature"))
		assert.NotEmpty(t, signed.Get("signature"))
	})

	t.Run("signature covers timestamp and recvWindow", func(t *testing.T) {
		signed := signer.SignedParams(url.Values{})

		check := url.Values{}
		check.Set("timestamp", signed.Get("timestamp"))
		check.Set("recvWindow", signed.Get("recvWindow"))

		assert.True(t, signer.ValidateSignature(check, signed.Get("signature")))
	})

	t.Run("uses current timestamp", func(t *testing.T) {
		before := time.Now().UnixMilli()
		signed := signer.SignedParams(url.Values{})
		after := time.Now().UnixMilli()

		ts, err := strconv.ParseInt(signed.Get("timestamp"), 10, 64)
		assert.NoError(t, err)
		assert.GreaterOrEqual(t, ts, before)
		assert.LessOrEqual(t, ts, after)
	})

	t.Run("keeps an explicitly set recvWindow", func(t *testing.T) {
		signer := NewSignerWithRecvWindow("key", "secret", 3000)

		params := url.Values{}
		params.Set("recvWindow", "1000")

		signed := signer.SignedParams(params)
		assert.Equal(t, "1000", signed.Get("recvWindow"))
	})
}

func TestValidateSignature(t *testing.T) {
	signer := NewSigner("test-api-key", "test-api-secret")

	t.Run("accepts a correct signature", func(t *testing.T) {
		params := url.Values{}
		params.Set("symbol", "LTCBTC")
		params.Set("timestamp", "1499827319559")

		signature := signer.Sign(params)
		assert.True(t, signer.ValidateSignature(params, signature))
	})

	t.Run("rejects modified parameters", func(t *testing.T) {
		params := url.Values{}
		params.Set("symbol", "LTCBTC")
		params.Set("timestamp", "1499827319559")

		signature := signer.Sign(params)
		params.Set("symbol", "BTCUSDT")

		assert.False(t, signer.ValidateSignature(params, signature))
	})

	t.Run("rejects an empty signature", func(t *testing.T) {
		params := url.Values{}
		params.Set("timestamp", "1499827319559")

		assert.False(t, signer.ValidateSignature(params, ""))
	})
}

func TestConcurrentSigning(t *testing.T) {
	signer := NewSigner("test-api-key", "test-api-secret")

	var wg sync.WaitGroup
	var mu sync.Mutex
	signatures := make(map[string]bool)

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			params := url.Values{}
			params.Set("symbol", fmt.Sprintf("SYMBOL%d", idx))
			params.Set("timestamp", strconv.FormatInt(1499827319559+int64(idx), 10))

			signature := signer.Sign(params)

			mu.Lock()
			signatures[signature] = true
			mu.Unlock()
		}(i)
	}
	wg.Wait()

	// Distinct parameters must yield distinct signatures
	assert.Len(t, signatures, 100)
}

func BenchmarkSign(b *testing.B) {
	signer := NewSigner("test-api-key", "test-api-secret")

	params := url.Values{}
	params.Set("symbol", "BTCUSDT")
	params.Set("side", "BUY")
	params.Set("type", "LIMIT")
	params.Set("quantity", "1.0")
	params.Set("price", "50000.00")
	params.Set("timestamp", "1499827319559")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = signer.Sign(params)
	}
}
