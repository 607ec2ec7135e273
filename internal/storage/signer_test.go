package storage

import (
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSignedURLRoundTrip(t *testing.T) {
	signer := NewSigner("test-secret", 15*time.Minute)

	raw := signer.SignedURL("photos/worker-1.jpg")
	assert.True(t, strings.HasPrefix(raw, "/storage/photos/worker-1.jpg?"))

	u, err := url.Parse(raw)
	assert.NoError(t, err)
	exp, err := strconv.ParseInt(u.Query().Get("exp"), 10, 64)
	assert.NoError(t, err)
	sig := u.Query().Get("sig")
	assert.NotEmpty(t, sig)

	assert.NoError(t, signer.Verify("photos/worker-1.jpg", exp, sig))
}

func TestVerify(t *testing.T) {
	signer := NewSigner("test-secret", 15*time.Minute)
	exp := time.Now().Add(time.Hour).Unix()
	sig := signer.signature("photos/worker-1.jpg", exp)

	tests := []struct {
		name          string
		key           string
		exp           int64
		sig           string
		expectedError error
	}{
		{
			name: "Valid signature",
			key:  "photos/worker-1.jpg",
			exp:  exp,
			sig:  sig,
		},
		{
			name:          "Expired url",
			key:           "photos/worker-1.jpg",
			exp:           time.Now().Add(-time.Minute).Unix(),
			sig:           sig,
			expectedError: ErrExpiredURL,
		},
		{
			name:          "Swapped object key",
			key:           "photos/worker-2.jpg",
			exp:           exp,
			sig:           sig,
			expectedError: ErrBadURLSig,
		},
		{
			name:          "Tampered signature",
			key:           "photos/worker-1.jpg",
			exp:           exp,
			sig:           "deadbeef",
			expectedError: ErrBadURLSig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := signer.Verify(tt.key, tt.exp, tt.sig)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestVerifyDifferentSecrets(t *testing.T) {
	exp := time.Now().Add(time.Hour).Unix()
	sig := NewSigner("secret-a", time.Minute).signature("doc.pdf", exp)

	err := NewSigner("secret-b", time.Minute).Verify("doc.pdf", exp, sig)
	assert.ErrorIs(t, err, ErrBadURLSig)
}
