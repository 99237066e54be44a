package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHash_CompareHash(t *testing.T) {
	hash, err := GetHash("Secret123")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "Secret123", hash)

	tests := []struct {
		name        string
		password    string
		shouldMatch bool
	}{
		{name: "same plaintext", password: "Secret123", shouldMatch: true},
		{name: "different case", password: "secret123", shouldMatch: false},
		{name: "extra suffix", password: "Secret1234", shouldMatch: false},
		{name: "empty", password: "", shouldMatch: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CompareHash(hash, tt.password)
			if tt.shouldMatch {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestGetHash_IsSalted(t *testing.T) {
	first, err := GetHash("Secret123")
	require.NoError(t, err)
	second, err := GetHash("Secret123")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.NoError(t, CompareHash(first, "Secret123"))
	assert.NoError(t, CompareHash(second, "Secret123"))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{name: "meets policy", password: "Secret123", wantErr: false},
		{name: "exactly eight chars", password: "Abcdefg1", wantErr: false},
		{name: "too short", password: "Ab1", wantErr: true},
		{name: "no upper", password: "secret123", wantErr: true},
		{name: "no lower", password: "SECRET123", wantErr: true},
		{name: "no digit", password: "SecretPass", wantErr: true},
		{name: "empty", password: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.password)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrWeakPassword)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
