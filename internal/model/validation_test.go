package model_test

import (
	"testing"

	"authd/internal/model"

	"gotest.tools/v3/assert"
)

func TestValidateUsername(t *testing.T) {
	for _, username := range []string{"abc", "alice123456", "under_score", "12345678901234567890"} {
		assert.NilError(t, model.ValidateUsername(username), "username %q should be accepted", username)
	}

	for _, username := range []string{"", "ab", "123456789012345678901", "has space", "has-dash", "ümlaut"} {
		assert.ErrorContains(t, model.ValidateUsername(username), "invalid username", "username %q should be rejected", username)
	}
}

func TestValidatePasswordFormat(t *testing.T) {
	assert.NilError(t, model.ValidatePasswordFormat("sha256$300000$aGFzaA==$c2FsdA=="))
	assert.NilError(t, model.ValidatePasswordFormat("plain$1$cGFzcw==$c2FsdA=="))

	for _, password := range []string{"plaintext", "sha256$abc$aGFzaA==$c2FsdA==", "sha256$1$aGFzaA==", ""} {
		assert.ErrorContains(t, model.ValidatePasswordFormat(password), "invalid password", "password %q should be rejected", password)
	}
}
