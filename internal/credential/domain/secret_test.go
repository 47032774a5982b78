package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecretWithBytes(t *testing.T) {
	t.Run("exposes content to the closure", func(t *testing.T) {
		secret := NewSecretFromString("S3cr3t")
		defer secret.Release()

		var seen string
		err := secret.WithBytes(func(b []byte) error {
			seen = string(b)
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, "S3cr3t", seen)
	})

	t.Run("propagates closure error", func(t *testing.T) {
		secret := NewSecretFromString("S3cr3t")
		defer secret.Release()

		err := secret.WithBytes(func(b []byte) error {
			return assert.AnError
		})
		assert.ErrorIs(t, err, assert.AnError)
	})

	t.Run("fails after release", func(t *testing.T) {
		secret := NewSecretFromString("S3cr3t")
		secret.Release()

		err := secret.WithBytes(func(b []byte) error {
			return nil
		})
		assert.ErrorIs(t, err, ErrSecretReleased)
	})
}

func TestSecretRelease(t *testing.T) {
	t.Run("wipes the owned buffer", func(t *testing.T) {
		buf := []byte("S3cr3t")
		secret := NewSecret(buf)
		secret.Release()

		for _, b := range buf {
			assert.Equal(t, byte(0), b)
		}
	})

	t.Run("is idempotent", func(t *testing.T) {
		secret := NewSecretFromString("S3cr3t")
		secret.Release()
		assert.NotPanics(t, secret.Release)
	})
}

func TestZero(t *testing.T) {
	t.Run("overwrites content", func(t *testing.T) {
		b := []byte{1, 2, 3}
		Zero(b)
		assert.Equal(t, []byte{0, 0, 0}, b)
	})

	t.Run("nil slice is a no-op", func(t *testing.T) {
		assert.NotPanics(t, func() { Zero(nil) })
	})
}
