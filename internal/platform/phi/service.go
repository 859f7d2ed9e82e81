package phi

import (
	"encoding/hex"
	"fmt"

	"github.com/rs/zerolog"
)

// Service wraps a FieldEncryptor and adds a disabled mode for development
// environments where no encryption key is configured. The key lifecycle is
// load-once: it is fixed for the process lifetime and rotation requires a
// coordinated restart.
type Service struct {
	encryptor FieldEncryptor
	enabled   bool
}

// NewService creates a field-encryption service from a hex-encoded key.
//
// If key is empty, encryption is disabled and a loud warning is logged; the
// config layer rejects this combination in production before we get here.
// If key is non-empty it must be a 64-character hex string encoding a
// 32-byte AES-256 key; anything else is a startup error so the application
// refuses to run with a misconfigured key.
func NewService(key string, logger zerolog.Logger) (*Service, error) {
	if key == "" {
		logger.Warn().Msg("PHI encryption disabled: PHI_ENCRYPTION_KEY is not set; national-ID values will be stored in plaintext")
		return &Service{enabled: false}, nil
	}

	keyBytes, err := hex.DecodeString(key)
	if err != nil {
		return nil, fmt.Errorf("PHI_ENCRYPTION_KEY is not valid hex: %w", err)
	}
	if len(keyBytes) != 32 {
		return nil, fmt.Errorf("PHI_ENCRYPTION_KEY must be 32 bytes (64 hex chars), got %d bytes", len(keyBytes))
	}

	enc, err := NewCipher(keyBytes)
	if err != nil {
		return nil, fmt.Errorf("create field cipher: %w", err)
	}

	logger.Info().Msg("PHI field-level encryption enabled")
	return &Service{encryptor: enc, enabled: true}, nil
}

// Enabled reports whether field encryption is active.
func (s *Service) Enabled() bool { return s.enabled }

// EncryptField encrypts a single field value. Returns the value unchanged
// when encryption is disabled.
func (s *Service) EncryptField(value string) (string, error) {
	if !s.enabled {
		return value, nil
	}
	return s.encryptor.Encrypt(value)
}

// DecryptField decrypts a single field value. Returns the value unchanged
// when encryption is disabled.
func (s *Service) DecryptField(value string) (string, error) {
	if !s.enabled {
		return value, nil
	}
	return s.encryptor.Decrypt(value)
}
