package service

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

type PasswordAlgorithm string

const (
	PasswordAlgorithmPlain  PasswordAlgorithm = "plain"
	PasswordAlgorithmSHA256 PasswordAlgorithm = "sha256"
)

const saltLength = 16

var ErrUnsupportedAlgorithm = errors.New("unsupported password algorithm")

// PasswordValidationError reports a password rejected by one of the
// configured validators before hashing.
type PasswordValidationError struct {
	Reason string
}

func (e *PasswordValidationError) Error() string {
	return e.Reason
}

// PasswordValidator checks a plaintext password for acceptability.
// Validators run in order and the first failure short-circuits.
type PasswordValidator func(plain string) error

func MinLengthValidator(min int) PasswordValidator {
	return func(plain string) error {
		if len(plain) < min {
			return &PasswordValidationError{Reason: "Password is too short"}
		}
		return nil
	}
}

func MaxLengthValidator(max int) PasswordValidator {
	return func(plain string) error {
		if len(plain) > max {
			return &PasswordValidationError{Reason: "Password is too long"}
		}
		return nil
	}
}

type algorithmFunc func(plain string, iterations int, salt []byte) []byte

// Closed registry of hash algorithms. The plain algorithm is an identity
// passthrough used only in development setups.
var algorithmMap = map[PasswordAlgorithm]algorithmFunc{
	PasswordAlgorithmPlain: func(plain string, iterations int, salt []byte) []byte {
		return []byte(plain)
	},
	PasswordAlgorithmSHA256: func(plain string, iterations int, salt []byte) []byte {
		return pbkdf2.Key([]byte(plain), salt, iterations, sha256.Size, sha256.New)
	},
}

type PasswordServiceConfig struct {
	Algorithm  PasswordAlgorithm
	Iterations int
	Validators []PasswordValidator
}

type PasswordService struct {
	config PasswordServiceConfig
}

func NewPasswordService(config PasswordServiceConfig) *PasswordService {
	return &PasswordService{
		config: config,
	}
}

func (ps *PasswordService) GenerateSalt() ([]byte, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return salt, nil
}

func (ps *PasswordService) Validate(plain string) error {
	for _, validator := range ps.config.Validators {
		if err := validator(plain); err != nil {
			return err
		}
	}
	return nil
}

// FormatPassword builds the self-describing hash-string
// algorithm$iterations$base64(hash)$base64(salt).
func (ps *PasswordService) FormatPassword(algorithm PasswordAlgorithm, iterations int, hash []byte, salt []byte) string {
	return fmt.Sprintf("%s$%d$%s$%s",
		algorithm,
		iterations,
		base64.StdEncoding.EncodeToString(hash),
		base64.StdEncoding.EncodeToString(salt),
	)
}

// HashPassword hashes with the configured algorithm and iteration count.
func (ps *PasswordService) HashPassword(plain string) (string, error) {
	return ps.HashPasswordWith(plain, ps.config.Algorithm, ps.config.Iterations, nil)
}

// HashPasswordWith hashes with an explicit algorithm, iteration count and
// salt. A nil salt is replaced with a fresh random one.
func (ps *PasswordService) HashPasswordWith(plain string, algorithm PasswordAlgorithm, iterations int, salt []byte) (string, error) {
	algorithmFn, ok := algorithmMap[algorithm]
	if !ok {
		return "", ErrUnsupportedAlgorithm
	}

	if salt == nil {
		var err error
		salt, err = ps.GenerateSalt()
		if err != nil {
			return "", err
		}
	}

	hash := algorithmFn(plain, iterations, salt)

	return ps.FormatPassword(algorithm, iterations, hash, salt), nil
}

// CheckPassword re-derives the hash using the algorithm, iteration count and
// salt embedded in the stored hash-string and compares digests by value.
func (ps *PasswordService) CheckPassword(plain string, formatted string) (bool, error) {
	parts := strings.Split(formatted, "$")
	if len(parts) != 4 {
		return false, fmt.Errorf("malformed password hash")
	}

	algorithm := PasswordAlgorithm(parts[0])

	algorithmFn, ok := algorithmMap[algorithm]
	if !ok {
		return false, ErrUnsupportedAlgorithm
	}

	iterations, err := strconv.Atoi(parts[1])
	if err != nil {
		return false, fmt.Errorf("malformed iteration count: %w", err)
	}

	hash, err := base64.StdEncoding.DecodeString(parts[2])
	if err != nil {
		return false, fmt.Errorf("malformed password hash: %w", err)
	}

	salt, err := base64.StdEncoding.DecodeString(parts[3])
	if err != nil {
		return false, fmt.Errorf("malformed password salt: %w", err)
	}

	expected := algorithmFn(plain, iterations, salt)

	return hmac.Equal(expected, hash), nil
}
