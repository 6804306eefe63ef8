package service

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"authd/internal/model"

	"gorm.io/gorm"
)

const codeValueLength = 32

// ErrInvalidCode covers every consumption failure: unknown value, expired,
// already used or bound to a different client or redirect URI. Callers must
// not be able to tell the cases apart.
var ErrInvalidCode = errors.New("invalid code")

type CodeService struct {
	database *gorm.DB
}

func NewCodeService(database *gorm.DB) *CodeService {
	return &CodeService{
		database: database,
	}
}

func generateCodeValue() (string, error) {
	value := make([]byte, codeValueLength)
	if _, err := rand.Read(value); err != nil {
		return "", fmt.Errorf("failed to generate code value: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(value), nil
}

// Issue creates a fresh single-use code bound to the client and redirect URI.
func (cs *CodeService) Issue(client *model.Client, redirectURI string, ttl time.Duration) (*model.Code, error) {
	value, err := generateCodeValue()
	if err != nil {
		return nil, err
	}

	code := model.Code{
		Value:       value,
		ClientID:    client.ID,
		RedirectURI: redirectURI,
		ValidUntil:  time.Now().Add(ttl),
	}

	if err := cs.database.Create(&code).Error; err != nil {
		return nil, fmt.Errorf("failed to create code: %w", err)
	}

	return &code, nil
}

// Consume redeems a code. With invalidate set, the unused-and-unexpired
// check and the used flag are applied in one conditional UPDATE so that
// concurrent redemption attempts cannot both succeed.
func (cs *CodeService) Consume(value string, clientID uint, redirectURI string, invalidate bool) (*model.Code, error) {
	if !invalidate {
		var code model.Code
		err := cs.database.
			Where("value = ? AND client_id = ? AND redirect_uri = ? AND is_used = ? AND valid_until > ?",
				value, clientID, redirectURI, false, time.Now()).
			First(&code).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrInvalidCode
			}
			return nil, err
		}
		return &code, nil
	}

	result := cs.database.Model(&model.Code{}).
		Where("value = ? AND client_id = ? AND redirect_uri = ? AND is_used = ? AND valid_until > ?",
			value, clientID, redirectURI, false, time.Now()).
		Update("is_used", true)

	if result.Error != nil {
		return nil, result.Error
	}

	if result.RowsAffected == 0 {
		return nil, ErrInvalidCode
	}

	var code model.Code
	err := cs.database.
		Where("value = ? AND client_id = ? AND redirect_uri = ?", value, clientID, redirectURI).
		First(&code).Error
	if err != nil {
		return nil, err
	}

	return &code, nil
}
