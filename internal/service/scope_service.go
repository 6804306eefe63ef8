package service

import (
	"errors"

	"authd/internal/model"

	"gorm.io/gorm"
)

type ScopeService struct {
	database *gorm.DB
}

func NewScopeService(database *gorm.DB) *ScopeService {
	return &ScopeService{
		database: database,
	}
}

func (ss *ScopeService) CreateScope(scopeType string) (*model.Scope, error) {
	var count int64
	if err := ss.database.Model(&model.Scope{}).Where("type = ?", scopeType).Count(&count).Error; err != nil {
		return nil, err
	}

	if count > 0 {
		return nil, &UniquenessError{Field: "scope", Value: scopeType}
	}

	scope := model.Scope{
		Type: scopeType,
	}

	if err := ss.database.Create(&scope).Error; err != nil {
		return nil, err
	}

	return &scope, nil
}

func (ss *ScopeService) GetScopeByType(scopeType string) (*model.Scope, error) {
	var scope model.Scope
	err := ss.database.Where("type = ?", scopeType).First(&scope).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &scope, nil
}

// EnsureCatalog creates any catalog scope that does not exist yet. Safe to
// run on every startup.
func (ss *ScopeService) EnsureCatalog(catalog []string) error {
	for _, scopeType := range catalog {
		existing, err := ss.GetScopeByType(scopeType)
		if err != nil {
			return err
		}

		if existing != nil {
			continue
		}

		if _, err := ss.CreateScope(scopeType); err != nil {
			return err
		}
	}

	return nil
}
