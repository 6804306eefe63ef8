package service

import (
	"errors"
	"fmt"
	"time"

	"authd/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ClientService struct {
	database *gorm.DB
}

func NewClientService(database *gorm.DB) *ClientService {
	return &ClientService{
		database: database,
	}
}

// CreateClient persists a client owned by user with a freshly generated
// secret. The secret is never regenerated afterwards.
func (cs *ClientService) CreateClient(name string, user *model.User, scopes []string) (*model.Client, error) {
	var count int64
	if err := cs.database.Model(&model.Client{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return nil, err
	}

	if count > 0 {
		return nil, &UniquenessError{Field: "client name", Value: name}
	}

	client := model.Client{
		Name:   name,
		UserID: user.ID,
		Secret: uuid.NewString(),
	}

	if err := cs.database.Create(&client).Error; err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	if len(scopes) > 0 {
		if err := cs.SetScopes(&client, scopes); err != nil {
			return nil, err
		}
	}

	return &client, nil
}

func (cs *ClientService) GetClientByID(id uint) (*model.Client, error) {
	var client model.Client
	err := cs.database.Where("id = ?", id).First(&client).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &client, nil
}

func (cs *ClientService) GetClientBySecret(secret string) (*model.Client, error) {
	var client model.Client
	err := cs.database.Where("secret = ?", secret).First(&client).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &client, nil
}

func (cs *ClientService) SetLastAuthenticated(client *model.Client, date time.Time) error {
	if date.IsZero() {
		date = time.Now()
	}

	client.LastAuthenticated = &date

	return cs.database.Model(client).Update("last_authenticated", date).Error
}

// SetScopes grants the requested scopes to the client. Every requested scope
// must exist in the catalog, otherwise nothing is granted.
func (cs *ClientService) SetScopes(client *model.Client, scopes []string) error {
	var scopeRows []model.Scope
	if err := cs.database.Where("type IN ?", scopes).Find(&scopeRows).Error; err != nil {
		return err
	}

	found := make(map[string]bool, len(scopeRows))
	for _, scope := range scopeRows {
		found[scope.Type] = true
	}

	for _, requested := range scopes {
		if !found[requested] {
			return ErrInvalidScope
		}
	}

	grants := make([]model.ClientScope, 0, len(scopeRows))
	now := time.Now()

	for _, scope := range scopeRows {
		grants = append(grants, model.ClientScope{
			ClientID:  client.ID,
			ScopeID:   scope.ID,
			GrantedAt: now,
		})
	}

	return cs.database.Clauses(clause.OnConflict{DoNothing: true}).Create(&grants).Error
}

// GetScopes returns the scope types granted to the client.
func (cs *ClientService) GetScopes(client *model.Client) ([]string, error) {
	var types []string

	err := cs.database.Model(&model.Scope{}).
		Joins("JOIN client_scopes ON client_scopes.scope_id = scopes.id").
		Where("client_scopes.client_id = ?", client.ID).
		Order("scopes.type").
		Pluck("scopes.type", &types).Error

	if err != nil {
		return nil, err
	}

	return types, nil
}

// DeleteClient removes the client. Its codes go with it through the foreign
// key cascade.
func (cs *ClientService) DeleteClient(id uint) error {
	return cs.database.Delete(&model.Client{}, id).Error
}
