package service_test

import (
	"testing"

	"authd/internal/config"
	"authd/internal/service"

	"gorm.io/gorm"
	"gotest.tools/v3/assert"
)

// newTestDatabase opens an in-memory database through the real migration
// path and seeds the scope catalog.
func newTestDatabase(t *testing.T) *gorm.DB {
	t.Helper()

	databaseService := service.NewDatabaseService(service.DatabaseServiceConfig{
		DatabasePath: ":memory:",
	})

	err := databaseService.Init()
	assert.NilError(t, err)

	database := databaseService.GetDatabase()

	scopeService := service.NewScopeService(database)
	err = scopeService.EnsureCatalog(config.ScopeCatalog)
	assert.NilError(t, err)

	return database
}

func newTestPasswordService() *service.PasswordService {
	// Low iteration count to keep tests fast
	return service.NewPasswordService(service.PasswordServiceConfig{
		Algorithm:  service.PasswordAlgorithmSHA256,
		Iterations: 1000,
		Validators: []service.PasswordValidator{
			service.MinLengthValidator(8),
			service.MaxLengthValidator(16),
		},
	})
}
