package bootstrap

import (
	"authd/internal/config"
	"authd/internal/service"

	"github.com/rs/zerolog/log"
)

type Services struct {
	databaseService *service.DatabaseService
	passwordService *service.PasswordService
	userService     *service.UserService
	clientService   *service.ClientService
	codeService     *service.CodeService
	scopeService    *service.ScopeService
	tokenService    *service.TokenService
	authService     *service.AuthService
}

func (app *BootstrapApp) initServices() (Services, error) {
	services := Services{}

	databaseService := service.NewDatabaseService(service.DatabaseServiceConfig{
		DatabasePath: app.config.DatabasePath,
	})

	err := databaseService.Init()

	if err != nil {
		return Services{}, err
	}

	services.databaseService = databaseService
	database := databaseService.GetDatabase()

	algorithm := service.PasswordAlgorithmSHA256

	if app.config.DevelopMode {
		log.Warn().Msg("Develop mode enabled, passwords are stored without key stretching")
		algorithm = service.PasswordAlgorithmPlain
	}

	passwordService := service.NewPasswordService(service.PasswordServiceConfig{
		Algorithm:  algorithm,
		Iterations: app.config.PasswordIterations,
		Validators: []service.PasswordValidator{
			service.MinLengthValidator(app.config.PasswordMinLength),
			service.MaxLengthValidator(app.config.PasswordMaxLength),
		},
	})

	services.passwordService = passwordService
	services.userService = service.NewUserService(database, passwordService)
	services.clientService = service.NewClientService(database)
	services.codeService = service.NewCodeService(database)
	services.scopeService = service.NewScopeService(database)

	services.tokenService = service.NewTokenService(service.TokenServiceConfig{
		AppName:         config.AppName,
		Secret:          app.config.AppSecret,
		AccessTokenTTL:  app.config.AccessTokenTTL(),
		RefreshTokenTTL: app.config.RefreshTokenTTL(),
	})

	services.authService = service.NewAuthService(service.AuthServiceConfig{
		FrontendURL: app.config.FrontendURL,
		CodeTTL:     app.config.CodeTTL(),
	}, services.userService, services.clientService, services.codeService, services.tokenService)

	err = services.scopeService.EnsureCatalog(config.ScopeCatalog)

	if err != nil {
		return Services{}, err
	}

	return services, nil
}
