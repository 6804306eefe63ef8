package create

import (
	"errors"

	"authd/internal/service"

	"github.com/charmbracelet/huh"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var interactive bool
var username string
var password string
var databasePath string

// CreateCmd creates a user directly in the database, bypassing the HTTP
// surface. Useful for bootstrapping the first user.
var CreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user",
	Long:  `Create a user either interactively or by passing flags.`,
	Run: func(cmd *cobra.Command, args []string) {
		if interactive {
			form := huh.NewForm(
				huh.NewGroup(
					huh.NewInput().Title("Username").Value(&username).Validate(func(s string) error {
						if s == "" {
							return errors.New("username cannot be empty")
						}
						return nil
					}),
					huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&password).Validate(func(s string) error {
						if s == "" {
							return errors.New("password cannot be empty")
						}
						return nil
					}),
				),
			)

			var baseTheme *huh.Theme = huh.ThemeBase()

			formErr := form.WithTheme(baseTheme).Run()

			if formErr != nil {
				log.Fatal().Err(formErr).Msg("Form failed")
			}
		}

		if username == "" || password == "" {
			log.Fatal().Msg("Username and password cannot be empty")
		}

		v := viper.New()
		v.AutomaticEnv()

		if databasePath == "" {
			databasePath = v.GetString("DATABASE_PATH")
		}

		if databasePath == "" {
			databasePath = "authd.db"
		}

		iterations := v.GetInt("PASSWORD_ITERATIONS")

		if iterations == 0 {
			iterations = 300000
		}

		databaseService := service.NewDatabaseService(service.DatabaseServiceConfig{
			DatabasePath: databasePath,
		})

		if err := databaseService.Init(); err != nil {
			log.Fatal().Err(err).Msg("Failed to open database")
		}

		passwordService := service.NewPasswordService(service.PasswordServiceConfig{
			Algorithm:  service.PasswordAlgorithmSHA256,
			Iterations: iterations,
		})

		userService := service.NewUserService(databaseService.GetDatabase(), passwordService)

		user, err := userService.CreateUser(username, password)

		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create user")
		}

		log.Info().Str("username", user.Username).Uint("id", user.ID).Msg("User created")
	},
}

func init() {
	CreateCmd.Flags().BoolVar(&interactive, "interactive", false, "Create a user interactively")
	CreateCmd.Flags().StringVar(&username, "username", "", "Username")
	CreateCmd.Flags().StringVar(&password, "password", "", "Password")
	CreateCmd.Flags().StringVar(&databasePath, "database-path", "", "Path to the database file")
}
