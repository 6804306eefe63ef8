package cmd

import (
	"authd/cmd/user"
	"authd/internal/bootstrap"
	"authd/internal/config"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "authd",
	Short: "A small OAuth2-style authorization server.",
	Long:  `Authd issues and validates signed access and refresh tokens for first-party users and registered clients.`,
	Run: func(cmd *cobra.Command, args []string) {
		log.Info().Msg("Parsing config")

		var conf config.Config
		parseErr := viper.Unmarshal(&conf)
		HandleError(parseErr, "Failed to parse config")

		log.Info().Msg("Validating config")

		validate := validator.New()
		validateErr := validate.Struct(&conf)
		HandleError(validateErr, "Invalid config")

		level, levelErr := zerolog.ParseLevel(conf.LogLevel)
		HandleError(levelErr, "Invalid log level")
		zerolog.SetGlobalLevel(level)

		app := bootstrap.NewBootstrapApp(conf)

		HandleError(app.Setup(), "Failed to start server")
	},
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to execute command")
	}
}

func HandleError(err error, msg string) {
	if err != nil {
		log.Fatal().Err(err).Msg(msg)
	}
}

func init() {
	rootCmd.AddCommand(user.UserCmd())

	newVersionCmd(rootCmd).Register()
	newHealthcheckCmd(rootCmd).Register()

	viper.AutomaticEnv()

	rootCmd.Flags().Int("port", 3000, "Port to run the server on.")
	rootCmd.Flags().String("address", "0.0.0.0", "Address to bind the server to.")
	rootCmd.Flags().String("app-secret", "", "Application signing secret, 12 to 36 printable characters.")
	rootCmd.Flags().String("database-path", "authd.db", "Path to the database file.")
	rootCmd.Flags().String("frontend-url", "", "Base URL of the login frontend.")
	rootCmd.Flags().String("log-level", "info", "Log level.")
	rootCmd.Flags().Bool("develop-mode", false, "Enable development conveniences like the password grant.")
	rootCmd.Flags().Int("password-min-length", 8, "Minimum accepted password length.")
	rootCmd.Flags().Int("password-max-length", 16, "Maximum accepted password length.")
	rootCmd.Flags().Int("password-iterations", 300000, "PBKDF2 iteration count, capped at 1000000.")
	rootCmd.Flags().Int("access-token-valid-minutes", 30, "Access token lifetime in minutes.")
	rootCmd.Flags().Int("refresh-token-valid-days", 356, "Refresh token lifetime in days.")
	rootCmd.Flags().Int("code-valid-minutes", 5, "Authorization code lifetime in minutes.")

	viper.BindEnv("port", "PORT")
	viper.BindEnv("address", "ADDRESS")
	viper.BindEnv("app-secret", "APP_SECRET")
	viper.BindEnv("database-path", "DATABASE_PATH")
	viper.BindEnv("frontend-url", "FRONTEND_URL")
	viper.BindEnv("log-level", "LOG_LEVEL")
	viper.BindEnv("develop-mode", "DEVELOP_MODE")
	viper.BindEnv("password-min-length", "PASSWORD_MIN_LENGTH")
	viper.BindEnv("password-max-length", "PASSWORD_MAX_LENGTH")
	viper.BindEnv("password-iterations", "PASSWORD_ITERATIONS")
	viper.BindEnv("access-token-valid-minutes", "ACCESS_TOKEN_VALID_MINUTES")
	viper.BindEnv("refresh-token-valid-days", "REFRESH_TOKEN_VALID_DAYS")
	viper.BindEnv("code-valid-minutes", "AUTH_CODE_VALID_MINUTES")

	viper.BindPFlags(rootCmd.Flags())
}
