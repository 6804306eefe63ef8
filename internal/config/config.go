package config

import "time"

// Version information, set at build time

var Version = "development"
var CommitHash = "development"
var BuildTimestamp = "0000-00-00T00:00:00Z"

// AppName is used as the issuer claim of every signed token. Changing it
// invalidates all previously issued tokens.
var AppName = "authd"

// Main app config

type Config struct {
	Port                    int    `mapstructure:"port" validate:"required"`
	Address                 string `mapstructure:"address" validate:"required,ip4_addr"`
	AppSecret               string `mapstructure:"app-secret" validate:"required,printascii,min=12,max=36"`
	DatabasePath            string `mapstructure:"database-path" validate:"required"`
	FrontendURL             string `mapstructure:"frontend-url" validate:"required,url"`
	LogLevel                string `mapstructure:"log-level" validate:"oneof=trace debug info warn error fatal panic"`
	DevelopMode             bool   `mapstructure:"develop-mode"`
	PasswordMinLength       int    `mapstructure:"password-min-length" validate:"required,min=1"`
	PasswordMaxLength       int    `mapstructure:"password-max-length" validate:"required,min=1"`
	PasswordIterations      int    `mapstructure:"password-iterations" validate:"required,min=1,max=1000000"`
	AccessTokenValidMinutes int    `mapstructure:"access-token-valid-minutes" validate:"required,min=1"`
	RefreshTokenValidDays   int    `mapstructure:"refresh-token-valid-days" validate:"required,min=1"`
	CodeValidMinutes        int    `mapstructure:"code-valid-minutes" validate:"required,min=1"`
}

func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTokenValidMinutes) * time.Minute
}

func (c *Config) RefreshTokenTTL() time.Duration {
	return time.Duration(c.RefreshTokenValidDays) * 24 * time.Hour
}

func (c *Config) CodeTTL() time.Duration {
	return time.Duration(c.CodeValidMinutes) * time.Minute
}

// Token types

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Scope catalog

const (
	ScopeUnrestricted = "unrestricted"
	ScopeProfileRead  = "profile-read"
	ScopeProfileWrite = "profile-write"
)

// ScopeCatalog holds every scope a client can be granted. Seeded into the
// database at startup.
var ScopeCatalog = []string{
	ScopeUnrestricted,
	ScopeProfileRead,
	ScopeProfileWrite,
}
