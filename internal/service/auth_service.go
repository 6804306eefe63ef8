package service

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"time"

	"authd/internal/config"
	"authd/internal/model"

	"github.com/rs/zerolog/log"
)

type AuthServiceConfig struct {
	FrontendURL string
	CodeTTL     time.Duration
}

// AuthService orchestrates the credential store, the code engine and the
// token engine into the four authorization flows. Flows are stateless per
// request; there is no server-side session.
//
// Known limitation: Refresh mints a new pair but cannot revoke the replaced
// refresh token, since tokens are self-contained. An old refresh token stays
// redeemable until its own expiry.
type AuthService struct {
	config  AuthServiceConfig
	users   *UserService
	clients *ClientService
	codes   *CodeService
	tokens  *TokenService
}

func NewAuthService(config AuthServiceConfig, users *UserService, clients *ClientService, codes *CodeService, tokens *TokenService) *AuthService {
	return &AuthService{
		config:  config,
		users:   users,
		clients: clients,
		codes:   codes,
		tokens:  tokens,
	}
}

func (as *AuthService) authenticateUser(username string, password string) (*model.User, error) {
	user, err := as.users.GetUserByUsername(username)
	if err != nil {
		return nil, err
	}

	if user == nil {
		return nil, NewAuthenticationError("Incorrect username")
	}

	ok, err := as.users.CheckPassword(user, password)
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, NewAuthenticationError("Incorrect password")
	}

	return user, nil
}

// resolveClient authenticates a client by secret and checks the presented id
// against it. Successful resolution refreshes the last-authenticated mark.
func (as *AuthService) resolveClient(clientID uint, clientSecret string) (*model.Client, error) {
	client, err := as.clients.GetClientBySecret(clientSecret)
	if err != nil {
		return nil, err
	}

	if client == nil {
		return nil, NewAuthenticationError("Incorrect client secret")
	}

	if client.ID != clientID {
		return nil, NewAuthenticationError("Incorrect client id")
	}

	if err := as.clients.SetLastAuthenticated(client, time.Time{}); err != nil {
		log.Warn().Err(err).Uint("client_id", client.ID).Msg("Failed to update last authenticated timestamp")
	}

	return client, nil
}

func (as *AuthService) mintPair(user *model.User, client *model.Client) (string, string, error) {
	scopes, err := as.clients.GetScopes(client)
	if err != nil {
		return "", "", err
	}

	return as.tokens.MintPair(user.Username, scopes)
}

// CreatePasswordPair implements the resource-owner password grant. It is
// restricted to the client's own owning user.
func (as *AuthService) CreatePasswordPair(username string, password string, clientID uint, clientSecret string) (string, string, error) {
	user, err := as.authenticateUser(username, password)
	if err != nil {
		return "", "", err
	}

	client, err := as.resolveClient(clientID, clientSecret)
	if err != nil {
		return "", "", err
	}

	if client.UserID != user.ID {
		return "", "", NewAuthenticationError("Wrong user")
	}

	return as.mintPair(user, client)
}

// Authorize is the first leg of the authorization-code grant: authenticate
// the resource owner and issue a code for the client and redirect URI.
func (as *AuthService) Authorize(username string, password string, clientID uint, redirectURI string) (*model.Code, error) {
	if _, err := as.authenticateUser(username, password); err != nil {
		return nil, err
	}

	client, err := as.clients.GetClientByID(clientID)
	if err != nil {
		return nil, err
	}

	if client == nil {
		return nil, NewAuthenticationError("Incorrect client id")
	}

	return as.codes.Issue(client, redirectURI, as.config.CodeTTL)
}

// Exchange is the second leg of the authorization-code grant: redeem the
// single-use code and mint a pair for the owner of the code's client.
func (as *AuthService) Exchange(clientID uint, clientSecret string, redirectURI string, value string) (string, string, error) {
	client, err := as.resolveClient(clientID, clientSecret)
	if err != nil {
		return "", "", err
	}

	_, err = as.codes.Consume(value, client.ID, redirectURI, true)
	if err != nil {
		if errors.Is(err, ErrInvalidCode) {
			return "", "", NewAuthenticationError("Invalid code")
		}
		return "", "", err
	}

	owner, err := as.users.GetUserByID(client.UserID)
	if err != nil {
		return "", "", err
	}

	if owner == nil {
		return "", "", NewAuthenticationError("User not found")
	}

	return as.mintPair(owner, client)
}

// Refresh trades a refresh token for a fresh pair.
func (as *AuthService) Refresh(refreshToken string, clientID uint, clientSecret string) (string, string, error) {
	client, err := as.resolveClient(clientID, clientSecret)
	if err != nil {
		return "", "", err
	}

	claims, err := as.tokens.Verify(refreshToken, config.TokenTypeRefresh)
	if err != nil {
		return "", "", err
	}

	user, err := as.users.GetUserByUsername(claims.Subject)
	if err != nil {
		return "", "", err
	}

	if user == nil {
		return "", "", NewAuthenticationError("User not found")
	}

	return as.mintPair(user, client)
}

// VerifyAccess validates an access token and, when requiredScope is given,
// enforces it. The unrestricted scope satisfies any requirement. Returns the
// token subject.
func (as *AuthService) VerifyAccess(accessToken string, requiredScope string) (string, error) {
	claims, err := as.tokens.Verify(accessToken, config.TokenTypeAccess)
	if err != nil {
		return "", err
	}

	if requiredScope != "" &&
		!slices.Contains(claims.Scopes, requiredScope) &&
		!slices.Contains(claims.Scopes, config.ScopeUnrestricted) {
		return "", NewAuthenticationError("Missing required scope")
	}

	return claims.Subject, nil
}

// GetUserByToken resolves the user behind a valid access token.
func (as *AuthService) GetUserByToken(accessToken string) (*model.User, error) {
	subject, err := as.VerifyAccess(accessToken, "")
	if err != nil {
		return nil, err
	}

	user, err := as.users.GetUserByUsername(subject)
	if err != nil {
		return nil, err
	}

	if user == nil {
		return nil, NewAuthenticationError("User not found")
	}

	return user, nil
}

// AuthURI builds the frontend login URI a client redirects the resource
// owner to.
func (as *AuthService) AuthURI(clientID uint, redirectURI string) string {
	query := url.Values{}
	query.Set("client_id", fmt.Sprintf("%d", clientID))
	query.Set("redirect_uri", redirectURI)

	return fmt.Sprintf("%s/login/?%s", as.config.FrontendURL, query.Encode())
}

// CallbackURI builds the redirect back to the client carrying the issued
// code.
func (as *AuthService) CallbackURI(code *model.Code) string {
	return fmt.Sprintf("%s?code=%s", code.RedirectURI, url.QueryEscape(code.Value))
}
