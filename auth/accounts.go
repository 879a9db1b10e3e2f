// Package auth handles credentials, bearer tokens and account registration.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/satheeshds/condo/billing"
	"github.com/satheeshds/condo/models"
	"github.com/satheeshds/condo/store"
)

var (
	ErrUnauthenticated    = errors.New("authentication required")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("access denied")
	ErrInvalidInput       = errors.New("invalid input")
)

// LoginResult is returned to clients after a successful login.
type LoginResult struct {
	Role     models.Role `json:"role"`
	Token    string      `json:"token"`
	Username string      `json:"username"`
}

// Accounts registers accounts and exchanges credentials for tokens.
type Accounts struct {
	store  *store.Store
	tokens *Issuer
	authz  billing.Authorizer
}

func NewAccounts(st *store.Store, tokens *Issuer, authz billing.Authorizer) *Accounts {
	if authz == nil {
		authz = billing.DefaultAuthorizer
	}
	return &Accounts{store: st, tokens: tokens, authz: authz}
}

// Register creates an account on behalf of actor, who must be allowed to
// register accounts.
func (a *Accounts) Register(ctx context.Context, actor models.Principal, input models.RegisterInput) (models.Account, error) {
	if !actor.Authenticated() {
		return models.Account{}, ErrUnauthenticated
	}
	if !a.authz(actor, billing.ActionRegisterAccounts) {
		return models.Account{}, ErrForbidden
	}
	return a.create(ctx, input)
}

// Bootstrap creates an admin account without an acting principal. It backs
// the create-admin command.
func (a *Accounts) Bootstrap(ctx context.Context, input models.RegisterInput) (models.Account, error) {
	input.Role = string(models.RoleAdmin)
	return a.create(ctx, input)
}

func (a *Accounts) create(ctx context.Context, input models.RegisterInput) (models.Account, error) {
	if msg := input.Validate(); msg != "" {
		return models.Account{}, fmt.Errorf("%w: %s", ErrInvalidInput, msg)
	}
	hash, err := HashPassword(input.Password)
	if err != nil {
		return models.Account{}, fmt.Errorf("hash password: %w", err)
	}
	acct, err := a.store.CreateAccount(ctx, input, hash)
	if err != nil {
		return models.Account{}, err
	}
	slog.Info("account registered", "account_id", acct.ID, "role", acct.Role)
	return acct, nil
}

// Login accepts an email or a username.
func (a *Accounts) Login(ctx context.Context, login, password string) (LoginResult, error) {
	login = strings.TrimSpace(login)
	if strings.Contains(login, "@") {
		login = strings.ToLower(login)
	}
	if login == "" || password == "" {
		return LoginResult{}, fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	}
	acct, err := a.store.AccountByLogin(ctx, login)
	if errors.Is(err, store.ErrNotFound) {
		return LoginResult{}, ErrInvalidCredentials
	}
	if err != nil {
		return LoginResult{}, err
	}
	if !CheckPassword(acct.PasswordHash, password) {
		return LoginResult{}, ErrInvalidCredentials
	}

	token, err := a.tokens.Issue(acct.Principal())
	if err != nil {
		return LoginResult{}, fmt.Errorf("issue token: %w", err)
	}
	return LoginResult{Role: acct.Role, Token: token, Username: acct.Username}, nil
}
