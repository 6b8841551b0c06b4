package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/licai/internal/common"
	"github.com/dmitrijs2005/licai/internal/cryptox"
	"github.com/dmitrijs2005/licai/internal/logging"
	"github.com/dmitrijs2005/licai/internal/models"
	"github.com/dmitrijs2005/licai/internal/store"
)

// Bootstrap administrator credentials.
const (
	AdminUsername = "admin"
	AdminPassword = "admin123"
)

// ClearConfirmation must be typed to wipe the whole store.
const ClearConfirmation = "确认清空"

// Keys of the record store's session collection.
const (
	keyBootstrappedAt = "bootstrapped_at"
	keyLastLogin      = "last_login"
)

// AccountService manages local logins.
//
// Contract:
//   - Register: ErrValidation on empty fields, ErrConflict on a taken username.
//   - Login: ErrNotFound on an unknown username, ErrAuth on a wrong password.
//   - ChangePassword: ErrNotLoggedIn, ErrValidation when new != confirm,
//     ErrAuth when old does not match.
//   - DeleteAllData and ListAccounts: ErrPermission unless the session
//     belongs to an admin.
type AccountService interface {
	BootstrapAdmin(ctx context.Context) error
	Register(ctx context.Context, username string, password []byte) error
	Login(ctx context.Context, username string, password []byte) (*models.AccountSnapshot, error)
	ChangePassword(ctx context.Context, oldPassword, newPassword, confirm []byte) error
	Logout(ctx context.Context) error
	DeleteAllData(ctx context.Context, confirm string) error
	ListAccounts(ctx context.Context) ([]models.AccountSnapshot, error)
	Whoami(ctx context.Context) (*models.AccountSnapshot, error)
}

type accountService struct {
	records  *store.Records
	sessions SessionManager
	log      logging.Logger
	now      func() time.Time
}

// NewAccountService builds the service. now may be nil, meaning time.Now.
func NewAccountService(records *store.Records, sessions SessionManager, log logging.Logger, now func() time.Time) AccountService {
	if now == nil {
		now = time.Now
	}
	return &accountService{records: records, sessions: sessions, log: log, now: now}
}

// BootstrapAdmin creates the admin account unless an account named admin
// with the admin role already exists.
func (s *accountService) BootstrapAdmin(ctx context.Context) error {
	repo := s.records.Accounts(s.records.DB())

	admins, err := repo.GetAllByIndex(ctx, "role", string(models.RoleAdmin))
	if err != nil {
		return err
	}
	for _, a := range admins {
		if a.Username == AdminUsername {
			return nil
		}
	}

	if _, err := repo.Save(ctx, s.newAccount(AdminUsername, []byte(AdminPassword), models.RoleAdmin)); err != nil {
		return err
	}
	stamp := []byte(s.now().UTC().Format(time.RFC3339))
	if err := s.records.Session(s.records.DB()).Set(ctx, keyBootstrappedAt, stamp); err != nil {
		return err
	}

	s.log.Info(ctx, "admin account created", "username", AdminUsername)
	return nil
}

func (s *accountService) newAccount(username string, password []byte, role models.Role) *models.Account {
	hash, salt := cryptox.NewPasswordHash(password)
	return &models.Account{
		Username:     username,
		PasswordHash: hash,
		Salt:         salt,
		Role:         role,
		CreatedAt:    s.now().UTC(),
	}
}

func (s *accountService) Register(ctx context.Context, username string, password []byte) error {
	if username == "" {
		return common.NewValidationError("username", "required")
	}
	if len(password) == 0 {
		return common.NewValidationError("password", "required")
	}

	repo := s.records.Accounts(s.records.DB())
	_, err := repo.Get(ctx, username)
	if err == nil {
		return fmt.Errorf("username %q: %w", username, common.ErrConflict)
	}
	if !errors.Is(err, common.ErrNotFound) {
		return err
	}

	if _, err := repo.Save(ctx, s.newAccount(username, password, models.RoleUser)); err != nil {
		return err
	}
	s.log.Info(ctx, "account registered", "username", username)
	return nil
}

func (s *accountService) Login(ctx context.Context, username string, password []byte) (*models.AccountSnapshot, error) {
	a, err := s.records.Accounts(s.records.DB()).Get(ctx, username)
	if err != nil {
		return nil, err
	}
	if !cryptox.VerifyPassword(password, a.Salt, a.PasswordHash) {
		s.log.Warn(ctx, "login rejected", "username", username)
		return nil, common.ErrAuth
	}

	snap := a.Snapshot()
	if err := s.sessions.SetCurrentAccount(ctx, &snap); err != nil {
		return nil, err
	}

	s.recordLastLogin(ctx, username)
	s.log.Info(ctx, "logged in", "username", username)
	return &snap, nil
}

type lastLogin struct {
	Username string    `json:"username"`
	At       time.Time `json:"at"`
}

// recordLastLogin is informational; a failure does not undo the login.
func (s *accountService) recordLastLogin(ctx context.Context, username string) {
	raw, err := json.Marshal(lastLogin{Username: username, At: s.now().UTC()})
	if err == nil {
		err = s.records.Session(s.records.DB()).Set(ctx, keyLastLogin, raw)
	}
	if err != nil {
		s.log.Warn(ctx, "failed to record last login", "username", username, "error", err)
	}
}

func (s *accountService) ChangePassword(ctx context.Context, oldPassword, newPassword, confirm []byte) error {
	current, err := s.requireSession(ctx)
	if err != nil {
		return err
	}
	if len(oldPassword) == 0 {
		return common.NewValidationError("old password", "required")
	}
	if len(newPassword) == 0 {
		return common.NewValidationError("new password", "required")
	}
	if string(newPassword) != string(confirm) {
		return common.NewValidationError("confirm", "passwords do not match")
	}

	repo := s.records.Accounts(s.records.DB())
	a, err := repo.Get(ctx, current.Username)
	if err != nil {
		return err
	}
	if !cryptox.VerifyPassword(oldPassword, a.Salt, a.PasswordHash) {
		return common.ErrAuth
	}

	a.PasswordHash, a.Salt = cryptox.NewPasswordHash(newPassword)
	if _, err := repo.Save(ctx, a); err != nil {
		return err
	}

	snap := a.Snapshot()
	if err := s.sessions.SetCurrentAccount(ctx, &snap); err != nil {
		return err
	}
	s.log.Info(ctx, "password changed", "username", a.Username)
	return nil
}

func (s *accountService) Logout(ctx context.Context) error {
	return s.sessions.SetCurrentAccount(ctx, nil)
}

// DeleteAllData empties every collection, recreates the admin account and
// ends the session.
func (s *accountService) DeleteAllData(ctx context.Context, confirm string) error {
	if _, err := s.requireAdmin(ctx); err != nil {
		return err
	}
	if confirm != ClearConfirmation {
		return common.ErrNotConfirmed
	}

	if err := s.records.Clear(ctx); err != nil {
		return err
	}
	if err := s.BootstrapAdmin(ctx); err != nil {
		return err
	}
	if err := s.sessions.SetCurrentAccount(ctx, nil); err != nil {
		return err
	}

	s.log.Warn(ctx, "all data deleted")
	return nil
}

func (s *accountService) ListAccounts(ctx context.Context) ([]models.AccountSnapshot, error) {
	if _, err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}
	all, err := s.records.Accounts(s.records.DB()).GetAll(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]models.AccountSnapshot, 0, len(all))
	for _, a := range all {
		result = append(result, a.Snapshot())
	}
	return result, nil
}

func (s *accountService) Whoami(ctx context.Context) (*models.AccountSnapshot, error) {
	return s.requireSession(ctx)
}

func (s *accountService) requireSession(ctx context.Context) (*models.AccountSnapshot, error) {
	current, err := s.sessions.CheckLoginStatus(ctx)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, common.ErrNotLoggedIn
	}
	return current, nil
}

func (s *accountService) requireAdmin(ctx context.Context) (*models.AccountSnapshot, error) {
	current, err := s.requireSession(ctx)
	if err != nil {
		return nil, err
	}
	if !current.IsAdmin() {
		return nil, common.ErrPermission
	}
	return current, nil
}
