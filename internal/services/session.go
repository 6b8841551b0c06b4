package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/licai/internal/logging"
	"github.com/dmitrijs2005/licai/internal/models"
	"github.com/dmitrijs2005/licai/internal/repositories/metadata"
)

// Keys of the session area.
const (
	KeyCurrentUser = "currentUser"
	KeyLoginStatus = "loginStatus"
)

// SessionManager tracks the signed-in account.
//
// The snapshot and the login flag are two separate writes. CheckLoginStatus
// repairs any state in which they disagree by logging out.
type SessionManager interface {
	GetCurrentAccount(ctx context.Context) (*models.AccountSnapshot, error)
	SetCurrentAccount(ctx context.Context, s *models.AccountSnapshot) error
	CheckLoginStatus(ctx context.Context) (*models.AccountSnapshot, error)
}

type sessionManager struct {
	kv  metadata.Repository
	log logging.Logger
}

func NewSessionManager(kv metadata.Repository, log logging.Logger) SessionManager {
	return &sessionManager{kv: kv, log: log}
}

// GetCurrentAccount returns the stored snapshot, or nil when there is none or
// it cannot be decoded.
func (m *sessionManager) GetCurrentAccount(ctx context.Context) (*models.AccountSnapshot, error) {
	raw, err := m.kv.Get(ctx, KeyCurrentUser)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}

	var s models.AccountSnapshot
	if err := json.Unmarshal(raw, &s); err != nil || s.Username == "" {
		m.log.Warn(ctx, "discarding unreadable session snapshot", "error", err)
		return nil, nil
	}
	return &s, nil
}

// SetCurrentAccount stores s and raises the login flag, or with s == nil
// removes the snapshot and lowers the flag.
func (m *sessionManager) SetCurrentAccount(ctx context.Context, s *models.AccountSnapshot) error {
	if s == nil {
		if err := m.kv.Delete(ctx, KeyCurrentUser); err != nil {
			return err
		}
		return m.kv.Set(ctx, KeyLoginStatus, []byte("false"))
	}

	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode session snapshot: %w", err)
	}
	if err := m.kv.Set(ctx, KeyCurrentUser, raw); err != nil {
		return err
	}
	return m.kv.Set(ctx, KeyLoginStatus, []byte("true"))
}

// CheckLoginStatus returns the signed-in account, or nil. A session counts
// only when the flag is "true" and a snapshot is present; anything else is
// normalized to the logged-out state.
func (m *sessionManager) CheckLoginStatus(ctx context.Context) (*models.AccountSnapshot, error) {
	flag, err := m.kv.Get(ctx, KeyLoginStatus)
	if err != nil {
		return nil, err
	}
	s, err := m.GetCurrentAccount(ctx)
	if err != nil {
		return nil, err
	}

	if string(flag) == "true" && s != nil {
		return s, nil
	}

	if len(flag) > 0 || s != nil {
		m.log.Info(ctx, "inconsistent session reset", "flag", string(flag), "snapshot", s != nil)
	}
	if err := m.SetCurrentAccount(ctx, nil); err != nil {
		return nil, err
	}
	return nil, nil
}
