// Package services implements the tracker's application logic on top of the
// record store and the session area.
//
// Key Types
//
//   - SessionManager   remembers the signed-in account in the session area
//   - AccountService   registration, login, password change, admin actions
//   - DepositEngine    per-account working set of fixed deposits
//   - FundLedger       per-account working set of fund purchases
//   - Workspace        the working sets of the signed-in account
//
// Every failure is returned as an error; callers match the categories in
// internal/common with errors.Is.
package services
