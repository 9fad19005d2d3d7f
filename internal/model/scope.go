package model

import "fmt"

// Scope identifies who owns a cart or favorites list: an authenticated
// account or an anonymous session token. Exactly one of the two is set.
type Scope struct {
	accountID uint
	token     string
	isAccount bool
}

func AccountScope(accountID uint) Scope {
	return Scope{accountID: accountID, isAccount: true}
}

func AnonymousScope(token string) Scope {
	return Scope{token: token}
}

func (s Scope) IsAccount() bool {
	return s.isAccount
}

func (s Scope) AccountID() (uint, bool) {
	return s.accountID, s.isAccount
}

func (s Scope) Token() (string, bool) {
	return s.token, !s.isAccount && s.token != ""
}

func (s Scope) String() string {
	if s.isAccount {
		return fmt.Sprintf("account:%d", s.accountID)
	}
	return "session:" + s.token
}
