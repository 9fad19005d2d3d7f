package service

import (
	"shop-backend/internal/model"

	"github.com/google/uuid"
)

// ResolveScope decides which container owner a request acts as. An
// authenticated account always wins over any anonymous token. Without an
// account, a valid token is reused; an absent token is minted fresh and
// returned so the caller can hand it back to the client. A malformed
// token is rejected outright: accepting attacker-supplied identifiers
// would let someone pre-seed a cart that a victim later inherits.
func ResolveScope(accountID *uint, token string) (scope model.Scope, minted string, err error) {
	if accountID != nil {
		return model.AccountScope(*accountID), "", nil
	}

	if token == "" {
		minted = uuid.NewString()
		return model.AnonymousScope(minted), minted, nil
	}

	if _, err := uuid.Parse(token); err != nil {
		return model.Scope{}, "", ErrMalformedSessionToken
	}

	return model.AnonymousScope(token), "", nil
}
