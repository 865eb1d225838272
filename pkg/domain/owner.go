package domain

// OwnerKey scopes subscription rows to a principal. Under the session scheme
// the stable user ID is authoritative; the email is still carried so rows
// created before the account existed (legacy schemes persisted email only)
// remain visible to their owner after sign-in.
type OwnerKey struct {
	UserID UserID
	Email  string
}

// Matches reports whether a row with the given ownership attributes belongs to
// this key. rowUserID is the nil UserID for rows persisted before the session
// scheme existed.
func (k OwnerKey) Matches(rowUserID UserID, rowEmail string) bool {
	if !k.UserID.IsNil() {
		if rowUserID == k.UserID {
			return true
		}
		// Legacy rows: claimed by matching verified email.
		return rowUserID.IsNil() && rowEmail == k.Email
	}
	return rowEmail == k.Email
}
