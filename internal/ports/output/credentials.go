package output

type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
}

// TokenIssuer issues and parses bearer credentials bound to a user ID.
type TokenIssuer interface {
	Issue(userID uint) (string, error)
	Parse(token string) (uint, error)
}
