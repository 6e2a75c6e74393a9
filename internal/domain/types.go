package domain

// ID is used across domain entities.
type ID int64

// Identity is the caller of an operation. The zero value is an anonymous caller.
type Identity struct {
	UserID ID
}

// Anonymous is the identity of an unauthenticated caller.
var Anonymous = Identity{}

func (i Identity) Authenticated() bool {
	return i.UserID > 0
}
