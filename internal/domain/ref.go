package domain

import "fmt"

// UserRef identifies a user either by id or by one of their addresses.
// Exactly one field must be set.
type UserRef struct {
	UserID  int64
	Address string
}

// ByUserID builds a reference from a user id.
func ByUserID(id int64) UserRef { return UserRef{UserID: id} }

// ByAddress builds a reference from an address string.
func ByAddress(addr string) UserRef { return UserRef{Address: addr} }

// Validate checks that exactly one of the two fields is set.
func (r UserRef) Validate() error {
	if (r.UserID > 0) == (r.Address != "") {
		return fmt.Errorf("user ref must set exactly one of user id or address")
	}
	return nil
}

func (r UserRef) String() string {
	if r.UserID > 0 {
		return fmt.Sprintf("user:%d", r.UserID)
	}
	return fmt.Sprintf("address:%s", r.Address)
}
