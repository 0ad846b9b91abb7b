package user

// Principal is the authenticated caller identity supplied by the account
// service. Admin is derived from the configured allow-list, never from the
// token itself.
type Principal struct {
	UserID string
	Name   string
	Admin  bool
}
