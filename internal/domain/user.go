package domain

const ScopeWrite = "write"

type User struct {
	ID     string
	Email  string
	Name   string
	Scopes []string
}

func (u *User) HasScope(scope string) bool {
	for _, s := range u.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}
