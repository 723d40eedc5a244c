// Package user implements accounts: registration, login, password recovery,
// and the per-user CRUD operations gated by the ownership check.
package user

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/kbukum/todoapi/auth/identity"
	"github.com/kbukum/todoapi/database"
)

// AuthorityList stores an authority set as a comma-separated text column.
type AuthorityList []identity.Authority

// Value implements driver.Valuer.
func (a AuthorityList) Value() (driver.Value, error) {
	return strings.Join(identity.Strings(a), ","), nil
}

// Scan implements sql.Scanner.
func (a *AuthorityList) Scan(src any) error {
	var raw string
	switch v := src.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	case nil:
		*a = nil
		return nil
	default:
		return fmt.Errorf("user: cannot scan authorities from %T", src)
	}
	if raw == "" {
		*a = nil
		return nil
	}
	parsed, err := identity.ParseAuthorities(strings.Split(raw, ","))
	if err != nil {
		return fmt.Errorf("user: scan authorities: %w", err)
	}
	*a = parsed
	return nil
}

// User is the persisted credential record. The id is immutable once assigned
// and the password is only ever stored hashed.
type User struct {
	database.BaseModel
	Username     string        `gorm:"uniqueIndex;not null"`
	Email        string        `gorm:"not null"`
	PasswordHash string        `gorm:"not null"`
	Authorities  AuthorityList `gorm:"type:text;not null"`
}

// TableName keeps the table name the API has always used.
func (User) TableName() string { return "tb_users" }

// HasAuthority reports whether the record carries the given authority.
func (u *User) HasAuthority(a identity.Authority) bool {
	for _, have := range u.Authorities {
		if have == a {
			return true
		}
	}
	return false
}
