package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role type to distinguish between console operators and app users
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is one of the two known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// Toggled returns the other role.
func (r Role) Toggled() Role {
	if r == RoleAdmin {
		return RoleUser
	}
	return RoleAdmin
}

// Profile holds the authorization facts for an identity. It shares its ID with the Account.
type Profile struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	Role      Role               `bson:"role" json:"role"`
	IsBanned  bool               `bson:"isBanned" json:"isBanned"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// CanAdminister reports whether the profile may use the console.
func (p *Profile) CanAdminister() bool {
	return p != nil && p.Role == RoleAdmin && !p.IsBanned
}

// Account is the login identity behind a Profile.
type Account struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`    // Should be unique
	PasswordHash string             `bson:"passwordHash" json:"-"` // Never expose this via JSON
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}
