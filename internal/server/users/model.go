package users

import "time"

// Role and status values. Stored as text; validated at the service boundary.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"

	StatusActive   = "active"
	StatusInactive = "inactive"
)

// User is the persisted record. EmailHash and Signature are derived from
// Email by the integrity pipeline and are always written together with it.
// Email is stored exactly as submitted; normalization happens only inside
// the hash computation.
type User struct {
	ID        uint   `gorm:"primaryKey"`
	Email     string `gorm:"uniqueIndex;size:320;not null"`
	Role      string `gorm:"type:varchar(16);not null;default:user"`
	Status    string `gorm:"type:varchar(16);not null;default:active"`
	CreatedAt time.Time
	EmailHash string `gorm:"type:varchar(96);not null"`
	Signature string `gorm:"not null"`
}

func (User) TableName() string { return "users" }

func ValidRole(r string) bool {
	return r == RoleAdmin || r == RoleUser
}

func ValidStatus(s string) bool {
	return s == StatusActive || s == StatusInactive
}
