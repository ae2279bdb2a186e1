package user

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Role is the closed set of account roles.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleUser     Role = "USER"
	RoleObserver Role = "OBSERVER"
)

// Valid reports whether r is a member of the role set.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser, RoleObserver:
		return true
	}
	return false
}

// Display returns the human-readable role name.
func (r Role) Display() string {
	switch r {
	case RoleAdmin:
		return "Admin"
	case RoleObserver:
		return "Observer"
	default:
		return "User"
	}
}

// Gender is the closed set of gender codes.
type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
	GenderOther  Gender = "O"
)

// Valid reports whether g is a member of the gender set.
func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// Display returns the human-readable gender name.
func (g Gender) Display() string {
	switch g {
	case GenderMale:
		return "Male"
	case GenderFemale:
		return "Female"
	case GenderOther:
		return "Other"
	}
	return "Not provided"
}

// RegistrationState tracks the two-step signup process. An account is
// created in StateStep1 and reaches StateComplete only after the
// profile step succeeds. Accounts that do not exist count as the
// implicit unregistered state.
type RegistrationState string

const (
	StateStep1    RegistrationState = "step1"
	StateComplete RegistrationState = "complete"
)

// User represents an account in the system.
//
// Email is the login identifier. Username is kept equal to Email:
// uniqueness is historically enforced against both columns, so both
// carry a unique index. CPF is a pointer so that absent values do not
// collide on the unique index.
type User struct {
	ID                string  `gorm:"primaryKey;size:36"`
	Email             string  `gorm:"uniqueIndex;size:254;not null"`
	Username          string  `gorm:"uniqueIndex;size:254;not null"`
	FirstName         string  `gorm:"size:30"`
	LastName          string  `gorm:"size:30"`
	PasswordHash      string  `gorm:"not null"`
	Birthdate         *time.Time
	Gender            Gender  `gorm:"size:1"`
	CPF               *string `gorm:"uniqueIndex;size:11"`
	Phone             string  `gorm:"size:15"`
	Role              Role    `gorm:"size:10;not null;default:USER"`
	IsStaff           bool    `gorm:"not null;default:false"`
	IsActive          bool    `gorm:"not null;default:true"`
	RegistrationState RegistrationState `gorm:"size:10;not null;default:step1"`
	DateJoined        time.Time `gorm:"autoCreateTime"`
	UpdatedAt         time.Time
}

// TableName returns the table name for the User entity.
func (User) TableName() string {
	return "users"
}

// NextStep reports whether the account still has the profile step of
// registration ahead of it.
func (u *User) NextStep() bool {
	return u.RegistrationState == StateStep1
}

// ProfileCompleted reports whether both registration steps succeeded.
func (u *User) ProfileCompleted() bool {
	return u.RegistrationState == StateComplete
}

// FullName joins the first and last names, trimming when one is empty.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Age returns the age in whole years at the given date, or -1 when no
// birthdate is recorded.
func (u *User) Age(today time.Time) int {
	if u.Birthdate == nil {
		return -1
	}
	b := *u.Birthdate
	age := today.Year() - b.Year()
	if today.Month() < b.Month() || (today.Month() == b.Month() && today.Day() < b.Day()) {
		age--
	}
	return age
}

// Claims is the authenticated caller identity resolved from a session
// token. Handlers receive it explicitly instead of reading an ambient
// current user.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// Address is the one-to-one postal address completed in registration
// step 2.
type Address struct {
	ID               string `gorm:"primaryKey;size:36"`
	UserID           string `gorm:"uniqueIndex;size:36;not null"`
	Zipcode          string `gorm:"size:9;not null"`
	Street           string `gorm:"size:100;not null"`
	Number           string `gorm:"size:10;not null"`
	Complement       string `gorm:"size:100"`
	Neighborhood     string `gorm:"size:100;not null"`
	City             string `gorm:"size:100;not null"`
	State            string `gorm:"size:2;not null"`
	FormattedAddress string `gorm:"size:255"`
}

// TableName returns the table name for the Address entity.
func (Address) TableName() string {
	return "addresses"
}

// Format builds the single-line rendering of the address. Empty parts
// are dropped entirely so no separator is left dangling.
func (a *Address) Format() string {
	var parts []string
	if streetLine := strings.Trim(strings.TrimSpace(a.Street+", "+a.Number), ", "); streetLine != "" {
		parts = append(parts, streetLine)
	}
	if a.Complement != "" {
		parts = append(parts, a.Complement)
	}
	if a.Neighborhood != "" {
		parts = append(parts, a.Neighborhood)
	}
	if a.City != "" && a.State != "" {
		parts = append(parts, a.City+"/"+a.State)
	}
	if a.Zipcode != "" {
		parts = append(parts, a.Zipcode)
	}
	return strings.Join(parts, " - ")
}

// BeforeSave recomputes the formatted address so it is never stored
// stale.
func (a *Address) BeforeSave(_ *gorm.DB) error {
	a.FormattedAddress = a.Format()
	return nil
}

// ufCodes is the set of Brazilian federative unit codes.
var ufCodes = map[string]struct{}{
	"AC": {}, "AL": {}, "AP": {}, "AM": {}, "BA": {}, "CE": {}, "DF": {},
	"ES": {}, "GO": {}, "MA": {}, "MT": {}, "MS": {}, "MG": {}, "PA": {},
	"PB": {}, "PR": {}, "PE": {}, "PI": {}, "RJ": {}, "RN": {}, "RS": {},
	"RO": {}, "RR": {}, "SC": {}, "SP": {}, "SE": {}, "TO": {},
}

// ValidUF reports whether code is one of the 27 Brazilian state codes.
func ValidUF(code string) bool {
	_, ok := ufCodes[code]
	return ok
}
