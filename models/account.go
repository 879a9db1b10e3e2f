package models

import (
	"strings"
	"time"
)

// Role is what an account is allowed to do in the building.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleResident Role = "resident"
	RoleStaff    Role = "staff"
)

// ParseRole maps the role labels used by the front end ("Administrador",
// "Residente", "Personal", ...) onto a stored role. Unknown labels fall back
// to resident.
func ParseRole(label string) Role {
	l := strings.ToLower(strings.TrimSpace(label))
	switch {
	case strings.HasPrefix(l, "admin"):
		return RoleAdmin
	case strings.HasPrefix(l, "residen"):
		return RoleResident
	case strings.HasPrefix(l, "personal"), strings.HasPrefix(l, "staff"):
		return RoleStaff
	}
	return RoleResident
}

// Principal is the already-authenticated caller handed to every operation.
// A zero AccountID means nobody is authenticated.
type Principal struct {
	AccountID int64  `json:"account_id"`
	Role      Role   `json:"role"`
	Email     string `json:"email"`
}

func (p Principal) Authenticated() bool { return p.AccountID > 0 }

// Account is a login identity.
type Account struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Phone        *string   `json:"phone"`
	CreatedAt    time.Time `json:"created_at"`
}

func (a Account) Principal() Principal {
	return Principal{AccountID: a.ID, Role: a.Role, Email: a.Email}
}

// Unit is a billable apartment.
type Unit struct {
	ID        int64     `json:"id"`
	Number    string    `json:"number"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// RegisterInput is used for registering accounts.
type RegisterInput struct {
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	SecondLast   string  `json:"second_last_name"`
	Email        string  `json:"email"`
	Phone        *string `json:"phone"`
	Password     string  `json:"password"`
	Role         string  `json:"role"`
	UnitNumber   string  `json:"unit_number"`
	NationalID   string  `json:"national_id"`
	ResolvedRole Role    `json:"-"`
}

func (r *RegisterInput) Validate() string {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.UnitNumber = strings.TrimSpace(r.UnitNumber)
	if r.FirstName == "" || r.LastName == "" || r.Email == "" || r.Password == "" || r.Role == "" {
		return "first_name, last_name, email, password and role are required"
	}
	if !strings.Contains(r.Email, "@") {
		return "email is invalid"
	}
	r.ResolvedRole = ParseRole(r.Role)
	if r.ResolvedRole == RoleResident && r.UnitNumber == "" {
		return "unit_number is required for residents"
	}
	return ""
}

// Username derives the login name from the email's local part.
func (r *RegisterInput) Username() string {
	name, _, _ := strings.Cut(r.Email, "@")
	if name == "" {
		name = r.FirstName
	}
	if len(name) > 100 {
		name = name[:100]
	}
	return name
}

// FullLastName joins both family names.
func (r *RegisterInput) FullLastName() string {
	return strings.TrimSpace(r.LastName + " " + r.SecondLast)
}
