package api

// Request bodies accepted at the HTTP boundary. Caller identity never
// comes from the body; it is resolved from the session token.

// RegisterBody is the registration step 1 payload.
type RegisterBody struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	Birthdate       string `json:"birthdate"`
	Gender          string `json:"gender"`
	CPF             string `json:"cpf"`
}

// ProfileBody is the registration step 2 payload.
type ProfileBody struct {
	Birthdate    string `json:"birthdate"`
	Gender       string `json:"gender"`
	CPF          string `json:"cpf"`
	Phone        string `json:"phone"`
	Zipcode      string `json:"zipcode"`
	Street       string `json:"street"`
	Number       string `json:"number"`
	Complement   string `json:"complement"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
}

// LoginBody is the login payload.
type LoginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshBody is the token refresh payload.
type RefreshBody struct {
	RefreshToken string `json:"refresh_token"`
}

// DeleteAccountBody confirms self-service account deletion.
type DeleteAccountBody struct {
	Password string `json:"password"`
}

// TaskBody is the task create/update payload.
type TaskBody struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// RoleBody is the admin role change payload.
type RoleBody struct {
	Role string `json:"role"`
}
