package auth

import (
	"github.com/example/task-tracker/domain/user"
	"github.com/example/task-tracker/failure"
)

// dateTimeLayout is the rendering format for timestamps in responses.
const dateTimeLayout = "02/01/2006 15:04"

// TokenPair is the session issued to an authenticated caller.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// UserPayload is the account shape returned to clients.
type UserPayload struct {
	ID               string `json:"id"`
	Email            string `json:"email"`
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	Role             string `json:"role"`
	NextStep         bool   `json:"next_step"`
	ProfileCompleted bool   `json:"profile_completed"`
	DateJoined       string `json:"date_joined"`
}

// toUserPayload converts a user entity into its response shape.
func toUserPayload(u *user.User) UserPayload {
	return UserPayload{
		ID:               u.ID,
		Email:            u.Email,
		FirstName:        u.FirstName,
		LastName:         u.LastName,
		Role:             string(u.Role),
		NextStep:         u.NextStep(),
		ProfileCompleted: u.ProfileCompleted(),
		DateJoined:       u.DateJoined.Format(dateTimeLayout),
	}
}

// RegisterRequest is the registration step 1 input.
type RegisterRequest struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	Birthdate       string `json:"birthdate,omitempty"`
	Gender          string `json:"gender,omitempty"`
	CPF             string `json:"cpf,omitempty"`
}

// RegisterResponse is the registration step 1 outcome.
type RegisterResponse struct {
	Failure *failure.Failure `json:"failure,omitempty"`
	User    UserPayload      `json:"user,omitempty"`
	Tokens  *TokenPair       `json:"tokens,omitempty"`
}

// CompleteProfileRequest is the registration step 2 input.
type CompleteProfileRequest struct {
	UserID       string `json:"user_id"`
	Birthdate    string `json:"birthdate"`
	Gender       string `json:"gender"`
	CPF          string `json:"cpf"`
	Phone        string `json:"phone"`
	Zipcode      string `json:"zipcode"`
	Street       string `json:"street"`
	Number       string `json:"number"`
	Complement   string `json:"complement,omitempty"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
}

// CompleteProfileResponse is the registration step 2 outcome.
type CompleteProfileResponse struct {
	Failure          *failure.Failure `json:"failure,omitempty"`
	User             UserPayload      `json:"user,omitempty"`
	FormattedAddress string           `json:"formatted_address,omitempty"`
}

// LoginRequest is the credential pair used to authenticate.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the login outcome. NextStep tells the client to
// route a half-registered account back into step 2.
type LoginResponse struct {
	Failure  *failure.Failure `json:"failure,omitempty"`
	User     UserPayload      `json:"user,omitempty"`
	Tokens   *TokenPair       `json:"tokens,omitempty"`
	NextStep bool             `json:"next_step"`
}

// RefreshRequest is a token refresh input.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// RefreshResponse is a token refresh outcome.
type RefreshResponse struct {
	Failure *failure.Failure `json:"failure,omitempty"`
	Tokens  *TokenPair       `json:"tokens,omitempty"`
}

// ValidateTokenRequest is a token validation input.
type ValidateTokenRequest struct {
	Token string `json:"token"`
}

// ValidateTokenResponse is a token validation outcome.
type ValidateTokenResponse struct {
	Valid  bool   `json:"valid"`
	UserID string `json:"user_id,omitempty"`
	Email  string `json:"email,omitempty"`
	Error  string `json:"error,omitempty"`
}

// GetUserRequest is a user lookup input.
type GetUserRequest struct {
	UserID string `json:"user_id"`
}

// GetUserResponse is a user lookup outcome.
type GetUserResponse struct {
	Failure *failure.Failure `json:"failure,omitempty"`
	User    UserPayload      `json:"user,omitempty"`
	IsStaff bool             `json:"is_staff"`
}

// DeleteAccountRequest is the self-service account deletion input.
type DeleteAccountRequest struct {
	UserID   string `json:"user_id"`
	Password string `json:"password"`
}

// DeleteAccountResponse is the self-service account deletion outcome.
type DeleteAccountResponse struct {
	Failure *failure.Failure `json:"failure,omitempty"`
	Message string           `json:"message,omitempty"`
}
