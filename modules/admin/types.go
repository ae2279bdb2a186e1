package admin

import (
	"github.com/example/task-tracker/failure"
	"github.com/example/task-tracker/modules/tasks"
)

const (
	dateLayout     = "02/01/2006"
	dateTimeLayout = "02/01/2006 at 15:04"
	notProvided    = "Not provided"
)

// UpdateRoleRequest changes a target account's role.
type UpdateRoleRequest struct {
	CallerID string `json:"caller_id"`
	TargetID string `json:"target_id"`
	Role     string `json:"role"`
}

// UpdateRoleResponse is the role change outcome.
type UpdateRoleResponse struct {
	Failure *failure.Failure `json:"failure,omitempty"`
	Message string           `json:"message,omitempty"`
}

// UserDetailsRequest fetches the full admin view of one account.
type UserDetailsRequest struct {
	CallerID string `json:"caller_id"`
	TargetID string `json:"target_id"`
}

// UserDetailsResponse is the details outcome.
type UserDetailsResponse struct {
	Failure   *failure.Failure  `json:"failure,omitempty"`
	User      DetailPayload     `json:"user,omitempty"`
	Address   AddressPayload    `json:"address,omitempty"`
	TaskStats tasks.StatusStats `json:"task_stats,omitempty"`
}

// DetailPayload is the formatted account view for the admin panel.
// Absent optional fields render as "Not provided".
type DetailPayload struct {
	ID               string `json:"id"`
	FullName         string `json:"full_name"`
	Email            string `json:"email"`
	CPF              string `json:"cpf"`
	Phone            string `json:"phone"`
	Birthdate        string `json:"birthdate"`
	Age              string `json:"age"`
	GenderDisplay    string `json:"gender_display"`
	RoleDisplay      string `json:"role_display"`
	IsActive         string `json:"is_active"`
	DateJoined       string `json:"date_joined"`
	ProfileCompleted string `json:"profile_completed"`
}

// AddressPayload is the formatted address view for the admin panel.
type AddressPayload struct {
	FormattedAddress string `json:"formatted_address"`
	Zipcode          string `json:"zipcode"`
	CityState        string `json:"city_state"`
}

// AccountActionRequest targets one account for deactivate, activate or
// delete.
type AccountActionRequest struct {
	CallerID string `json:"caller_id"`
	TargetID string `json:"target_id"`
}

// AccountActionResponse is the outcome of an account action.
type AccountActionResponse struct {
	Failure *failure.Failure `json:"failure,omitempty"`
	Message string           `json:"message,omitempty"`
}

// ListUsersRequest fetches the user grid.
type ListUsersRequest struct {
	CallerID string `json:"caller_id"`
}

// ListUsersResponse carries one row per account.
type ListUsersResponse struct {
	Failure *failure.Failure `json:"failure,omitempty"`
	Users   []GridRow        `json:"users"`
}

// GridRow is one line of the admin user grid.
type GridRow struct {
	ID                  string `json:"id"`
	FullName            string `json:"full_name"`
	Email               string `json:"email"`
	Age                 *int   `json:"age"`
	GenderDisplay       string `json:"gender_display"`
	RoleDisplay         string `json:"role_display"`
	RoleCode            string `json:"role_code"`
	IsActive            bool   `json:"is_active"`
	DateJoinedFormatted string `json:"date_joined_formatted"`
}

// StatsRequest fetches an aggregate statistic.
type StatsRequest struct {
	CallerID string `json:"caller_id"`
}

// GenderStatsResponse is the gender distribution.
type GenderStatsResponse struct {
	Failure *failure.Failure `json:"failure,omitempty"`
	Data    []GenderStat     `json:"data"`
}

// GenderStat is one slice of the gender distribution.
type GenderStat struct {
	Label      string  `json:"label"`
	Value      int64   `json:"value"`
	Percentage float64 `json:"percentage"`
}

// AgeStatsResponse is the age-bracket distribution.
type AgeStatsResponse struct {
	Failure *failure.Failure `json:"failure,omitempty"`
	Data    []AgeBracket     `json:"data"`
}

// AgeBracket is one bar of the age distribution.
type AgeBracket struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}
