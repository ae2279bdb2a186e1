package user

import (
	"testing"
	"time"
)

func TestRoleValid(t *testing.T) {
	for _, r := range []Role{RoleAdmin, RoleUser, RoleObserver} {
		if !r.Valid() {
			t.Errorf("Role(%q).Valid() = false, want true", r)
		}
	}
	for _, r := range []Role{"", "SUPERUSER", "admin"} {
		if r.Valid() {
			t.Errorf("Role(%q).Valid() = true, want false", r)
		}
	}
}

func TestGenderDisplay(t *testing.T) {
	tests := []struct {
		gender Gender
		want   string
	}{
		{GenderMale, "Male"},
		{GenderFemale, "Female"},
		{GenderOther, "Other"},
		{Gender(""), "Not provided"},
		{Gender("X"), "Not provided"},
	}

	for _, tt := range tests {
		if got := tt.gender.Display(); got != tt.want {
			t.Errorf("Gender(%q).Display() = %q, want %q", tt.gender, got, tt.want)
		}
	}
}

func TestRegistrationState(t *testing.T) {
	u := &User{RegistrationState: StateStep1}
	if !u.NextStep() {
		t.Error("NextStep() = false for a step1 account, want true")
	}
	if u.ProfileCompleted() {
		t.Error("ProfileCompleted() = true for a step1 account, want false")
	}

	u.RegistrationState = StateComplete
	if u.NextStep() {
		t.Error("NextStep() = true for a complete account, want false")
	}
	if !u.ProfileCompleted() {
		t.Error("ProfileCompleted() = false for a complete account, want true")
	}
}

func TestFullName(t *testing.T) {
	tests := []struct {
		name  string
		first string
		last  string
		want  string
	}{
		{name: "both names", first: "Maria", last: "Silva", want: "Maria Silva"},
		{name: "first only", first: "Maria", last: "", want: "Maria"},
		{name: "last only", first: "", last: "Silva", want: "Silva"},
		{name: "neither", first: "", last: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &User{FirstName: tt.first, LastName: tt.last}
			if got := u.FullName(); got != tt.want {
				t.Errorf("FullName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAge(t *testing.T) {
	today := time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		birthdate *time.Time
		want      int
	}{
		{
			name:      "birthday already passed this year",
			birthdate: dateOf(1990, time.March, 15),
			want:      36,
		},
		{
			name:      "birthday later this year",
			birthdate: dateOf(1990, time.December, 25),
			want:      35,
		},
		{
			name:      "birthday today",
			birthdate: dateOf(2000, time.September, 1),
			want:      26,
		},
		{
			name:      "no birthdate recorded",
			birthdate: nil,
			want:      -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &User{Birthdate: tt.birthdate}
			if got := u.Age(today); got != tt.want {
				t.Errorf("Age() = %d, want %d", got, tt.want)
			}
		})
	}
}

func dateOf(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

func TestAddressFormat(t *testing.T) {
	tests := []struct {
		name    string
		address Address
		want    string
	}{
		{
			name: "all parts",
			address: Address{
				Street:       "Rua A",
				Number:       "10",
				Complement:   "Apto 2",
				Neighborhood: "Centro",
				City:         "X",
				State:        "SP",
				Zipcode:      "00000000",
			},
			want: "Rua A, 10 - Apto 2 - Centro - X/SP - 00000000",
		},
		{
			name: "empty complement leaves no dangling separator",
			address: Address{
				Street:       "Rua A",
				Number:       "10",
				Neighborhood: "Centro",
				City:         "X",
				State:        "SP",
				Zipcode:      "00000000",
			},
			want: "Rua A, 10 - Centro - X/SP - 00000000",
		},
		{
			name: "city without state is dropped",
			address: Address{
				Street:  "Rua A",
				Number:  "10",
				City:    "X",
				Zipcode: "00000000",
			},
			want: "Rua A, 10 - 00000000",
		},
		{
			name:    "empty address",
			address: Address{},
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.address.Format(); got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidUF(t *testing.T) {
	for _, code := range []string{"SP", "RJ", "DF", "TO"} {
		if !ValidUF(code) {
			t.Errorf("ValidUF(%q) = false, want true", code)
		}
	}
	for _, code := range []string{"sp", "XX", "", "SPP"} {
		if ValidUF(code) {
			t.Errorf("ValidUF(%q) = true, want false", code)
		}
	}
}
