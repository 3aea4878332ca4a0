package models

type Role string

const (
	RoleUser     Role = "user"
	RoleAdmin    Role = "admin"
	RoleExecutor Role = "executor"
)

type User struct {
	ID       ID     `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	Bio      string `json:"bio,omitempty"`
}

func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

type Tokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
	User    User   `json:"user"`
}

type RegisterRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"-"`
	Role            Role   `json:"role,omitempty"`
}

// Validate checks the registration form before it is sent.
func (r RegisterRequest) Validate() error {
	var v validator

	if v.required("username", r.Username, "Username is required") && len(r.Username) < 3 {
		v.add("username", "Username must be at least 3 characters")
	}
	v.email("email", r.Email, "Email is required")
	if v.required("password", r.Password, "Password is required") && len(r.Password) < 6 {
		v.add("password", "Password must be at least 6 characters")
	}
	if r.PasswordConfirm == "" {
		v.add("confirm_password", "Please confirm your password")
	} else if r.PasswordConfirm != r.Password {
		v.add("confirm_password", "Passwords do not match")
	}

	return v.err()
}
