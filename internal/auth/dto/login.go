package dto

type LoginInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	IPAddress string `json:"-"`
	UserAgent string `json:"-"`
}

func (in LoginInput) Validate() error {
	return validateCredentials(in.Email, in.Password)
}
