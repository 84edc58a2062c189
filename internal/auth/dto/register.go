package dto

type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in RegisterInput) Validate() error {
	return validateCredentials(in.Email, in.Password)
}
