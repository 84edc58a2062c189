package dto

// TokenResponse is the success body for register, login and refresh. The
// refresh token itself travels only in its http-only cookie.
type TokenResponse struct {
	AccessToken string     `json:"access_token"`
	User        UserOutput `json:"user"`
	CSRFToken   string     `json:"csrf_token"`
}
