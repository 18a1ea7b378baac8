package dto

// Data Transfer Objects for signup and token exchange

// SignupRequest: payload for user registration
type SignupRequest struct {
	Username string `json:"username" binding:"required,max=150"`
	Email    string `json:"email" binding:"required,email,max=254"`
}

// SignupResponse echoes the accepted identity; the code travels by email
type SignupResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// TokenRequest: payload for exchanging a confirmation code for a bearer token
type TokenRequest struct {
	Username         string `json:"username" binding:"required,max=150"`
	ConfirmationCode string `json:"confirmation_code" binding:"required,max=150"`
}

// TokenResponse: the signed bearer token
type TokenResponse struct {
	Token string `json:"token"`
}
