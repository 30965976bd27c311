package dto

// TokenResponse is the token-issuance payload. The request side is
// form-encoded (OAuth2 password flow), so it has no JSON struct.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// SignupRequest carries the new company and its first admin's profile.
type SignupRequest struct {
	CompanyName     string `json:"company_name"`
	CompanyCurrency string `json:"company_currency"`
	FullName        string `json:"full_name"`
	Email           string `json:"email"`
	Username        string `json:"username"`
	Password        string `json:"password"`
}

// ErrorResponse mirrors the backend's error envelope.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
