package dto

type UserOutput struct {
	Email string `json:"email"`
}

type AuthResponse struct {
	AccessToken  string     `json:"accessToken"`
	RefreshToken string     `json:"refreshToken"`
	User         UserOutput `json:"user"`
}

type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
	// RefreshToken is set only when rotation is enabled.
	RefreshToken string `json:"refreshToken,omitempty"`
}
