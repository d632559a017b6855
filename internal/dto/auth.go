package dto

import "github.com/golang-jwt/jwt/v5"

// GoogleUserInfo holds the profile returned by Google's userinfo endpoint.
type GoogleUserInfo struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// AuthClaims defines the custom claims for JWT.
type AuthClaims struct {
	RecruiterID string `json:"recruiter_id"`
	TokenType   string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenResponse carries the issued JWT pair.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// RefreshTokenRequest exchanges a refresh token for a new pair.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RecruiterProfileResponse is the authenticated recruiter's profile.
type RecruiterProfileResponse struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	ProfileImage string `json:"profile_image,omitempty"`
}
