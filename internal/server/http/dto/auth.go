package dto

// RegisterRequest describes the registration payload. Shop is required for
// sellers and ignored for buyers.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`
	Shop     string `json:"shop"`
}

// LoginRequest describes the login payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse carries an issued auth token.
type TokenResponse struct {
	Token string `json:"token"`
}
