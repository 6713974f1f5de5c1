package keyservice

// Wire models for the key service. The key service speaks snake_case, unlike
// the verification service.

type authenticateRequest struct {
	UserKey   string `json:"user_key"`
	SubClient string `json:"sub_client"`
}

type authenticateResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type refreshResponse struct {
	AccessToken string `json:"access_token"`
}

// Credentials is the result of a full authentication.
type Credentials struct {
	AccessToken  string
	RefreshToken string
}
