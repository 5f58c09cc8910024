package model

// AccessToken is the object embedded in the JWT access token.
type AccessToken struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
