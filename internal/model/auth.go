package model

// AccessToken is the object carried by the access token issued by the
// authentication provider.
type AccessToken struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
