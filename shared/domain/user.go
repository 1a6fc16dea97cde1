package domain

// User is a persisted identity. PassHash never leaves the service boundary.
type User struct {
	Id       UserId   `json:"id"`
	Email    Email    `json:"email"`
	FullName FullName `json:"fullName"`
	PassHash string   `json:"-"`
}

type AuthToken struct {
	AccessToken string `json:"access_token"`
}
