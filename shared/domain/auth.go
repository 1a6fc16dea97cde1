package domain

// to iterate thru layers: validation -> service -> storage

// Registration is a validated registration request.
type Registration struct {
	Email    Email
	FullName FullName
	Password Password
}

// Credentials is a validated login request.
type Credentials struct {
	Email    Email
	Password Password
}
