package domain

type (
	Email    = string
	UserId   = int64
	FullName = string
)
