package api

import (
	"encoding/json"
	"sort"

	"github.com/MoniqueMiko/watch-auth-microservice/shared/domain"
)

// Request DTOs
// Fields arrive unvalidated; the validation pipeline owns every rule.

// JSON keys of request fields.
const (
	FieldEmail    = "email"
	FieldFullName = "fullName"
	FieldPassword = "password"
)

type RegisterRequest struct {
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Password string `json:"password"`

	// Mistyped lists keys whose JSON value was present but not a string.
	// Such fields count as given but fail every other rule.
	Mistyped []string `json:"-"`
}

func (r *RegisterRequest) UnmarshalJSON(data []byte) error {
	mistyped, err := decodeStringFields(data, map[string]*string{
		FieldEmail:    &r.Email,
		FieldFullName: &r.FullName,
		FieldPassword: &r.Password,
	})
	r.Mistyped = mistyped
	return err
}

func (r RegisterRequest) IsMistyped(field string) bool {
	return contains(r.Mistyped, field)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`

	Mistyped []string `json:"-"`
}

func (r *LoginRequest) UnmarshalJSON(data []byte) error {
	mistyped, err := decodeStringFields(data, map[string]*string{
		FieldEmail:    &r.Email,
		FieldPassword: &r.Password,
	})
	r.Mistyped = mistyped
	return err
}

func (r LoginRequest) IsMistyped(field string) bool {
	return contains(r.Mistyped, field)
}

// decodeStringFields reads an object field by field so a wrong-typed value
// becomes a validation problem instead of a decode failure. null counts as
// absent. Only a body that is not a JSON object is an error.
func decodeStringFields(data []byte, fields map[string]*string) ([]string, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	var mistyped []string
	for key, dst := range fields {
		value, ok := raw[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(value, dst); err != nil {
			mistyped = append(mistyped, key)
		}
	}
	sort.Strings(mistyped)
	return mistyped, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Response DTOs

// LoginResponse is the envelope message of a successful login.
type LoginResponse struct {
	Jwt  domain.AuthToken `json:"jwt"`
	User domain.User      `json:"user"`
}
