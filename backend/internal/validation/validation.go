// Package validation turns raw auth payloads into typed requests.
//
// Every field has an ordered rule table. All rules of all fields are
// evaluated, so a payload with several problems reports each of them;
// the joined message is matched on by existing clients and must keep its
// wording and ", " separator.
package validation

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/unicode/norm"

	"github.com/MoniqueMiko/watch-auth-microservice/shared/api"
	"github.com/MoniqueMiko/watch-auth-microservice/shared/domain"
)

const (
	MsgEmailRequired    = "Email é obrigatório"
	MsgEmailInvalid     = "Email deve ser um endereço de email válido"
	MsgFullNameRequired = "Nome completo é obrigatório"
	MsgFullNameFormat   = "Nome completo deve conter apenas letras e um único espaço entre nome e sobrenome"
	MsgFullNameTooLong  = "Nome completo deve ter no máximo 50 caracteres"
	MsgPasswordRequired = "Senha é obrigatória"
	MsgPasswordTooShort = "Senha deve ter no mínimo 6 caracteres"
	MsgPasswordTooLong  = "Senha deve ter no máximo 32 caracteres"

	separator   = ", "
	requiredTag = "required"
)

// First name with an optional last name, Latin letters including accents.
var fullNamePattern = regexp.MustCompile(`^[A-Za-zÀ-ÿ]+(?: [A-Za-zÀ-ÿ]+)?$`)

// Rule is one predicate over a field value, expressed as a validator tag.
type Rule struct {
	Tag     string
	Message string
}

var (
	emailRules = []Rule{
		{Tag: requiredTag, Message: MsgEmailRequired},
		{Tag: "email", Message: MsgEmailInvalid},
	}
	fullNameRules = []Rule{
		{Tag: requiredTag, Message: MsgFullNameRequired},
		{Tag: "fullname", Message: MsgFullNameFormat},
		{Tag: "max=50", Message: MsgFullNameTooLong},
	}
	passwordRules = []Rule{
		{Tag: requiredTag, Message: MsgPasswordRequired},
		{Tag: "min=6", Message: MsgPasswordTooShort},
		{Tag: "max=32", Message: MsgPasswordTooLong},
	}
)

// Result is the outcome of validating one payload.
type Result struct {
	Violations []string
}

func (r Result) Valid() bool {
	return len(r.Violations) == 0
}

// Message joins all violations in rule order.
func (r Result) Message() string {
	return strings.Join(r.Violations, separator)
}

// Validator evaluates rule tables. Safe for concurrent use.
type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New()
	if err := v.RegisterValidation("fullname", validateFullName); err != nil {
		panic("register fullname validation: " + err.Error())
	}
	return &Validator{v: v}
}

// Registration validates a sign-up payload. The returned request is only
// meaningful when the result is valid.
func (val *Validator) Registration(req api.RegisterRequest) (domain.Registration, Result) {
	fullName := norm.NFC.String(req.FullName)

	var res Result
	res.Violations = append(res.Violations, val.check(req.Email, req.IsMistyped(api.FieldEmail), emailRules)...)
	res.Violations = append(res.Violations, val.check(fullName, req.IsMistyped(api.FieldFullName), fullNameRules)...)
	res.Violations = append(res.Violations, val.check(req.Password, req.IsMistyped(api.FieldPassword), passwordRules)...)

	return domain.Registration{
		Email:    req.Email,
		FullName: fullName,
		Password: domain.Password(req.Password),
	}, res
}

// Login validates a sign-in payload.
func (val *Validator) Login(req api.LoginRequest) (domain.Credentials, Result) {
	var res Result
	res.Violations = append(res.Violations, val.check(req.Email, req.IsMistyped(api.FieldEmail), emailRules)...)
	res.Violations = append(res.Violations, val.check(req.Password, req.IsMistyped(api.FieldPassword), passwordRules)...)

	return domain.Credentials{
		Email:    req.Email,
		Password: domain.Password(req.Password),
	}, res
}

// check runs rules over value. A mistyped value was supplied, so it passes
// "required" and fails everything else.
func (val *Validator) check(value string, mistyped bool, rules []Rule) []string {
	var violations []string
	for _, rule := range rules {
		if mistyped {
			if rule.Tag != requiredTag {
				violations = append(violations, rule.Message)
			}
			continue
		}
		if err := val.v.Var(value, rule.Tag); err != nil {
			violations = append(violations, rule.Message)
		}
	}
	return violations
}

func validateFullName(fl validator.FieldLevel) bool {
	return fullNamePattern.MatchString(fl.Field().String())
}
