// Package registration declares the sign-up form used by the chassis CLI.
package registration

import (
	"regexp"

	"github.com/zoobzio/chassis"
)

// Reasons reported by the form's validators.
const (
	EmailInvalid     chassis.Reason = "email_invalid"
	LoginEmpty       chassis.Reason = "login_empty"
	LoginTooLong     chassis.Reason = "login_too_long"
	PasswordTooShort chassis.Reason = "password_too_short"
	PasswordNoDigit  chassis.Reason = "password_no_digit"
	PhoneLength      chassis.Reason = "phone_length"
	PhoneDigits      chassis.Reason = "phone_digits"
)

// DefaultPhone is the phone number the form starts with.
const DefaultPhone = "123123123"

// Form is the sign-up model.
type Form struct {
	Email            chassis.Field[Form, string]
	Login            chassis.Field[Form, string]
	Password         chassis.Field[Form, string]
	MarketingConsent chassis.Field[Form, bool]
	PhoneNumber      chassis.Field[Form, string]
}

// Field references.
var (
	Email = chassis.NewRef("email",
		func(f Form) chassis.Field[Form, string] { return f.Email },
		func(f Form, v chassis.Field[Form, string]) Form { f.Email = v; return f },
	)
	Login = chassis.NewRef("login",
		func(f Form) chassis.Field[Form, string] { return f.Login },
		func(f Form, v chassis.Field[Form, string]) Form { f.Login = v; return f },
	)
	Password = chassis.NewRef("password",
		func(f Form) chassis.Field[Form, string] { return f.Password },
		func(f Form, v chassis.Field[Form, string]) Form { f.Password = v; return f },
	)
	MarketingConsent = chassis.NewRef("marketingConsent",
		func(f Form) chassis.Field[Form, bool] { return f.MarketingConsent },
		func(f Form, v chassis.Field[Form, bool]) Form { f.MarketingConsent = v; return f },
	)
	PhoneNumber = chassis.NewRef("phoneNumber",
		func(f Form) chassis.Field[Form, string] { return f.PhoneNumber },
		func(f Form, v chassis.Field[Form, string]) Form { f.PhoneNumber = v; return f },
	)
)

var digits = regexp.MustCompile(`\d+`)

// New returns a chassis holding an empty sign-up form.
func New() (*chassis.Chassis[Form], error) {
	return chassis.New(func(b *chassis.Builder[Form]) Form {
		return Form{
			Email: chassis.Declare(b, Email, chassis.AsRequired,
				chassis.Validate(chassis.Tag[string]("required,email", EmailInvalid)),
			),
			Login: chassis.Declare(b, Login, chassis.AsRequired,
				chassis.Validate(
					chassis.NotEmpty(LoginEmpty),
					chassis.ShorterThan(33, LoginTooLong),
				),
			),
			Password: chassis.Declare(b, Password, chassis.AsRequired,
				chassis.Validate(
					chassis.LongerThan(8, PasswordTooShort),
					chassis.MatchesPattern(`.*\d.*`, PasswordNoDigit),
				),
			),
			MarketingConsent: chassis.Declare(b, MarketingConsent, chassis.AsOptional),
			PhoneNumber: chassis.Declare(b, PhoneNumber, chassis.AsOptional,
				chassis.Initial(DefaultPhone),
				chassis.Validate(
					chassis.Exactly(9, PhoneLength),
					chassis.Matches(digits, PhoneDigits),
				),
			),
		}
	})
}

// Values returns the present field values keyed by field name.
func Values(f Form) map[string]any {
	out := make(map[string]any, 5)
	if v, ok := f.Email.Value(); ok {
		out[Email.Name()] = v
	}
	if v, ok := f.Login.Value(); ok {
		out[Login.Name()] = v
	}
	if v, ok := f.Password.Value(); ok {
		out[Password.Name()] = v
	}
	if v, ok := f.MarketingConsent.Value(); ok {
		out[MarketingConsent.Name()] = v
	}
	if v, ok := f.PhoneNumber.Value(); ok {
		out[PhoneNumber.Name()] = v
	}
	return out
}
