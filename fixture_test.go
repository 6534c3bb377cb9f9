package chassis

import (
	"testing"
	"time"
)

const (
	causeX     Reason = "cause_x"
	causeShort Reason = "too_short"
	causeDigit Reason = "digits_only"
	causeLen   Reason = "length"
)

// takenBy is a structured reason, as a server would report it.
type takenBy struct {
	Failure
	owner string
}

func (t takenBy) Reason() string { return "taken by " + t.owner }

type loginForm struct {
	Email            Field[loginForm, string]
	Login            Field[loginForm, string]
	Password         Field[loginForm, string]
	MarketingConsent Field[loginForm, bool]
	PhoneNumber      Field[loginForm, string]
}

var (
	emailRef = NewRef("email",
		func(m loginForm) Field[loginForm, string] { return m.Email },
		func(m loginForm, f Field[loginForm, string]) loginForm { m.Email = f; return m },
	)
	loginRef = NewRef("login",
		func(m loginForm) Field[loginForm, string] { return m.Login },
		func(m loginForm, f Field[loginForm, string]) loginForm { m.Login = f; return m },
	)
	passwordRef = NewRef("password",
		func(m loginForm) Field[loginForm, string] { return m.Password },
		func(m loginForm, f Field[loginForm, string]) loginForm { m.Password = f; return m },
	)
	consentRef = NewRef("marketingConsent",
		func(m loginForm) Field[loginForm, bool] { return m.MarketingConsent },
		func(m loginForm, f Field[loginForm, bool]) loginForm { m.MarketingConsent = f; return m },
	)
	phoneRef = NewRef("phoneNumber",
		func(m loginForm) Field[loginForm, string] { return m.PhoneNumber },
		func(m loginForm, f Field[loginForm, string]) loginForm { m.PhoneNumber = f; return m },
	)
)

func declareLoginForm(b *Builder[loginForm]) loginForm {
	return loginForm{
		Email: Declare(b, emailRef, AsRequired),
		Login: Declare(b, loginRef, AsRequired,
			Validate(NotEmpty(causeX)),
		),
		Password: Declare(b, passwordRef, AsRequired,
			Validate(LongerThan(8, causeShort), MatchesPattern(`\d+`, causeDigit)),
		),
		MarketingConsent: Declare(b, consentRef, AsRequired),
		PhoneNumber: Declare(b, phoneRef, AsOptional,
			Initial("123123123"),
			Validate(Exactly(9, causeLen), MatchesPattern(`\d+`, causeDigit)),
		),
	}
}

func newLoginForm(t *testing.T) *Chassis[loginForm] {
	t.Helper()
	c, err := New(declareLoginForm)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c
}

func reasonsOf(v View) []string {
	var out []string
	for _, r := range v.InvalidReasons() {
		out = append(out, r.Reason())
	}
	return out
}

// next reads one snapshot or fails the test.
func next[M any](t *testing.T, ch <-chan M) M {
	t.Helper()
	select {
	case m, ok := <-ch:
		if !ok {
			t.Fatal("subscription closed unexpectedly")
		}
		return m
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for snapshot")
	}
	var zero M
	return zero
}
