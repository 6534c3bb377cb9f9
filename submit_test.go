package chassis

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// newValidLoginForm returns a login form whose every field is valid.
func newValidLoginForm(t *testing.T) *Chassis[loginForm] {
	t.Helper()
	c := newLoginForm(t)
	err := c.Apply(map[string]any{
		"email":            "jdoe@example.com",
		"login":            "jdoe",
		"password":         "61938218318392",
		"marketingConsent": true,
	})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if c.Status() != StatusValid {
		t.Fatalf("expected valid form, got %s", c.Status())
	}
	return c
}

func TestSubmitter_RejectsInvalidForm(t *testing.T) {
	c := newLoginForm(t)

	called := false
	s := NewSubmitter(c, func(context.Context, *Request[loginForm]) error {
		called = true
		return nil
	})

	err := s.Submit(context.Background())
	if !errors.Is(err, ErrNotValid) {
		t.Errorf("expected ErrNotValid, got %v", err)
	}
	if called {
		t.Error("expected collaborator not to be called")
	}
}

func TestSubmitter_SendsSnapshot(t *testing.T) {
	c := newValidLoginForm(t)

	var got *Request[loginForm]
	s := NewSubmitter(c, func(_ context.Context, req *Request[loginForm]) error {
		got = req
		return nil
	})

	if err := s.Submit(context.Background()); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if got == nil {
		t.Fatal("expected collaborator to be called")
	}
	if got.Revision != c.Revision() {
		t.Errorf("expected revision %d, got %d", c.Revision(), got.Revision)
	}
	if login := got.Snapshot.Login.MustResolve(); login != "jdoe" {
		t.Errorf("expected login 'jdoe', got %q", login)
	}
}

func TestSubmitter_ForcesFieldErrors(t *testing.T) {
	c := newValidLoginForm(t)

	s := NewSubmitter(c, func(context.Context, *Request[loginForm]) error {
		return FieldErrors{{Field: "login", Reason: takenBy{owner: "jane"}}}
	})

	err := s.Submit(context.Background())
	var fieldErrs FieldErrors
	if !errors.As(err, &fieldErrs) {
		t.Fatalf("expected FieldErrors in chain, got %v", err)
	}
	if diff := cmp.Diff([]string{"taken by jane"}, reasonsOf(c.Current().Login)); diff != "" {
		t.Errorf("reasons mismatch (-want +got):\n%s", diff)
	}
	if c.Status() != StatusInvalid {
		t.Errorf("expected invalid after rejection, got %s", c.Status())
	}

	Update(c, loginRef, "jdoe2")
	if c.Status() != StatusValid {
		t.Errorf("expected update to clear rejection, got %s", c.Status())
	}
}

func TestSubmitter_ReportsUnknownFieldErrors(t *testing.T) {
	c := newValidLoginForm(t)

	s := NewSubmitter(c, func(context.Context, *Request[loginForm]) error {
		return &FieldError{Field: "nickname", Reason: causeX}
	})

	err := s.Submit(context.Background())
	if !errors.Is(err, ErrUnknownField) {
		t.Errorf("expected ErrUnknownField in chain, got %v", err)
	}
	if c.Status() != StatusValid {
		t.Errorf("expected form untouched, got %s", c.Status())
	}
}

func TestSubmitter_PlainErrorLeavesForm(t *testing.T) {
	c := newValidLoginForm(t)
	rev := c.Revision()

	boom := errors.New("unavailable")
	s := NewSubmitter(c, func(context.Context, *Request[loginForm]) error {
		return boom
	})

	if err := s.Submit(context.Background()); !errors.Is(err, boom) {
		t.Errorf("expected collaborator error, got %v", err)
	}
	if c.Revision() != rev {
		t.Errorf("expected nothing published, got revision %d", c.Revision())
	}
}
