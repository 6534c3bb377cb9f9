package chassis

import (
	"regexp"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func ptr[V any](v V) *V { return &v }

func TestValidators_Strings(t *testing.T) {
	tests := []struct {
		name      string
		validator Validator[string]
		value     *string
		valid     bool
	}{
		{"not empty with value", NotEmpty(causeX), ptr("a"), true},
		{"not empty with empty", NotEmpty(causeX), ptr(""), false},
		{"not empty absent", NotEmpty(causeX), nil, false},
		{"shorter than", ShorterThan(3, causeX), ptr("ab"), true},
		{"shorter than at bound", ShorterThan(3, causeX), ptr("abc"), false},
		{"shorter than counts runes", ShorterThan(3, causeX), ptr("żół"), false},
		{"shorter than absent", ShorterThan(3, causeX), nil, true},
		{"longer than", LongerThan(2, causeX), ptr("abc"), true},
		{"longer than at bound", LongerThan(2, causeX), ptr("ab"), false},
		{"exactly", Exactly(3, causeX), ptr("żół"), true},
		{"exactly too long", Exactly(3, causeX), ptr("abcd"), false},
		{"pattern matches whole input", MatchesPattern(`\d+`, causeX), ptr("123"), true},
		{"pattern rejects partial match", MatchesPattern(`\d+`, causeX), ptr("12a"), false},
		{"pattern absent", MatchesPattern(`\d*`, causeX), nil, true},
		{"alternation is anchored", Matches(regexp.MustCompile(`a|b`), causeX), ptr("ab"), false},
		{"tag email", Tag[string]("email", causeX), ptr("jdoe@example.com"), true},
		{"tag email rejects", Tag[string]("email", causeX), ptr("jdoe"), false},
		{"tag absent", Tag[string]("required", causeX), nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.validator(tt.value)
			if IsValid(got) != tt.valid {
				t.Errorf("expected valid=%v, got %v", tt.valid, got)
			}
			if !tt.valid && got != ValidationResult(causeX) {
				t.Errorf("expected reason %q, got %v", causeX, got)
			}
		})
	}
}

func TestValidators_TagIsParsedAtDeclaration(t *testing.T) {
	// the zero value fails "email"; that must not count against the tag
	Tag[string]("email", causeX)

	defer func() {
		if recover() == nil {
			t.Error("expected undefined tag to panic")
		}
	}()
	Tag[string]("no_such_tag", causeX)
}

func TestValidators_DefaultReason(t *testing.T) {
	got := NotEmpty(nil)(nil)
	if got != ValidationResult(DefaultInvalid) {
		t.Errorf("expected %q, got %v", DefaultInvalid, got)
	}
}

func TestValidators_Nullability(t *testing.T) {
	if !IsValid(NotNull[int](causeX)(ptr(0))) {
		t.Error("expected NotNull to accept zero value")
	}
	if IsValid(NotNull[int](causeX)(nil)) {
		t.Error("expected NotNull to reject absent value")
	}
	if !IsValid(IsNull[int](causeX)(nil)) {
		t.Error("expected IsNull to accept absent value")
	}
	if IsValid(IsNull[int](causeX)(ptr(1))) {
		t.Error("expected IsNull to reject present value")
	}
}

func TestValidators_Required(t *testing.T) {
	tests := []struct {
		value *bool
		valid bool
	}{
		{ptr(true), true},
		{ptr(false), false},
		{nil, false},
	}
	for _, tt := range tests {
		if IsValid(Required(causeX)(tt.value)) != tt.valid {
			t.Errorf("Required(%v): expected valid=%v", tt.value, tt.valid)
		}
	}
}

func TestOr(t *testing.T) {
	const (
		tooShort Reason = "too_short"
		tooLong  Reason = "too_long"
	)
	v := Or(ShorterThan(2, tooShort), LongerThan(10, tooLong))

	tests := []struct {
		in   string
		want ValidationResult
	}{
		{"a", Valid},
		{"abcdefghijkl", Valid},
		{"abcd", tooLong},
	}
	for _, tt := range tests {
		if got := v(ptr(tt.in)); got != tt.want {
			t.Errorf("%q: expected %v, got %v", tt.in, tt.want, got)
		}
	}
}

func TestOr_ShortCircuits(t *testing.T) {
	called := false
	second := func(*string) ValidationResult {
		called = true
		return Valid
	}
	Or(NotEmpty(causeX), second)(ptr("x"))
	if called {
		t.Error("expected second validator not to run after a success")
	}
}

func TestAnd(t *testing.T) {
	v := And(NotEmpty(causeX), ShorterThan(4, causeLen))

	if got := v(ptr("")); got != ValidationResult(causeX) {
		t.Errorf("expected first failure, got %v", got)
	}
	if got := v(ptr("abcdef")); got != ValidationResult(causeLen) {
		t.Errorf("expected second failure, got %v", got)
	}
	if got := v(ptr("abc")); got != Valid {
		t.Errorf("expected valid, got %v", got)
	}
}

func TestAnyAll(t *testing.T) {
	anyOf := Any(Exactly(1, causeLen), Exactly(3, causeLen), MatchesPattern(`x+`, causeX))
	for in, want := range map[string]bool{"a": true, "abc": true, "xxxxx": true, "ab": false} {
		if IsValid(anyOf(ptr(in))) != want {
			t.Errorf("Any(%q): expected valid=%v", in, want)
		}
	}

	allOf := All(NotEmpty(causeX), ShorterThan(5, causeLen), MatchesPattern(`\d+`, causeDigit))
	tests := []struct {
		in   string
		want ValidationResult
	}{
		{"", causeX},
		{"123456", causeLen},
		{"12a", causeDigit},
		{"123", Valid},
	}
	for _, tt := range tests {
		if got := allOf(ptr(tt.in)); got != tt.want {
			t.Errorf("All(%q): expected %v, got %v", tt.in, tt.want, got)
		}
	}
}

func TestValidators_KeepDeclarationOrder(t *testing.T) {
	c := newLoginForm(t)
	Update(c, phoneRef, "12ab")

	if diff := cmp.Diff([]string{"length", "digits_only"}, reasonsOf(c.Current().PhoneNumber)); diff != "" {
		t.Errorf("reasons mismatch (-want +got):\n%s", diff)
	}
}
