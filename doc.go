/*
Package chassis keeps the state of a form as an immutable, observable
snapshot of independently validated fields.

A form model is a plain struct whose members are Field values. Each field
is registered once with a Ref naming it, an accessor reading it from the
model and a reducer writing it back. New builds the initial model and
rejects incomplete declarations up front.

# Declaring a Form

	type Login struct {
	    Email chassis.Field[Login, string]
	    Phone chassis.Field[Login, string]
	}

	var EmailRef = chassis.NewRef("email",
	    func(m Login) chassis.Field[Login, string] { return m.Email },
	    func(m Login, f chassis.Field[Login, string]) Login { m.Email = f; return m },
	)

	form, err := chassis.New(func(b *chassis.Builder[Login]) Login {
	    return Login{
	        Email: chassis.Declare(b, EmailRef, chassis.AsRequired,
	            chassis.Validate(chassis.Tag[string]("email", EmailInvalid)),
	        ),
	        Phone: chassis.Declare(b, PhoneRef, chassis.AsOptional,
	            chassis.Initial("123123123"),
	        ),
	    }
	})

# Changing State

Update, Clear, Set and Apply change values. ForceValidation attaches an
external result until the next value change, Invalidate runs validators
against an unchanged value, and Reset restores the initial snapshot.
Every operation publishes exactly one new snapshot.

# Observing State

Current returns the latest snapshot without blocking. Subscribe delivers
the latest snapshot followed by every later one, in order and without
gaps:

	for snapshot := range form.Subscribe(ctx) {
	    render(snapshot)
	}

# Feeding and Submitting

A Binding applies patches from a Watcher such as a FileWatcher, with
debouncing and Healthy/Degraded/Empty state tracking. A Submitter hands
valid snapshots to a collaborator through a pipz pipeline and forces any
returned FieldErrors back onto the form.

# Observability

Lifecycle events are emitted as capitan signals and can be forwarded to
a logger. Counters and timings are reported through MetricsProvider.
*/
package chassis
