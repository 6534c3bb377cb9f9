package chassis

import (
	"context"
	"fmt"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/pipz"
)

// Submitter hands valid snapshots of a chassis to a collaborator, such as
// a registration endpoint, through a pipz pipeline.
type Submitter[M any] struct {
	chassis  *Chassis[M]
	pipeline pipz.Chainable[*Request[M]]
}

// NewSubmitter creates a Submitter that calls fn with each submitted
// snapshot. Options wrap fn with middleware.
//
// When fn returns a FieldError or FieldErrors, the rejected fields are
// forced invalid on the chassis so observers can show the reasons.
func NewSubmitter[M any](c *Chassis[M], fn func(ctx context.Context, req *Request[M]) error, opts ...Option[M]) *Submitter[M] {
	terminal := pipz.Effect(submitID, fn)
	return &Submitter[M]{
		chassis:  c,
		pipeline: buildPipeline(terminal, opts),
	}
}

// Submit sends the current snapshot if the form is valid. It returns an
// error wrapping ErrNotValid without calling the collaborator otherwise.
func (s *Submitter[M]) Submit(ctx context.Context) error {
	snapshot, rev, status := s.chassis.snapshot()
	if status != StatusValid {
		capitan.Emit(ctx, SubmitRejected,
			KeyRevision.Field(int(rev)), //nolint:gosec // revisions stay far below MaxInt
			KeyNewStatus.Field(status.String()),
		)
		return fmt.Errorf("%w: status %s", ErrNotValid, status)
	}

	req := &Request[M]{Snapshot: snapshot, Revision: rev}
	if _, err := s.pipeline.Process(ctx, req); err != nil {
		capitan.Emit(ctx, SubmitFailed,
			KeyRevision.Field(int(rev)), //nolint:gosec // revisions stay far below MaxInt
			KeyError.Field(err.Error()),
		)
		if ferr := s.chassis.ForceErrors(err); ferr != nil {
			return fmt.Errorf("submit failed: %w (%w)", err, ferr)
		}
		return fmt.Errorf("submit failed: %w", err)
	}

	capitan.Emit(ctx, SubmitSucceeded,
		KeyRevision.Field(int(rev)), //nolint:gosec // revisions stay far below MaxInt
	)
	return nil
}
