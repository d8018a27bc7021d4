package game

import (
	"context"
	"errors"

	"noughts-local/types"
)

// Renderer draws the session.
type Renderer interface {
	// Render draws the board, cursor and status.
	Render(v View)

	// ShowOutcome displays the final message and blocks until acknowledged.
	ShowOutcome(ctx context.Context, o types.Outcome)
}

// InputSource yields player commands.
type InputSource interface {
	// Next blocks until a command arrives or the idle timeout expires,
	// in which case it returns types.Idle.
	Next(ctx context.Context) types.Command
}

// Run drives the session until it ends. A failed save keeps the session
// alive with a status message; any other error aborts the loop.
func Run(ctx context.Context, s *Session, in InputSource, out Renderer) (types.Outcome, error) {
	outcome, err := s.Start()
	if err != nil {
		return outcome, err
	}

	for !outcome.Finished() {
		out.Render(s.View())

		cmd := in.Next(ctx)
		if cmd == types.Idle {
			continue
		}
		outcome, err = s.Handle(ctx, cmd)
		if err != nil {
			if errors.Is(err, ErrSaveFailed) {
				s.log.Warn("save failed", "error", err)
				continue
			}
			return outcome, err
		}
	}

	out.Render(s.View())
	if outcome != types.Abandoned {
		out.ShowOutcome(ctx, outcome)
	}
	return outcome, nil
}
