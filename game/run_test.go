package game

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"noughts-local/types"
)

func newRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

type queuedInput struct {
	cmds []types.Command
}

func (q *queuedInput) Next(context.Context) types.Command {
	if len(q.cmds) == 0 {
		return types.Quit
	}
	cmd := q.cmds[0]
	q.cmds = q.cmds[1:]
	return cmd
}

type recordingRenderer struct {
	views    []View
	outcomes []types.Outcome
}

func (r *recordingRenderer) Render(v View) { r.views = append(r.views, v) }

func (r *recordingRenderer) ShowOutcome(_ context.Context, o types.Outcome) {
	r.outcomes = append(r.outcomes, o)
}

func TestRun_PlayerWins(t *testing.T) {
	ai := &scripted{t: t, moves: []types.Cell{{2, 0}, {2, 1}}}
	s := newTestSession(t, types.Noughts, ai, nil)

	// Cursor starts at (1,1): play (1,1), (1,0), then (1,2).
	in := &queuedInput{cmds: []types.Command{
		types.Confirm,
		types.Idle,
		types.MoveLeft, types.Confirm,
		types.MoveRight, types.MoveRight, types.Confirm,
	}}
	out := &recordingRenderer{}

	outcome, err := Run(context.Background(), s, in, out)

	require.NoError(t, err)
	assert.Equal(t, types.PlayerWin, outcome)
	assert.Equal(t, []types.Outcome{types.PlayerWin}, out.outcomes)
	assert.Equal(t, types.PlayerWin, out.views[len(out.views)-1].Outcome)
	assert.Empty(t, in.cmds)
}

func TestRun_QuitShowsNoOutcome(t *testing.T) {
	s := newTestSession(t, types.Noughts, &scripted{t: t}, nil)
	out := &recordingRenderer{}

	outcome, err := Run(context.Background(), s, &queuedInput{cmds: []types.Command{types.MoveUp, types.Quit}}, out)

	require.NoError(t, err)
	assert.Equal(t, types.Abandoned, outcome)
	assert.Empty(t, out.outcomes)
}

func TestRun_SaveFailureContinues(t *testing.T) {
	store := &memStore{err: assert.AnError}
	s := newTestSession(t, types.Noughts, &scripted{t: t}, store)
	out := &recordingRenderer{}

	outcome, err := Run(context.Background(), s, &queuedInput{cmds: []types.Command{types.Save, types.Quit}}, out)

	require.NoError(t, err)
	assert.Equal(t, types.Abandoned, outcome)
	assert.Equal(t, "Could not save the game", out.views[len(out.views)-1].Status)
}

func TestRun_Save(t *testing.T) {
	store := &memStore{}
	s := newTestSession(t, types.Noughts, &scripted{t: t}, store)
	out := &recordingRenderer{}

	outcome, err := Run(context.Background(), s, &queuedInput{cmds: []types.Command{types.Save}}, out)

	require.NoError(t, err)
	assert.Equal(t, types.SavingInProgress, outcome)
	assert.Equal(t, []types.Outcome{types.SavingInProgress}, out.outcomes)
	assert.Len(t, store.games, 1)
}
