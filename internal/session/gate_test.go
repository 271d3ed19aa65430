package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unclebandit/outreach-console/internal/api"
	"github.com/unclebandit/outreach-console/internal/apperr"
	"github.com/unclebandit/outreach-console/internal/model"
)

// sessionOnly stubs the one Collaborator method the gate uses.
type sessionOnly struct {
	api.Collaborator
	sess model.Session
	err  error
}

func (s sessionOnly) Session(ctx context.Context) (model.Session, error) {
	return s.sess, s.err
}

func TestCheckReturnsUser(t *testing.T) {
	g := Gate{API: sessionOnly{sess: model.Session{
		Authenticated: true,
		User:          &model.User{Provider: "google", Email: "operator@example.com"},
	}}}

	user, err := g.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "operator@example.com", user.Email)
}

func TestCheckRejectsAnonymous(t *testing.T) {
	g := Gate{API: sessionOnly{sess: model.Session{Authenticated: false}}}

	_, err := g.Check(context.Background())
	assert.ErrorIs(t, err, apperr.ErrNotAuthenticated)
}

func TestCheckToleratesMissingUserPayload(t *testing.T) {
	g := Gate{API: sessionOnly{sess: model.Session{Authenticated: true}}}

	user, err := g.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "User", user.Label())
}

func TestCheckPropagatesTransportError(t *testing.T) {
	boom := errors.New("connection refused")
	g := Gate{API: sessionOnly{err: boom}}

	_, err := g.Check(context.Background())
	assert.ErrorIs(t, err, boom)
}
