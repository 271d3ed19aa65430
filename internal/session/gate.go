// Package session gates workspace startup on an authenticated session.
package session

import (
	"context"

	"github.com/unclebandit/outreach-console/internal/api"
	"github.com/unclebandit/outreach-console/internal/apperr"
	"github.com/unclebandit/outreach-console/internal/model"
)

type Gate struct {
	API api.Collaborator
}

// Check returns the signed-in user or ErrNotAuthenticated. Callers must not
// render the workspace when this fails; where they send the operator
// instead is their concern.
func (g *Gate) Check(ctx context.Context) (model.User, error) {
	sess, err := g.API.Session(ctx)
	if err != nil {
		return model.User{}, err
	}
	if !sess.Authenticated {
		return model.User{}, apperr.ErrNotAuthenticated
	}
	if sess.User == nil {
		return model.User{}, nil
	}
	return *sess.User, nil
}
