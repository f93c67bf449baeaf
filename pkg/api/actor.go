package api

import (
	"net/http"
	"strconv"

	"github.com/evgeny-myasishchev/savings-ledger/pkg/lib-core-golang/router"
)

// Headers the upstream gateway uses to pass an authenticated actor
const (
	ActorIDHeader   = "X-Actor-ID"
	ActorRoleHeader = "X-Actor-Role"
)

// Role of an actor
type Role string

// Roles
const (
	RoleAdministrator Role = "Administrator"
	RoleStaff         Role = "Staff"
	RoleStudent       Role = "Student"
)

// Actor is an authenticated caller. ID of a student actor is
// the ID of the student's account
type Actor struct {
	ID   int64
	Role Role
}

func (a *Actor) isStaff() bool {
	return a.Role == RoleAdministrator || a.Role == RoleStaff
}

func (a *Actor) canAccessAccount(accountID int64) bool {
	return a.isStaff() || (a.Role == RoleStudent && a.ID == accountID)
}

func actorFromRequest(req *http.Request) (*Actor, error) {
	rawID := req.Header.Get(ActorIDHeader)
	rawRole := req.Header.Get(ActorRoleHeader)
	if rawID == "" || rawRole == "" {
		return nil, router.UnauthorizedError("Actor is not provided")
	}
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || id <= 0 {
		return nil, router.UnauthorizedError("Actor ID is invalid")
	}
	role := Role(rawRole)
	switch role {
	case RoleAdministrator, RoleStaff, RoleStudent:
	default:
		return nil, router.UnauthorizedError("Actor role is invalid")
	}
	return &Actor{ID: id, Role: role}, nil
}

func requireStaff(req *http.Request) (*Actor, error) {
	actor, err := actorFromRequest(req)
	if err != nil {
		return nil, err
	}
	if !actor.isStaff() {
		logger.Info(req.Context(), "Actor %v with role %v is not allowed to %v %v", actor.ID, actor.Role, req.Method, req.URL.Path)
		return nil, router.ForbiddenError("Staff role is required")
	}
	return actor, nil
}

func requireAccountAccess(req *http.Request, accountID int64) (*Actor, error) {
	actor, err := actorFromRequest(req)
	if err != nil {
		return nil, err
	}
	if !actor.canAccessAccount(accountID) {
		logger.Info(req.Context(), "Actor %v is not allowed to access account %v", actor.ID, accountID)
		return nil, router.ForbiddenError("Access to the account is not allowed")
	}
	return actor, nil
}
