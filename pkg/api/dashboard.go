package api

import (
	"net/http"

	"github.com/evgeny-myasishchev/savings-ledger/pkg/lib-core-golang/router"
)

func (a *api) publicSummary(w http.ResponseWriter, req *http.Request, h router.HandlerToolkit) error {
	summary, err := a.aggregator.PublicSummary(req.Context())
	if err != nil {
		return err
	}
	return h.WriteJSON(summary)
}

func (a *api) dashboard(w http.ResponseWriter, req *http.Request, h router.HandlerToolkit) error {
	actor, err := actorFromRequest(req)
	if err != nil {
		return err
	}
	now := a.clock.Now()
	if actor.isStaff() {
		staff, err := a.aggregator.StaffDashboard(req.Context(), now)
		if err != nil {
			return err
		}
		return h.WriteJSON(staff)
	}
	account, err := a.aggregator.AccountDashboard(req.Context(), actor.ID, now)
	if err != nil {
		return err
	}
	return h.WriteJSON(account)
}
