package api

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/evgeny-myasishchev/savings-ledger/pkg/idempotency"
	"github.com/evgeny-myasishchev/savings-ledger/pkg/lib-core-golang/diag"
	"github.com/evgeny-myasishchev/savings-ledger/pkg/lib-core-golang/router"
	"github.com/evgeny-myasishchev/savings-ledger/pkg/savings"
)

// IdempotencyKeyHeader makes entry submission safe to retry
const IdempotencyKeyHeader = "Idempotency-Key"

type entryPayload struct {
	AccountID int64           `json:"accountId" validate:"required,min=1"`
	Kind      string          `json:"kind" validate:"required,oneof=Deposit Withdrawal"`
	Amount    decimal.Decimal `json:"amount"`
	Note      string          `json:"note" validate:"max=500"`
}

func (a *api) listEntries(w http.ResponseWriter, req *http.Request, h router.HandlerToolkit) error {
	actor, err := actorFromRequest(req)
	if err != nil {
		return err
	}
	var params struct {
		AccountID int64 `validate:"min=0"`
		Kind      string `validate:"omitempty,oneof=Deposit Withdrawal"`
		Search    string
		Page      int `validate:"min=1,max=100000"`
		PageSize  int `validate:"min=0,max=100"`
	}
	filter := savings.EntryFilter{}
	if err := h.BindParams().
		QueryParam("account_id").Default("0").Int64(&params.AccountID).
		QueryParam("kind").String(&params.Kind).
		QueryParam("search").String(&params.Search).
		QueryParam("from").Date(&filter.From).
		QueryParam("to").Date(&filter.To).
		QueryParam("page").Default("1").Int(&params.Page).
		QueryParam("page_size").Default("0").Int(&params.PageSize).
		Validate(&params); err != nil {
		return err
	}
	if !actor.isStaff() {
		if params.AccountID != 0 && params.AccountID != actor.ID {
			return router.ForbiddenError("Access to the account is not allowed")
		}
		params.AccountID = actor.ID
	}
	filter.AccountID = params.AccountID
	filter.Kind = savings.EntryKind(params.Kind)
	filter.Search = params.Search

	// to is an inclusive date
	if filter.To != nil {
		to := filter.To.AddDate(0, 0, 1)
		filter.To = &to
	}
	page, err := a.ledger.ListEntries(req.Context(), filter, savings.Page{Number: params.Page, Size: params.PageSize})
	if err != nil {
		return err
	}
	return h.WriteJSON(page)
}

func (p entryPayload) fingerprint() string {
	return fmt.Sprintf("%d|%s|%s|%s", p.AccountID, p.Kind, p.Amount.StringFixed(2), p.Note)
}

// replayEntry handles a submission with the key that is already taken
func (a *api) replayEntry(req *http.Request, payload entryPayload, record *idempotency.Record) (*savings.Entry, error) {
	if record.Fingerprint != payload.fingerprint() {
		return nil, router.UnprocessableEntityError("Idempotency key was used for a different entry")
	}
	if record.Pending() {
		return nil, router.ConflictError("Entry submission with this key is in progress")
	}
	logger.WithData(diag.MsgData{"entryCode": record.EntryCode}).
		Info(req.Context(), "Replaying entry submission with key %v", record.Key)
	entry, err := a.ledger.GetEntryByCode(req.Context(), record.EntryCode)
	if err != nil {
		if errors.Is(err, savings.ErrNotFound) {
			return nil, router.ConflictError("Entry submitted with this key was deleted")
		}
		return nil, err
	}
	return entry, nil
}

func (a *api) appendEntry(w http.ResponseWriter, req *http.Request, h router.HandlerToolkit) error {
	actor, err := requireStaff(req)
	if err != nil {
		return err
	}
	key := req.Header.Get(IdempotencyKeyHeader)
	if key != "" && len(key) > idempotency.MaxKeyLength {
		return router.BadRequestError("Idempotency key is too long")
	}
	var payload entryPayload
	if err := h.BindPayload(&payload); err != nil {
		return err
	}

	reserved := false
	if key != "" && a.idempotency != nil {
		record, ok, err := a.idempotency.Reserve(req.Context(), idempotency.Record{
			Key:         key,
			Fingerprint: payload.fingerprint(),
			CreatedAt:   a.clock.Now(),
		})
		if err != nil {
			return err
		}
		if !ok {
			entry, err := a.replayEntry(req, payload, record)
			if err != nil {
				return err
			}
			return h.WriteJSON(entry)
		}
		reserved = true
	}

	entry, err := a.ledger.AppendEntry(req.Context(), savings.NewEntry{
		AccountID: payload.AccountID,
		Kind:      savings.EntryKind(payload.Kind),
		Amount:    payload.Amount,
		Note:      payload.Note,
		HandledBy: actor.ID,
	})
	if err != nil {
		if reserved {
			if releaseErr := a.idempotency.Release(req.Context(), key); releaseErr != nil {
				logger.WithError(releaseErr).Error(req.Context(), "Failed to release idempotency key %v", key)
			}
		}
		return err
	}

	if reserved {
		if err := a.idempotency.Complete(req.Context(), key, entry.Code); err != nil {
			logger.WithError(err).Error(req.Context(), "Failed to complete idempotency key %v", key)
		}
	}
	return h.WriteJSON(entry, h.WithStatus(http.StatusCreated))
}

func (a *api) getEntry(w http.ResponseWriter, req *http.Request, h router.HandlerToolkit) error {
	actor, err := actorFromRequest(req)
	if err != nil {
		return err
	}
	id, err := bindID(h)
	if err != nil {
		return err
	}
	entry, err := a.ledger.GetEntry(req.Context(), id)
	if err != nil {
		return err
	}

	// other students' entries are reported as missing
	if !actor.canAccessAccount(entry.AccountID) {
		return savings.ErrEntryNotFound
	}
	return h.WriteJSON(entry)
}

func (a *api) deleteEntry(w http.ResponseWriter, req *http.Request, h router.HandlerToolkit) error {
	if _, err := requireStaff(req); err != nil {
		return err
	}
	id, err := bindID(h)
	if err != nil {
		return err
	}
	entry, err := a.ledger.GetEntry(req.Context(), id)
	if err != nil {
		return err
	}
	if err := a.ledger.DeleteLatestEntry(req.Context(), entry.AccountID, id); err != nil {
		return err
	}
	return h.WriteNoContent()
}
