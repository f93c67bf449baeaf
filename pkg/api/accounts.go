package api

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/evgeny-myasishchev/savings-ledger/pkg/lib-core-golang/router"
	"github.com/evgeny-myasishchev/savings-ledger/pkg/savings"
)

type accountPayload struct {
	Reference      string           `json:"reference" validate:"required,max=20"`
	Name           string           `json:"name" validate:"required,max=255"`
	Gender         string           `json:"gender" validate:"required,oneof=Male Female Other"`
	ClassGrade     string           `json:"classGrade" validate:"required,max=10"`
	Address        string           `json:"address"`
	GuardianName   string           `json:"guardianName" validate:"max=255"`
	ContactNumber  string           `json:"contactNumber" validate:"max=20"`
	Status         string           `json:"status" validate:"omitempty,oneof=Active Inactive"`
	OpeningBalance *decimal.Decimal `json:"openingBalance,omitempty"`
}

func (p *accountPayload) profile() savings.AccountProfile {
	return savings.AccountProfile{
		Reference:     p.Reference,
		Name:          p.Name,
		Gender:        savings.Gender(p.Gender),
		ClassGrade:    p.ClassGrade,
		Address:       p.Address,
		GuardianName:  p.GuardianName,
		ContactNumber: p.ContactNumber,
		Status:        savings.AccountStatus(p.Status),
	}
}

type balancePayload struct {
	AccountID int64           `json:"accountId"`
	Balance   decimal.Decimal `json:"balance"`
}

func bindID(h router.HandlerToolkit) (int64, error) {
	var params struct {
		ID int64 `validate:"min=1"`
	}
	err := h.BindParams().PathParam("id").Int64(&params.ID).Validate(&params)
	return params.ID, err
}

func (a *api) listAccounts(w http.ResponseWriter, req *http.Request, h router.HandlerToolkit) error {
	if _, err := requireStaff(req); err != nil {
		return err
	}
	var params struct {
		Search     string
		Status     string `validate:"omitempty,oneof=Active Inactive"`
		ClassGrade string
		Page       int `validate:"min=1,max=100000"`
		PageSize   int `validate:"min=0,max=100"`
	}
	if err := h.BindParams().
		QueryParam("search").String(&params.Search).
		QueryParam("status").String(&params.Status).
		QueryParam("class_grade").String(&params.ClassGrade).
		QueryParam("page").Default("1").Int(&params.Page).
		QueryParam("page_size").Default("0").Int(&params.PageSize).
		Validate(&params); err != nil {
		return err
	}
	page, err := a.accounts.List(req.Context(), savings.AccountFilter{
		Search:     params.Search,
		Status:     savings.AccountStatus(params.Status),
		ClassGrade: params.ClassGrade,
	}, savings.Page{Number: params.Page, Size: params.PageSize})
	if err != nil {
		return err
	}
	return h.WriteJSON(page)
}

func (a *api) classGrades(w http.ResponseWriter, req *http.Request, h router.HandlerToolkit) error {
	if _, err := requireStaff(req); err != nil {
		return err
	}
	grades, err := a.accounts.ClassGrades(req.Context())
	if err != nil {
		return err
	}
	return h.WriteJSON(grades)
}

func (a *api) createAccount(w http.ResponseWriter, req *http.Request, h router.HandlerToolkit) error {
	if _, err := requireStaff(req); err != nil {
		return err
	}
	var payload accountPayload
	if err := h.BindPayload(&payload); err != nil {
		return err
	}
	newAccount := savings.NewAccount{AccountProfile: payload.profile()}
	if payload.OpeningBalance != nil {
		newAccount.OpeningBalance = *payload.OpeningBalance
	}
	account, err := a.accounts.Create(req.Context(), newAccount)
	if err != nil {
		return err
	}
	return h.WriteJSON(account, h.WithStatus(http.StatusCreated))
}

func (a *api) getAccount(w http.ResponseWriter, req *http.Request, h router.HandlerToolkit) error {
	id, err := bindID(h)
	if err != nil {
		return err
	}
	if _, err := requireAccountAccess(req, id); err != nil {
		return err
	}
	account, err := a.accounts.Get(req.Context(), id)
	if err != nil {
		return err
	}
	return h.WriteJSON(account)
}

func (a *api) updateAccount(w http.ResponseWriter, req *http.Request, h router.HandlerToolkit) error {
	if _, err := requireStaff(req); err != nil {
		return err
	}
	id, err := bindID(h)
	if err != nil {
		return err
	}
	var payload accountPayload
	if err := h.BindPayload(&payload); err != nil {
		return err
	}
	if payload.OpeningBalance != nil {
		return router.BadRequestError("Opening balance can not be changed")
	}
	account, err := a.accounts.Update(req.Context(), id, payload.profile())
	if err != nil {
		return err
	}
	return h.WriteJSON(account)
}

func (a *api) deleteAccount(w http.ResponseWriter, req *http.Request, h router.HandlerToolkit) error {
	if _, err := requireStaff(req); err != nil {
		return err
	}
	id, err := bindID(h)
	if err != nil {
		return err
	}
	if err := a.accounts.Delete(req.Context(), id); err != nil {
		return err
	}
	return h.WriteNoContent()
}

func (a *api) accountBalance(w http.ResponseWriter, req *http.Request, h router.HandlerToolkit) error {
	id, err := bindID(h)
	if err != nil {
		return err
	}
	if _, err := requireAccountAccess(req, id); err != nil {
		return err
	}
	balance, err := a.ledger.CurrentBalance(req.Context(), id)
	if err != nil {
		return err
	}
	return h.WriteJSON(balancePayload{AccountID: id, Balance: balance})
}
