package savings

import (
	"github.com/evgeny-myasishchev/savings-ledger/pkg/dal"
)

func accountFromDTO(dto *dal.AccountDTO) *Account {
	return &Account{
		ID:             dto.ID,
		Reference:      dto.Reference,
		Name:           dto.Name,
		Gender:         Gender(dto.Gender),
		ClassGrade:     dto.ClassGrade,
		Address:        dto.Address,
		GuardianName:   dto.GuardianName,
		ContactNumber:  dto.ContactNumber,
		Status:         AccountStatus(dto.Status),
		OpeningBalance: dto.OpeningBalance,
		CreatedAt:      dto.CreatedAt,
		UpdatedAt:      dto.UpdatedAt,
	}
}

func entryFromDTO(dto *dal.EntryDTO) *Entry {
	return &Entry{
		ID:               dto.ID,
		Code:             dto.Code,
		AccountID:        dto.AccountID,
		Kind:             EntryKind(dto.Kind),
		Amount:           dto.Amount,
		BalanceAfter:     dto.BalanceAfter,
		Note:             dto.Note,
		HandledBy:        dto.HandledBy,
		CreatedAt:        dto.CreatedAt,
		AccountName:      dto.AccountName,
		AccountReference: dto.AccountReference,
	}
}

func entriesQuery(filter EntryFilter) dal.EntriesQuery {
	return dal.EntriesQuery{
		AccountID: filter.AccountID,
		Kind:      string(filter.Kind),
		From:      filter.From,
		To:        filter.To,
		Search:    filter.Search,
	}
}

func applyProfile(dto *dal.AccountDTO, profile AccountProfile) {
	dto.Reference = profile.Reference
	dto.Name = profile.Name
	dto.Gender = string(profile.Gender)
	dto.ClassGrade = profile.ClassGrade
	dto.Address = profile.Address
	dto.GuardianName = profile.GuardianName
	dto.ContactNumber = profile.ContactNumber
	dto.Status = string(profile.Status)
}
