package dtos

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/iota-uz/clubs/modules/clubs/domain/aggregates/membership"
	"github.com/iota-uz/clubs/pkg/constants"
)

type ImportDTO struct {
	ClubID string `validate:"required,uuid"`
	DryRun bool
}

type AddMemberDTO struct {
	StudentID string `json:"studentId" validate:"required,uuid"`
}

type ListMembersQuery struct {
	Status string `form:"status" validate:"omitempty,oneof=active left"`
	Limit  int    `form:"limit" validate:"gte=0,lte=500"`
	Offset int    `form:"offset" validate:"gte=0"`
}

type SearchStudentsQuery struct {
	Q     string `form:"q" validate:"max=200"`
	Limit int    `form:"limit" validate:"gte=0,lte=100"`
}

func (dto *ImportDTO) Ok() (map[string]string, bool) {
	return validate(dto)
}

func (dto *AddMemberDTO) Ok() (map[string]string, bool) {
	return validate(dto)
}

func (dto *ListMembersQuery) Ok() (map[string]string, bool) {
	return validate(dto)
}

func (dto *SearchStudentsQuery) Ok() (map[string]string, bool) {
	return validate(dto)
}

func (dto *ImportDTO) ClubUUID() uuid.UUID {
	return uuid.MustParse(dto.ClubID)
}

func (dto *AddMemberDTO) StudentUUID() uuid.UUID {
	return uuid.MustParse(dto.StudentID)
}

func (dto *ListMembersQuery) ToFindParams() *membership.FindParams {
	return &membership.FindParams{
		Status: membership.Status(dto.Status),
		Limit:  dto.Limit,
		Offset: dto.Offset,
	}
}

func validate(dto any) (map[string]string, bool) {
	errorMessages := map[string]string{}
	err := constants.Validate.Struct(dto)
	if err == nil {
		return errorMessages, true
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errorMessages["_"] = err.Error()
		return errorMessages, false
	}
	for _, e := range verrs {
		errorMessages[e.Field()] = fmt.Sprintf("failed on %q", e.Tag())
	}
	return errorMessages, len(errorMessages) == 0
}
