package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/iota-uz/clubs/modules/clubs/presentation/controllers/dtos"
	"github.com/iota-uz/clubs/modules/clubs/presentation/mappers"
	"github.com/iota-uz/clubs/modules/clubs/services"
	"github.com/iota-uz/clubs/pkg/application"
	"github.com/iota-uz/clubs/pkg/composables"
)

type MembershipAPIController struct {
	app         application.Application
	memberships *services.MembershipService
	students    *services.StudentService
	apiPrefix   string
}

func NewMembershipAPIController(app application.Application) application.Controller {
	return &MembershipAPIController{
		app:         app,
		memberships: app.Service(services.MembershipService{}).(*services.MembershipService),
		students:    app.Service(services.StudentService{}).(*services.StudentService),
		apiPrefix:   "/clubs/api",
	}
}

func (c *MembershipAPIController) Key() string {
	return c.apiPrefix
}

func (c *MembershipAPIController) Register(r *mux.Router) {
	api := r.PathPrefix(c.apiPrefix).Subrouter()

	api.HandleFunc("/clubs/{clubID}/members", c.ListMembers).Methods(http.MethodGet)
	api.HandleFunc("/clubs/{clubID}/members", c.AddMember).Methods(http.MethodPost)
	api.HandleFunc("/clubs/{clubID}/members/{studentID}", c.RemoveMember).Methods(http.MethodDelete)

	api.HandleFunc("/students:search", c.SearchStudents).Methods(http.MethodGet)
}

func (c *MembershipAPIController) ListMembers(w http.ResponseWriter, r *http.Request) {
	requestID := ensureRequestID(r)
	clubID, ok := parseClubID(w, r, requestID)
	if !ok {
		return
	}

	query, err := composables.UseQuery(&dtos.ListMembersQuery{}, r)
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, requestID, codeInvalidRequest, err.Error())
		return
	}
	if fields, ok := query.Ok(); !ok {
		writeValidationError(w, requestID, codeInvalidRequest, fields)
		return
	}

	members, total, err := c.memberships.ListMembers(r.Context(), clubID, query.ToFindParams())
	if err != nil {
		writeServiceError(w, r, requestID, err)
		return
	}
	writeJSON(w, http.StatusOK, mappers.MembersToViewModel(members, total))
}

func (c *MembershipAPIController) AddMember(w http.ResponseWriter, r *http.Request) {
	requestID := ensureRequestID(r)
	clubID, ok := parseClubID(w, r, requestID)
	if !ok {
		return
	}

	dto := &dtos.AddMemberDTO{}
	if err := json.NewDecoder(r.Body).Decode(dto); err != nil {
		writeAPIError(w, http.StatusBadRequest, requestID, codeInvalidRequest, "body must be a JSON object")
		return
	}
	if fields, ok := dto.Ok(); !ok {
		writeValidationError(w, requestID, codeInvalidRequest, fields)
		return
	}

	created, err := c.memberships.Add(r.Context(), clubID, dto.StudentUUID())
	if err != nil {
		writeServiceError(w, r, requestID, err)
		return
	}
	writeJSON(w, http.StatusCreated, mappers.MembershipToViewModel(created))
}

func (c *MembershipAPIController) RemoveMember(w http.ResponseWriter, r *http.Request) {
	requestID := ensureRequestID(r)
	clubID, ok := parseClubID(w, r, requestID)
	if !ok {
		return
	}
	studentID, err := uuid.Parse(mux.Vars(r)["studentID"])
	if err != nil {
		writeServiceError(w, r, requestID, services.ErrStudentNotFound)
		return
	}

	left, err := c.memberships.Remove(r.Context(), clubID, studentID)
	if err != nil {
		writeServiceError(w, r, requestID, err)
		return
	}
	writeJSON(w, http.StatusOK, mappers.MembershipToViewModel(left))
}

func (c *MembershipAPIController) SearchStudents(w http.ResponseWriter, r *http.Request) {
	requestID := ensureRequestID(r)
	query, err := composables.UseQuery(&dtos.SearchStudentsQuery{}, r)
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, requestID, codeInvalidRequest, err.Error())
		return
	}
	if fields, ok := query.Ok(); !ok {
		writeValidationError(w, requestID, codeInvalidRequest, fields)
		return
	}

	found, err := c.students.Search(r.Context(), query.Q, query.Limit)
	if err != nil {
		writeServiceError(w, r, requestID, err)
		return
	}
	writeJSON(w, http.StatusOK, mappers.StudentsToViewModel(found))
}

func parseClubID(w http.ResponseWriter, r *http.Request, requestID string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["clubID"])
	if err != nil {
		writeServiceError(w, r, requestID, services.ErrNoClub)
		return uuid.Nil, false
	}
	return id, true
}
