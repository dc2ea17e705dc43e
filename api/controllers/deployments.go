package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/studioops-backend/api/middleware"
	"github.com/angelmondragon/studioops-backend/api/responses"
	"github.com/angelmondragon/studioops-backend/api/validators"
	"github.com/angelmondragon/studioops-backend/internal/deployments"
	pkgerrors "github.com/angelmondragon/studioops-backend/pkg/errors"
	"github.com/angelmondragon/studioops-backend/pkg/logger"
	"github.com/angelmondragon/studioops-backend/pkg/pagination"
)

const (
	maxNotesLength    = 2000
	maxLocationLength = 500
)

type createDeploymentPayload struct {
	EquipmentID    string     `json:"equipment_id" validate:"required,uuid"`
	EmployeeID     string     `json:"employee_id" validate:"required,uuid"`
	ClientID       *string    `json:"client_id,omitempty" validate:"omitempty,uuid"`
	AssignedAt     *time.Time `json:"assigned_at,omitempty"`
	ExpectedReturn *time.Time `json:"expected_return,omitempty"`
	Location       *string    `json:"location,omitempty" validate:"omitempty,max=500"`
	Notes          *string    `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

type quickReturnPayload struct {
	Notes *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// CreateDeployment sends a piece of equipment into the field.
func CreateDeployment(svc deployments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "deployment service unavailable"))
			return
		}

		actorID, actorRole, err := requireActor(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload createDeploymentPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		equipmentID, err := uuid.Parse(payload.EquipmentID)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid equipment id"))
			return
		}
		employeeID, err := uuid.Parse(payload.EmployeeID)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid employee id"))
			return
		}

		input := deployments.CreateAssignmentInput{
			EquipmentID:    equipmentID,
			EmployeeID:     employeeID,
			AssignedAt:     payload.AssignedAt,
			ExpectedReturn: payload.ExpectedReturn,
			Location:       sanitizeFreeText(payload.Location, maxLocationLength),
			Notes:          sanitizeFreeText(payload.Notes, maxNotesLength),
			ActorUserID:    actorID,
			ActorRole:      actorRole,
		}
		if payload.ClientID != nil && strings.TrimSpace(*payload.ClientID) != "" {
			clientID, err := uuid.Parse(*payload.ClientID)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid client id"))
				return
			}
			input.ClientID = &clientID
		}

		view, err := svc.CreateAssignment(ctx, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

// QuickReturnDeployment closes an open assignment in one call.
func QuickReturnDeployment(svc deployments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "deployment service unavailable"))
			return
		}

		actorID, actorRole, err := requireActor(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		assignmentID, err := uuid.Parse(strings.TrimSpace(chi.URLParam(r, "assignmentId")))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid assignment id"))
			return
		}

		// the body is optional; a bare POST is the one-click return
		var payload quickReturnPayload
		if r.ContentLength != 0 {
			if err := validators.DecodeJSONBody(r, &payload); err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
		}

		input := deployments.QuickReturnInput{
			AssignmentID: assignmentID,
			Notes:        sanitizeFreeText(payload.Notes, maxNotesLength),
			ActorUserID:  actorID,
			ActorRole:    actorRole,
		}

		view, err := svc.QuickReturn(ctx, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// ActiveDeployments renders the board of open assignments grouped by employee.
func ActiveDeployments(svc deployments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "deployment service unavailable"))
			return
		}

		board, err := svc.ActiveDeployments(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, board)
	}
}

// DeploymentFormData returns the pick lists backing the deployment form.
func DeploymentFormData(svc deployments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "deployment service unavailable"))
			return
		}

		data, err := svc.FormData(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, data)
	}
}

// EquipmentHistory returns the paginated assignment trail for one item.
func EquipmentHistory(svc deployments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "deployment service unavailable"))
			return
		}

		equipmentID, err := uuid.Parse(strings.TrimSpace(chi.URLParam(r, "equipmentId")))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid equipment id"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		cursor := strings.TrimSpace(r.URL.Query().Get("cursor"))

		history, err := svc.EquipmentHistory(ctx, equipmentID, pagination.Params{Limit: limit, Cursor: cursor})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, history)
	}
}

func requireActor(r *http.Request) (uuid.UUID, string, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, "", pkgerrors.New(pkgerrors.CodeUnauthorized, "actor context missing")
	}
	actorID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, "", pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid actor id")
	}
	return actorID, middleware.RoleFromContext(r.Context()), nil
}

func sanitizeFreeText(value *string, maxLen int) *string {
	if value == nil {
		return nil
	}
	cleaned := validators.SanitizeString(*value, maxLen)
	if cleaned == "" {
		return nil
	}
	return &cleaned
}
