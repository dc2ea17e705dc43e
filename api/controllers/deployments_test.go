package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/studioops-backend/api/middleware"
	"github.com/angelmondragon/studioops-backend/internal/deployments"
	"github.com/angelmondragon/studioops-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/studioops-backend/pkg/errors"
	"github.com/angelmondragon/studioops-backend/pkg/pagination"
	"github.com/angelmondragon/studioops-backend/pkg/types"
)

type stubDeploymentService struct {
	createFn  func(ctx context.Context, input deployments.CreateAssignmentInput) (*deployments.AssignmentView, error)
	returnFn  func(ctx context.Context, input deployments.QuickReturnInput) (*deployments.AssignmentView, error)
	boardFn   func(ctx context.Context) (*deployments.DeploymentBoard, error)
	formFn    func(ctx context.Context) (*deployments.FormData, error)
	historyFn func(ctx context.Context, equipmentID uuid.UUID, params pagination.Params) (*deployments.EquipmentHistory, error)
}

func (s *stubDeploymentService) CreateAssignment(ctx context.Context, input deployments.CreateAssignmentInput) (*deployments.AssignmentView, error) {
	if s.createFn != nil {
		return s.createFn(ctx, input)
	}
	return &deployments.AssignmentView{ID: uuid.New()}, nil
}

func (s *stubDeploymentService) QuickReturn(ctx context.Context, input deployments.QuickReturnInput) (*deployments.AssignmentView, error) {
	if s.returnFn != nil {
		return s.returnFn(ctx, input)
	}
	return &deployments.AssignmentView{ID: input.AssignmentID}, nil
}

func (s *stubDeploymentService) ActiveDeployments(ctx context.Context) (*deployments.DeploymentBoard, error) {
	if s.boardFn != nil {
		return s.boardFn(ctx)
	}
	return &deployments.DeploymentBoard{}, nil
}

func (s *stubDeploymentService) FormData(ctx context.Context) (*deployments.FormData, error) {
	if s.formFn != nil {
		return s.formFn(ctx)
	}
	return &deployments.FormData{}, nil
}

func (s *stubDeploymentService) EquipmentHistory(ctx context.Context, equipmentID uuid.UUID, params pagination.Params) (*deployments.EquipmentHistory, error) {
	if s.historyFn != nil {
		return s.historyFn(ctx, equipmentID, params)
	}
	return &deployments.EquipmentHistory{}, nil
}

func withActor(r *http.Request, userID uuid.UUID, role enums.ActorRole) *http.Request {
	ctx := middleware.WithUserID(r.Context(), userID.String())
	ctx = middleware.WithRole(ctx, string(role))
	return r.WithContext(ctx)
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, routeCtx))
}

func TestCreateDeploymentSuccess(t *testing.T) {
	actorID := uuid.New()
	equipmentID := uuid.New()
	employeeID := uuid.New()

	var captured deployments.CreateAssignmentInput
	svc := &stubDeploymentService{
		createFn: func(ctx context.Context, input deployments.CreateAssignmentInput) (*deployments.AssignmentView, error) {
			captured = input
			return &deployments.AssignmentView{ID: uuid.New(), Status: enums.AssignmentStatusInField}, nil
		},
	}

	body := `{"equipment_id":"` + equipmentID.String() + `","employee_id":"` + employeeID.String() + `","location":"Studio B rooftop","notes":"  tripod included  "}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/deployments", strings.NewReader(body))
	req = withActor(req, actorID, enums.ActorRoleAdmin)
	resp := httptest.NewRecorder()

	CreateDeployment(svc, nil)(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body %s", resp.Code, resp.Body.String())
	}
	if captured.EquipmentID != equipmentID || captured.EmployeeID != employeeID {
		t.Fatalf("unexpected input %+v", captured)
	}
	if captured.ActorUserID != actorID || captured.ActorRole != string(enums.ActorRoleAdmin) {
		t.Fatalf("actor not forwarded %+v", captured)
	}
	if captured.Notes == nil || *captured.Notes != "tripod included" {
		t.Fatalf("notes not sanitized %+v", captured.Notes)
	}
	if captured.Location == nil || *captured.Location != "Studio B rooftop" {
		t.Fatalf("location not forwarded %+v", captured.Location)
	}
}

func TestCreateDeploymentConflictPassthrough(t *testing.T) {
	svc := &stubDeploymentService{
		createFn: func(ctx context.Context, input deployments.CreateAssignmentInput) (*deployments.AssignmentView, error) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "This equipment already has an active assignment")
		},
	}

	body := `{"equipment_id":"` + uuid.NewString() + `","employee_id":"` + uuid.NewString() + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/deployments", strings.NewReader(body))
	req = withActor(req, uuid.New(), enums.ActorRoleAdmin)
	resp := httptest.NewRecorder()

	CreateDeployment(svc, nil)(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
	var envelope types.ErrorEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	if envelope.Error.Message != "This equipment already has an active assignment" {
		t.Fatalf("unexpected message %q", envelope.Error.Message)
	}
}

func TestCreateDeploymentRejectsBadPayload(t *testing.T) {
	svc := &stubDeploymentService{
		createFn: func(ctx context.Context, input deployments.CreateAssignmentInput) (*deployments.AssignmentView, error) {
			t.Fatal("service should not be called")
			return nil, nil
		},
	}

	cases := map[string]string{
		"missing employee": `{"equipment_id":"` + uuid.NewString() + `"}`,
		"bad uuid":         `{"equipment_id":"not-a-uuid","employee_id":"` + uuid.NewString() + `"}`,
		"unknown field":    `{"equipment_id":"` + uuid.NewString() + `","employee_id":"` + uuid.NewString() + `","extra":true}`,
	}

	for name, body := range cases {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/deployments", strings.NewReader(body))
		req = withActor(req, uuid.New(), enums.ActorRoleAdmin)
		resp := httptest.NewRecorder()

		CreateDeployment(svc, nil)(resp, req)

		if resp.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400 got %d", name, resp.Code)
		}
	}
}

func TestCreateDeploymentRequiresActorContext(t *testing.T) {
	svc := &stubDeploymentService{}
	body := `{"equipment_id":"` + uuid.NewString() + `","employee_id":"` + uuid.NewString() + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/deployments", strings.NewReader(body))
	resp := httptest.NewRecorder()

	CreateDeployment(svc, nil)(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestQuickReturnDeploymentAllowsEmptyBody(t *testing.T) {
	assignmentID := uuid.New()
	var captured deployments.QuickReturnInput
	svc := &stubDeploymentService{
		returnFn: func(ctx context.Context, input deployments.QuickReturnInput) (*deployments.AssignmentView, error) {
			captured = input
			returnedAt := time.Now()
			return &deployments.AssignmentView{ID: input.AssignmentID, Status: enums.AssignmentStatusReturned, ReturnedAt: &returnedAt}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/deployments/"+assignmentID.String()+"/return", nil)
	req = withActor(req, uuid.New(), enums.ActorRoleAdmin)
	req = withURLParam(req, "assignmentId", assignmentID.String())
	resp := httptest.NewRecorder()

	QuickReturnDeployment(svc, nil)(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body %s", resp.Code, resp.Body.String())
	}
	if captured.AssignmentID != assignmentID {
		t.Fatalf("assignment id not forwarded %+v", captured)
	}
}

func TestQuickReturnDeploymentForwardsNotes(t *testing.T) {
	assignmentID := uuid.New()
	var captured deployments.QuickReturnInput
	svc := &stubDeploymentService{
		returnFn: func(ctx context.Context, input deployments.QuickReturnInput) (*deployments.AssignmentView, error) {
			captured = input
			return &deployments.AssignmentView{ID: input.AssignmentID}, nil
		},
	}

	body := `{"notes":"fell in the lake"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/deployments/"+assignmentID.String()+"/return", strings.NewReader(body))
	req = withActor(req, uuid.New(), enums.ActorRoleSuperAdmin)
	req = withURLParam(req, "assignmentId", assignmentID.String())
	resp := httptest.NewRecorder()

	QuickReturnDeployment(svc, nil)(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body %s", resp.Code, resp.Body.String())
	}
	if captured.Notes == nil || *captured.Notes != "fell in the lake" {
		t.Fatalf("notes not forwarded %+v", captured.Notes)
	}
}

func TestQuickReturnDeploymentRejectsStatusOverride(t *testing.T) {
	assignmentID := uuid.New()
	svc := &stubDeploymentService{
		returnFn: func(ctx context.Context, input deployments.QuickReturnInput) (*deployments.AssignmentView, error) {
			t.Fatal("service should not be called")
			return nil, nil
		},
	}

	// the close always stamps returned; a caller-picked status is not a field
	body := `{"status":"maintenance"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/deployments/"+assignmentID.String()+"/return", strings.NewReader(body))
	req = withActor(req, uuid.New(), enums.ActorRoleAdmin)
	req = withURLParam(req, "assignmentId", assignmentID.String())
	resp := httptest.NewRecorder()

	QuickReturnDeployment(svc, nil)(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d body %s", resp.Code, resp.Body.String())
	}
}

func TestQuickReturnDeploymentRejectsBadID(t *testing.T) {
	svc := &stubDeploymentService{}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/deployments/nope/return", nil)
	req = withActor(req, uuid.New(), enums.ActorRoleAdmin)
	req = withURLParam(req, "assignmentId", "nope")
	resp := httptest.NewRecorder()

	QuickReturnDeployment(svc, nil)(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestEquipmentHistoryForwardsPagination(t *testing.T) {
	equipmentID := uuid.New()
	var capturedID uuid.UUID
	var capturedParams pagination.Params
	svc := &stubDeploymentService{
		historyFn: func(ctx context.Context, id uuid.UUID, params pagination.Params) (*deployments.EquipmentHistory, error) {
			capturedID = id
			capturedParams = params
			return &deployments.EquipmentHistory{}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/equipment/"+equipmentID.String()+"/assignments?limit=10&cursor=abc", nil)
	req = withURLParam(req, "equipmentId", equipmentID.String())
	resp := httptest.NewRecorder()

	EquipmentHistory(svc, nil)(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if capturedID != equipmentID {
		t.Fatalf("equipment id not forwarded")
	}
	if capturedParams.Limit != 10 || capturedParams.Cursor != "abc" {
		t.Fatalf("unexpected params %+v", capturedParams)
	}
}

func TestEquipmentHistoryRejectsBadLimit(t *testing.T) {
	svc := &stubDeploymentService{}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/equipment/"+uuid.NewString()+"/assignments?limit=9999", nil)
	req = withURLParam(req, "equipmentId", uuid.NewString())
	resp := httptest.NewRecorder()

	EquipmentHistory(svc, nil)(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
