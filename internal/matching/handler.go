package matching

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teamup/backend/internal/middleware"
	"github.com/teamup/backend/internal/models"
	"github.com/teamup/backend/pkg/response"
)

// EventBroadcaster pushes matching events to clients watching a
// project's matching page.
type EventBroadcaster interface {
	BroadcastToProjectAndPublish(projectID uuid.UUID, event string, payload interface{})
}

// Handler exposes the matching engine over HTTP.
type Handler struct {
	engine *Engine
	hub    EventBroadcaster // optional
	logger *zap.Logger
}

// NewHandler creates a matching handler. hub may be nil.
func NewHandler(engine *Engine, hub EventBroadcaster, logger *zap.Logger) *Handler {
	return &Handler{engine: engine, hub: hub, logger: logger}
}

func (h *Handler) respondError(c *gin.Context, err error) {
	status := HTTPStatus(err)
	if status == 500 {
		h.logger.Error("matching operation failed", zap.Error(err), zap.String("path", c.FullPath()))
		response.Internal(c, "internal error")
		return
	}
	c.JSON(status, response.Body{Success: false, Error: err.Error()})
}

func (h *Handler) broadcast(team *models.Team, event string) {
	if h.hub == nil || team == nil {
		return
	}
	h.hub.BroadcastToProjectAndPublish(team.ProjectID, event, gin.H{
		"team_id":    team.ID,
		"project_id": team.ProjectID,
		"confirmed":  team.Confirmed,
	})
}

func callerID(c *gin.Context) uuid.UUID {
	return c.MustGet(middleware.ContextUserID).(uuid.UUID)
}

func pathID(c *gin.Context, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.BadRequest(c, "invalid "+label)
		return uuid.Nil, false
	}
	return id, true
}

// ApplyToProject handles POST /projects/:id/participation.
func (h *Handler) ApplyToProject(c *gin.Context) {
	projectID, ok := pathID(c, "id", "project id")
	if !ok {
		return
	}
	part, err := h.engine.ApplyToProject(c.Request.Context(), callerID(c), projectID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Created(c, part)
}

// CancelParticipation handles DELETE /projects/:id/participation.
func (h *Handler) CancelParticipation(c *gin.Context) {
	projectID, ok := pathID(c, "id", "project id")
	if !ok {
		return
	}
	if err := h.engine.CancelParticipation(c.Request.Context(), callerID(c), projectID); err != nil {
		h.respondError(c, err)
		return
	}
	response.NoContent(c)
}

// CreateTeam handles POST /projects/:id/teams.
func (h *Handler) CreateTeam(c *gin.Context) {
	projectID, ok := pathID(c, "id", "project id")
	if !ok {
		return
	}
	team, err := h.engine.CreateTeam(c.Request.Context(), callerID(c), projectID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.broadcast(team, "team_created")
	response.Created(c, team)
}

// ListOpenTeams handles GET /projects/:id/teams.
func (h *Handler) ListOpenTeams(c *gin.Context) {
	projectID, ok := pathID(c, "id", "project id")
	if !ok {
		return
	}
	teams, err := h.engine.ListOpenTeams(c.Request.Context(), projectID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.OK(c, teams)
}

// ApplyToTeam handles POST /teams/:id/applications.
func (h *Handler) ApplyToTeam(c *gin.Context) {
	teamID, ok := pathID(c, "id", "team id")
	if !ok {
		return
	}
	app, err := h.engine.ApplyToTeam(c.Request.Context(), callerID(c), teamID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Created(c, app)
}

// AcceptApplicant handles POST /teams/:id/accept/:userId (leader only).
func (h *Handler) AcceptApplicant(c *gin.Context) {
	teamID, ok := pathID(c, "id", "team id")
	if !ok {
		return
	}
	applicantID, ok := pathID(c, "userId", "applicant id")
	if !ok {
		return
	}
	team, err := h.engine.AcceptApplicant(c.Request.Context(), callerID(c), teamID, applicantID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.broadcast(team, "roster_changed")
	response.NoContent(c)
}

// RejectApplicant handles POST /teams/:id/reject/:userId (leader only).
func (h *Handler) RejectApplicant(c *gin.Context) {
	teamID, ok := pathID(c, "id", "team id")
	if !ok {
		return
	}
	applicantID, ok := pathID(c, "userId", "applicant id")
	if !ok {
		return
	}
	if _, err := h.engine.RejectApplicant(c.Request.Context(), callerID(c), teamID, applicantID); err != nil {
		h.respondError(c, err)
		return
	}
	response.NoContent(c)
}

// ConfirmTeam handles POST /teams/:id/confirm (leader only).
func (h *Handler) ConfirmTeam(c *gin.Context) {
	teamID, ok := pathID(c, "id", "team id")
	if !ok {
		return
	}
	team, err := h.engine.ConfirmTeam(c.Request.Context(), callerID(c), teamID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.broadcast(team, "team_confirmed")
	response.OK(c, team)
}

// LeaveTeam handles DELETE /teams/:id/membership.
func (h *Handler) LeaveTeam(c *gin.Context) {
	teamID, ok := pathID(c, "id", "team id")
	if !ok {
		return
	}
	team, err := h.engine.LeaveTeam(c.Request.Context(), callerID(c), teamID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.broadcast(team, "roster_changed")
	response.NoContent(c)
}

// ListApplicantsForLeader handles GET /teams/applications.
func (h *Handler) ListApplicantsForLeader(c *gin.Context) {
	list, err := h.engine.ListApplicantsForLeader(c.Request.Context(), callerID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.OK(c, list)
}

// ListMyApplications handles GET /applications/mine.
func (h *Handler) ListMyApplications(c *gin.Context) {
	list, err := h.engine.ListMyApplications(c.Request.Context(), callerID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.OK(c, list)
}
