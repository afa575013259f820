package projects

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teamup/backend/internal/middleware"
	"github.com/teamup/backend/internal/models"
	"github.com/teamup/backend/pkg/response"
)

const dateLayout = "2006-01-02"

// ProjectRequest is the body for POST /projects and PUT /projects/:id.
// Dates are day-granular, formatted YYYY-MM-DD.
type ProjectRequest struct {
	Name          string `json:"name" binding:"required"`
	Organizer     string `json:"organizer"`
	ApplyDeadline string `json:"apply_deadline" binding:"required"`
	MatchingStart string `json:"matching_start" binding:"required"`
	MatchingEnd   string `json:"matching_end" binding:"required"`
	MinTeamSize   int    `json:"min_team_size" binding:"required"`
	MaxTeamSize   int    `json:"max_team_size" binding:"required"`
}

func (req *ProjectRequest) toModel() (*models.Project, string) {
	deadline, err := time.Parse(dateLayout, req.ApplyDeadline)
	if err != nil {
		return nil, "invalid apply_deadline (want YYYY-MM-DD)"
	}
	start, err := time.Parse(dateLayout, req.MatchingStart)
	if err != nil {
		return nil, "invalid matching_start (want YYYY-MM-DD)"
	}
	end, err := time.Parse(dateLayout, req.MatchingEnd)
	if err != nil {
		return nil, "invalid matching_end (want YYYY-MM-DD)"
	}
	if end.Before(start) {
		return nil, "matching_end must not precede matching_start"
	}
	if req.MinTeamSize < 1 || req.MinTeamSize > req.MaxTeamSize {
		return nil, "team size must satisfy 1 <= min <= max"
	}
	return &models.Project{
		Name:          req.Name,
		Organizer:     req.Organizer,
		ApplyDeadline: deadline,
		MatchingStart: start,
		MatchingEnd:   end,
		MinTeamSize:   req.MinTeamSize,
		MaxTeamSize:   req.MaxTeamSize,
	}, ""
}

// Handler handles project HTTP endpoints.
type Handler struct {
	repo   *Repository
	logger *zap.Logger
}

// NewHandler creates a projects handler.
func NewHandler(repo *Repository, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// Create handles POST /projects (admin only).
func (h *Handler) Create(c *gin.Context) {
	var req ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	p, msg := req.toModel()
	if msg != "" {
		response.BadRequest(c, msg)
		return
	}
	if err := h.repo.Create(c.Request.Context(), p); err != nil {
		h.logger.Error("create project failed", zap.Error(err))
		response.Internal(c, "failed to create project")
		return
	}
	response.Created(c, p)
}

// List handles GET /projects.
func (h *Handler) List(c *gin.Context) {
	list, err := h.repo.List(c.Request.Context())
	if err != nil {
		response.Internal(c, "failed to list projects")
		return
	}
	response.OK(c, list)
}

// GetByID handles GET /projects/:id.
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid project id")
		return
	}
	p, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "project not found")
		return
	}
	response.OK(c, p)
}

// ListMine handles GET /projects/mine: projects the caller participates in.
func (h *Handler) ListMine(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	list, err := h.repo.ListByParticipant(c.Request.Context(), userID)
	if err != nil {
		response.Internal(c, "failed to list projects")
		return
	}
	response.OK(c, list)
}

// Update handles PUT /projects/:id (admin only).
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid project id")
		return
	}
	var req ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	p, msg := req.toModel()
	if msg != "" {
		response.BadRequest(c, msg)
		return
	}
	p.ID = id
	if err := h.repo.Update(c.Request.Context(), p); err != nil {
		response.NotFound(c, "project not found")
		return
	}
	response.OK(c, p)
}

// Delete handles DELETE /projects/:id (admin only). Cascades to
// participations, teams and applications.
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid project id")
		return
	}
	deleted, err := h.repo.Delete(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("delete project failed", zap.Error(err), zap.String("project_id", id.String()))
		response.Internal(c, "failed to delete project")
		return
	}
	if !deleted {
		response.NotFound(c, "project not found")
		return
	}
	response.NoContent(c)
}
