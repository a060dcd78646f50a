package handlers

import (
  "errors"
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/yungbote/fincoach-backend/internal/logger"
  "github.com/yungbote/fincoach-backend/internal/services"
)

type RecommendationHandler struct {
  log    *logger.Logger
  recSvc services.RecommendationService
}

func NewRecommendationHandler(log *logger.Logger, recSvc services.RecommendationService) *RecommendationHandler {
  return &RecommendationHandler{
    log:    log.With("handler", "RecommendationHandler"),
    recSvc: recSvc,
  }
}

// POST /api/recommendations/:userID/assemble
// Runs the full pipeline and returns the assembled set. A user who has not
// opted in gets the disclaimer-only empty set, not an error.
func (h *RecommendationHandler) Assemble(c *gin.Context) {
  userID, err := uuid.Parse(c.Param("userID"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_user_id", errors.New("userID must be a uuid"))
    return
  }
  var input services.AssembleInput
  if err := c.ShouldBindJSON(&input); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_body", err)
    return
  }
  set, err := h.recSvc.Assemble(c.Request.Context(), userID, input)
  if err != nil {
    h.log.Error("Assemble failed", "user_id", userID, "error", err)
    RespondError(c, http.StatusInternalServerError, "assemble_failed", err)
    return
  }
  RespondOK(c, set.ToDict())
}

// POST /api/recommendations/:userID/education
// Education-only path: personalize and rank without offers.
func (h *RecommendationHandler) Education(c *gin.Context) {
  userID, err := uuid.Parse(c.Param("userID"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_user_id", errors.New("userID must be a uuid"))
    return
  }
  var input services.AssembleInput
  if err := c.ShouldBindJSON(&input); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_body", err)
    return
  }
  recs, err := h.recSvc.PersonalizeEducation(c.Request.Context(), userID, input)
  if err != nil {
    h.log.Error("Education personalization failed", "user_id", userID, "error", err)
    RespondError(c, http.StatusInternalServerError, "personalize_failed", err)
    return
  }
  RespondOK(c, gin.H{"user_id": userID, "recommendations": recs})
}

// GET /api/recommendations/:userID/latest?time_window=30d
func (h *RecommendationHandler) GetLatest(c *gin.Context) {
  userID, err := uuid.Parse(c.Param("userID"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_user_id", errors.New("userID must be a uuid"))
    return
  }
  timeWindow := c.DefaultQuery("time_window", "30d")
  set, err := h.recSvc.GetLatest(c.Request.Context(), userID, timeWindow)
  if err != nil {
    h.log.Error("GetLatest failed", "user_id", userID, "error", err)
    RespondError(c, http.StatusInternalServerError, "get_latest_failed", err)
    return
  }
  if set == nil {
    RespondError(c, http.StatusNotFound, "not_found", errors.New("no recommendation set for user and window"))
    return
  }
  RespondOK(c, set.ToDict())
}

// GET /api/recommendations/:userID?time_window=30d
// Lists persisted sets newest-first; time_window is optional.
func (h *RecommendationHandler) GetAll(c *gin.Context) {
  userID, err := uuid.Parse(c.Param("userID"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_user_id", errors.New("userID must be a uuid"))
    return
  }
  sets, err := h.recSvc.GetAll(c.Request.Context(), userID, c.Query("time_window"))
  if err != nil {
    h.log.Error("GetAll failed", "user_id", userID, "error", err)
    RespondError(c, http.StatusInternalServerError, "get_all_failed", err)
    return
  }
  dicts := make([]map[string]any, 0, len(sets))
  for _, set := range sets {
    dicts = append(dicts, set.ToDict())
  }
  RespondOK(c, gin.H{"user_id": userID, "sets": dicts})
}
