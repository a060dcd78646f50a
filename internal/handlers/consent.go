package handlers

import (
  "errors"
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/yungbote/fincoach-backend/internal/logger"
  "github.com/yungbote/fincoach-backend/internal/services"
)

type ConsentHandler struct {
  log        *logger.Logger
  consentSvc services.ConsentService
}

func NewConsentHandler(log *logger.Logger, consentSvc services.ConsentService) *ConsentHandler {
  return &ConsentHandler{
    log:        log.With("handler", "ConsentHandler"),
    consentSvc: consentSvc,
  }
}

// POST /api/consent/:userID
func (h *ConsentHandler) SetStatus(c *gin.Context) {
  userID, err := uuid.Parse(c.Param("userID"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_user_id", errors.New("userID must be a uuid"))
    return
  }
  var body struct {
    OptedIn bool `json:"opted_in"`
  }
  if err := c.ShouldBindJSON(&body); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_body", err)
    return
  }
  record, err := h.consentSvc.SetStatus(c.Request.Context(), userID, body.OptedIn)
  if err != nil {
    h.log.Error("SetStatus failed", "user_id", userID, "error", err)
    RespondError(c, http.StatusInternalServerError, "consent_update_failed", err)
    return
  }
  RespondOK(c, record)
}

// GET /api/consent/:userID
func (h *ConsentHandler) GetStatus(c *gin.Context) {
  userID, err := uuid.Parse(c.Param("userID"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_user_id", errors.New("userID must be a uuid"))
    return
  }
  status, err := h.consentSvc.GetStatus(c.Request.Context(), userID)
  if err != nil {
    h.log.Error("GetStatus failed", "user_id", userID, "error", err)
    RespondError(c, http.StatusInternalServerError, "consent_read_failed", err)
    return
  }
  RespondOK(c, gin.H{"user_id": userID, "status": status})
}
