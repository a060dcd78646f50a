package handlers

import (
  "errors"
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/yungbote/fincoach-backend/internal/logger"
  "github.com/yungbote/fincoach-backend/internal/services"
)

type EvaluationHandler struct {
  log     *logger.Logger
  evalSvc services.EvaluationService
}

func NewEvaluationHandler(log *logger.Logger, evalSvc services.EvaluationService) *EvaluationHandler {
  return &EvaluationHandler{
    log:     log.With("handler", "EvaluationHandler"),
    evalSvc: evalSvc,
  }
}

type evaluationRequest struct {
  Users []services.EvaluationUser `json:"users"`
  Runs  int                       `json:"runs"`
}

// POST /api/evaluation/run
// Operator endpoint: runs the pipeline sequentially over the given users and
// returns latency statistics. Per-user failures are recorded in the report,
// never surfaced as a 5xx.
func (h *EvaluationHandler) Run(c *gin.Context) {
  var req evaluationRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_body", err)
    return
  }
  if len(req.Users) == 0 {
    RespondError(c, http.StatusBadRequest, "empty_batch", errors.New("users must be non-empty"))
    return
  }
  report := h.evalSvc.RunBatch(c.Request.Context(), req.Users, req.Runs)
  h.log.Info("Evaluation batch complete",
    "users", report.Users,
    "runs", report.Runs,
    "failures", report.Failures,
    "p95_latency_ms", report.P95LatencyMS)
  RespondOK(c, report)
}
