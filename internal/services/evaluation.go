package services

import (
  "context"
  "fmt"
  "math"
  "sort"
  "time"
  "github.com/google/uuid"
  "github.com/yungbote/fincoach-backend/internal/assembly"
  "github.com/yungbote/fincoach-backend/internal/eligibility"
  "github.com/yungbote/fincoach-backend/internal/logger"
)

// EvaluationUser is one user in a performance batch.
type EvaluationUser struct {
  UserID uuid.UUID     `json:"user_id"`
  Input  AssembleInput `json:"input"`
}

// UserLatency is recorded for every user in every run, including failed ones.
type UserLatency struct {
  UserID    string `json:"user_id"`
  Run       int    `json:"run"`
  LatencyMS int64  `json:"latency_ms"`
  Err       string `json:"error,omitempty"`
}

// EvaluationReport is the post-hoc latency statistic over a batch.
type EvaluationReport struct {
  Runs           int           `json:"runs"`
  Users          int           `json:"users"`
  Failures       int           `json:"failures"`
  MeanLatencyMS  float64       `json:"mean_latency_ms"`
  P95LatencyMS   int64         `json:"p95_latency_ms"`
  MaxLatencyMS   int64         `json:"max_latency_ms"`
  OverBudget     int           `json:"over_budget"`
  RunVarianceMS  float64       `json:"run_variance_ms"`
  Latencies      []UserLatency `json:"latencies"`
}

// EvaluationService validates the latency budget over repeated sequential
// runs. Runs are strictly one-after-another; variance is a post-hoc
// statistic, not a runtime control.
type EvaluationService interface {
  RunBatch(ctx context.Context, users []EvaluationUser, runs int) EvaluationReport
}

type evaluationService struct {
  log       *logger.Logger
  assembler *assembly.Assembler
}

func NewEvaluationService(log *logger.Logger, assembler *assembly.Assembler) EvaluationService {
  return &evaluationService{
    log:       log.With("service", "EvaluationService"),
    assembler: assembler,
  }
}

func (es *evaluationService) RunBatch(ctx context.Context, users []EvaluationUser, runs int) EvaluationReport {
  if runs <= 0 {
    runs = 1
  }
  report := EvaluationReport{Runs: runs, Users: len(users)}
  perRunMeans := make([]float64, 0, runs)

  for run := 1; run <= runs; run++ {
    var runTotal int64
    for _, user := range users {
      latency, err := es.evaluateOne(ctx, user)
      entry := UserLatency{
        UserID:    user.UserID.String(),
        Run:       run,
        LatencyMS: latency.Milliseconds(),
      }
      if err != nil {
        // Timing is recorded even on failure; the batch continues.
        entry.Err = err.Error()
        report.Failures++
        es.log.Error("Per-user evaluation failed", "user_id", user.UserID, "run", run, "error", err)
      }
      if latency > assembly.LatencyBudget {
        report.OverBudget++
      }
      runTotal += entry.LatencyMS
      report.Latencies = append(report.Latencies, entry)
    }
    if len(users) > 0 {
      perRunMeans = append(perRunMeans, float64(runTotal)/float64(len(users)))
    }
  }

  finalizeReport(&report, perRunMeans)
  return report
}

func (es *evaluationService) evaluateOne(ctx context.Context, user EvaluationUser) (latency time.Duration, err error) {
  started := time.Now()
  defer func() {
    latency = time.Since(started)
    if r := recover(); r != nil {
      err = fmt.Errorf("panic during evaluation: %v", r)
    }
  }()
  es.assembler.Assemble(ctx, assembly.Request{
    UserID:             user.UserID.String(),
    PersonaID:          user.Input.PersonaID,
    Signals:            user.Input.Signals,
    Summary:            user.Input.Summary,
    UserAttrs:          eligibility.AttrsFromMap(user.Input.UserAttrs),
    UserData:           user.Input.UserData,
    TimeWindow:         user.Input.TimeWindow,
    ExcludedContentIDs: user.Input.ExcludedContentIDs,
    ExcludedOfferIDs:   user.Input.ExcludedOfferIDs,
    IncludeOffers:      true,
  })
  return 0, nil
}

func finalizeReport(report *EvaluationReport, perRunMeans []float64) {
  if len(report.Latencies) == 0 {
    return
  }
  values := make([]int64, 0, len(report.Latencies))
  var total int64
  for _, entry := range report.Latencies {
    values = append(values, entry.LatencyMS)
    total += entry.LatencyMS
  }
  sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })
  report.MeanLatencyMS = float64(total) / float64(len(values))
  report.MaxLatencyMS = values[len(values)-1]
  p95Index := int(math.Ceil(0.95*float64(len(values)))) - 1
  if p95Index < 0 {
    p95Index = 0
  }
  report.P95LatencyMS = values[p95Index]

  if len(perRunMeans) > 1 {
    var mean float64
    for _, m := range perRunMeans {
      mean += m
    }
    mean /= float64(len(perRunMeans))
    var variance float64
    for _, m := range perRunMeans {
      variance += (m - mean) * (m - mean)
    }
    report.RunVarianceMS = variance / float64(len(perRunMeans))
  }
}
