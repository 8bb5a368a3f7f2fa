package handlers

import (
	"context"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"krona/internal/shared/errors"
	"krona/internal/shared/logger"
	"krona/internal/shared/utils"
)

// maintenanceJob is a batch use case runnable outside the scheduler.
type maintenanceJob interface {
	Execute(ctx context.Context) (int, error)
}

// JobHandler triggers the scheduled maintenance jobs on demand. Manual runs
// execute synchronously so the operator sees the affected row count; the
// scheduler's Redis lease is not taken here.
type JobHandler struct {
	jobs   map[string]maintenanceJob
	logger logger.Interface
}

func NewJobHandler(
	cleanupAssignmentsUC maintenanceJob,
	expireTransactionsUC maintenanceJob,
	notifyExpiringUC maintenanceJob,
	expireSubscriptionsUC maintenanceJob,
) *JobHandler {
	return &JobHandler{
		jobs: map[string]maintenanceJob{
			"assignment-cleanup":  cleanupAssignmentsUC,
			"transaction-expiry":  expireTransactionsUC,
			"expiring-notice":     notifyExpiringUC,
			"subscription-expiry": expireSubscriptionsUC,
		},
		logger: logger.NewLogger(),
	}
}

func (h *JobHandler) ListJobs(c *gin.Context) {
	names := make([]string, 0, len(h.jobs))
	for name := range h.jobs {
		names = append(names, name)
	}
	sort.Strings(names)

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{"jobs": names})
}

func (h *JobHandler) RunJob(c *gin.Context) {
	name := c.Param("name")

	job, ok := h.jobs[name]
	if !ok {
		utils.ErrorResponseWithError(c, errors.NewNotFoundError("job not found", name))
		return
	}

	count, err := job.Execute(c.Request.Context())
	if err != nil {
		h.logger.Errorw("manual job run failed", "job", name, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	h.logger.Infow("manual job run completed", "job", name, "count", count)
	utils.SuccessResponse(c, http.StatusOK, "", gin.H{"job": name, "count": count})
}
