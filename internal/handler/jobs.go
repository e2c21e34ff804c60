package handler

import (
	"net/http"

	"github.com/stain603/industrial-inventory-manager/internal/apierror"
	"github.com/stain603/industrial-inventory-manager/internal/dto"
	"github.com/stain603/industrial-inventory-manager/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const defaultDeadLetterLimit = 50

// JobsHandler exposes the background job queues for operators.
type JobsHandler struct {
	rdb *redis.Client
}

// NewJobsHandler takes the queue client; nil means jobs run inline and there
// is no queue to inspect.
func NewJobsHandler(rdb *redis.Client) *JobsHandler {
	return &JobsHandler{rdb: rdb}
}

// DeadLetters godoc
// @Summary List e-mail jobs that exhausted their retries, newest first
// @Tags jobs
// @Produce json
// @Param limit query int false "Max entries (default 50)"
// @Success 200 {object} dto.DeadLetterListResponse
// @Failure 503 {object} apierror.APIError
// @Router /jobs/dead-letters [get]
func (h *JobsHandler) DeadLetters(c *gin.Context) {
	if h.rdb == nil {
		c.JSON(http.StatusServiceUnavailable, apierror.New("job queue is disabled"))
		return
	}
	var f dto.DeadLetterFilter
	if !bindQueryAndValidate(c, &f) {
		return
	}
	if f.Limit == 0 {
		f.Limit = defaultDeadLetterLimit
	}

	ctx := c.Request.Context()
	total, err := worker.DLQLength(ctx, h.rdb, worker.QueueEmail)
	if err != nil {
		_ = c.Error(err)
		return
	}
	entries, err := worker.DLQEntries(ctx, h.rdb, worker.QueueEmail, f.Limit)
	if err != nil {
		_ = c.Error(err)
		return
	}

	resp := dto.DeadLetterListResponse{
		Queue: worker.QueueEmail,
		Total: total,
		Items: make([]dto.DeadLetterResponse, 0, len(entries)),
	}
	for _, e := range entries {
		resp.Items = append(resp.Items, dto.DeadLetterResponse{
			Queue:    e.OriginalQueue,
			JobType:  e.JobType,
			Payload:  e.Payload,
			Reason:   e.Reason,
			Attempts: e.Attempts,
			FailedAt: e.FailedAt,
		})
	}
	c.JSON(http.StatusOK, resp)
}
