package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/mediavault/pkg/scheduler"
)

type schedulerKey struct{}

// SchedulerMiddleware injects the scheduler so the jobs endpoints can expose
// its state.
func SchedulerMiddleware(sched *scheduler.Scheduler) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.WithValue(c.Request.Context(), schedulerKey{}, sched)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// GetScheduler pulls the scheduler back out of a request context.
func GetScheduler(c *gin.Context) *scheduler.Scheduler {
	if sched, ok := c.Request.Context().Value(schedulerKey{}).(*scheduler.Scheduler); ok {
		return sched
	}

	return nil
}
