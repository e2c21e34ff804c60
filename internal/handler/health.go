package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/stain603/industrial-inventory-manager/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	statusUp       = "connected"
	statusDown     = "error"
	statusDisabled = "disabled"
)

type healthCheck struct {
	name string
	ping func(ctx context.Context) error // nil when the component is not configured
}

// Health checks the database and, when configured, Redis. A disabled
// component never fails the check. With Redis up it also reports how many
// e-mail jobs sit in the dead letter queue.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	checks := []healthCheck{{name: "db", ping: func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}}}
	redisCheck := healthCheck{name: "redis"}
	if rdb != nil {
		redisCheck.ping = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	checks = append(checks, redisCheck)
	dialect := db.Dialector.Name()

	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		body := gin.H{"dialect": dialect}
		healthy := true
		for _, chk := range checks {
			switch {
			case chk.ping == nil:
				body[chk.name] = statusDisabled
			case chk.ping(ctx) != nil:
				body[chk.name] = statusDown
				healthy = false
			default:
				body[chk.name] = statusUp
			}
		}
		body["ok"] = healthy
		if rdb != nil && body["redis"] == statusUp {
			if n, err := worker.DLQLength(ctx, rdb, worker.QueueEmail); err == nil {
				body["dead_letters"] = n
			}
		}

		status := http.StatusOK
		if !healthy {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, body)
	}
}
