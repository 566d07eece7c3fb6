package app

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/moodtrack/core/internal/pkg/response"
	"github.com/moodtrack/core/internal/pkg/taskqueue"
)

func (a *App) listJobs(c *gin.Context) {
	response.OK(c, a.sched.List())
}

func (a *App) runJob(c *gin.Context) {
	name := c.Param("name")
	if err := a.sched.Run(name); err != nil {
		response.NotFoundMsg(c, err.Error())
		return
	}
	response.OK(c, gin.H{"status": "triggered", "name": name})
}

func (a *App) listTasks(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}

	var status *taskqueue.TaskStatus
	if raw := c.Query("status"); raw != "" {
		s := taskqueue.TaskStatus(raw)
		status = &s
	}
	var taskType *string
	if raw := c.Query("type"); raw != "" {
		taskType = &raw
	}

	tasks, total, err := a.tasks.List(c.Request.Context(), page, size, taskType, status)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"data": tasks, "total": total})
}
