package http

import "github.com/labstack/echo/v4"

// Handlers bundles every API handler
type Handlers struct {
	Activity *ActivityHandler
	DayPlan  *DayPlanHandler
	Task     *TaskHandler
	Note     *NoteHandler
	Journal  *JournalHandler
}

// Register mounts the API routes on g
func (h *Handlers) Register(g *echo.Group) {
	g.GET("/current-activity", h.Activity.GetCurrentActivity)
	g.PUT("/current-activity/set-page", h.Activity.SetPage)

	dayplans := g.Group("/dayplans")
	dayplans.GET("", h.DayPlan.ListDayPlans)
	dayplans.POST("", h.DayPlan.CreateDayPlan)
	dayplans.GET("/current", h.DayPlan.GetCurrentDayPlan)
	dayplans.POST("/sync", h.DayPlan.SyncDayPlans)
	dayplans.PUT("/:id", h.DayPlan.UpdateDayPlan)
	dayplans.PATCH("/:id", h.DayPlan.UpdateDayPlan)
	dayplans.DELETE("/:id", h.DayPlan.DeleteDayPlan)

	tasks := g.Group("/tasks")
	tasks.POST("", h.Task.CreateTask)
	tasks.GET("/incomplete", h.Task.ListIncompleteTasks)
	tasks.PUT("/reorder", h.Task.ReorderTasks)
	tasks.GET("/:id", h.Task.GetTask)
	tasks.DELETE("/:id", h.Task.DeleteTask)
	tasks.POST("/:id/extend", h.Task.ExtendTask)
	tasks.PUT("/:id/decrement-time", h.Task.DecrementTime)
	tasks.GET("/:id/total-time", h.Task.GetTotalTime)
	tasks.GET("/:id/time-remaining", h.Task.GetTimeRemaining)

	g.POST("/reminders", h.Note.CreateReminder)
	g.GET("/reminders", h.Note.ListReminders)
	g.POST("/goals", h.Note.CreateGoal)
	g.GET("/goals", h.Note.ListGoals)
	g.GET("/notes/latest", h.Note.GetLatestNotes)

	g.POST("/journals", h.Journal.CreateJournal)
	g.GET("/journals", h.Journal.ListJournals)
	g.GET("/journals/:id", h.Journal.GetJournal)
}
