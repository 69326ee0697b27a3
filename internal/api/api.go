// Package api serves read-only JSON views over the warzish store.
package api

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/usman-wf/warzish-sub000/internal/apperr"
	"github.com/usman-wf/warzish-sub000/internal/service"
)

// Handler holds the dependencies shared by all route handlers.
type Handler struct {
	db  *sql.DB
	loc *time.Location
	now func() time.Time
}

func NewHandler(db *sql.DB, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.Local
	}
	return &Handler{db: db, loc: loc, now: time.Now}
}

// Router builds the gin engine with every route registered.
func (h *Handler) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())
	_ = router.SetTrustedProxies(nil)
	h.registerRoutes(router)
	return router
}

func (h *Handler) registerRoutes(router *gin.Engine) {
	router.GET("/health", h.health)
	router.GET("/foods", h.listFoods)
	router.GET("/days/:date", h.getDay)
	router.GET("/range", h.getRange)
	router.GET("/plans/:plan/nutrition", h.getPlanNutrition)
	router.GET("/goals/active", h.getActiveGoal)
	router.GET("/goals/:id/status", h.getGoalStatus)
	router.GET("/targets/current", h.getCurrentTarget)
	router.GET("/targets/recommended", h.getRecommendedTarget)
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logrus.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		}).Debug("api request")
	}
}

// apiError returns a consistent JSON error response: {"error": "message"}.
func apiError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// fail maps store errors onto status codes.
func fail(c *gin.Context, err error) {
	var ve *apperr.ValidationError
	var nf *apperr.NotFoundError
	switch {
	case errors.As(err, &ve):
		apiError(c, http.StatusBadRequest, ve.Error())
	case errors.As(err, &nf):
		apiError(c, http.StatusNotFound, nf.Error())
	default:
		logrus.WithError(err).WithField("path", c.Request.URL.Path).Error("api request failed")
		apiError(c, http.StatusInternalServerError, "internal error")
	}
}

func (h *Handler) health(c *gin.Context) {
	if err := h.db.PingContext(c.Request.Context()); err != nil {
		apiError(c, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) listFoods(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			apiError(c, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	foods, err := service.ListFoods(h.db, service.ListFoodsFilter{Query: c.Query("q"), Limit: limit})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, foods)
}

func (h *Handler) parseDay(c *gin.Context, raw string) (time.Time, bool) {
	if raw == "" || raw == "today" {
		return h.now().In(h.loc), true
	}
	day, err := time.ParseInLocation("2006-01-02", raw, h.loc)
	if err != nil {
		apiError(c, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return time.Time{}, false
	}
	return day, true
}

func (h *Handler) getDay(c *gin.Context) {
	day, ok := h.parseDay(c, c.Param("date"))
	if !ok {
		return
	}
	report, err := service.DaySummary(h.db, day, h.loc)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) getRange(c *gin.Context) {
	from, ok := h.parseDay(c, c.Query("from"))
	if !ok {
		return
	}
	to, ok := h.parseDay(c, c.Query("to"))
	if !ok {
		return
	}
	report, err := service.AnalyticsRange(h.db, from, to, h.loc, 0.10)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) getPlanNutrition(c *gin.Context) {
	plan, summary, err := service.PlanNutrition(h.db, c.Param("plan"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plan": plan, "nutrition": summary})
}

func (h *Handler) getActiveGoal(c *gin.Context) {
	g, err := service.ActiveGoal(h.db)
	if err != nil {
		fail(c, err)
		return
	}
	if g == nil {
		apiError(c, http.StatusNotFound, "no active goal")
		return
	}
	h.writeGoalStatus(c, g.ID)
}

func (h *Handler) getGoalStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		apiError(c, http.StatusBadRequest, "goal id must be a positive integer")
		return
	}
	h.writeGoalStatus(c, id)
}

func (h *Handler) writeGoalStatus(c *gin.Context, id int64) {
	status, err := service.Status(h.db, id, h.now())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

func (h *Handler) getCurrentTarget(c *gin.Context) {
	target, err := service.CurrentTarget(h.db, c.Query("date"), h.loc)
	if err != nil {
		fail(c, err)
		return
	}
	if target == nil {
		apiError(c, http.StatusNotFound, "no target set")
		return
	}
	c.JSON(http.StatusOK, target)
}

func (h *Handler) getRecommendedTarget(c *gin.Context) {
	rec, err := service.Recommendation(h.db)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}
