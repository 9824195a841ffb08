package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mr1hm/ward-risk-dashboard/internal/dashboard"
	"github.com/mr1hm/ward-risk-dashboard/internal/mapview"
	"github.com/mr1hm/ward-risk-dashboard/internal/metrics"
	"github.com/mr1hm/ward-risk-dashboard/internal/models"
	"github.com/mr1hm/ward-risk-dashboard/internal/notify"
	"github.com/mr1hm/ward-risk-dashboard/internal/session"
	"github.com/mr1hm/ward-risk-dashboard/internal/view"
	"github.com/mr1hm/ward-risk-dashboard/internal/wardstore"
)

// HealthChecker reports whether the flood backend is reachable.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Pinger reports whether the session database is usable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	Dashboard     *dashboard.Dashboard
	Sessions      *session.Manager
	Notifications *notify.Broadcaster
	Renderer      *view.Renderer
	Metrics       *metrics.Collector
	Upstream      HealthChecker
	Database      Pinger
	CookieSecure  bool
}

type Handler struct {
	dash         *dashboard.Dashboard
	sessions     *session.Manager
	broadcaster  *notify.Broadcaster
	renderer     *view.Renderer
	metrics      *metrics.Collector
	upstream     HealthChecker
	database     Pinger
	cookieSecure bool
}

func NewHandler(d Deps) *Handler {
	return &Handler{
		dash:         d.Dashboard,
		sessions:     d.Sessions,
		broadcaster:  d.Notifications,
		renderer:     d.Renderer,
		metrics:      d.Metrics,
		upstream:     d.Upstream,
		database:     d.Database,
		cookieSecure: d.CookieSecure,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.health)
	if h.metrics != nil {
		r.GET("/metrics", gin.WrapH(h.metrics.Handler()))
	}

	r.GET("/login", h.loginPage)
	r.POST("/auth/login", h.login)
	r.POST("/auth/logout", h.logout)

	r.GET("/", h.requireSession(true), h.index)

	api := r.Group("/api", h.requireSession(false))
	api.GET("/dashboard", h.getDashboard)
	api.GET("/dashboard/wards", h.getWards)
	api.GET("/dashboard/wards/:id", h.getWard)
	api.GET("/dashboard/priority", h.getPriority)
	api.GET("/dashboard/map", h.getMap)
	api.POST("/dashboard/refresh", h.refresh)
	api.POST("/dashboard/drainage", h.updateDrainage)
	api.GET("/dashboard/complaints", h.getComplaints)
	api.POST("/dashboard/complaints", h.submitComplaint)
	api.GET("/preferences/theme", h.getTheme)
	api.PUT("/preferences/theme", h.putTheme)
	api.GET("/notifications/ws", h.streamNotifications)
}

// health answers 200 even when a dependency is down; the body says which.
func (h *Handler) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	resp := gin.H{"status": "ok"}
	if h.database != nil {
		if err := h.database.Ping(ctx); err != nil {
			slog.Error("database ping failed", "error", err)
			resp["status"] = "degraded"
			resp["database"] = "unreachable"
		} else {
			resp["database"] = "ok"
		}
	}
	if h.upstream != nil {
		if err := h.upstream.Health(ctx); err != nil {
			resp["upstream"] = "unreachable"
		} else {
			resp["upstream"] = "ok"
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) index(c *gin.Context) {
	state, err := parseSort(c)
	if err != nil {
		state = wardstore.DefaultSortState()
	}
	wards, err := h.dash.Wards(state.Key, state.Order)
	if err != nil {
		writeError(c, err)
		return
	}

	sess := currentSession(c)
	theme, err := h.sessions.Theme(c.Request.Context(), sess.Username)
	if err != nil {
		theme = session.DefaultTheme
	}

	options, _ := h.dash.Wards(wardstore.SortByName, wardstore.Asc)
	page := view.DashboardPage{
		Username: sess.Username,
		Theme:    string(theme),
		Snapshot: h.dash.Snapshot(),
		Sort:     state,
		Rows:     view.NewRows(wards),
		Priority: view.NewRows(h.dash.Priority()),
		Options:  options,
		Markers:  mapview.Markers(h.dash.MapWards()),
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := h.renderer.Dashboard(c.Writer, page); err != nil {
		_ = c.Error(err)
	}
}

func (h *Handler) getDashboard(c *gin.Context) {
	c.JSON(http.StatusOK, h.dash.Snapshot())
}

func (h *Handler) getWards(c *gin.Context) {
	state, err := parseSort(c)
	if err != nil {
		writeError(c, err)
		return
	}
	wards, err := h.dash.Wards(state.Key, state.Order)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"sort":  state,
		"wards": wards,
	})
}

func (h *Handler) getWard(c *gin.Context) {
	detail, ok := h.dash.Ward(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "ward not found"})
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *Handler) getPriority(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"wards": h.dash.Priority()})
}

func (h *Handler) getMap(c *gin.Context) {
	fc := mapview.Markers(h.dash.MapWards())
	c.Header("Content-Type", "application/geo+json")
	c.JSON(http.StatusOK, fc)
}

func (h *Handler) refresh(c *gin.Context) {
	rep, err := h.dash.Refresh(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"report": rep,
			"error":  err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, rep)
}

func (h *Handler) updateDrainage(c *gin.Context) {
	var u models.DrainageUpdate
	if err := c.ShouldBindJSON(&u); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := h.dash.UpdateDrainage(c.Request.Context(), u); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.dash.Snapshot())
}

func (h *Handler) getComplaints(c *gin.Context) {
	complaints, err := h.dash.Complaints(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"complaints": complaints})
}

func (h *Handler) submitComplaint(c *gin.Context) {
	var s models.ComplaintSubmission
	if err := c.ShouldBindJSON(&s); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := h.dash.SubmitComplaint(c.Request.Context(), s); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "submitted"})
}

func parseSort(c *gin.Context) (wardstore.SortState, error) {
	key, err := wardstore.ParseSortKey(c.Query("sort"))
	if err != nil {
		return wardstore.SortState{}, err
	}
	order, err := wardstore.ParseOrder(c.Query("order"))
	if err != nil {
		return wardstore.SortState{}, err
	}
	return wardstore.SortState{Key: key, Order: order}, nil
}
