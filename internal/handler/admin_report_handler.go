package handler

import (
	"bookstore/internal/middleware"
	"bookstore/internal/usecase"
	"bookstore/internal/web"

	"github.com/labstack/echo/v4"
)

// ダッシュボードと売上レポート
type AdminReportHandler struct {
	uc *usecase.ReportUsecase
}

func NewAdminReportHandler(uc *usecase.ReportUsecase) *AdminReportHandler {
	return &AdminReportHandler{uc: uc}
}

func (h *AdminReportHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/dashboard", h.dashboard)
	g.GET("/reports", h.reports)
	g.POST("/daily_sales_report", h.dailySales)
}

func (h *AdminReportHandler) dashboard(c echo.Context) error {
	d, err := h.uc.Dashboard(c.Request().Context(), middleware.IdentityFrom(c))
	if err != nil {
		ae, ok := usecase.AsAppError(err)
		if !ok || ae.Kind != usecase.KindPersistence {
			return fail(c, err, "/")
		}
		//DB障害はダッシュボード自身には戻せないのでその場で出す
		web.AddFlash(c, web.LevelDanger, ae.Notice)
	}
	return render(c, "admin_dashboard", "Dashboard", d)
}

func (h *AdminReportHandler) reports(c echo.Context) error {
	r, err := h.uc.Reports(c.Request().Context(), middleware.IdentityFrom(c))
	if err != nil {
		return fail(c, err, "/admin/dashboard")
	}
	return render(c, "reports", "Reports", r)
}

func (h *AdminReportHandler) dailySales(c echo.Context) error {
	d, err := h.uc.DailySales(c.Request().Context(), middleware.IdentityFrom(c), c.FormValue("report_date"))
	if err != nil {
		return fail(c, err, "/admin/reports")
	}
	web.AddFlash(c, web.LevelInfo, d.Notice())
	return redirect(c, "/admin/reports")
}
