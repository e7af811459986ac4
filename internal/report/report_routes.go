package report

import (
	"go-fleetpay/internal/middleware"
	"go-fleetpay/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	reports := r.Group("/reports")
	{
		reports.GET("/drivers", middleware.RBACAuthorize(rbacService, "report", rbac.ActionRead), handler.Drivers)
		reports.GET("/statistics", middleware.RBACAuthorize(rbacService, "report", rbac.ActionRead), handler.Statistics)
	}
}
