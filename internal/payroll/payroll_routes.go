package payroll

import (
	"go-fleetpay/internal/middleware"
	"go-fleetpay/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	rdb *redis.Client,
	logger *zap.Logger,
) {
	payrolls := r.Group("/payrolls")
	{
		payrolls.POST("/draft", middleware.RBACAuthorize(rbacService, "payroll", rbac.ActionCreate), handler.Draft)
		payrolls.POST("/draft/deductions", middleware.RBACAuthorize(rbacService, "payroll", rbac.ActionCreate), handler.EditDeductions)
		if rdb != nil {
			payrolls.POST(
				"/settle",
				middleware.Idempotency(rdb, logger),
				middleware.RBACAuthorize(rbacService, "payroll", rbac.ActionSettle),
				handler.Settle,
			)
		} else {
			payrolls.POST("/settle", middleware.RBACAuthorize(rbacService, "payroll", rbac.ActionSettle), handler.Settle)
		}

		payrolls.GET("", middleware.RBACAuthorize(rbacService, "payroll", rbac.ActionRead), handler.GetAll)
		payrolls.GET("/totals", middleware.RBACAuthorize(rbacService, "payroll", rbac.ActionRead), handler.Totals)
		payrolls.GET("/:id", middleware.RBACAuthorize(rbacService, "payroll", rbac.ActionRead), handler.GetByID)
		payrolls.GET("/:id/statement.xlsx", middleware.RBACAuthorize(rbacService, "payroll", rbac.ActionRead), handler.Statement(FormatXLSX))
		payrolls.GET("/:id/statement.pdf", middleware.RBACAuthorize(rbacService, "payroll", rbac.ActionRead), handler.Statement(FormatPDF))
	}
}
