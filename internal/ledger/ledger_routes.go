package ledger

import (
	"go-fleetpay/internal/middleware"
	"go-fleetpay/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	r.GET("/ledger/snapshot", middleware.RBACAuthorize(rbacService, "ledger", rbac.ActionRead), handler.Snapshot)
}
