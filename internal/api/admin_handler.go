package api

import (
	"net/http"

	"alcyxob/portfolio-api/internal/service"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	gate *service.AdminGate
}

func NewAdminHandler(gate *service.AdminGate) *AdminHandler {
	return &AdminHandler{gate: gate}
}

type VerifyAdminRequest struct {
	Password string `json:"password" form:"password"`
}

// VerifyAdmin handles POST /api/verify-admin. It only answers whether the
// password is right and never fails; a malformed body is simply not valid.
func (h *AdminHandler) VerifyAdmin(c *gin.Context) {
	var req VerifyAdminRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusOK, gin.H{"valid": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": h.gate.Check(req.Password)})
}
