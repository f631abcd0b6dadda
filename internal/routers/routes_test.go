package routers

import (
	"testing"

	"github.com/Art-Code2025/perfumes-sub001/internal/container"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func routeSet(router *gin.Engine) map[string]bool {
	set := map[string]bool{}
	for _, r := range router.Routes() {
		set[r.Method+" "+r.Path] = true
	}
	return set
}

func TestUploadIsReachableWithoutAdminAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	registerRoutes(router, &container.ServiceContainer{})

	routes := routeSet(router)
	// Shoppers upload attachment images with only a cart session; deleting
	// an uploaded image stays an admin operation.
	assert.True(t, routes["POST /v1/uploads"])
	assert.False(t, routes["POST /v1/admin/uploads"])
	assert.True(t, routes["DELETE /v1/admin/uploads"])
}
