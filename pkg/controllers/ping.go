package controllers

import (
	"net/http"
	"time"

	"github.com/Art-Code2025/perfumes-sub001/pkg/util"

	"github.com/gin-gonic/gin"
)

// Ping is the storefront liveness probe.
func Ping(c *gin.Context) {
	util.HandleSuccess(c, http.StatusOK, "storefront up", gin.H{
		"serverTime": time.Now().UTC(),
	})
}
