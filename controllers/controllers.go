package controllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// fail writes the uniform error response. Every error raised while
// processing a request — client mistake or infrastructure failure —
// comes out as a 400 with the error's string description.
func fail(c *gin.Context, err error) {
	log.Printf("request failed: %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"msg":     err.Error(),
	})
}

// ok writes a bare success response
func ok(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true})
}
