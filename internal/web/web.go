// Package web serves the embedded single-page UI.
package web

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed static
var staticFS embed.FS

// Register mounts the UI at the root path.
func Register(router *gin.Engine) {
	index, err := fs.ReadFile(staticFS, "static/index.html")
	if err != nil {
		panic("web: embedded index.html missing: " + err.Error())
	}

	router.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", index)
	})
}
