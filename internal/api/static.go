package api

import (
	"io"
	"net/http"
	"strings"

	"github.com/confinedspacecoach/coachbot/web"
	"github.com/gin-gonic/gin"
)

// SetupStaticRoutes serves the embedded widget front-end
func SetupStaticRoutes(r *gin.Engine) {
	r.GET("/", func(c *gin.Context) {
		serveAsset(c, "index.html")
	})
	r.GET("/widget.js", func(c *gin.Context) {
		serveAsset(c, "widget.js")
	})
	r.GET("/style.css", func(c *gin.Context) {
		serveAsset(c, "style.css")
	})
}

func serveAsset(c *gin.Context, filename string) {
	file, err := web.Assets.Open("public/" + filename)
	if err != nil {
		c.String(http.StatusNotFound, "File not found")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		c.String(http.StatusInternalServerError, "Failed to read file")
		return
	}

	contentType := "text/html; charset=utf-8"
	if strings.HasSuffix(filename, ".js") {
		contentType = "application/javascript"
	} else if strings.HasSuffix(filename, ".css") {
		contentType = "text/css"
	}

	c.Data(http.StatusOK, contentType, content)
}
