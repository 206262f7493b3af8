package api

import (
	"net/http"

	"farm-catalog/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

// renderer fills the values every page expects before executing a template.
type renderer struct {
	whatsappNumber string
}

func (p renderer) html(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["WhatsAppNumber"] = p.whatsappNumber
	data["CSRFField"] = csrf.TemplateField(c.Request)
	if id, ok := auth.IdentityFrom(c.Request.Context()); ok {
		data["Admin"] = id
	}
	c.HTML(status, name, data)
}

func (p renderer) notFound(c *gin.Context) {
	p.html(c, http.StatusNotFound, "not_found.html", gin.H{"Title": "Not found"})
}

func (p renderer) serverError(c *gin.Context, log *zap.Logger, msg string, err error) {
	log.Error(msg, zap.Error(err), zap.String("path", c.Request.URL.Path))
	p.html(c, http.StatusInternalServerError, "error.html", gin.H{"Title": "Error"})
}
