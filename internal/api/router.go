package api

import (
	"context"
	"net/http"

	"farm-catalog/internal/analytics"
	"farm-catalog/internal/auth"
	"farm-catalog/internal/config"
	"farm-catalog/internal/logging"
	"farm-catalog/internal/models"
	"farm-catalog/internal/store"
	"farm-catalog/internal/uploads"
	"farm-catalog/internal/web"
	"farm-catalog/internal/ws"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Broadcaster pushes events to the admin live feed.
type Broadcaster interface {
	Publish(eventType string, data interface{})
}

// InquiryNotifier alerts the farm about a new inquiry. It is called on its own
// goroutine after the visitor has their response, so implementations must bound
// their own runtime and swallow their own errors.
type InquiryNotifier interface {
	NotifyInquiry(ctx context.Context, inq *models.Inquiry, productName string)
}

// Deps is everything the router needs. Notifier may be nil.
type Deps struct {
	Config   *config.Config
	Log      *zap.Logger
	Store    *store.Store
	Auth     *auth.Manager
	Uploads  *uploads.Storage
	Metadata *analytics.Validator
	Hub      *ws.Hub
	Notifier InquiryNotifier
}

func NewRouter(d Deps) (*gin.Engine, error) {
	tmpl, err := web.Templates()
	if err != nil {
		return nil, err
	}
	pages := renderer{whatsappNumber: d.Config.WhatsAppNumber}

	r := gin.New()
	r.Use(logging.RequestID(), logging.Requests(d.Log), logging.Recovery(d.Log), SecurityHeaders())
	r.SetHTMLTemplate(tmpl)
	r.Static("/static", d.Config.StaticDir)
	r.NoRoute(pages.notFound)
	r.Use(d.Auth.Identify())

	healthHandler := NewHealthHandler(d.Store)
	publicHandler := NewPublicHandler(d.Config, d.Log, d.Store, d.Metadata, d.Hub, d.Notifier)
	authHandler := NewAuthHandler(d.Config, d.Log, d.Auth)
	adminHandler := NewAdminHandler(d.Config, d.Log, d.Store, d.Uploads, d.Hub)

	r.GET("/healthz", healthHandler.Check)

	r.GET("/", publicHandler.Home)
	r.GET("/product/:id", publicHandler.ProductDetail)
	r.POST("/inquiry", publicHandler.CreateInquiry)
	r.POST("/analytics", publicHandler.TrackAnalytics)

	// Signed-out requests to protected pages go to the login form before any
	// CSRF check can reject them.
	var csrfGuard []gin.HandlerFunc
	if d.Config.CSRFEnabled {
		csrfGuard = append(csrfGuard, CSRF(d.Config.SecretKey, d.Config.CookieSecure))
	}
	adminGroup := r.Group("/admin")
	{
		login := adminGroup.Group("", csrfGuard...)
		login.GET("/login", authHandler.LoginForm)
		login.POST("/login", authHandler.Login)

		protected := adminGroup.Group("", append([]gin.HandlerFunc{d.Auth.RequireAdmin()}, csrfGuard...)...)
		protected.GET("/logout", authHandler.Logout)
		protected.GET("/", adminHandler.Dashboard)

		protected.GET("/products", adminHandler.Products)
		protected.GET("/products/new", adminHandler.NewProductForm)
		protected.POST("/products/new", adminHandler.CreateProduct)
		protected.POST("/products/:id/upload", adminHandler.UploadMedia)
		protected.POST("/products/:id/toggle", adminHandler.ToggleProduct)
		protected.POST("/products/:id/delete", adminHandler.DeleteProduct)
		protected.POST("/media/:id/delete", adminHandler.DeleteMedia)

		protected.GET("/inquiries", adminHandler.Inquiries)
		protected.POST("/inquiries/:id/status", adminHandler.UpdateInquiryStatus)
		protected.GET("/analytics", adminHandler.Analytics)

		protected.GET("/ws", func(c *gin.Context) {
			d.Hub.ServeWs(c.Writer, c.Request)
		})
	}

	return r, nil
}

// redirect answers 302, the status browsers follow with a GET after a form post.
func redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusFound, location)
}
