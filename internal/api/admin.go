package api

import (
	"context"
	"errors"
	"math"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"farm-catalog/internal/config"
	"farm-catalog/internal/models"
	"farm-catalog/internal/store"
	"farm-catalog/internal/uploads"
	"farm-catalog/internal/ws"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	recentEventsLimit = 500
	maxUploadMemory   = 32 << 20
	statusLen         = 20
)

var mediaTypes = []string{models.MediaVideo, models.MediaImage}

type AdminHandler struct {
	pages   renderer
	log     *zap.Logger
	store   *store.Store
	uploads *uploads.Storage
	feed    Broadcaster
	strict  bool
}

func NewAdminHandler(cfg *config.Config, log *zap.Logger, st *store.Store, up *uploads.Storage, feed Broadcaster) *AdminHandler {
	return &AdminHandler{
		pages:   renderer{whatsappNumber: cfg.WhatsAppNumber},
		log:     log,
		store:   st,
		uploads: up,
		feed:    feed,
		strict:  cfg.StrictValidation,
	}
}

func (h *AdminHandler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()
	products, err := h.store.CountProducts(ctx)
	if err != nil {
		h.pages.serverError(c, h.log, "count products", err)
		return
	}
	inquiries, err := h.store.CountInquiries(ctx)
	if err != nil {
		h.pages.serverError(c, h.log, "count inquiries", err)
		return
	}
	fresh, err := h.store.CountInquiriesByStatus(ctx, models.InquiryStatusNew)
	if err != nil {
		h.pages.serverError(c, h.log, "count new inquiries", err)
		return
	}
	h.pages.html(c, http.StatusOK, "admin/dashboard.html", gin.H{
		"Title":          "Dashboard",
		"ProductsCount":  products,
		"InquiriesCount": inquiries,
		"NewInquiries":   fresh,
	})
}

func (h *AdminHandler) Products(c *gin.Context) {
	products, err := h.store.ListProducts(c.Request.Context())
	if err != nil {
		h.pages.serverError(c, h.log, "list products", err)
		return
	}
	h.pages.html(c, http.StatusOK, "admin/products.html", gin.H{"Title": "Products", "Products": products})
}

// productForm keeps the submitted values so a rejected form can be re-rendered.
type productForm struct {
	Name        string
	Description string
	Category    string
	Price       string
}

func (f productForm) parse(strict bool) (*models.Product, string) {
	if f.Name == "" {
		return nil, "Name is required"
	}
	if f.Category == "" {
		return nil, "Category is required"
	}
	if strict && !slices.Contains(models.Categories, f.Category) {
		return nil, "Category must be ram or bean"
	}

	price := 0.0
	if f.Price != "" {
		p, err := strconv.ParseFloat(f.Price, 64)
		if err != nil || math.IsNaN(p) || math.IsInf(p, 0) {
			return nil, "Price must be a number"
		}
		price = p
	}
	return models.NewProduct(f.Name, f.Description, f.Category, &price), ""
}

func (h *AdminHandler) NewProductForm(c *gin.Context) {
	h.pages.html(c, http.StatusOK, "admin/new_product.html", gin.H{
		"Title": "New product",
		"Form":  productForm{Category: models.CategoryRam},
	})
}

func (h *AdminHandler) CreateProduct(c *gin.Context) {
	form := productForm{
		Name:        strings.TrimSpace(c.PostForm("name")),
		Description: c.PostForm("description"),
		Category:    strings.TrimSpace(c.PostForm("category")),
		Price:       strings.TrimSpace(c.PostForm("price")),
	}
	product, problem := form.parse(h.strict)
	if problem != "" {
		h.pages.html(c, http.StatusBadRequest, "admin/new_product.html", gin.H{
			"Title": "New product",
			"Form":  form,
			"Error": problem,
		})
		return
	}

	if err := h.store.CreateProduct(c.Request.Context(), product); err != nil {
		h.pages.serverError(c, h.log, "create product", err)
		return
	}
	h.log.Info("product created", zap.Uint("product_id", product.ID), zap.String("category", product.Category))
	h.feed.Publish(ws.EventProductUpdated, product)
	redirect(c, "/admin/products")
}

func (h *AdminHandler) UploadMedia(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := paramID(c)
	if !ok {
		h.pages.notFound(c)
		return
	}
	exists, err := h.store.ProductExists(ctx, id)
	if err != nil {
		h.pages.serverError(c, h.log, "load product", err)
		return
	}
	if !exists {
		h.pages.notFound(c)
		return
	}

	if err := c.Request.ParseMultipartForm(maxUploadMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		h.log.Warn("upload form unreadable", zap.Error(err))
	}
	fh, err := c.FormFile("file")
	if err != nil || fh.Filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file"})
		return
	}

	mediaType := strings.TrimSpace(c.PostForm("media_type"))
	if mediaType == "" {
		mediaType = models.MediaVideo
	}
	if h.strict && !slices.Contains(mediaTypes, mediaType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid media type"})
		return
	}

	stored, err := h.uploads.Save(fh)
	if errors.Is(err, uploads.ErrEmptyFile) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file"})
		return
	}
	if err != nil {
		h.log.Error("store upload", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
		return
	}

	media := &models.Media{
		ProductID: id,
		MediaType: mediaType,
		FilePath:  stored.RelPath,
		MimeType:  stored.MimeType,
		FileSize:  stored.Size,
	}
	if err := h.store.CreateMedia(ctx, media); err != nil {
		h.log.Error("create media", zap.Error(err))
		h.removeFile(ctx, stored.RelPath)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save media"})
		return
	}

	h.log.Info("media uploaded",
		zap.Uint("product_id", id),
		zap.String("path", stored.RelPath),
		zap.String("mime", stored.MimeType),
		zap.Int64("size", stored.Size),
	)
	h.feed.Publish(ws.EventMediaUploaded, media)
	redirect(c, "/admin/products")
}

func (h *AdminHandler) ToggleProduct(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := paramID(c)
	if !ok {
		h.pages.notFound(c)
		return
	}
	product, err := h.store.ProductByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		h.pages.notFound(c)
		return
	}
	if err != nil {
		h.pages.serverError(c, h.log, "load product", err)
		return
	}

	updated, err := h.store.SetProductActive(ctx, id, !product.IsActive)
	if err != nil {
		h.pages.serverError(c, h.log, "toggle product", err)
		return
	}
	h.feed.Publish(ws.EventProductUpdated, updated)
	redirect(c, "/admin/products")
}

func (h *AdminHandler) DeleteProduct(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		h.pages.notFound(c)
		return
	}
	removed, err := h.store.DeleteProduct(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		h.pages.notFound(c)
		return
	}
	if err != nil {
		h.pages.serverError(c, h.log, "delete product", err)
		return
	}

	for _, m := range removed {
		h.removeFile(c.Request.Context(), m.FilePath)
	}
	h.log.Info("product deleted", zap.Uint("product_id", id), zap.Int("media", len(removed)))
	h.feed.Publish(ws.EventProductDeleted, gin.H{"id": id})
	redirect(c, "/admin/products")
}

func (h *AdminHandler) DeleteMedia(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		h.pages.notFound(c)
		return
	}
	media, err := h.store.DeleteMedia(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		h.pages.notFound(c)
		return
	}
	if err != nil {
		h.pages.serverError(c, h.log, "delete media", err)
		return
	}
	h.removeFile(c.Request.Context(), media.FilePath)
	redirect(c, "/admin/products")
}

// removeFile deletes an upload once no media row points at it. Failures leave a
// stray file and are only logged.
func (h *AdminHandler) removeFile(ctx context.Context, rel string) {
	n, err := h.store.CountMediaByPath(ctx, rel)
	if err != nil {
		h.log.Warn("count media by path", zap.String("path", rel), zap.Error(err))
		return
	}
	if n > 0 {
		h.log.Debug("upload still in use", zap.String("path", rel), zap.Int64("rows", n))
		return
	}
	if err := h.uploads.Remove(rel); err != nil {
		h.log.Warn("remove upload", zap.String("path", rel), zap.Error(err))
	}
}

func (h *AdminHandler) Inquiries(c *gin.Context) {
	inquiries, err := h.store.ListInquiries(c.Request.Context())
	if err != nil {
		h.pages.serverError(c, h.log, "list inquiries", err)
		return
	}
	h.pages.html(c, http.StatusOK, "admin/inquiries.html", gin.H{"Title": "Inquiries", "Inquiries": inquiries})
}

func (h *AdminHandler) UpdateInquiryStatus(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		h.pages.notFound(c)
		return
	}
	status := strings.TrimSpace(c.PostForm("status"))
	if status == "" {
		status = models.InquiryStatusNew
	}
	status = truncate(status, statusLen)

	err := h.store.UpdateInquiryStatus(c.Request.Context(), id, status)
	if errors.Is(err, store.ErrNotFound) {
		h.pages.notFound(c)
		return
	}
	if err != nil {
		h.pages.serverError(c, h.log, "update inquiry status", err)
		return
	}
	redirect(c, "/admin/inquiries")
}

func (h *AdminHandler) Analytics(c *gin.Context) {
	events, err := h.store.RecentEvents(c.Request.Context(), recentEventsLimit)
	if err != nil {
		h.pages.serverError(c, h.log, "list analytics events", err)
		return
	}
	h.pages.html(c, http.StatusOK, "admin/analytics.html", gin.H{"Title": "Analytics", "Events": events})
}
