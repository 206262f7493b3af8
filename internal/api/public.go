package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"farm-catalog/internal/analytics"
	"farm-catalog/internal/auth"
	"farm-catalog/internal/config"
	"farm-catalog/internal/models"
	"farm-catalog/internal/store"
	"farm-catalog/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/cast"
	"go.uber.org/zap"
)

const (
	homeLimit    = 6
	maxJSONBody  = 1 << 20
	maxFormBody  = 1 << 20
	eventNameLen = 100
	pathLen      = 255
)

type PublicHandler struct {
	pages        renderer
	log          *zap.Logger
	store        *store.Store
	metadata     *analytics.Validator
	feed         Broadcaster
	notifier     InquiryNotifier
	validate     *validator.Validate
	showInactive bool
	strict       bool
}

func NewPublicHandler(cfg *config.Config, log *zap.Logger, st *store.Store, metadata *analytics.Validator, feed Broadcaster, notifier InquiryNotifier) *PublicHandler {
	return &PublicHandler{
		pages:        renderer{whatsappNumber: cfg.WhatsAppNumber},
		log:          log,
		store:        st,
		metadata:     metadata,
		feed:         feed,
		notifier:     notifier,
		validate:     validator.New(),
		showInactive: cfg.ShowInactiveProducts,
		strict:       cfg.StrictValidation,
	}
}

func (h *PublicHandler) Home(c *gin.Context) {
	ctx := c.Request.Context()
	rams, err := h.store.LatestActive(ctx, models.CategoryRam, homeLimit)
	if err != nil {
		h.pages.serverError(c, h.log, "load rams", err)
		return
	}
	beans, err := h.store.LatestActive(ctx, models.CategoryBean, homeLimit)
	if err != nil {
		h.pages.serverError(c, h.log, "load beans", err)
		return
	}
	h.pages.html(c, http.StatusOK, "home.html", gin.H{"Rams": rams, "Beans": beans})
}

func (h *PublicHandler) ProductDetail(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		h.pages.notFound(c)
		return
	}
	product, err := h.store.ProductByID(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		h.pages.notFound(c)
		return
	}
	if err != nil {
		h.pages.serverError(c, h.log, "load product", err)
		return
	}
	if !product.IsActive && !h.showInactive {
		if _, admin := auth.IdentityFrom(c.Request.Context()); !admin {
			h.pages.notFound(c)
			return
		}
	}
	h.pages.html(c, http.StatusOK, "product_detail.html", gin.H{"Title": product.Name, "Product": product})
}

type inquiryInput struct {
	Name    string `validate:"required,max=255"`
	Email   string `validate:"required,email,max=255"`
	Phone   string `validate:"max=50"`
	Message string `validate:"required"`
}

// CreateInquiry stores whatever the visitor sent. Outside strict mode it
// never rejects a submission.
func (h *PublicHandler) CreateInquiry(c *gin.Context) {
	ctx := c.Request.Context()
	payload := h.inquiryPayload(c)

	input := inquiryInput{
		Name:    text(payload["name"]),
		Email:   text(payload["email"]),
		Phone:   text(payload["phone"]),
		Message: text(payload["message"]),
	}
	if h.strict {
		if err := h.validate.Struct(input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
			return
		}
	}

	inq := &models.Inquiry{
		Name:    input.Name,
		Email:   input.Email,
		Phone:   input.Phone,
		Message: input.Message,
	}

	var productName string
	if id, ok := productRef(payload["product_id"]); ok {
		product, err := h.store.ProductByID(ctx, id)
		switch {
		case err == nil:
			inq.ProductID = &product.ID
			productName = product.Name
		case errors.Is(err, store.ErrNotFound):
			h.log.Info("inquiry references unknown product", zap.Uint("product_id", id))
		default:
			h.log.Error("load inquiry product", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Failed to save inquiry"})
			return
		}
	}

	if err := h.store.CreateInquiry(ctx, inq); err != nil {
		h.log.Error("create inquiry", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Failed to save inquiry"})
		return
	}

	h.feed.Publish(ws.EventInquiryCreated, inq)
	c.JSON(http.StatusOK, gin.H{"ok": true})

	if h.notifier != nil {
		go h.notifier.NotifyInquiry(context.WithoutCancel(ctx), inq, productName)
	}
}

// inquiryPayload reads a JSON object or a form body. Anything unreadable
// counts as an empty submission.
func (h *PublicHandler) inquiryPayload(c *gin.Context) map[string]any {
	payload := map[string]any{}
	if strings.HasPrefix(c.ContentType(), gin.MIMEJSON) {
		dec := json.NewDecoder(io.LimitReader(c.Request.Body, maxJSONBody))
		dec.UseNumber()
		if err := dec.Decode(&payload); err != nil {
			h.log.Debug("inquiry body is not a JSON object", zap.Error(err))
			return map[string]any{}
		}
		return payload
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxFormBody)
	if err := c.Request.ParseMultipartForm(maxFormBody); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		h.log.Debug("inquiry form unreadable", zap.Error(err))
	}
	for key, values := range c.Request.PostForm {
		if len(values) > 0 {
			payload[key] = values[0]
		}
	}
	return payload
}

type analyticsPayload struct {
	EventName any             `json:"event_name"`
	Path      any             `json:"path"`
	Metadata  json.RawMessage `json:"metadata"`
}

// TrackAnalytics appends one event per call whatever the body holds.
func (h *PublicHandler) TrackAnalytics(c *gin.Context) {
	ctx := c.Request.Context()

	var payload analyticsPayload
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxJSONBody))
	if err == nil && len(body) > 0 {
		if err := json.Unmarshal(body, &payload); err != nil {
			h.log.Debug("analytics body is not a JSON object", zap.Error(err))
			payload = analyticsPayload{}
		}
	}

	metadata, err := analytics.Normalize(payload.Metadata)
	if err != nil {
		metadata = "null"
	}
	if err := h.metadata.Validate(ctx, metadata); err != nil {
		if h.strict {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
			return
		}
		h.log.Warn("analytics metadata rejected by schema", zap.Error(err))
	}

	event := &models.AnalyticsEvent{
		EventName: truncate(text(payload.EventName), eventNameLen),
		Path:      truncate(text(payload.Path), pathLen),
		Metadata:  metadata,
	}
	if err := h.store.CreateEvent(ctx, event); err != nil {
		h.log.Error("create analytics event", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Failed to record event"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// productRef accepts a positive integer as number or numeric string.
func productRef(v any) (uint, bool) {
	switch t := v.(type) {
	case nil:
		return 0, false
	case json.Number:
		v = t.String()
	case string:
		if strings.TrimSpace(t) == "" {
			return 0, false
		}
	}
	id, err := cast.ToUintE(v)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// text turns a submitted scalar into a string. Missing and falsy values
// (null, false, numeric zero) become empty.
func text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case bool:
		if !t {
			return ""
		}
	case float64:
		if t == 0 {
			return ""
		}
	case json.Number:
		if f, err := t.Float64(); err == nil && f == 0 {
			return ""
		}
		return t.String()
	case map[string]any, []any:
		return ""
	}
	return cast.ToString(v)
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
