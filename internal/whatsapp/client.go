package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"farm-catalog/internal/config"
	"farm-catalog/internal/models"

	"go.uber.org/zap"
)

const sendTimeout = 5 * time.Second

// Client sends text messages through the WhatsApp Cloud API. It is used to
// alert the farm number whenever a visitor submits an inquiry.
type Client struct {
	baseURL string
	token   string
	phoneID string
	notify  string
	http    *http.Client
	log     *zap.Logger
}

func NewClient(cfg *config.Config, log *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.WhatsAppAPIURL, "/"),
		token:   cfg.WhatsAppToken,
		phoneID: cfg.PhoneNumberID,
		notify:  cfg.WhatsAppNumber,
		http:    &http.Client{Timeout: sendTimeout},
		log:     log,
	}
}

// --- Message Structures ---

type GenericMessage struct {
	MessagingProduct string   `json:"messaging_product"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	RecipientType    string   `json:"recipient_type,omitempty"`
	Text             *TextObj `json:"text,omitempty"`
}

type TextObj struct {
	Body       string `json:"body"`
	PreviewUrl bool   `json:"preview_url,omitempty"`
}

func (c *Client) sendRequest(ctx context.Context, method, url string, body interface{}) ([]byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return respBody, fmt.Errorf("API error: %s - %s", resp.Status, string(respBody))
	}
	return respBody, nil
}

func (c *Client) SendMessage(ctx context.Context, to, body string) error {
	msg := GenericMessage{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "text",
		Text:             &TextObj{Body: body},
	}
	url := fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneID)
	_, err := c.sendRequest(ctx, http.MethodPost, url, msg)
	return err
}

// NotifyInquiry alerts the farm number about a new inquiry. Failures are
// logged and never reach the visitor.
func (c *Client) NotifyInquiry(ctx context.Context, inq *models.Inquiry, productName string) {
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	if err := c.SendMessage(ctx, c.notify, InquiryText(inq, productName)); err != nil {
		c.log.Warn("whatsapp inquiry alert failed", zap.Uint("inquiry_id", inq.ID), zap.Error(err))
		return
	}
	c.log.Info("whatsapp inquiry alert sent", zap.Uint("inquiry_id", inq.ID))
}

// InquiryText renders the alert body.
func InquiryText(inq *models.Inquiry, productName string) string {
	var b strings.Builder
	b.WriteString("New inquiry")
	if productName != "" {
		fmt.Fprintf(&b, " about %s", productName)
	}
	fmt.Fprintf(&b, "\nFrom: %s <%s>", inq.Name, inq.Email)
	if inq.Phone != "" {
		fmt.Fprintf(&b, "\nPhone: %s", inq.Phone)
	}
	if inq.Message != "" {
		fmt.Fprintf(&b, "\n\n%s", inq.Message)
	}
	return b.String()
}
