package controllers

import (
	"context"
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// UpdateHandler processes one Telegram update.
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update tgbotapi.Update)
}

type WebhookController struct {
	Handler UpdateHandler
	Secret  string
	Timeout time.Duration
	Log     logrus.FieldLogger
}

func NewWebhookController(handler UpdateHandler, secret string, log logrus.FieldLogger) *WebhookController {
	return &WebhookController{Handler: handler, Secret: secret, Timeout: 30 * time.Second, Log: log}
}

// Receive accepts updates on /webhook/:secret. Anything that reaches the
// handler is acknowledged with 200 so Telegram does not redeliver it.
func (wc *WebhookController) Receive(c *gin.Context) {
	if subtle.ConstantTimeCompare([]byte(c.Param("secret")), []byte(wc.Secret)) != 1 {
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	var update tgbotapi.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		wc.Log.WithError(err).Warn("dropping malformed update")
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}

	// Telegram may hang up before we finish, the update is handled anyway.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), wc.Timeout)
	defer cancel()
	wc.Handler.HandleUpdate(ctx, update)

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
