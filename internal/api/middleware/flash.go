package middleware

import (
	"encoding/gob"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/princeprakhar/bookmind/pkg/logger"
)

const (
	FlashSuccess = "success"
	FlashError   = "danger"
	FlashWarning = "warning"
	FlashInfo    = "info"
)

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Message  string
	Category string
}

func init() {
	gob.Register(Flash{})
}

func AddFlash(c *gin.Context, message, category string) {
	session := sessions.Default(c)
	session.AddFlash(Flash{Message: message, Category: category})
	if err := session.Save(); err != nil {
		logger.WithError(err).Warn("failed to save flash")
	}
}

// PopFlashes returns and clears the pending messages.
func PopFlashes(c *gin.Context) []Flash {
	session := sessions.Default(c)
	raw := session.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := session.Save(); err != nil {
		logger.WithError(err).Warn("failed to clear flashes")
	}

	flashes := make([]Flash, 0, len(raw))
	for _, item := range raw {
		if flash, ok := item.(Flash); ok {
			flashes = append(flashes, flash)
		}
	}
	return flashes
}
