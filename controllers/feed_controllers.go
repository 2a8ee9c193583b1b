package controllers

import (
	"net/http"

	"github.com/VitalijsFilipovs/booking-bot/hub"
	"github.com/VitalijsFilipovs/booking-bot/middlewares"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type FeedController struct {
	Hub *hub.Hub
}

func NewFeedController(feed *hub.Hub) *FeedController {
	return &FeedController{Hub: feed}
}

// Feed upgrades an authenticated staff request to a websocket and keeps
// it registered until the client goes away.
func (fc *FeedController) Feed(c *gin.Context) {
	actor := middlewares.ActorFrom(c)
	if actor.UserID == 0 {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	fc.Hub.Register(ws, actor.UserID)

	// clients only listen, reads detect the disconnect
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}
	fc.Hub.Unregister(ws)
}
