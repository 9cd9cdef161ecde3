package ws

import (
	"net/http"

	"playhub/internal/domain"
	"playhub/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The SPA is served from arbitrary origins in development
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWSHandler upgrades HTTP requests to websocket connections and hands
// them to the hub. The credential is checked exactly once, here: a missing or
// invalid token leaves the connection anonymous rather than rejecting it.
func ServeWSHandler(hub *Hub, db *gorm.DB, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := resolveIdentity(c, db, jwtSecret) // Single verification attempt

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logrus.WithField("error", err.Error()).Warn("Websocket upgrade failed")
			return
		}

		client := NewClient(uuid.NewString(), hub, conn, identity)
		hub.Register(client)

		go client.WritePump()
		go client.ReadPump()
	}
}

// resolveIdentity maps the handshake token to a user, returning nil on any
// failure. The display name is captured at connect time.
func resolveIdentity(c *gin.Context, db *gorm.DB, jwtSecret string) *Identity {
	token := c.Query("token") // Token travels in the query string
	if token == "" {
		if cookie, err := c.Cookie("token"); err == nil {
			token = cookie
		}
	}
	if token == "" {
		return nil
	}
	claims, err := utils.ParseJWT(token, jwtSecret)
	if err != nil {
		return nil
	}
	var user domain.User // Confirm the user still exists and fetch the display name
	if err := db.First(&user, "id = ?", claims.UserID).Error; err != nil {
		return nil
	}
	name := user.DisplayName
	if name == "" {
		name = user.Username
	}
	return &Identity{UserID: user.ID, Username: name}
}
