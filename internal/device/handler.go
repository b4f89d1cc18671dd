package device

import (
	"net/http"

	ws "github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Authenticator resolves an access token to the customer it was issued for.
type Authenticator func(token string) (uuid.UUID, error)

// Handler upgrades GET /ws?token=<access token> and runs the connection
// until the app disconnects.
func (g *Gateway) Handler(auth Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := auth(r.URL.Query().Get("token"))
		if err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		conn, err := ws.Accept(w, r, &ws.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			g.logger.Warn("device accept", zap.Error(err))
			return
		}
		defer conn.CloseNow()

		NewClient(g, conn, userID).Run(r.Context())
	}
}
