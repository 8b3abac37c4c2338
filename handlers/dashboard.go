package handlers

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"almoner/config"
	"almoner/database"
	"almoner/middleware"
	"almoner/models"
	"almoner/segment"
)

// WebSocket message envelope
type WSMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type ErrorData struct {
	Error string `json:"error"`
}

type DashboardStats struct {
	DonorCount    int                       `json:"donor_count"`
	TotalDonated  float64                   `json:"total_donated"`
	ActiveDonors  int                       `json:"active_donors"`
	Campaigns     []models.CampaignResponse `json:"campaigns"`
	GroupCounts   []GroupCount              `json:"group_counts"`
	GeneratedAt   time.Time                 `json:"generated_at"`
}

type GroupCount struct {
	GroupID    int    `json:"group_id"`
	Name       string `json:"name"`
	Color      string `json:"color"`
	DonorCount int    `json:"donor_count"`
}

// buildDashboardStats assembles the analytics snapshot. Group counts are
// derived by the filter engine over the live donor list.
func buildDashboardStats() (*DashboardStats, error) {
	var donors []models.Donor
	if result := database.DB.Find(&donors); result.Error != nil {
		return nil, result.Error
	}

	stats := &DashboardStats{
		DonorCount:  len(donors),
		GeneratedAt: time.Now(),
	}
	for _, d := range donors {
		stats.TotalDonated += d.TotalDonated
		if d.Status == models.DonorStatusActive {
			stats.ActiveDonors++
		}
	}

	var campaigns []models.Campaign
	if result := database.DB.Order("created_at DESC").Find(&campaigns); result.Error != nil {
		return nil, result.Error
	}
	stats.Campaigns = make([]models.CampaignResponse, len(campaigns))
	for i, camp := range campaigns {
		stats.Campaigns[i] = camp.ToResponse()
	}

	groups, err := groupRegistry.List()
	if err != nil {
		logrus.WithError(err).Warn("custom group store unreadable, charting built-ins only")
		groups = segment.BuiltinGroups()
	}
	stats.GroupCounts = make([]GroupCount, len(groups))
	for i := range groups {
		stats.GroupCounts[i] = GroupCount{
			GroupID:    groups[i].ID,
			Name:       groups[i].Name,
			Color:      groups[i].Color,
			DonorCount: segment.CountDonors(donors, &groups[i]),
		}
	}

	return stats, nil
}

// GetDashboard returns the analytics snapshot (admin only)
func GetDashboard(c *fiber.Ctx) error {
	stats, err := buildDashboardStats()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to build dashboard",
		})
	}
	return c.JSON(stats)
}

// DashboardWebSocketUpgrade is middleware to upgrade HTTP to WebSocket.
// The browser websocket API cannot set headers, so the JWT arrives as a
// query parameter.
func DashboardWebSocketUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		tokenString := c.Query("token")
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Token required",
			})
		}

		cfg := config.GetConfig()
		token, err := jwt.ParseWithClaims(tokenString, &middleware.Claims{}, func(token *jwt.Token) (interface{}, error) {
			return []byte(cfg.JWTSecret), nil
		})

		if err != nil || !token.Valid {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token",
			})
		}

		claims, ok := token.Claims.(*middleware.Claims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token claims",
			})
		}

		// The live feed is admin surface, same gate as the REST dashboard
		if claims.Role != "admin" && !cfg.AdminEmailSet()[strings.ToLower(claims.Email)] {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Admin access required",
			})
		}

		c.Locals("userID", claims.UserID)
		c.Locals("username", claims.Username)

		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// wsConn is the writer-side surface of *websocket.Conn.
type wsConn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// DashboardWebSocket streams dashboard snapshots until the client hangs
// up. The client may send "ping" to check liveness.
func DashboardWebSocket(c *websocket.Conn) {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	done := make(chan struct{})
	pings := make(chan struct{}, 1)

	// Reader: watch for pings and disconnects. The connection allows only
	// one concurrent writer, so pings are handed to the writer loop
	// instead of being answered here.
	go func() {
		defer close(done)
		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				return
			}
			var in WSMessage
			if err := json.Unmarshal(msg, &in); err != nil {
				continue
			}
			if in.Type == "ping" {
				select {
				case pings <- struct{}{}:
				default:
				}
			}
		}
	}()

	// First snapshot immediately, then on every tick
	if !pushStats(c) {
		return
	}
	streamDashboard(c, ticker.C, pings, done)
}

// streamDashboard is the sole writer for a dashboard connection.
func streamDashboard(c wsConn, ticks <-chan time.Time, pings, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case <-pings:
			sendWSMessage(c, "pong", nil)
		case <-ticks:
			if !pushStats(c) {
				return
			}
		}
	}
}

func pushStats(c wsConn) bool {
	stats, err := buildDashboardStats()
	if err != nil {
		sendWSError(c, "Failed to build dashboard")
		return false
	}
	sendWSMessage(c, "stats", stats)
	return true
}

func sendWSMessage(c wsConn, msgType string, data interface{}) {
	dataBytes, _ := json.Marshal(data)
	msg := WSMessage{
		Type: msgType,
		Data: dataBytes,
	}
	msgBytes, _ := json.Marshal(msg)
	c.WriteMessage(websocket.TextMessage, msgBytes)
}

func sendWSError(c wsConn, errMsg string) {
	sendWSMessage(c, "error", ErrorData{Error: errMsg})
	time.Sleep(100 * time.Millisecond)
	c.Close()
}
