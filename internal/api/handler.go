package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"dipbuyer/internal/bot"
	"dipbuyer/internal/domain/dto"
	"dipbuyer/internal/storage"
)

// StatusProvider exposes the live loop state; *bot.Bot satisfies it.
type StatusProvider interface {
	Snapshot() bot.Snapshot
}

// Handler provides HTTP handlers for the monitoring endpoints.
//
// Responsibilities:
//   - Translate the bot snapshot and journal rows into response DTOs
//   - Return structured JSON responses with appropriate HTTP status codes
//
// The API is informational only; nothing here feeds back into trading.
type Handler struct {
	status        StatusProvider
	journal       storage.BuybacksRepository // nil when the journal is disabled
	dipThreshold  float64
	spendFraction float64
}

// NewHandler constructs a Handler. journal may be nil.
func NewHandler(status StatusProvider, journal storage.BuybacksRepository, dipThreshold, spendFraction float64) *Handler {
	return &Handler{
		status:        status,
		journal:       journal,
		dipThreshold:  dipThreshold,
		spendFraction: spendFraction,
	}
}

// GetStatus handles GET /api/v1/status requests.
//
// Responses:
//   - 200 OK: current price, ATH, dip and strategy parameters.
func (h *Handler) GetStatus(c *gin.Context) {
	snap := h.status.Snapshot()

	resp := dto.StatusResponse{
		Mint:          snap.Mint,
		LastPrice:     snap.LastPrice,
		ATH:           snap.ATH,
		Dip:           snap.Dip,
		DipThreshold:  h.dipThreshold,
		SpendFraction: h.spendFraction,
		Cycles:        snap.Cycles,
		UpdatedAt:     snap.UpdatedAt,
	}
	if snap.LastBuyback != nil {
		resp.LastBuybackID = snap.LastBuyback.ID
	}

	c.JSON(http.StatusOK, resp)
}

// GetBuybacks handles GET /api/v1/buybacks requests.
//
// Query Parameters:
//   - limit (int, optional): maximum rows to return, default 20, max 100.
//
// Responses:
//   - 200 OK: recent buybacks, newest first.
//   - 400 Bad Request: malformed limit.
//   - 503 Service Unavailable: journal not configured.
//   - 500 Internal Server Error: database failure.
func (h *Handler) GetBuybacks(c *gin.Context) {
	if h.journal == nil {
		c.JSON(http.StatusServiceUnavailable, dto.NewErrorResponse("buyback journal is not configured", nil))
		return
	}

	limit := 20
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, dto.NewErrorResponse("limit must be a positive integer", err))
			return
		}
		if n > 100 {
			n = 100
		}
		limit = n
	}

	rows, err := h.journal.ListRecent(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("failed to list buybacks", err))
		return
	}

	c.JSON(http.StatusOK, rows)
}
