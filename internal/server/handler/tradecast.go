package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/alanyoungcy/tradecast/internal/domain"
	"github.com/alanyoungcy/tradecast/internal/format"
	"github.com/alanyoungcy/tradecast/internal/service"
)

// FeedService defines the methods that the tradecast handler requires from the
// service layer. It is declared locally so the handler package does not depend
// on the concrete service implementation.
type FeedService interface {
	Casts(ctx context.Context, query string, limit int) ([]domain.TradeCast, error)
}

// TradeCastHandler serves the feed endpoints.
type TradeCastHandler struct {
	feed   FeedService
	logger *slog.Logger
}

// NewTradeCastHandler creates a TradeCastHandler with the given service and logger.
func NewTradeCastHandler(feed FeedService, logger *slog.Logger) *TradeCastHandler {
	return &TradeCastHandler{
		feed:   feed,
		logger: logHandler(logger, "tradecast"),
	}
}

type listCastsResponse struct {
	Casts []domain.TradeCast `json:"casts"`
}

// ListTradeCasts returns the recent casts for a token query.
// GET /api/tradecasts?token=degen&limit=2
func (h *TradeCastHandler) ListTradeCasts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	token := strings.TrimSpace(q.Get("token"))
	if token == "" {
		writeError(w, http.StatusBadRequest, "Missing token parameter")
		return
	}
	limit := service.ParseLimit(q.Get("limit"))

	casts, err := h.feed.Casts(r.Context(), token, limit)
	if err != nil {
		if errors.Is(err, domain.ErrMissingToken) {
			writeError(w, http.StatusBadRequest, "Missing token parameter")
			return
		}
		attrs := []any{
			slog.String("token", token),
			slog.Int("limit", limit),
			slog.String("error", err.Error()),
		}
		var fetchErr *domain.FetchError
		if errors.As(err, &fetchErr) {
			attrs = append(attrs,
				slog.String("upstream_url", fetchErr.URL),
				slog.Int("upstream_status", fetchErr.StatusCode),
			)
		}
		h.logger.ErrorContext(r.Context(), "handler: load tradecasts failed", attrs...)
		writeError(w, http.StatusInternalServerError, "Failed to load tradecasts")
		return
	}
	if casts == nil {
		casts = []domain.TradeCast{}
	}

	writeJSON(w, http.StatusOK, listCastsResponse{Casts: casts})
}

// CastText composes the share copy for a trade.
// GET /api/tradecasts/text?direction=buy&amount=1500&symbol=degen&network=base&usd=12.5
func (h *TradeCastHandler) CastText(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	direction := domain.TradeDirection(strings.ToLower(strings.TrimSpace(q.Get("direction"))))
	if direction != domain.DirectionBuy && direction != domain.DirectionSell {
		writeError(w, http.StatusBadRequest, "direction must be buy or sell")
		return
	}
	symbol := strings.TrimSpace(q.Get("symbol"))
	if symbol == "" {
		writeError(w, http.StatusBadRequest, "Missing symbol parameter")
		return
	}
	network := strings.TrimSpace(q.Get("network"))
	if network == "" {
		network = "base"
	}

	amount, err := parseFloatParam(q.Get("amount"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "amount must be a number")
		return
	}
	usd, err := parseFloatParam(q.Get("usd"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "usd must be a number")
		return
	}

	text := format.CastText(
		domain.PairMeta{TokenSymbol: symbol, Network: network},
		domain.Trade{Direction: direction, AmountToken: amount, AmountUSD: usd},
	)
	writeJSON(w, http.StatusOK, map[string]string{"text": text})
}

// parseFloatParam treats an absent value as zero.
func parseFloatParam(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseFloat(raw, 64)
}
