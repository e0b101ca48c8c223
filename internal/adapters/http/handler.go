package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/randomtoy/raas-go/internal/app"
	"github.com/randomtoy/raas-go/internal/domain"
)

const maxQuestionLen = 500

type Handler struct {
	svc *app.ReadingService
}

func NewHandler(svc *app.ReadingService) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Register(e *echo.Echo) {
	e.GET("/healthz", h.Healthz)
	e.POST("/v1/readings", h.CreateReading)
	e.POST("/v1/draws", h.CreateDraw)
	e.GET("/v1/readers/:alias", h.GetReader)
	e.POST("/v1/logs", h.LogReading)
	e.GET("/v1/analytics", h.Analytics)
}

func (h *Handler) Healthz(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (h *Handler) CreateReading(c echo.Context) error {
	var req ReadingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid JSON body"})
	}
	if len(req.Question) > maxQuestionLen {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "question must be at most 500 characters"})
	}

	resp, err := h.svc.Reading(c.Request().Context(), app.ReadingRequest{
		ReaderAlias: req.ReaderAlias,
		Question:    req.Question,
		SpreadType:  req.Spread,
		UserID:      req.UserID,
		History:     req.History,
	})
	if err != nil {
		return mapError(c, err)
	}

	requestID, _ := c.Get("request_id").(string)

	return c.JSON(http.StatusOK, ReadingResponse{
		Reader: ReaderResp{
			Alias:   resp.Reader.Alias,
			Name:    resp.Reader.Name,
			Tagline: resp.Reader.Tagline,
		},
		Message:  resp.Text,
		Degraded: resp.Degraded,
		Spread:   string(resp.Draw.Spread),
		Cards:    toCardResponses(resp.Draw),
		Meta: MetaResp{
			Model:     resp.Model,
			RequestID: requestID,
			LatencyMS: resp.LatencyMS,
		},
	})
}

func (h *Handler) CreateDraw(c echo.Context) error {
	var req DrawRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid JSON body"})
	}

	draw, err := h.svc.Draw(c.Request().Context(), app.DrawRequest{
		ReaderAlias: req.ReaderAlias,
		SpreadType:  req.Spread,
	})
	if err != nil {
		return mapError(c, err)
	}

	return c.JSON(http.StatusOK, DrawResponse{
		Spread: string(draw.Spread),
		Cards:  toCardResponses(draw),
	})
}

func (h *Handler) GetReader(c echo.Context) error {
	alias := c.Param("alias")

	reader, stats, err := h.svc.ReaderProfile(c.Request().Context(), alias)
	if err != nil {
		return mapError(c, err)
	}

	statResps := make([]CardStatResp, len(stats))
	for i, st := range stats {
		statResps[i] = CardStatResp{
			CardID:    st.CardID,
			CardName:  st.CardName,
			ImageURL:  st.ImageURL,
			DrawCount: st.DrawCount,
			LastDrawn: st.LastDrawn.Format(time.RFC3339),
		}
	}

	return c.JSON(http.StatusOK, ReaderProfileResponse{
		Reader: ReaderResp{
			Alias:   reader.Alias,
			Name:    reader.Name,
			Tagline: reader.Tagline,
		},
		Stats: statResps,
	})
}

func (h *Handler) LogReading(c echo.Context) error {
	var req LogRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid JSON body"})
	}

	err := h.svc.LogReading(c.Request().Context(), domain.ReadingRecord{
		ReaderAlias: req.ReaderAlias,
		UserID:      req.UserID,
		Question:    req.Question,
		SpreadType:  req.Spread,
		CardNames:   req.CardNames,
		Response:    req.Response,
	})
	if err != nil {
		return mapError(c, err)
	}

	return c.JSON(http.StatusOK, LogResponse{Status: "ok"})
}

func (h *Handler) Analytics(c echo.Context) error {
	alias := c.QueryParam("reader_alias")

	if alias != "" {
		act, err := h.svc.Activity(c.Request().Context(), alias)
		if err != nil {
			return mapError(c, err)
		}
		return c.JSON(http.StatusOK, AnalyticsResponse{
			Stats: &ActivityResp{
				ReaderAlias: act.ReaderAlias,
				Readings24h: act.Readings24h,
				Users24h:    act.Users24h,
			},
		})
	}

	trending, err := h.svc.Trending(c.Request().Context())
	if err != nil {
		return mapError(c, err)
	}
	resp := AnalyticsResponse{Trending: make([]ActivityResp, len(trending))}
	for i, act := range trending {
		resp.Trending[i] = ActivityResp{
			ReaderAlias: act.ReaderAlias,
			Readings24h: act.Readings24h,
			Users24h:    act.Users24h,
		}
	}
	return c.JSON(http.StatusOK, resp)
}

func toCardResponses(draw domain.Draw) []CardResponse {
	cards := make([]CardResponse, len(draw.Cards))
	for i, dc := range draw.Cards {
		cards[i] = CardResponse{
			ID:       dc.ID,
			Name:     dc.Name,
			Position: dc.Position,
			Label:    dc.Label,
			ImageURL: dc.ImageURL,
			Meaning:  dc.Meaning,
		}
	}
	return cards
}

func mapError(c echo.Context, err error) error {
	requestID, _ := c.Get("request_id").(string)

	switch {
	case errors.Is(err, domain.ErrReaderNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrMissingAlias),
		errors.Is(err, domain.ErrEmptyQuestion),
		errors.Is(err, domain.ErrInvalidSpread),
		errors.Is(err, domain.ErrInvalidDrawCount):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrDeckTooSmall):
		slog.Error("deck unavailable", "request_id", requestID, "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	default:
		slog.Error("internal error", "request_id", requestID, "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
