package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/restomap/booking-backend/internal/config"
	"github.com/restomap/booking-backend/internal/repository"
	"github.com/restomap/booking-backend/internal/utils"
)

// AuthHandler bundles dependencies for the Telegram login endpoints.
type AuthHandler struct {
	Cfg     config.Config
	Members *repository.MemberRepo
}

func NewAuthHandler(cfg config.Config, m *repository.MemberRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Members: m}
}

// ----- DTOs -----

type refreshReq struct {
	Refresh string `json:"refresh"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type memberPart struct {
	ID         string `json:"id"`
	TelegramID int64  `json:"telegram_id"`
	Username   string `json:"username,omitempty"`
	FirstName  string `json:"first_name,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Role       string `json:"role"`
}
type authResp struct {
	Member  memberPart `json:"member"`
	Access  tokenPart  `json:"access"`
	Refresh tokenPart  `json:"refresh"`
}

// Login verifies a Telegram identity assertion and returns a token
// pair. Two request shapes share the endpoint, discriminated by field
// presence: a Mini App payload carries "init_data" (the raw signed
// init-data query string), a login-widget payload carries the widget's
// fields plus "hash". Each shape is verified by its own signature
// scheme. On first sight of a Telegram id a member row is created;
// verification failure never creates anything.
func (h *AuthHandler) Login(c echo.Context) error {
	var raw map[string]any
	if err := c.Bind(&raw); err != nil || len(raw) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	now := time.Now().UTC()
	var (
		tgUser utils.TelegramUser
		err    error
	)
	if initData, ok := raw["init_data"].(string); ok && initData != "" {
		tgUser, err = utils.VerifyWebAppInitData(initData, h.Cfg.BotToken, h.Cfg.TelegramMaxAge, now)
	} else if _, ok := raw["hash"]; ok {
		tgUser, err = utils.VerifyLoginWidget(widgetFields(raw), h.Cfg.BotToken, h.Cfg.TelegramMaxAge, now)
	} else {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "init_data or hash required"})
	}
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication failed"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	member, err := h.Members.UpsertByTelegramID(ctx, tgUser.ID, tgUser.Username, tgUser.FirstName)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create member failed"})
	}
	return h.respondWithTokens(c, http.StatusOK, member.ID, member.TelegramID, member.Role(), memberPart{
		ID: member.ID, TelegramID: member.TelegramID,
		Username: member.Username, FirstName: member.FirstName,
		Phone: member.Phone, Role: member.Role(),
	})
}

// Refresh exchanges a valid refresh token for a new access/refresh
// pair. The member is re-resolved so a deleted or unknown subject is
// rejected even when the token signature is still valid.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Refresh) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh required"})
	}

	claims, err := utils.ParseToken(h.Cfg.JWTSecret, strings.TrimSpace(req.Refresh))
	if err != nil || claims.Type != utils.TokenTypeRefresh {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	member, err := h.Members.GetByID(ctx, claims.MemberID)
	if err != nil {
		if errors.Is(err, repository.ErrMemberNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load member failed"})
	}
	return h.respondWithTokens(c, http.StatusOK, member.ID, member.TelegramID, member.Role(), memberPart{
		ID: member.ID, TelegramID: member.TelegramID,
		Username: member.Username, FirstName: member.FirstName,
		Phone: member.Phone, Role: member.Role(),
	})
}

// Me returns the authenticated member's profile.
func (h *AuthHandler) Me(c echo.Context) error {
	id, err := memberID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	member, err := h.Members.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrMemberNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load member failed"})
	}
	return c.JSON(http.StatusOK, memberPart{
		ID: member.ID, TelegramID: member.TelegramID,
		Username: member.Username, FirstName: member.FirstName,
		Phone: member.Phone, Role: member.Role(),
	})
}

// UpdatePhone stores the member's contact phone so call-queue workers
// can reach them.
func (h *AuthHandler) UpdatePhone(c echo.Context) error {
	id, err := memberID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req struct {
		Phone string `json:"phone"`
	}
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Phone) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "phone required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Members.UpdatePhone(ctx, id, req.Phone); err != nil {
		if errors.Is(err, repository.ErrMemberNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update phone failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHandler) respondWithTokens(c echo.Context, status int, memberID string, telegramID int64, role string, mp memberPart) error {
	pair, err := utils.NewTokenPair(h.Cfg.JWTSecret, memberID, telegramID, role,
		h.Cfg.AccessTTLMin, h.Cfg.RefreshTTLDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue tokens failed"})
	}
	return c.JSON(status, authResp{
		Member:  mp,
		Access:  tokenPart{Token: pair.Access, Expires: pair.AccessExp},
		Refresh: tokenPart{Token: pair.Refresh, Expires: pair.RefreshExp},
	})
}

// widgetFields converts the decoded JSON body into the string field map
// the signature check operates on. JSON numbers arrive as float64;
// Telegram ids and auth_date are integral and well inside float64's
// exact range.
func widgetFields(raw map[string]any) map[string]string {
	fields := make(map[string]string, len(raw))
	for k, v := range raw {
		switch t := v.(type) {
		case string:
			fields[k] = t
		case float64:
			fields[k] = strconv.FormatInt(int64(t), 10)
		case bool:
			fields[k] = strconv.FormatBool(t)
		}
	}
	return fields
}
