package handler

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/nirajkr26/linkly/config"
	"github.com/nirajkr26/linkly/internal/response"
	"github.com/nirajkr26/linkly/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type LinkHandler struct {
	links  *service.LinkService
	clicks *service.ClickService
	cfg    *config.Config
}

func NewLinkHandler(links *service.LinkService, clicks *service.ClickService, cfg *config.Config) *LinkHandler {
	return &LinkHandler{
		links:  links,
		clicks: clicks,
		cfg:    cfg,
	}
}

type CreateLinkRequest struct {
	URL        string     `json:"url" binding:"required,url"`
	Slug       string     `json:"slug"`
	ActiveFrom *time.Time `json:"activeFrom"`
}

// Create godoc
//
//	@Summary		Shorten a URL
//	@Description	Guests get a plain short link; registered users may pick a custom slug and receive a QR code
//	@Tags			links
//	@Accept			json
//	@Produce		json
//	@Param			link	body		CreateLinkRequest				true	"Target URL with optional slug and activation time"
//	@Success		200		{object}	response.CreateLinkResponse		"Short link created"
//	@Failure		400		{object}	response.Envelope				"Validation error"
//	@Failure		409		{object}	response.Envelope				"Custom slug already exists"
//	@Failure		500		{object}	response.Envelope				"Server error"
//	@Router			/api/create [post]
func (h *LinkHandler) Create(c *gin.Context) {
	var req CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(err.Error()))
		return
	}

	userID, authed := currentUserID(c)
	if !authed {
		link, err := h.links.CreateAnonymous(req.URL)
		if err != nil {
			h.writeCreateError(c, err)
			return
		}
		c.String(http.StatusOK, h.links.ShortLinkFor(link.ShortURL))
		return
	}

	link, err := h.links.CreateOwned(req.URL, req.Slug, userID, req.ActiveFrom)
	if err != nil {
		h.writeCreateError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.CreateLinkResponse{
		ShortURL: h.links.ShortLinkFor(link.ShortURL),
		QRCode:   link.QRCode,
	})
}

func (h *LinkHandler) writeCreateError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrAliasTaken) {
		c.JSON(http.StatusConflict, response.Error("Custom slug already exists"))
		return
	}
	c.JSON(http.StatusInternalServerError, response.Error("Failed to create short link"))
}

// Redirect godoc
//
//	@Summary		Resolve a short link
//	@Description	Redirects to the target, or to the expired / not-active / password pages
//	@Tags			links
//	@Param			alias	path	string	true	"Link alias"
//	@Success		302		"Redirect"
//	@Failure		410		{object}	response.Envelope	"Unknown alias"
//	@Router			/{alias} [get]
func (h *LinkHandler) Redirect(c *gin.Context) {
	shortURL := c.Param("alias")

	res, err := h.links.Resolve(shortURL, clientIP(c), c.Request.UserAgent())
	if err != nil {
		if errors.Is(err, service.ErrLinkNotFound) {
			c.JSON(http.StatusGone, response.Error("This link has expired or does not exist"))
			return
		}
		c.JSON(http.StatusInternalServerError, response.Error("Failed to resolve short link"))
		return
	}

	switch res.Outcome {
	case service.ResolveExpired:
		c.Redirect(http.StatusFound, h.cfg.FrontendURL+"/link-expired?expiredAt="+
			res.ExpiredAt.UTC().Format(time.RFC3339)+"&shortUrl="+url.QueryEscape(res.ShortURL))
	case service.ResolveNotActive:
		c.Redirect(http.StatusFound, h.cfg.FrontendURL+"/link-not-active?activeFrom="+
			res.ActiveFrom.UTC().Format(time.RFC3339)+"&shortUrl="+url.QueryEscape(res.ShortLink))
	case service.ResolvePasswordRequired:
		c.Redirect(http.StatusFound, h.cfg.FrontendURL+"/protected/"+res.ShortURL)
	default:
		c.Redirect(http.StatusFound, res.FullURL)
	}
}

type VerifyPasswordRequest struct {
	ShortURL string `json:"shortUrl" binding:"required"`
	Password string `json:"password"`
}

// VerifyPassword godoc
//
//	@Summary		Unlock a password-protected link
//	@Tags			links
//	@Accept			json
//	@Produce		json
//	@Param			body	body		VerifyPasswordRequest	true	"Alias and candidate password"
//	@Success		200		{object}	response.Envelope		"Target URL"
//	@Failure		400		{object}	response.Envelope		"Password missing"
//	@Failure		401		{object}	response.Envelope		"Incorrect password"
//	@Failure		404		{object}	response.Envelope		"Link not found or not protected"
//	@Router			/api/verify-password [post]
func (h *LinkHandler) VerifyPassword(c *gin.Context) {
	var req VerifyPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(err.Error()))
		return
	}
	if req.Password == "" {
		c.JSON(http.StatusBadRequest, response.Error("Password is required"))
		return
	}

	fullURL, err := h.links.VerifyPassword(req.ShortURL, req.Password, clientIP(c), c.Request.UserAgent())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLinkNotFound):
			c.JSON(http.StatusNotFound, response.Error("Link not found or not protected"))
		case errors.Is(err, service.ErrInvalidLinkPassword):
			c.JSON(http.StatusUnauthorized, response.Error("Incorrect password"))
		default:
			c.JSON(http.StatusInternalServerError, response.Error("Failed to verify password"))
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"isSuccess": true,
		"full_url":  fullURL,
	})
}

func (h *LinkHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error("Unauthorized"))
		return
	}

	links, err := h.links.ListOwned(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error("Failed to fetch URLs"))
		return
	}

	urls := make([]response.LinkResponse, 0, len(links))
	for i := range links {
		urls = append(urls, response.NewLinkResponse(&links[i]))
	}
	c.JSON(http.StatusOK, response.Success("URLs fetched successfully", gin.H{"urls": urls}))
}

type UpdateLinkRequest struct {
	ExpiresAt      *time.Time `json:"expiresAt"`
	IsExpired      *bool      `json:"isExpired"`
	IsLinkPassword *bool      `json:"isLinkPassword"`
	Password       *string    `json:"password"`
}

func (h *LinkHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error("Unauthorized"))
		return
	}

	linkID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error("Invalid URL ID format"))
		return
	}

	var req UpdateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(err.Error()))
		return
	}

	link, err := h.links.UpdateOwned(linkID, userID, service.UpdateLinkInput{
		ExpiresAt:      req.ExpiresAt,
		IsExpired:      req.IsExpired,
		IsLinkPassword: req.IsLinkPassword,
		Password:       req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPasswordRequired):
			c.JSON(http.StatusBadRequest, response.Error("Password is required when enabling link protection"))
		case errors.Is(err, service.ErrLinkNotFound):
			c.JSON(http.StatusNotFound, response.Error("URL not found or not authorized"))
		default:
			c.JSON(http.StatusInternalServerError, response.Error("Failed to update URL"))
		}
		return
	}

	c.JSON(http.StatusOK, response.Success("URL updated successfully", response.NewLinkResponse(link)))
}

func (h *LinkHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error("Unauthorized"))
		return
	}

	linkID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error("Invalid URL ID format"))
		return
	}

	if err := h.links.DeleteOwned(linkID, userID); err != nil {
		if errors.Is(err, service.ErrLinkNotFound) {
			c.JSON(http.StatusNotFound, response.Error("URL not found or not authorized"))
			return
		}
		c.JSON(http.StatusInternalServerError, response.Error("Failed to delete URL"))
		return
	}

	c.JSON(http.StatusOK, response.Success("URL deleted successfully", nil))
}

// Analytics godoc
//
//	@Summary		Click analytics for an owned link
//	@Security		BearerAuth
//	@Tags			analytics
//	@Produce		json
//	@Param			alias	path		string				true	"Link alias"
//	@Success		200		{object}	response.Envelope	"Link metadata plus aggregated clicks"
//	@Failure		403		{object}	response.Envelope	"Not the owner"
//	@Failure		404		{object}	response.Envelope	"Link not found"
//	@Router			/api/analytics/{alias} [get]
func (h *LinkHandler) Analytics(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error("Unauthorized"))
		return
	}

	link, summary, err := h.links.AnalyticsFor(c.Param("alias"), userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLinkNotFound):
			c.JSON(http.StatusNotFound, response.Error("Link not found"))
		case errors.Is(err, service.ErrNotLinkOwner):
			c.JSON(http.StatusForbidden, response.Error("You do not have permission to view analytics for this link"))
		default:
			c.JSON(http.StatusInternalServerError, response.Error("Failed to fetch analytics"))
		}
		return
	}

	c.JSON(http.StatusOK, response.Success("", gin.H{
		"link":      response.NewLinkResponse(link),
		"analytics": summary,
	}))
}
