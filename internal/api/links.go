package api

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dharsanguruparan/DocFlow/internal/logger"
	"github.com/dharsanguruparan/DocFlow/internal/model"
	"github.com/dharsanguruparan/DocFlow/internal/signing"
)

// validLink checks the expires/signature query of a scoped link and writes
// the error response when it fails.
func (s *Server) validLink(c *gin.Context, scope string) bool {
	if s.deps.Signer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Links unavailable"})
		return false
	}
	err := s.deps.Signer.Validate(scope, c.Param("id"), c.Query("expires"), c.Query("signature"), s.now())
	switch {
	case err == nil:
		return true
	case errors.Is(err, signing.ErrExpired):
		c.JSON(http.StatusGone, gin.H{"error": "Link expired"})
	default:
		c.JSON(http.StatusForbidden, gin.H{"error": "Invalid signature"})
	}
	return false
}

// handleDownload serves a cached artifact behind a signed link.
func (s *Server) handleDownload(c *gin.Context) {
	if !s.validLink(c, signing.ScopeDownload) {
		return
	}
	if s.deps.Artifacts == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Downloads unavailable"})
		return
	}
	a, err := s.deps.Artifacts.Get(c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	writeArtifact(c, a)
}

// handleSignRequest shows a counterparty what they are asked to sign.
func (s *Server) handleSignRequest(c *gin.Context) {
	if !s.validLink(c, signing.ScopeSign) {
		return
	}
	if s.deps.Records == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Remote store unavailable"})
		return
	}
	_, req, err := s.deps.Records.SignRequest(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	resp := gin.H{
		"id":           req.ID,
		"documentName": req.DocumentName,
		"status":       req.Status,
		"pages":        req.Pages,
		"createdAt":    req.CreatedAt,
	}
	if req.ObjectKey != "" && s.deps.Files != nil {
		u, err := s.deps.Files.PresignSignFile(c.Request.Context(), req.ObjectKey, s.cfg.Storage.PresignTTL)
		if err != nil {
			logger.From(c.Request.Context(), s.log).Warn("presign sign file", zap.Error(err))
		} else {
			resp["fileUrl"] = u
		}
	}
	c.JSON(http.StatusOK, resp)
}

// handleSign marks a request signed.
func (s *Server) handleSign(c *gin.Context) {
	if !s.validLink(c, signing.ScopeSign) {
		return
	}
	if s.deps.Records == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Remote store unavailable"})
		return
	}
	ctx := c.Request.Context()
	_, req, err := s.deps.Records.SignRequest(ctx, c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	if req.Status == model.SignSigned {
		c.JSON(http.StatusConflict, gin.H{"error": "Already signed"})
		return
	}
	if err := s.deps.Records.UpdateSignRequest(ctx, req.ID, model.SignSigned, 0); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": req.ID, "status": model.SignSigned})
}

type subscriptionLinkRequest struct {
	Plan string `json:"plan" binding:"required"`
}

// handleSubscriptionLink returns the checkout URL for a paid plan.
func (s *Server) handleSubscriptionLink(c *gin.Context) {
	var req subscriptionLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	plan, ok := model.ParsePlan(req.Plan)
	if !ok || !plan.Paid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown subscription plan"})
		return
	}
	price := s.cfg.Payment.ProPrice
	if plan == model.PlanBusiness {
		price = s.cfg.Payment.BusinessPrice
	}
	q := url.Values{}
	q.Set("plan", string(plan))
	q.Set("user", GetUserID(c))
	q.Set("amount", strconv.Itoa(price))
	c.JSON(http.StatusOK, gin.H{
		"url":    fmt.Sprintf("%s?%s", s.cfg.Payment.CheckoutURL, q.Encode()),
		"plan":   plan,
		"amount": price,
	})
}

type paymentCallback struct {
	UserID string `json:"userId" binding:"required"`
	Plan   string `json:"plan" binding:"required"`
	Status string `json:"status"`
}

// PaymentSecretHeader carries the shared secret of payment callbacks.
const PaymentSecretHeader = "X-Payment-Secret"

// handlePaymentCallback activates the paid plan once the provider reports
// success. Other statuses are acknowledged and ignored.
func (s *Server) handlePaymentCallback(c *gin.Context) {
	secret := s.cfg.Payment.CallbackSecret
	if secret == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Payments unavailable"})
		return
	}
	if subtle.ConstantTimeCompare([]byte(c.GetHeader(PaymentSecretHeader)), []byte(secret)) != 1 {
		logger.From(c.Request.Context(), s.log).Warn("payment callback rejected", zap.String("client_ip", c.ClientIP()))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	var req paymentCallback
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	log := logger.From(c.Request.Context(), s.log).With(zap.String("user_id", req.UserID), zap.String("plan", req.Plan))
	if req.Status != "" && req.Status != "success" {
		log.Info("payment not completed", zap.String("status", req.Status))
		c.JSON(http.StatusOK, gin.H{"message": "Callback received"})
		return
	}
	plan, ok := model.ParsePlan(req.Plan)
	if !ok || !plan.Paid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown subscription plan"})
		return
	}
	if s.deps.Controllers == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Generation unavailable"})
		return
	}
	ctrl, err := s.deps.Controllers.Get(c.Request.Context(), req.UserID)
	if err != nil {
		s.fail(c, err)
		return
	}
	if err := ctrl.Subscribe(c.Request.Context(), plan); err != nil {
		s.fail(c, err)
		return
	}
	log.Info("subscription activated")
	c.JSON(http.StatusOK, gin.H{"message": "Callback received"})
}
