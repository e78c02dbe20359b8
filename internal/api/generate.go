package api

import (
	"bytes"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dharsanguruparan/DocFlow/internal/analytics"
	"github.com/dharsanguruparan/DocFlow/internal/emit"
	"github.com/dharsanguruparan/DocFlow/internal/form"
	"github.com/dharsanguruparan/DocFlow/internal/state"
	"github.com/dharsanguruparan/DocFlow/internal/templates"
)

type generateResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Filename  string `json:"filename"`
	Degraded  bool   `json:"degraded"`
	Delivered bool   `json:"delivered"`
	Strategy  string `json:"strategy,omitempty"`
	Location  string `json:"location,omitempty"`
	Remaining *int   `json:"remaining,omitempty"`
}

func toResponse(res *state.Result) generateResponse {
	out := generateResponse{
		Title:     res.Document.Title,
		Filename:  res.Artifact.Filename,
		Degraded:  res.Artifact.Degraded,
		Delivered: res.Outcome.Delivered,
		Strategy:  res.Outcome.Strategy,
		Location:  res.Outcome.Location,
	}
	switch {
	case res.Contract != nil:
		out.ID = res.Contract.ID
	case res.Invoice != nil:
		out.ID = res.Invoice.ID
	}
	if !res.Unlimited {
		left := res.Remaining
		out.Remaining = &left
	}
	return out
}

func (s *Server) handleContractTypes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": templates.Kinds()})
}

func (s *Server) handleState(c *gin.Context) {
	ctrl, ok := s.controller(c)
	if !ok {
		return
	}
	snap := ctrl.Snapshot()
	resp := gin.H{
		"userId":       snap.UserID,
		"subscription": snap.Subscription,
		"taxSystem":    snap.TaxSystem,
		"contracts":    ctrl.Contracts(state.DefaultListSize),
		"invoices":     ctrl.Invoices(state.DefaultListSize),
		"pending":      ctrl.PendingSignatures(),
	}
	if left, limited := ctrl.Remaining(); limited {
		resp["remaining"] = left
	}
	c.JSON(http.StatusOK, resp)
}

// handleGenerateContract accepts the form as JSON or as a plain url-encoded
// form post keyed by input id.
func (s *Server) handleGenerateContract(c *gin.Context) {
	var f form.ContractForm
	if c.ContentType() == gin.MIMEPOSTForm {
		if err := c.Request.ParseForm(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		f = form.BindValues(c.Request.PostForm)
	} else if err := c.ShouldBindJSON(&f); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	ctrl, ok := s.controller(c)
	if !ok {
		return
	}
	res, err := ctrl.SubmitContract(c.Request.Context(), f)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, toResponse(res))
}

func (s *Server) handleGenerateInvoice(c *gin.Context) {
	var f form.InvoiceForm
	if err := c.ShouldBindJSON(&f); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	ctrl, ok := s.controller(c)
	if !ok {
		return
	}
	res, err := ctrl.SubmitInvoice(c.Request.Context(), f)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, toResponse(res))
}

func (s *Server) handleRegenerate(c *gin.Context) {
	ctrl, ok := s.controller(c)
	if !ok {
		return
	}
	res, err := ctrl.Regenerate(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(res))
}

// handleRecordDocument streams a stored record's file without delivering it.
func (s *Server) handleRecordDocument(c *gin.Context) {
	ctrl, ok := s.controller(c)
	if !ok {
		return
	}
	a, err := ctrl.Render(c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	writeArtifact(c, a)
}

type taxSystemRequest struct {
	TaxSystem string `json:"taxSystem" binding:"required"`
}

func (s *Server) handleTaxSystem(c *gin.Context) {
	var req taxSystemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	ctrl, ok := s.controller(c)
	if !ok {
		return
	}
	if err := ctrl.SetTaxSystem(c.Request.Context(), req.TaxSystem); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"taxSystem": req.TaxSystem})
}

func (s *Server) handleAnalytics(c *gin.Context) {
	ctrl, ok := s.controller(c)
	if !ok {
		return
	}
	sum := ctrl.Analytics()
	c.JSON(http.StatusOK, gin.H{
		"taxSystem":     sum.TaxSystem,
		"taxRate":       sum.TaxRate,
		"monthlyIncome": sum.MonthlyIncome,
		"monthlyTax":    sum.MonthlyTax,
		"yearForecast":  sum.YearForecast,
		"labels":        analytics.MonthLabels,
		"months":        sum.Months,
	})
}

func (s *Server) handleExport(c *gin.Context) {
	ctrl, ok := s.controller(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	name, err := ctrl.ExportCSV(&buf)
	if err != nil {
		s.fail(c, err)
		return
	}
	writeArtifact(c, emit.Artifact{Filename: name, ContentType: "text/csv; charset=utf-8", Data: buf.Bytes()})
}

func (s *Server) handleCreateSignLink(c *gin.Context) {
	in := state.SignInput{
		Email:        c.PostForm("email"),
		DocumentName: c.PostForm("documentName"),
	}
	if fh, err := c.FormFile("file"); err == nil {
		if fh.Size > s.cfg.Server.MaxUploadBytes {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File too large"})
			return
		}
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unreadable file"})
			return
		}
		data, err := io.ReadAll(io.LimitReader(f, s.cfg.Server.MaxUploadBytes+1))
		f.Close()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unreadable file"})
			return
		}
		if http.DetectContentType(data) != "application/pdf" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Only PDF files supported"})
			return
		}
		in.File = data
		if in.DocumentName == "" {
			in.DocumentName = fh.Filename
		}
	}
	ctrl, ok := s.controller(c)
	if !ok {
		return
	}
	link, err := ctrl.CreateSignLink(c.Request.Context(), in)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"url": link.URL, "request": link.Request})
}

func (s *Server) handlePendingSignatures(c *gin.Context) {
	ctrl, ok := s.controller(c)
	if !ok {
		return
	}
	pending := ctrl.PendingSignatures()
	if pending == nil {
		c.JSON(http.StatusOK, gin.H{"data": []any{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": pending})
}

func writeArtifact(c *gin.Context, a emit.Artifact) {
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(a.Filename))
	c.Header("Content-Length", strconv.Itoa(len(a.Data)))
	c.Data(http.StatusOK, a.ContentType, a.Data)
}
