package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/vi13x/antc-trx/internal/domain"
	"github.com/vi13x/antc-trx/internal/notify"
)

type messageResponse struct {
	Message string `json:"message"`
}

type noticeResponse struct {
	Kind    notify.NoticeKind `json:"kind"`
	Message string            `json:"message"`
}

// adminTransaction is a ledger record with its display labels.
type adminTransaction struct {
	domain.Transaction
	ServiceName string `json:"serviceName"`
	UrgencyText string `json:"urgencyText"`
	AmountText  string `json:"amountText"`
	StatusText  string `json:"statusText"`
}

type loginRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

type statusRequest struct {
	Status domain.Status `json:"status" form:"status" binding:"required"`
}

type webhookRequest struct {
	URL      string          `json:"url" form:"url"`
	Function domain.Function `json:"function" form:"function"`
}

type messageRequest struct {
	Title   string `json:"title" form:"title"`
	Message string `json:"message" form:"message"`
}

func (s *Server) recent(ctx *gin.Context) error {
	return Respond(ctx, gin.H{"transactions": s.desk.Recent()}, http.StatusOK)
}

func (s *Server) createOrder(ctx *gin.Context) error {
	var in domain.OrderInput
	if err := ctx.ShouldBind(&in); err != nil {
		return NewRequestError(err, http.StatusBadRequest)
	}
	photo, err := formPhoto(ctx)
	if err != nil {
		return err
	}
	tx, _, err := s.desk.SubmitOrder(ctx.Request.Context(), in, photo)
	if err != nil {
		return err
	}
	return Respond(ctx, gin.H{
		"transaction": tx.Public(),
		"message":     "Permintaan transaksi berhasil dikirim! Tim kami akan segera memproses.",
	}, http.StatusCreated)
}

func (s *Server) login(ctx *gin.Context) error {
	var req loginRequest
	if err := ctx.ShouldBind(&req); err != nil {
		return NewRequestError(ErrBadLogin, http.StatusBadRequest)
	}
	tok, err := s.sessions.Login(req.Username, req.Password)
	if err != nil {
		s.l(ctx).Warningf("admin login failed for %q", req.Username)
		return err
	}
	ctx.SetSameSite(http.SameSiteStrictMode)
	ctx.SetCookie(SessionCookie, string(tok), 0, "/", "", false, true)
	s.l(ctx).Infof("admin %s logged in", req.Username)
	return Respond(ctx, gin.H{
		"message":       "Login berhasil! Selamat datang di dashboard admin.",
		"webhookStatus": s.desk.WebhookStatus(),
	}, http.StatusOK)
}

func (s *Server) logout(ctx *gin.Context) error {
	if tok, err := ctx.Cookie(SessionCookie); err == nil {
		s.sessions.Drop(tok)
	}
	ctx.SetCookie(SessionCookie, "", -1, "/", "", false, true)
	return Respond(ctx, messageResponse{"Logout berhasil! Kembali ke halaman utama."}, http.StatusOK)
}

func (s *Server) stats(ctx *gin.Context) error {
	return Respond(ctx, gin.H{
		"stats":         s.desk.Stats(),
		"webhookStatus": s.desk.WebhookStatus(),
	}, http.StatusOK)
}

func (s *Server) transactions(ctx *gin.Context) error {
	status := domain.Status(ctx.Query("status"))
	if status != "" && !status.Valid() {
		return domain.NewValidationError("status", fmt.Sprintf("Status %q tidak dikenal!", status))
	}
	cat := s.desk.Catalog()
	txs := s.desk.Transactions(status)
	out := make([]adminTransaction, len(txs))
	for i, t := range txs {
		out[i] = adminTransaction{
			Transaction: t,
			ServiceName: cat.ServiceName(t.ServiceType),
			UrgencyText: cat.UrgencyText(t.Urgency),
			AmountText:  notify.FormatAmount(t.OrderAmount),
			StatusText:  t.Status.Text(),
		}
	}
	return Respond(ctx, gin.H{"transactions": out}, http.StatusOK)
}

func (s *Server) updateStatus(ctx *gin.Context) error {
	var req statusRequest
	if err := ctx.ShouldBind(&req); err != nil {
		return NewRequestError(err, http.StatusBadRequest)
	}
	id := domain.TxID(ctx.Param("id"))
	tx, err := s.desk.UpdateStatus(id, req.Status)
	if err != nil {
		return err
	}
	return Respond(ctx, gin.H{
		"transaction": tx,
		"message":     fmt.Sprintf("Status transaksi %s berhasil diupdate!", id),
	}, http.StatusOK)
}

func (s *Server) deleteTransaction(ctx *gin.Context) error {
	if err := s.desk.Delete(domain.TxID(ctx.Param("id"))); err != nil {
		return err
	}
	return Respond(ctx, messageResponse{"Transaksi berhasil dihapus!"}, http.StatusOK)
}

func (s *Server) export(ctx *gin.Context) error {
	b, err := json.MarshalIndent(s.desk.Export(), "", "  ")
	if err != nil {
		return err
	}
	return RespondDownloadFile(ctx, b, s.desk.ExportFileName())
}

func (s *Server) webhooks(ctx *gin.Context) error {
	return Respond(ctx, gin.H{
		"webhooks": s.desk.Webhooks(),
		"status":   s.desk.WebhookStatus(),
	}, http.StatusOK)
}

func (s *Server) webhook(ctx *gin.Context) error {
	id := ctx.Param("id")
	c, err := s.desk.Webhook(id)
	if err != nil {
		return err
	}
	return Respond(ctx, gin.H{
		"id":      id,
		"webhook": c,
		"message": fmt.Sprintf("Webhook %s dimuat!", id),
	}, http.StatusOK)
}

func (s *Server) saveWebhook(ctx *gin.Context) error {
	var req webhookRequest
	if err := ctx.ShouldBind(&req); err != nil {
		return NewRequestError(err, http.StatusBadRequest)
	}
	id := ctx.Param("id")
	c, err := s.desk.SaveWebhook(id, strings.TrimSpace(req.URL), req.Function)
	if err != nil {
		return err
	}
	return Respond(ctx, gin.H{
		"id":            id,
		"webhook":       c,
		"webhookStatus": s.desk.WebhookStatus(),
		"message":       fmt.Sprintf("✅ Webhook %s berhasil disimpan!", id),
	}, http.StatusOK)
}

func (s *Server) testWebhook(ctx *gin.Context) error {
	task := s.desk.TestWebhook(ctx.Request.Context(), ctx.Param("id"))
	return respondNotice(ctx, task.Wait(ctx.Request.Context()))
}

func (s *Server) announce(ctx *gin.Context) error {
	var req messageRequest
	if err := ctx.ShouldBind(&req); err != nil {
		return NewRequestError(err, http.StatusBadRequest)
	}
	photo, err := formPhoto(ctx)
	if err != nil {
		return err
	}
	task := s.desk.Announce(ctx.Request.Context(), req.Title, req.Message, photo)
	return respondNotice(ctx, task.Wait(ctx.Request.Context()))
}

func (s *Server) custom(ctx *gin.Context) error {
	var req messageRequest
	if err := ctx.ShouldBind(&req); err != nil {
		return NewRequestError(err, http.StatusBadRequest)
	}
	task := s.desk.SendCustom(ctx.Request.Context(), req.Title, req.Message)
	return respondNotice(ctx, task.Wait(ctx.Request.Context()))
}

// respondNotice reports a dispatch outcome: 502 when the webhook call failed,
// 400 when nothing could be sent.
func respondNotice(ctx *gin.Context, n notify.Notice) error {
	status := http.StatusOK
	switch {
	case n.Kind == notify.NoticeError && n.Err != nil:
		status = http.StatusBadGateway
	case n.Kind == notify.NoticeError:
		status = http.StatusBadRequest
	}
	return Respond(ctx, noticeResponse{Kind: n.Kind, Message: n.Message}, status)
}

// formPhoto reads the optional "photo" part of a multipart request.
func formPhoto(ctx *gin.Context) (*domain.Attachment, error) {
	if ctx.ContentType() != binding.MIMEMultipartPOSTForm {
		return nil, nil
	}
	fh, err := ctx.FormFile("photo")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, NewRequestError(err, http.StatusBadRequest)
	}
	if !strings.HasPrefix(fh.Header.Get("Content-Type"), "image/") {
		return nil, NewRequestError(ErrNotImage, http.StatusBadRequest)
	}
	if fh.Size > maxPhotoBytes {
		return nil, NewRequestError(ErrTooLarge, http.StatusRequestEntityTooLarge)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxPhotoBytes))
	if err != nil {
		return nil, err
	}
	return &domain.Attachment{Name: fh.Filename, Data: data}, nil
}
