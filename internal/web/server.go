package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vi13x/antc-trx/internal/auth"
	"github.com/vi13x/antc-trx/internal/domain"
	"github.com/vi13x/antc-trx/internal/logger"
	"github.com/vi13x/antc-trx/internal/notify"
	"github.com/vi13x/antc-trx/internal/webhook"
)

const (
	SessionCookie = "trxdesk_session"
	ctxKeyUser    = "user"

	maxPhotoBytes = 8 << 20
)

// Desk is the part of service.Desk the HTTP front end uses.
type Desk interface {
	SubmitOrder(ctx context.Context, in domain.OrderInput, photo *domain.Attachment) (domain.Transaction, *notify.Task, error)
	Recent() []domain.PublicTransaction
	Transactions(status domain.Status) []domain.Transaction
	Stats() domain.Stats
	UpdateStatus(id domain.TxID, status domain.Status) (domain.Transaction, error)
	Delete(id domain.TxID) error
	Export() domain.ExportDocument
	ExportFileName() string
	Catalog() notify.Catalog
	SaveWebhook(id, url string, fn domain.Function) (domain.WebhookConfig, error)
	Webhook(id string) (domain.WebhookConfig, error)
	Webhooks() []webhook.Entry
	WebhookStatus() string
	TestWebhook(ctx context.Context, id string) *notify.Task
	Announce(ctx context.Context, title, msg string, photo *domain.Attachment) *notify.Task
	SendCustom(ctx context.Context, title, msg string) *notify.Task
}

// Handler is a gin handler that reports failures instead of writing them.
type Handler func(ctx *gin.Context) error

type Server struct {
	desk     Desk
	sessions *auth.Sessions
	l        logger.Provider
	engine   *gin.Engine
}

func NewServer(desk Desk, sessions *auth.Sessions, l logger.Provider) *Server {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.MaxMultipartMemory = maxPhotoBytes

	s := &Server{desk: desk, sessions: sessions, l: l, engine: engine}

	api := engine.Group("/api")
	{
		api.GET("/transactions/recent", s.handle(s.recent))
		api.POST("/orders", s.handle(s.createOrder))
	}

	admin := engine.Group("/admin")
	admin.POST("/login", s.handle(s.login))
	admin.POST("/logout", s.handle(s.logout))

	gated := admin.Group("", s.requireSession)
	{
		gated.GET("/stats", s.handle(s.stats))
		gated.GET("/transactions", s.handle(s.transactions))
		gated.PATCH("/transactions/:id", s.handle(s.updateStatus))
		gated.DELETE("/transactions/:id", s.handle(s.deleteTransaction))
		gated.GET("/export", s.handle(s.export))
		gated.GET("/webhooks", s.handle(s.webhooks))
		gated.GET("/webhooks/:id", s.handle(s.webhook))
		gated.PUT("/webhooks/:id", s.handle(s.saveWebhook))
		gated.POST("/webhooks/:id/test", s.handle(s.testWebhook))
		gated.POST("/announce", s.handle(s.announce))
		gated.POST("/custom", s.handle(s.custom))
	}
	return s
}

func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) handle(h Handler) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if err := h(ctx); err != nil {
			if we := translate(err); we.Status >= http.StatusInternalServerError {
				s.l(ctx).Errorf("%s %s: %v", ctx.Request.Method, ctx.FullPath(), err)
			}
			RespondError(ctx, err)
		}
	}
}

func (s *Server) requireSession(ctx *gin.Context) {
	tok, err := ctx.Cookie(SessionCookie)
	if err != nil || !s.sessions.Valid(auth.SessionToken(tok)) {
		RespondError(ctx, NewRequestError(ErrUnauthorized, http.StatusUnauthorized))
		return
	}
	if g, ok := s.sessions.Lookup(tok); ok {
		ctx.Set(ctxKeyUser, g.User())
	}
	ctx.Next()
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.engine, ReadHeaderTimeout: 10 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.l(ctx).Infof("http server listening on %s", addr)

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
