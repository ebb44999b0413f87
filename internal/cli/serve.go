package cli

import (
	"bufio"
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"

	"github.com/vi13x/antc-trx/internal/auth"
	"github.com/vi13x/antc-trx/internal/bot"
	"github.com/vi13x/antc-trx/internal/logger"
	"github.com/vi13x/antc-trx/internal/web"
)

func signalContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}

func (a *app) sessions() *auth.Sessions {
	return auth.NewSessions(auth.NewStatic(a.cfg.Auth.Users))
}

func (a *app) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the storefront and admin HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(a.cfg.Auth.Users) == 0 {
				a.log.Warningf("no auth.users configured; admin endpoints will reject every login")
			}
			desk, err := a.openDesk()
			if err != nil {
				return err
			}
			defer desk.Close()

			gin.SetMode(a.cfg.HTTP.Mode)
			srv := web.NewServer(desk, a.sessions(), logger.Static(a.log))
			ctx, stop := signalContext(cmd.Context())
			defer stop()
			return srv.Run(ctx, a.cfg.HTTP.Addr)
		},
	}
}

func (a *app) botCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Run the Telegram admin bot",
		RunE: func(cmd *cobra.Command, _ []string) error {
			token := a.cfg.Telegram.Token
			if token == "" {
				token = os.Getenv("TELEGRAM_BOT_TOKEN")
			}
			if token == "" {
				return errors.New("telegram.token (or TELEGRAM_BOT_TOKEN) is required")
			}
			api, err := tgbotapi.NewBotAPI(token)
			if err != nil {
				return err
			}
			api.Debug = a.cfg.Telegram.Debug

			desk, err := a.openDesk()
			if err != nil {
				return err
			}
			defer desk.Close()

			a.log.Infof("bot authorized as @%s", api.Self.UserName)
			ctx, stop := signalContext(cmd.Context())
			defer stop()
			bot.New(api, desk, a.sessions(), a.cfg.Telegram.AllowedChats, a.log).Start(ctx)
			return nil
		},
	}
}

func (a *app) consoleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "console",
		Short: "Interactive numbered-menu console",
		RunE: func(cmd *cobra.Command, _ []string) error {
			desk, err := a.openDesk()
			if err != nil {
				return err
			}
			defer desk.Close()

			gate := auth.NewGate(auth.NewStatic(a.cfg.Auth.Users))
			ui := NewUI(desk, gate, bufio.NewReader(cmd.InOrStdin()), cmd.OutOrStdout())
			ctx, stop := signalContext(cmd.Context())
			defer stop()
			ui.Run(ctx)
			return nil
		},
	}
}
