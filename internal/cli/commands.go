package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/vi13x/antc-trx/internal/auth"
	"github.com/vi13x/antc-trx/internal/config"
	"github.com/vi13x/antc-trx/internal/domain"
	"github.com/vi13x/antc-trx/internal/notify"
	"github.com/vi13x/antc-trx/internal/service"
)

// withDesk opens the configured desk for the duration of fn.
func (a *app) withDesk(fn func(*service.Desk) error) error {
	desk, err := a.openDesk()
	if err != nil {
		return err
	}
	defer desk.Close()
	return fn(desk)
}

// awaitNotice waits for a dispatch a little past the configured send timeout.
func (a *app) awaitNotice(ctx context.Context, task *notify.Task) notify.Notice {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.Dispatch.Timeout+2*time.Second)
	defer cancel()
	return task.Wait(ctx)
}

func (a *app) submitCmd() *cobra.Command {
	var in domain.OrderInput
	var photoPath string
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Record an order and alert the transaction webhook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var photo *domain.Attachment
			if photoPath != "" {
				p, err := readPhoto(photoPath)
				if err != nil {
					return err
				}
				photo = p
			}
			return a.withDesk(func(desk *service.Desk) error {
				tx, task, err := desk.SubmitOrder(cmd.Context(), in, photo)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, tx.ID)
				n := a.awaitNotice(cmd.Context(), task)
				fmt.Fprintln(cmd.ErrOrStderr(), n.Message)
				return nil
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.ServiceType, "service", "", "service key, e.g. top-up-ml")
	f.StringVar(&in.Urgency, "urgency", "normal", "urgency key (normal, fast, instant)")
	f.StringVar(&in.CustomerName, "name", "", "customer name")
	f.StringVar(&in.CustomerEmail, "email", "", "customer email")
	f.StringVar(&in.CustomerPhone, "phone", "", "customer WhatsApp number")
	f.StringVar(&in.OrderAmount, "amount", "", "order value in rupiah")
	f.StringVar(&in.OrderDetails, "details", "", "order details")
	f.StringVar(&photoPath, "photo", "", "optional image attachment")
	return cmd
}

func (a *app) listCmd() *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st := domain.Status(status)
			if st != "" && !st.Valid() {
				return fmt.Errorf("unknown status %q", status)
			}
			return a.withDesk(func(desk *service.Desk) error {
				cat := desk.Catalog()
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tSTATUS\tSERVICE\tAMOUNT\tCUSTOMER\tCREATED")
				for _, t := range desk.Transactions(st) {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", t.ID, t.Status.Text(),
						cat.ServiceName(t.ServiceType), notify.FormatAmount(t.OrderAmount),
						t.CustomerName, notify.FormatDateTime(t.Timestamp))
				}
				return w.Flush()
			})
		},
	}
	cmd.Flags().StringVarP(&status, "status", "s", "", "pending, completed or failed")
	return cmd
}

func (a *app) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show dashboard statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withDesk(func(desk *service.Desk) error {
				s := desk.Stats()
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintf(w, "Total\t%d\n", s.Total)
				fmt.Fprintf(w, "Pending\t%d\n", s.Pending)
				fmt.Fprintf(w, "Completed today\t%d\n", s.CompletedToday)
				fmt.Fprintf(w, "Revenue today\t%s\n", notify.FormatCurrency(s.TodayRevenue))
				fmt.Fprintf(w, "Unique customers\t%d\n", s.UniqueCustomers)
				fmt.Fprintf(w, "Average order\t%s\n", notify.FormatCurrency(s.AvgOrderValue))
				fmt.Fprintf(w, "Success rate\t%d%%\n", s.SuccessRatePercent)
				return w.Flush()
			})
		},
	}
}

func (a *app) exportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the ledger as an export document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withDesk(func(desk *service.Desk) error {
				p, err := desk.WriteExport(out)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), p)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", ".", "directory or .json file to write")
	return cmd
}

func (a *app) webhookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "webhook",
		Short: "Manage Discord webhooks",
	}
	set := &cobra.Command{
		Use:   "set <id> <url> <function>",
		Short: "Create or replace a webhook",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withDesk(func(desk *service.Desk) error {
				c, err := desk.SaveWebhook(args[0], args[1], domain.Function(args[2]))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "webhook %s saved (%s)\n", args[0], c.Function)
				return nil
			})
		},
	}
	list := &cobra.Command{
		Use:   "list",
		Short: "List webhooks in routing order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withDesk(func(desk *service.Desk) error {
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintf(w, "Status: %s\n", desk.WebhookStatus())
				fmt.Fprintln(w, "ID\tFUNCTION\tNAME\tCREATED")
				for _, e := range desk.Webhooks() {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.ID, e.Function, e.Name, notify.FormatDateTime(e.Created))
				}
				return w.Flush()
			})
		},
	}
	test := &cobra.Command{
		Use:   "test <id>",
		Short: "Send a test message through a webhook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withDesk(func(desk *service.Desk) error {
				n := a.awaitNotice(cmd.Context(), desk.TestWebhook(cmd.Context(), args[0]))
				fmt.Fprintln(cmd.OutOrStdout(), n.Message)
				if !n.OK() {
					return fmt.Errorf("webhook %s test failed", args[0])
				}
				return nil
			})
		},
	}
	cmd.AddCommand(set, list, test)
	return cmd
}

func (a *app) backupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Snapshot the store into the backups directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withDesk(func(desk *service.Desk) error {
				p, err := desk.Backup()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), p)
				return nil
			})
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List available backups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withDesk(func(desk *service.Desk) error {
				names, err := desk.Backups()
				if err != nil {
					return err
				}
				for _, n := range names {
					fmt.Fprintln(cmd.OutOrStdout(), n)
				}
				return nil
			})
		},
	})
	return cmd
}

func (a *app) restoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <backup>",
		Short: "Restore the store from a backup file name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withDesk(func(desk *service.Desk) error {
				if err := desk.Restore(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "restored %s (%d transactions)\n", args[0], len(desk.Transactions("")))
				return nil
			})
		},
	}
}

func initCmd() *cobra.Command {
	var global bool
	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a default config file",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipConfig: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := config.ProjectConfigPath()
			if global {
				path = config.GlobalConfigPath()
			}
			if err := config.WriteDefault(path); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "wrote", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&global, "global", false, "write ~/.trxdesk/config.yaml instead of the project file")
	return cmd
}

func passwdCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "passwd [password]",
		Short:       "Print a bcrypt hash for auth.users",
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{skipConfig: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var pass string
			if len(args) == 1 {
				pass = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read password: %w", err)
				}
				pass = strings.TrimRight(line, "\r\n")
			}
			if pass == "" {
				return fmt.Errorf("password must not be empty")
			}
			hash, err := auth.HashPassword(pass)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}
