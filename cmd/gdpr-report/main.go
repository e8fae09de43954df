package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ignite/crm-retention/internal/app"
	"github.com/ignite/crm-retention/internal/config"
	"github.com/ignite/crm-retention/internal/domain"
	"github.com/ignite/crm-retention/internal/protected"
	"github.com/ignite/crm-retention/internal/report"
	"github.com/ignite/crm-retention/internal/service/retention"
	"github.com/ignite/crm-retention/internal/stage"
)

var (
	flagConfigPath string
	flagToday      string
	flagJSON       bool
)

func main() {
	root := newRootCmd()
	root.SilenceUsage = true
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gdpr-report",
		Short: "Inspect GDPR retention decisions for cached CRM contacts",
	}

	cmd.PersistentFlags().StringVar(&flagConfigPath, "config", "config/config.yaml", "path to config.yaml")
	cmd.PersistentFlags().StringVar(&flagToday, "today", "", "evaluate as of this date (YYYY-MM-DD), defaults to now")
	cmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "print JSON instead of text")

	cmd.AddCommand(planCmd())
	cmd.AddCommand(contactCmd())
	cmd.AddCommand(protectedCmd())
	cmd.AddCommand(stageCmd())
	return cmd
}

func planCmd() *cobra.Command {
	var (
		action       string
		filter       string
		templatePath string
	)
	c := &cobra.Command{
		Use:   "plan",
		Short: "List the contacts a cleanup pass would anonymize or delete",
		RunE: func(cmd *cobra.Command, args []string) error {
			today, err := parseToday()
			if err != nil {
				return err
			}
			renderer, err := loadRenderer(templatePath)
			if err != nil {
				return err
			}

			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			plan, err := a.Retention.Plan(cmd.Context(), retention.PlanRequest{
				Action: domain.GDPRAction(action),
				Filter: filter,
				Today:  today,
			})
			if err != nil {
				return err
			}
			if flagJSON {
				return writeJSON(cmd.OutOrStdout(), plan)
			}
			return renderer.Render(cmd.OutOrStdout(), plan)
		},
	}
	c.Flags().StringVar(&action, "action", string(domain.GDPRAnonymize), "anonymize or delete")
	c.Flags().StringVar(&filter, "filter", "", "only contacts matching this text")
	c.Flags().StringVar(&templatePath, "template", "", "liquid template for the text report")
	return c
}

func contactCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "contact <id>",
		Short: "Explain the decision for one contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			today, err := parseToday()
			if err != nil {
				return err
			}
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			ev, err := a.Retention.Evaluate(cmd.Context(), args[0], today)
			if err != nil {
				return err
			}
			if flagJSON {
				return writeJSON(cmd.OutOrStdout(), ev)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s: %s\n", ev.Contact.ID, ev.Contact.FullName(), ev.Result.Decision)
			for _, r := range ev.Result.Reasons {
				fmt.Fprintf(out, "  - %s\n", r)
			}
			return nil
		},
	}
}

func protectedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "protected [email...]",
		Short: "Load the protected-email list and check addresses against it",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			src, err := protected.NewSource(cmd.Context(), cfg.Protected)
			if err != nil {
				return err
			}
			set, err := src.Load(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d protected addresses\n", src.Location(), set.Len())
			for _, email := range args {
				fmt.Fprintf(out, "%s\t%t\n", email, set.Contains(email))
			}
			return nil
		},
	}
}

func stageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stage [label]",
		Short: "Show default probability and close-date policy of sales stages",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			infos := stage.All()
			if len(args) == 1 {
				infos = []stage.Info{stage.Describe(args[0])}
			}
			if flagJSON {
				return writeJSON(cmd.OutOrStdout(), infos)
			}
			for _, i := range infos {
				fmt.Fprintf(cmd.OutOrStdout(), "%-22s %3d%%  %s\n", i.Stage, i.Probability, i.CloseDateLabel)
			}
			return nil
		},
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadFromEnv(flagConfigPath)
	if err != nil {
		return nil, err
	}
	app.ConfigureLogging(cfg.Log)
	return cfg, nil
}

func openApp(ctx context.Context) (*app.App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return app.Open(ctx, cfg)
}

func loadRenderer(path string) (*report.Renderer, error) {
	if path == "" {
		return report.NewRenderer("")
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template: %w", err)
	}
	return report.NewRenderer(string(src))
}

func parseToday() (time.Time, error) {
	if flagToday == "" {
		return time.Now(), nil
	}
	t, err := time.Parse("2006-01-02", flagToday)
	if err != nil {
		return time.Time{}, fmt.Errorf("--today must be YYYY-MM-DD: %w", err)
	}
	return t, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
