package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rubikabot/ingestcore/internal/apiclient"
	"github.com/rubikabot/ingestcore/internal/lifecycle"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the webhook ingestion server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// runServe builds every subsystem, optionally registers the webhook URL
// and bot command list with the platform, and serves until a termination
// signal arrives (spec §4.13 "register webhook + set_commands", §4.1).
func runServe() error {
	log := logrus.New()
	cfg := loadConfigOrDie(log)

	app, err := lifecycle.Build(cfg, log)
	if err != nil {
		return fmt.Errorf("build app: %w", err)
	}

	if cfg.Webhook.RegisterOnStart && cfg.Webhook.BaseURL != "" {
		registerCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		resUpdate := app.Client.UpdateBotEndpoints(registerCtx, cfg.Webhook.BaseURL+"/receiveUpdate", "ReceiveUpdate")
		resInline := app.Client.UpdateBotEndpoints(registerCtx, cfg.Webhook.BaseURL+"/receiveInlineMessage", "ReceiveInlineMessage")
		resCommands := app.Client.SetCommands(registerCtx, builtinCommandList())
		cancel()
		logWebhookRegistration(log, resUpdate)
		logWebhookRegistration(log, resInline)
		logWebhookRegistration(log, resCommands)
	}

	app.Start()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		addr := cfg.Webhook.ListenAddr
		log.WithField("addr", addr).Info("[SERVE] listening")
		if err := app.Fiber.Listen(addr); err != nil {
			log.WithError(err).Error("[SERVE] fiber listener stopped")
		}
	}()

	<-sigChan
	log.Info("[SERVE] termination signal received, shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return app.Shutdown(shutdownCtx)
}

func logWebhookRegistration(log *logrus.Logger, res apiclient.Result) {
	if !res.Ok {
		log.WithError(res.Err).WithField("status", res.StatusCode).Warn("[SERVE] failed to register webhook endpoints")
		return
	}
	log.Info("[SERVE] webhook endpoints registered")
}

// builtinCommandList is what gets pushed to the platform via setCommands
// so the client's slash-command menu matches the registry in
// internal/plugin/builtin_commands.go.
func builtinCommandList() []map[string]string {
	return []map[string]string{
		{"command": "ping", "description": "Health check"},
		{"command": "ban", "description": "Ban a member (admin only)"},
		{"command": "unban", "description": "Unban a member (admin only)"},
		{"command": "del", "description": "Delete a message (admin only)"},
		{"command": "antilink", "description": "Toggle anti-link moderation (admin only)"},
		{"command": "filter", "description": "Manage word filters (admin only)"},
		{"command": "settings", "description": "Show current group settings (admin only)"},
		{"command": "admins", "description": "List group admins (admin only)"},
		{"command": "setcmd", "description": "Grant or revoke admin (admin only)"},
	}
}
