package cmd

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/chitchat/emojikit/internal/config"
	"github.com/chitchat/emojikit/internal/server"
	"github.com/chitchat/emojikit/internal/watcher"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"s"},
	Short:   "Start the demo preview server",
	Long: `Start the demo preview server: an HTML page backed by the picker
session, with row updates streamed over WebSocket and picker settings
hot-reloaded from the config file.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntP("port", "p", 0, "server port")
	serveCmd.Flags().String("host", "", "server host")
	serveCmd.Flags().Bool("no-reload", false, "disable config hot reload")
	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	viper.BindPFlag("server.host", serveCmd.Flags().Lookup("host"))
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	noReload, _ := cmd.Flags().GetBool("no-reload")
	if configFile := viper.ConfigFileUsed(); configFile != "" && !noReload {
		sw, err := watcher.NewSettingsWatcher(configFile, 300*time.Millisecond)
		if err != nil {
			rt.logger.Warn(ctx, err, "config hot reload unavailable")
		} else {
			sw.AddHandler(func(path string) error {
				return reloadSettings(ctx, rt)
			})
			sw.Start(ctx)
			defer sw.Stop()
		}
	}

	srv := server.New(rt.cfg.Server.Host, rt.cfg.Server.Port, rt.session, rt.logger)
	return srv.Start(ctx)
}

// reloadSettings re-reads the config file and applies the picker settings to
// the running session. Server address changes require a restart and are
// ignored here.
func reloadSettings(ctx context.Context, rt *appRuntime) error {
	if err := viper.ReadInConfig(); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	settings := cfg.PickerSettings()
	if err := rt.session.SetViewportWidth(settings.ViewportWidth); err != nil {
		return err
	}
	if err := rt.session.SetEmojiSize(settings.EmojiSize); err != nil {
		return err
	}
	if err := rt.session.SetItemSizeMultiplier(settings.ItemSizeMultiplier); err != nil {
		return err
	}
	if err := rt.session.SetCategories(settings.Categories); err != nil {
		return err
	}
	if err := rt.session.SetSuggestionMode(settings.SuggestionMode); err != nil {
		return err
	}
	if err := rt.session.SetSuggestionLimit(settings.SuggestionLimit); err != nil {
		return err
	}
	if err := rt.session.SetSkintoneSetting(settings.SkintoneSetting); err != nil {
		return err
	}
	if err := rt.session.SetAutoUpdateSuggestions(settings.AutoUpdateSuggestions); err != nil {
		return err
	}
	rt.translator.SetLanguage(cfg.Locale)

	rt.logger.Info(ctx, "picker settings reloaded", "config", viper.ConfigFileUsed())
	return nil
}
