package cmd

import (
	"fmt"
	"strings"

	"github.com/proofhq/proof/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  "View and update configuration settings",
}

var showConfigCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := mustApp(cmd)
		if err != nil {
			return err
		}
		cfg := application.Config

		cmd.Println(titleStyle.Render("Configuration"))
		printField(cmd, "Config File:", config.GetConfigPath())
		printField(cmd, "Backend:", cfg.APIBaseURL)
		printField(cmd, "App Origin:", cfg.AppOrigin)
		printField(cmd, "HTTP Timeout:", cfg.HTTPTimeout().String())
		printField(cmd, "Redirect Delay:", cfg.RedirectDelay().String())
		printField(cmd, "Gemini Model:", cfg.GeminiModel)

		// Show whether the key is configured, never the key itself
		if cfg.GeminiAPIKey != "" {
			printField(cmd, "Gemini Key:", "✓ Configured")
		} else {
			printField(cmd, "Gemini Key:", "✗ Not configured")
		}

		templates := cfg.TemplatesFile
		if templates == "" {
			templates = "(built-in)"
		}
		printField(cmd, "Templates:", templates)
		printField(cmd, "Log Level:", cfg.LogLevel)

		reminders := "off"
		if cfg.ReminderEnabled {
			reminders = fmt.Sprintf("%s at %s", cfg.ReminderCycle, cfg.ReminderTime)
		}
		printField(cmd, "Reminders:", reminders)
		return nil
	},
}

var setConfigCmd = &cobra.Command{
	Use:   "set",
	Short: "Update a configuration value",
	Example: `  proof config set --key api_base_url --value https://api.proof.example
  proof config set --key gemini_api_key --value AIza...
  proof config set --key reminder_cycle --value daily`,
	RunE: func(cmd *cobra.Command, args []string) error {
		key, _ := cmd.Flags().GetString("key")
		value, _ := cmd.Flags().GetString("value")

		if key == "" || value == "" {
			return fmt.Errorf("both --key and --value are required")
		}
		if !config.IsSettable(key) {
			return fmt.Errorf("invalid key %q, must be one of: %s", key, strings.Join(config.SettableKeys, ", "))
		}

		if err := config.Set(key, value); err != nil {
			return fmt.Errorf("update config: %w", err)
		}
		cmd.Printf("✓ Configuration updated: %s\n", key)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(showConfigCmd)
	configCmd.AddCommand(setConfigCmd)

	setConfigCmd.Flags().String("key", "", "Configuration key")
	setConfigCmd.Flags().String("value", "", "Configuration value")
}
