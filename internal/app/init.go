package app

import (
	"fmt"

	"github.com/blackwell-systems/readerctl/internal/config"
	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	var (
		apiURL  string
		timeout int
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the readerctl config file",
		Long:  "Records the backend URL and defaults in ~/.config/readerctl/config.yml.",
		RunE: func(_ *cobra.Command, _ []string) error {
			if apiURL == "" {
				var err error
				apiURL, err = promptLine("Backend URL", cfg.API.BaseURL)
				if err != nil {
					return err
				}
			}
			if apiURL == "" {
				return fmt.Errorf("a backend URL is required")
			}

			cfg.API.BaseURL = apiURL
			if timeout > 0 {
				cfg.API.TimeoutSeconds = timeout
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := config.Save(cfg); err != nil {
				return fmt.Errorf("writing config: %w", err)
			}
			ok("config written to %s", config.DefaultPath())
			fmt.Println("\nNext: create an account or log in:")
			fmt.Println("  readerctl register")
			fmt.Println("  readerctl login")
			return nil
		},
	}

	cmd.Flags().StringVar(&apiURL, "api-url", "", "Backend base URL (e.g. https://api.example.com)")
	cmd.Flags().IntVar(&timeout, "timeout", 0, "Request timeout in seconds")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the readerctl version",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println("readerctl", version)
		},
	}
}
