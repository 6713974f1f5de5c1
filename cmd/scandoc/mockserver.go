package main

import (
	"time"

	"github.com/spf13/cobra"

	"scandoc/internal/mockserver"
	"scandoc/internal/platform/httpserver"
	"scandoc/internal/platform/logger"
)

var (
	mockAddr     string
	mockUserKey  string
	mockTokenTTL time.Duration
)

var mockServerCmd = &cobra.Command{
	Use:   "mock-server",
	Short: "Serve an emulation of the key and verification services",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.New()
		server := mockserver.New(mockserver.Options{
			UserKey:        mockUserKey,
			AccessTokenTTL: mockTokenTTL,
			ExtractionFields: map[string]string{
				"Name":           "JANE",
				"Surname":        "DOE",
				"DocumentNumber": "X1234567",
				"BirthDate":      "1990-02-03",
				"ExpiryDate":     "2030-01-01",
			},
		})
		log.Printf("mock services listening on %s (ks under /ks/, ss under /ss/)", mockAddr)
		return httpserver.Serve(cmd.Context(), httpserver.New(mockAddr, server.Handler()))
	},
}

func init() {
	mockServerCmd.Flags().StringVar(&mockAddr, "addr", ":8878", "listen address")
	mockServerCmd.Flags().StringVar(&mockUserKey, "user-key", "", "accepted user key (empty accepts any)")
	mockServerCmd.Flags().DurationVar(&mockTokenTTL, "token-ttl", 5*time.Minute, "access token lifetime")
}
