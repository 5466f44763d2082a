package main

import (
	"log"
	"os"
	_ "time/tzdata"

	"github.com/spf13/cobra"

	"github.com/focusqueue/core/cmd/api/commands"
)

// @title FocusQueue API
// @version 1.0
// @description Time blocks, task queue and current activity

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the issued token.

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "focusqueue",
		Short: "FocusQueue activity server",
		Long:  `FocusQueue decides what to work on right now from today's time blocks, a habit page counter and a prioritized task queue.`,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (yaml, json or toml)")

	rootCmd.AddCommand(commands.NewServeCommand(&configPath))
	rootCmd.AddCommand(commands.NewMigrateCommand(&configPath))
	rootCmd.AddCommand(commands.NewCalendarCommand(&configPath))
	rootCmd.AddCommand(commands.NewActivityCommand(&configPath))
	rootCmd.AddCommand(commands.NewTokenCommand(&configPath))

	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
