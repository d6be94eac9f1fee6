package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/fatih/color"
	"github.com/go-logr/stdr"
	"github.com/spf13/cobra"
	gqlirlog "github.com/vvakame/gqlir/internal/log"
)

var rootCmd = &cobra.Command{
	Use:           "gqlir",
	Short:         "Compile GraphQL operations into an intermediate representation",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		verbosity, _ := cmd.Flags().GetInt("verbosity")
		stdr.SetVerbosity(verbosity)

		logger := stdr.New(log.New(os.Stderr, "", log.LstdFlags))
		cmd.SetContext(gqlirlog.WithLogger(cmd.Context(), logger))
	},
}

var errorColor = color.New(color.FgRed, color.Bold)

func main() {
	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(idCmd)

	rootCmd.PersistentFlags().IntP("verbosity", "v", 0, "log verbosity (1: debug, 2: trace)")

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "%s %s\n", errorColor.Sprint("error:"), err.Error())
		os.Exit(1)
	}
}
