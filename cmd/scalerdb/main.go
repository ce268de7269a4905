package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/scalerdb/scalerdb/internal/config"
	"github.com/scalerdb/scalerdb/internal/logging"
)

func addCommands(root *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Build the sample database, run CRUD operations and save it",
		RunE:  runDemo}
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "info file",
		Short: "Load a saved database and print its statistics",
		Args:  cobra.ExactArgs(1),
		RunE:  runInfo}
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "verify file",
		Short: "Load a saved database and check table invariants",
		Args:  cobra.ExactArgs(1),
		RunE:  runVerify}
	root.AddCommand(cmd)
}

func main() {
	root := &cobra.Command{
		Use:           "scalerdb",
		Short:         "scalerdb is an in-process schema-typed record store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("config", "scalerdb.yaml", "path to the YAML config file")

	var closeLog func()
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		c, err := config.Load(path)
		if err != nil {
			return err
		}
		cfg = c
		logger, closeFn := logging.Setup(cfg.Level(), cfg.SeqURL)
		slog.SetDefault(logger)
		closeLog = closeFn
		return nil
	}

	addCommands(root)

	err := root.Execute()
	if closeLog != nil {
		closeLog()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// cfg is populated from the config file before any command runs.
var cfg = config.Default()
