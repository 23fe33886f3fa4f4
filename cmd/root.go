package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func showHelp(cmd *cobra.Command, args []string) error {
	return cmd.Help()
}

func RootCmd() *cobra.Command {
	v := viper.New()
	var cfgFile string
	rootCmd := &cobra.Command{
		Use:   "elblog",
		Short: "Parse Elastic Load Balancer access logs into structured records",
		Args:  cobra.NoArgs,
		RunE:  showHelp,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(v, cfgFile); err != nil {
				return err
			}
			return applyConfig(v, cmd.Flags())
		},
	}
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: $HOME/.elblog.yaml)")
	rootCmd.AddCommand(
		runCmd(),
		checkCmd(),
		tailCmd(),
		listCmd(),
	)
	return rootCmd
}
