package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/calcgame"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of calcgame",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("calcgame version %s\n", strings.TrimSpace(calcgame.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
