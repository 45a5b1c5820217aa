package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trunkradio/radiosim/internal/simconfig"
)

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Parse and validate a system configuration file without running it",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			sysConfig, err := simconfig.Load(cfg.ConfigPath)
			if err != nil {
				return err
			}
			zoneCount := len(sysConfig.WACN.Zones)
			siteCount, unitCount := 0, 0
			for _, z := range sysConfig.WACN.Zones {
				siteCount += len(z.Sites)
				unitCount += len(z.Units)
			}
			fmt.Printf("OK: wacn %d, %d zones, %d sites, %d units\n", sysConfig.WACN.ID, zoneCount, siteCount, unitCount)
			return nil
		},
	}
}
