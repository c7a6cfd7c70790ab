package cmd

import (
	"fmt"
	"os"

	"github.com/evcc-io/onstar/core"
	"github.com/evcc-io/onstar/platform"
	"github.com/evcc-io/onstar/server"
	"github.com/evcc-io/onstar/util"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// statusCmd fetches and prints the vehicle status once
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Fetch and print vehicle status",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	util.LogLevel(viper.GetString("log"), viper.GetStringMapString("levels"))
	log.INFO.Printf("onstar %s (%s)", server.Version, server.Commit)

	conf, err := loadConfigFile(cfgFile)
	if err != nil {
		return err
	}

	var cc platform.Config
	if err := util.DecodeOther(conf.OnStar, &cc); err != nil {
		return err
	}

	creds := core.Credentials{
		Username: cc.Username,
		Password: cc.Password,
		PIN:      cc.PIN,
	}

	client, err := platform.NewClient(log, creds, cc.URI)
	if err != nil {
		return err
	}

	snap, err := core.Fetch(client)
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Name", "Value", "Unit"})
	table.SetAutoWrapText(false)

	for _, key := range snap.Keys() {
		typ, ok := core.Sensors.Lookup(key)
		if !ok {
			continue
		}

		val, _ := snap.Value(key)
		if val == nil {
			val = "-"
		}

		table.Append([]string{key, typ.Name, fmt.Sprintf("%v", val), typ.Unit})
	}

	table.Render()

	if !creds.Tracking() {
		fmt.Println("pin not configured, location disabled")
	}

	return nil
}
