package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nroussel/airdispatch/config"
	"github.com/nroussel/airdispatch/infra/kpi"
	"github.com/nroussel/airdispatch/pkg/export"
)

var (
	kpiAgent  int
	kpiFrom   int
	kpiTo     int
	kpiFormat string
)

var fleetCmd = &cobra.Command{
	Use:   "fleet",
	Short: "Fleet related commands",
}

var fleetKpiCmd = &cobra.Command{
	Use:   "kpi",
	Short: "Print delivery KPI windows for an agent",
	RunE:  runFleetKpi,
}

func init() {
	fleetKpiCmd.Flags().IntVar(&kpiAgent, "agent", 1, "agent id")
	fleetKpiCmd.Flags().IntVar(&kpiFrom, "from", 0, "first tick of the queried range")
	fleetKpiCmd.Flags().IntVar(&kpiTo, "to", 1<<30, "last tick of the queried range")
	fleetKpiCmd.Flags().StringVar(&kpiFormat, "format", "text", "output format: text, json or csv")
	fleetCmd.AddCommand(fleetKpiCmd)
	rootCmd.AddCommand(fleetCmd)
}

func runFleetKpi(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if !cfg.KPI.Enabled || cfg.KPI.Path == "" {
		return fmt.Errorf("kpi store is not enabled in the configuration")
	}
	store, err := kpi.NewSQLiteStore(cfg.KPI.Path)
	if err != nil {
		return fmt.Errorf("open kpi store: %w", err)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "error while closing kpi store: %v\n", cerr)
		}
	}()

	recs, err := store.Query(kpiAgent, kpiFrom, kpiTo)
	if err != nil {
		return err
	}
	switch kpiFormat {
	case "json":
		return export.WriteJSON(cmd.OutOrStdout(), recs)
	case "csv":
		return export.WriteCSV(cmd.OutOrStdout(), recs)
	case "text":
		for _, r := range recs {
			fmt.Printf("window %d: delivered=%d on_time=%d cancelled=%d\n",
				r.Window, r.Delivered, r.OnTime, r.Cancelled)
		}
		return nil
	default:
		return fmt.Errorf("unknown format %s", kpiFormat)
	}
}
