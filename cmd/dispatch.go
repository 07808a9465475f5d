package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/nroussel/airdispatch/app"
	"github.com/nroussel/airdispatch/config"
)

var dispatchTicks int

var dispatchCmd = &cobra.Command{
	Use:   "dispatch",
	Short: "Run a short dispatch episode and print each cycle outcome",
	RunE:  runDispatch,
}

func init() {
	dispatchCmd.Flags().IntVar(&dispatchTicks, "ticks", 10, "number of ticks to simulate")
	rootCmd.AddCommand(dispatchCmd)
}

func runDispatch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	for tick := 1; tick <= dispatchTicks; tick++ {
		svc.World.Step(tick)
		res := svc.Manager.RunCycle(tick)
		fmt.Printf("cycle %s tick %d: %d assigned, %d applied, %d unassigned\n",
			res.CycleID, tick, res.Assignment.Orders(), res.AppliedOrders(), res.Unassigned)
		for _, agentID := range sortedKeys(res.Assignment) {
			fmt.Printf("  agent %d <- %v\n", agentID, res.Assignment[agentID])
		}
	}
	completed, cancelled, onTime := svc.Fleet.Stats()
	fmt.Printf("totals: %d completed (%d on time), %d cancelled\n", completed, onTime, cancelled)
	return nil
}

func sortedKeys(m map[int][]int) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
