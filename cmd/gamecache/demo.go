package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gamelib/lrucache"
)

var demoTTL time.Duration

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Walk through eviction, promotion and lazy expiry on a two-entry cache",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, logger, err := setup(cmd)
		if err != nil {
			return err
		}

		c, err := lrucache.New[string, string](2, demoTTL, "demo",
			lrucache.WithLogger[string, string](logger),
		)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		c.Put("a", "A")
		c.Put("b", "B")
		if v, ok := c.Get("a"); ok {
			fmt.Fprintf(out, "GET a = %q (a is now most recently used)\n", v)
		}

		c.Put("c", "C")
		if !c.ContainsKey("b") {
			fmt.Fprintln(out, "b is gone: evicted as least recently used")
		}
		fmt.Fprintf(out, "keys (MRU -> LRU): %v\n", c.Keys())

		fmt.Fprintf(out, "waiting %s for entries to expire...\n", demoTTL)
		wait := time.NewTimer(demoTTL)
		defer wait.Stop()
		select {
		case <-cmd.Context().Done():
			return cmd.Context().Err()
		case <-wait.C:
		}

		fmt.Fprintf(out, "stored before access: %d\n", c.Len())
		if _, ok := c.Get("a"); !ok {
			fmt.Fprintln(out, "GET a: missing (expired, removed on access)")
		}
		fmt.Fprintf(out, "stored after access: %d\n", c.Len())

		s := c.Stats()
		fmt.Fprintf(out, "%s: hits=%d misses=%d evictions=%d expirations=%d\n",
			s.Name, s.Hits, s.Misses, s.Evictions, s.Expirations)
		return nil
	},
}

func init() {
	demoCmd.Flags().DurationVar(&demoTTL, "ttl", 300*time.Millisecond, "entry time-to-live")
	rootCmd.AddCommand(demoCmd)
}
