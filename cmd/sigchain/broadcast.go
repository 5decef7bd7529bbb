package main

import (
	"fmt"
	"strings"

	"github.com/birdayz/sigchain"
	"github.com/birdayz/sigchain/broadcast"
	"github.com/spf13/cobra"
)

func (a *app) broadcastCmd() *cobra.Command {
	var demo bool
	cmd := &cobra.Command{
		Use:   "broadcast <text...>",
		Short: "Publish a broadcast message to Kafka, stamped by the chain's clock",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			k, err := broadcast.NewKafka(ctx, a.v.GetStringSlice("brokers"), a.v.GetString("topic"),
				broadcast.WithLog(a.log.WithGroup("kafka")))
			if err != nil {
				return err
			}

			c, err := a.controller(sigchain.WithBroadcaster(k))
			if err != nil {
				k.Close()
				return err
			}
			defer c.Close()

			if demo {
				if err := buildDemo(ctx, c); err != nil {
					return err
				}
			}
			if err := c.BroadcastMessage(ctx, strings.Join(args, " ")); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "published to %s\n", a.v.GetString("topic"))
			return nil
		},
	}
	cmd.Flags().BoolVar(&demo, "demo", false, "Build the demo chain first so its source is the clock")
	return cmd
}
