package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/birdayz/sigchain"
	"github.com/birdayz/sigchain/graph"
	"github.com/birdayz/sigchain/internal/resolver"
	"github.com/birdayz/sigchain/node"
	"github.com/birdayz/sigchain/processors"
	"github.com/birdayz/sigchain/serde"
	"github.com/spf13/cobra"
)

var (
	documentSerde = serde.IndentedJSON[graph.Document]()
	topologySerde = serde.IndentedJSON[*resolver.Topology]()
)

func (a *app) demoCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Print a demo chain: source, splitter, filter, record node and audio monitor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.controller()
			if err != nil {
				return err
			}
			defer c.Close()

			if err := buildDemo(cmd.Context(), c); err != nil {
				return err
			}
			return writeTo(out, a.out, documentSerde.Serializer, c.ExportChain())
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write the chain document to this file instead of stdout")
	return cmd
}

// buildDemo creates
//
//	SignalSource -> Splitter -> Filter -> RecordNode
//	                         \-> AudioMonitor
func buildDemo(ctx context.Context, c *sigchain.Controller) error {
	add := func(typ, name string, source int, params map[string]string) (int, error) {
		p, err := c.AddProcessor(ctx, node.Description{Type: typ, Name: name, Params: params}, source, node.None)
		if err != nil {
			return node.None, err
		}
		return p.ID(), nil
	}

	src, err := add(processors.SignalSourceType, "Acquisition Board", node.None, map[string]string{
		"channels":   "8",
		"sampleRate": "30000",
	})
	if err != nil {
		return err
	}
	sp, err := add(node.SplitterType, "Splitter", src, nil)
	if err != nil {
		return err
	}
	flt, err := add(processors.FilterType, "Bandpass Filter", sp, map[string]string{
		"lowcut":  "300",
		"highcut": "6000",
	})
	if err != nil {
		return err
	}
	if _, err := add(processors.RecordNodeType, "Record Node", flt, nil); err != nil {
		return err
	}
	if err := c.SwitchIO(ctx, sp, 1); err != nil {
		return err
	}
	if _, err := add(processors.AudioMonitorType, "Audio Monitor", sp, nil); err != nil {
		return err
	}
	return c.SwitchIO(ctx, sp, 0)
}

func (a *app) resolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <chain.json>",
		Short: "Resolve a chain document into its connection list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer c.Close()
			return writeTo("", a.out, topologySerde.Serializer, c.Topology())
		},
	}
}

func (a *app) validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <chain.json>",
		Short: "Check that a chain document loads cleanly",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer c.Close()

			roots := c.Roots()
			fmt.Fprintf(a.out, "ok: %d processors, %d chains\n", len(c.Processors()), len(roots))
			for i := range roots {
				fmt.Fprintf(a.out, "chain %d:", i)
				for _, p := range c.ViewSignalChain(i) {
					fmt.Fprintf(a.out, " %s(%d)", p.Name(), p.ID())
				}
				fmt.Fprintln(a.out)
			}
			if !c.HasRecordNode() {
				fmt.Fprintln(a.out, "warning: no record node")
			}
			return nil
		},
	}
}

func (a *app) load(ctx context.Context, path string) (*sigchain.Controller, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := documentSerde.Deserializer(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	c, err := a.controller()
	if err != nil {
		return nil, err
	}
	if err := c.ImportChain(ctx, doc); err != nil {
		c.Close()
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return c, nil
}

func writeTo[T any](path string, stdout io.Writer, ser serde.Serializer[T], v T) error {
	data, err := ser(v)
	if err != nil {
		return err
	}
	if path == "" {
		_, err = stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
