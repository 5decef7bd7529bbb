package main

import (
	"context"
	"fmt"
	"os"

	"github.com/birdayz/sigchain/chainstore"
	"github.com/birdayz/sigchain/chainstore/pebble"
	"github.com/birdayz/sigchain/chainstore/s3"
	"github.com/spf13/cobra"
)

const (
	storeMemory = "memory"
	storePebble = "pebble"
	storeS3     = "s3"
)

func (a *app) storeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Manage the library of named chains",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "put <name> <chain.json>",
			Short: "Validate a chain document and store it under name",
			Args:  cobra.ExactArgs(2),
			RunE: a.withLibrary(func(ctx context.Context, lib *chainstore.Library, args []string) error {
				c, err := a.load(ctx, args[1])
				if err != nil {
					return err
				}
				defer c.Close()
				return lib.Save(ctx, args[0], c.ExportChain())
			}),
		},
		&cobra.Command{
			Use:   "get <name>",
			Short: "Print the chain stored under name",
			Args:  cobra.ExactArgs(1),
			RunE: a.withLibrary(func(ctx context.Context, lib *chainstore.Library, args []string) error {
				doc, err := lib.Load(ctx, args[0])
				if err != nil {
					return err
				}
				return writeTo("", a.out, documentSerde.Serializer, doc)
			}),
		},
		&cobra.Command{
			Use:   "list",
			Short: "List stored chains",
			Args:  cobra.NoArgs,
			RunE: a.withLibrary(func(ctx context.Context, lib *chainstore.Library, _ []string) error {
				names, err := lib.List(ctx)
				if err != nil {
					return err
				}
				for _, n := range names {
					fmt.Fprintln(a.out, n)
				}
				return nil
			}),
		},
		&cobra.Command{
			Use:   "delete <name>",
			Short: "Delete the chain stored under name",
			Args:  cobra.ExactArgs(1),
			RunE: a.withLibrary(func(ctx context.Context, lib *chainstore.Library, args []string) error {
				return lib.Delete(ctx, args[0])
			}),
		},
	)
	return cmd
}

func (a *app) withLibrary(fn func(ctx context.Context, lib *chainstore.Library, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		store, err := a.openStore(cmd.Context())
		if err != nil {
			return err
		}
		lib := chainstore.NewLibrary(store, chainstore.WithLog(a.log.WithGroup("library")))
		defer func() {
			if cerr := lib.Close(); err == nil {
				err = cerr
			}
		}()
		return fn(cmd.Context(), lib, args)
	}
}

func (a *app) openStore(ctx context.Context) (chainstore.Store, error) {
	switch kind := a.v.GetString("store"); kind {
	case storeMemory:
		return chainstore.NewMemory(), nil
	case storePebble:
		dir := a.v.GetString("store-dir")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
		return pebble.Open(dir, a.v.GetBool("store-sync"))
	case storeS3:
		return s3.New(ctx, s3.Config{
			Endpoint:  a.v.GetString("s3-endpoint"),
			AccessKey: a.v.GetString("s3-access-key"),
			SecretKey: a.v.GetString("s3-secret-key"),
			Bucket:    a.v.GetString("s3-bucket"),
			Prefix:    a.v.GetString("s3-prefix"),
			Secure:    a.v.GetBool("s3-secure"),
		})
	default:
		return nil, fmt.Errorf("unknown store %q", kind)
	}
}
