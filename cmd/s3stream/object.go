package main

import (
	stderrors "errors"
	"fmt"

	"github.com/spf13/cobra"
)

// errObjectAbsent makes exists exit with status 1 without printing an error.
var errObjectAbsent = stderrors.New("object does not exist")

func newURLCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "url <key>",
		Short: "Print the URL consumers should use for a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStorage(store, a.logger)

			u, err := store.FileURL(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), u)
			return nil
		},
	}
}

func newPathCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "path <key>",
		Short: "Print the full object key for a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStorage(store, a.logger)

			fmt.Fprintln(cmd.OutOrStdout(), store.FilePath(args[0]))
			return nil
		},
	}
}

func newRmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <key>...",
		Short: "Delete objects",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStorage(store, a.logger)

			for _, key := range args {
				if err := store.Delete(cmd.Context(), key); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newExistsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "exists <key>",
		Short: "Exit with status 0 if the object exists and 1 if it does not",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStorage(store, a.logger)

			ok, err := store.Exists(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !ok {
				return errObjectAbsent
			}
			return nil
		},
	}
}
