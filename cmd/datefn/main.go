// Command datefn evaluates date/time token lists from the command line.
//
// The first argument is the base value, every further argument is a
// modifier:
//
//	datefn date 2024-01-15 "start of month" "+1 month" "-1 day"
//	datefn unixepoch now
//	datefn strftime --format "%Y week %V" 2024-03-09
//	datefn timediff 2025-05-15 2024-03-10
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/datefn/datefn-go/datefn"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "datefn",
		Short:         "Evaluate date/time token lists",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	eng := datefn.New()

	stringOp := func(use, short string, fn func(tokens ...string) (string, error)) *cobra.Command {
		return &cobra.Command{
			Use:   use + " [tokens...]",
			Short: short,
			RunE: func(cmd *cobra.Command, args []string) error {
				out, err := fn(args...)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), out)
				return nil
			},
		}
	}

	root.AddCommand(
		stringOp("date", "Render as YYYY-MM-DD", eng.Date),
		stringOp("time", "Render as HH:MM:SS", eng.Time),
		stringOp("datetime", "Render as YYYY-MM-DD HH:MM:SS", eng.DateTime),
	)

	root.AddCommand(&cobra.Command{
		Use:   "julianday [tokens...]",
		Short: "Render as a fractional julian day count",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := eng.JulianDay(args...)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "unixepoch [tokens...]",
		Short: "Render as whole seconds since 1970-01-01",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := eng.UnixEpoch(args...)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	})

	var format string
	strftime := &cobra.Command{
		Use:   "strftime [tokens...]",
		Short: "Render through a %-directive format string",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := eng.Strftime(format, args...)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	strftime.Flags().StringVar(&format, "format", "%Y-%m-%d %H:%M:%S", "format string")
	root.AddCommand(strftime)

	root.AddCommand(&cobra.Command{
		Use:   "timediff <a> <b>",
		Short: "Calendar difference between two date/time values",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := eng.TimeDiff(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	})

	return root
}
