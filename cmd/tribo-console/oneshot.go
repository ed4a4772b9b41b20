package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yourusername/tribo-console/internal/backend"
	"github.com/yourusername/tribo-console/internal/controller"
	"github.com/yourusername/tribo-console/internal/view"
)

func portsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ports",
		Short: "List the serial ports the backend can open",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, _, err := setup()
			if err != nil {
				return err
			}
			ports, err := client.ListPorts(cmd.Context())
			if err != nil {
				return err
			}
			for _, p := range ports {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print whether the backend holds an open serial connection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, _, err := setup()
			if err != nil {
				return err
			}
			connected, err := client.Status(cmd.Context())
			if err != nil {
				return err
			}
			state := backend.Disconnected
			if connected {
				state = backend.Connected
			}
			fmt.Fprintln(cmd.OutOrStdout(), state)
			return nil
		},
	}
}

func connectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "connect PORT",
		Short: "Open a serial port on the backend",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, _, err := setup()
			if err != nil {
				return err
			}
			ack, err := client.Connect(cmd.Context(), args[0])
			return printAck(cmd, ack, err)
		},
	}
}

func disconnectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disconnect",
		Short: "Close the backend serial connection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, _, err := setup()
			if err != nil {
				return err
			}
			return client.Disconnect(cmd.Context())
		},
	}
}

func sendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send COMMAND...",
		Short: "Send a raw instruction line to the device",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := dispatcher()
			if err != nil {
				return err
			}
			ack, err := d.Send(cmd.Context(), strings.Join(args, " "))
			return printAck(cmd, ack, err)
		},
	}
}

func paramCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "param KEYWORD VALUE",
		Short:     "Set a device parameter (m, lbc, lbt, u, j)",
		Args:      cobra.ExactArgs(2),
		ValidArgs: controller.ParamKeywords,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := dispatcher()
			if err != nil {
				return err
			}
			ack, err := d.SendParam(cmd.Context(), args[0], args[1])
			return printAck(cmd, ack, err)
		},
	}
}

func chartCmd() *cobra.Command {
	var offset string
	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Plot a recorded trial, counted back from the most recent one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := dispatcher()
			if err != nil {
				return err
			}
			ack, err := d.GenerateChart(cmd.Context(), offset)
			return printAck(cmd, ack, err)
		},
	}
	cmd.Flags().StringVar(&offset, "offset", "0", "Trials back from the latest; non-numeric means 0")
	return cmd
}

func analyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze",
		Short: "Run the batch analysis over all recorded trials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := dispatcher()
			if err != nil {
				return err
			}
			ack, err := d.RunAnalysis(cmd.Context())
			return printAck(cmd, ack, err)
		},
	}
}

func shutdownCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "shutdown",
		Short: "Stop the backend process",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := dispatcher()
			if err != nil {
				return err
			}
			ack, err := d.ShutdownBackend(cmd.Context(), func() bool {
				return yes || confirm(cmd, "Shut down the backend? [y/N] ")
			})
			if errors.Is(err, controller.ErrNotConfirmed) {
				fmt.Fprintln(cmd.OutOrStdout(), "cancelled")
				return nil
			}
			return printAck(cmd, ack, err)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func logCmd() *cobra.Command {
	var from int
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Print backend log lines starting at an offset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, _, err := setup()
			if err != nil {
				return err
			}
			resp, err := client.Log(cmd.Context(), from)
			if err != nil {
				return err
			}
			for _, line := range resp.Lines {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			if resp.Next != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "next offset: %d\n", *resp.Next)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&from, "from", 0, "Offset of the first line to print")
	return cmd
}

func galleryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gallery",
		Short: "Browse the generated images",
	}

	var category string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List image names, per category or for one category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, _, err := setup()
			if err != nil {
				return err
			}
			listing, err := client.Listing(cmd.Context())
			if err != nil {
				return err
			}
			cats := backend.Categories
			if category != "" {
				cat, err := backend.ParseCategory(category)
				if err != nil {
					return err
				}
				cats = []backend.Category{cat}
			}
			for _, cat := range cats {
				if len(cats) > 1 {
					fmt.Fprintf(cmd.OutOrStdout(), "%s:\n", cat.Label())
				}
				for _, name := range listing.For(cat) {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
			}
			return nil
		},
	}
	listCmd.Flags().StringVar(&category, "category", "", "trial, analysis or summary")

	var output string
	getCmd := &cobra.Command{
		Use:   "get NAME",
		Short: "Download an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, _, err := setup()
			if err != nil {
				return err
			}
			data, err := client.FetchFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			target := output
			if target == "" {
				target = filepath.Base(args[0])
			}
			if err := os.WriteFile(target, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", target, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%d bytes)\n", target, len(data))
			return nil
		},
	}
	getCmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: the image name)")

	cmd.AddCommand(listCmd, getCmd)
	return cmd
}

// dispatcher builds a command dispatcher that reports through the log
func dispatcher() (*controller.Dispatcher, error) {
	cfg, client, logger, err := setup()
	if err != nil {
		return nil, err
	}
	v := view.NewLogger(logger)
	gallery := controller.NewGallery(client, v, cfg.DefaultCategory, logger)
	return controller.NewDispatcher(client, v, gallery, cfg.Commands, logger), nil
}

func printAck(cmd *cobra.Command, ack backend.Ack, err error) error {
	if err != nil {
		return err
	}
	if !ack.OK {
		return fmt.Errorf("rejected: %s", ack.Msg)
	}
	if ack.Msg != "" {
		fmt.Fprintln(cmd.OutOrStdout(), ack.Msg)
	}
	return nil
}

func confirm(cmd *cobra.Command, question string) bool {
	fmt.Fprint(cmd.OutOrStdout(), question)
	answer, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
