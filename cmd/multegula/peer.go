package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/multegula/internal/bridge"
	"github.com/vovakirdan/multegula/internal/platform/tui"
)

var (
	flagHubURL   string
	flagJoinWait time.Duration
)

var peerCmd = &cobra.Command{
	Use:   "peer",
	Short: "Join a peer arena through a hub",
	Long: `Connect to a hub and play once every peer has joined. Roster order
decides the edges: the first name guards south, then north, east, west.

Controls:
  Left/Right/Up/Down  - Move paddle
  Space               - Stop paddle
  Q/Ctrl+C            - Leave

Examples:
  multegula peer --hub ws://localhost:8080/ws --name ana`,
	Run: runPeer,
}

func init() {
	peerCmd.Flags().StringVar(&flagHubURL, "hub", "ws://localhost:8080/ws", "Hub websocket URL")
	peerCmd.Flags().DurationVar(&flagJoinWait, "wait", 5*time.Minute, "How long to wait for the other peers")
}

func runPeer(_ *cobra.Command, _ []string) {
	dialCtx, cancelDial := context.WithTimeout(context.Background(), 10*time.Second)
	client, err := bridge.Dial(dialCtx, flagHubURL, flagName)
	cancelDial()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Joined %s as %s, waiting for the other peers...\n", flagHubURL, flagName)

	waitCtx, cancelWait := context.WithTimeout(context.Background(), flagJoinWait)
	start, err := client.WaitStart(waitCtx)
	cancelWait()
	if err != nil {
		client.Close()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	peer, err := bridge.NewPeer(flagName, start)
	if err != nil {
		client.Close()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := tui.RunPeer(client, peer); err != nil {
		fmt.Fprintf(os.Stderr, "Error running arena: %v\n", err)
		os.Exit(1)
	}
}
