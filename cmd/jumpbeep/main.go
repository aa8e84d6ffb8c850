// jumpbeep connects to jumpd's WebSocket count stream and plays a short
// tone for every counted jump.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/generators"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

var version = "dev"

var (
	wsURL    string
	toneFreq float64
)

func main() {
	cmd := &cobra.Command{
		Use:   "jumpbeep",
		Short: "Beeps on every counted jump",
		Long: `jumpbeep subscribes to the live count stream of a running jumpd
and plays a short tone each time the jump count increments.`,
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context())
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVarP(&wsURL, "url", "u", "ws://127.0.0.1:8077/ws", "jumpd WebSocket URL")
	cmd.Flags().Float64VarP(&toneFreq, "freq", "f", 880, "tone frequency in Hz")

	if err := fang.Execute(context.Background(), cmd); err != nil {
		os.Exit(1)
	}
}

type countMsg struct {
	Count int `json:"count"`
}

func run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	b := newBeeper(toneFreq)
	fmt.Printf("jumpbeep: listening on %s... (ctrl+c to quit)\n", wsURL)

	for {
		if err := listen(ctx, b); err != nil {
			if ctx.Err() != nil {
				fmt.Println("\nbye!")
				return nil
			}
			fmt.Fprintf(os.Stderr, "connection lost (%v), retrying...\n", err)
		}
		select {
		case <-ctx.Done():
			fmt.Println("\nbye!")
			return nil
		case <-time.After(2 * time.Second):
		}
	}
}

func listen(ctx context.Context, b *beeper) error {
	d := websocket.Dialer{HandshakeTimeout: 2 * time.Second}
	conn, _, err := d.DialContext(ctx, wsURL, nil)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			// Best-effort close.
			_ = cerr
		}
	}()

	// Unblock ReadMessage on shutdown.
	go func() {
		<-ctx.Done()
		_ = conn.SetReadDeadline(time.Now())
	}()

	last := -1
	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		var msg countMsg
		if err := json.Unmarshal(payload, &msg); err != nil {
			continue
		}
		if msg.Count != last {
			last = msg.Count
			fmt.Printf("jump #%d\n", msg.Count)
			b.blip()
		}
	}
}

// beeper plays a generated sine blip; the speaker is initialized once
// on first use.
type beeper struct {
	mu   sync.Mutex
	sr   beep.SampleRate
	freq float64
	init bool
}

func newBeeper(freq float64) *beeper {
	return &beeper{sr: beep.SampleRate(44100), freq: freq}
}

func (b *beeper) blip() {
	b.mu.Lock()
	if !b.init {
		if err := speaker.Init(b.sr, b.sr.N(time.Second/10)); err != nil {
			b.mu.Unlock()
			fmt.Fprintf(os.Stderr, "speaker init failed: %v\n", err)
			return
		}
		b.init = true
	}
	b.mu.Unlock()

	tone, err := generators.SineTone(b.sr, b.freq)
	if err != nil {
		return
	}
	speaker.Play(beep.Take(b.sr.N(120*time.Millisecond), tone))
}
