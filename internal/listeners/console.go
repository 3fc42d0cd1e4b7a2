// Package listeners holds the event listeners wired up by the simulator CLI
package listeners

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/gookit/color"

	"github.com/KirkDiggler/gameiq/internal/events"
)

type banner struct {
	kind  events.Kind
	text  string
	style color.Style
}

var banners = []banner{
	{kind: events.KindGoal, text: "⚽ GOAL EVENT DISPATCHED", style: color.New(color.FgLightRed, color.OpBold)},
	{kind: events.KindMilestone, text: "🎉 MILESTONE EVENT DISPATCHED", style: color.New(color.FgMagenta, color.OpBold)},
	{kind: events.KindHatTrick, text: "🔥 HAT TRICK EVENT DISPATCHED", style: color.New(color.FgLightYellow, color.OpBold)},
	{kind: events.KindGameEnd, text: "🏁 GAME END EVENT DISPATCHED", style: color.New(color.FgCyan, color.OpBold)},
}

// Console echoes dispatched events to a writer: a summary line for every event
// and a banner for the headline kinds.
type Console struct {
	mu  sync.Mutex
	w   io.Writer
	loc *time.Location
}

// NewConsole creates a console listener writing to w in the local time zone
func NewConsole(w io.Writer) *Console {
	return &Console{w: w, loc: time.Local}
}

// WithLocation changes the zone event times are printed in
func (c *Console) WithLocation(loc *time.Location) *Console {
	c.loc = loc
	return c
}

// Register subscribes the console to every event and to the banner kinds
func (c *Console) Register(d events.Dispatcher) {
	d.Subscribe(events.All, events.NewListener("console", c.printEvent))
	for _, b := range banners {
		d.Subscribe(b.kind, events.NewListener("console-banner", c.printBanner))
	}
}

// Unregister removes every console subscription
func (c *Console) Unregister(d events.Dispatcher) {
	d.Unsubscribe(events.All, events.NewListener("console", c.printEvent))
	for _, b := range banners {
		d.Unsubscribe(b.kind, events.NewListener("console-banner", c.printBanner))
	}
}

func (c *Console) printEvent(_ context.Context, event *events.Event) error {
	var b strings.Builder
	fmt.Fprintf(&b, "[ALL] %s event received\n", strings.ToUpper(string(event.Kind)))
	fmt.Fprintf(&b, "  Player: %s\n", event.Player.Name)
	fmt.Fprintf(&b, "  Time: %s\n\n", event.Timestamp.In(c.loc).Format(time.Kitchen))
	return c.write(b.String())
}

func (c *Console) printBanner(_ context.Context, event *events.Event) error {
	for _, b := range banners {
		if b.kind == event.Kind {
			return c.write(b.style.Render(b.text) + "\n")
		}
	}
	return nil
}

func (c *Console) write(s string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := io.WriteString(c.w, s)
	return err
}
