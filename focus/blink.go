package focus

import (
	"time"

	"github.com/vireo-tui/vireo/reactive"
)

// blinkClock is a single toggling signal shared by every input with the same
// blink-fps, so N inputs with identical rates don't each run their own timer
// (§4.F cursor blink: "shared clock").
type blinkClock struct {
	on     *reactive.Signal[bool]
	ticker *time.Ticker
	stop   chan struct{}
}

// BlinkController maintains one blinkClock per distinct blink-rate.
type BlinkController struct {
	clocks map[float64]*blinkClock
}

// NewBlinkController creates an empty controller; clocks are created lazily
// as distinct rates are requested.
func NewBlinkController() *BlinkController {
	return &BlinkController{clocks: make(map[float64]*blinkClock)}
}

// Signal returns the toggling on/off signal for fps, starting its ticker
// goroutine on first use.
func (b *BlinkController) Signal(fps float64) *reactive.Signal[bool] {
	if fps <= 0 {
		s := reactive.NewSimpleSignal(true)
		return s
	}
	c, ok := b.clocks[fps]
	if ok {
		return c.on
	}
	c = &blinkClock{
		on:     reactive.NewSimpleSignal(true),
		ticker: time.NewTicker(time.Duration(float64(time.Second) / fps)),
		stop:   make(chan struct{}),
	}
	b.clocks[fps] = c
	go func() {
		for {
			select {
			case <-c.ticker.C:
				c.on.Update(func(v bool) bool { return !v })
			case <-c.stop:
				return
			}
		}
	}()
	return c.on
}

// ResetOn forces the clock for fps back to the visible (ON) phase, used
// whenever focus changes onto an input with that blink rate (§4.F: "resetting
// the toggle to ON whenever focus changes").
func (b *BlinkController) ResetOn(fps float64) {
	c, ok := b.clocks[fps]
	if !ok {
		return
	}
	c.on.Set(true)
}

// Close stops every running ticker goroutine.
func (b *BlinkController) Close() {
	for _, c := range b.clocks {
		close(c.stop)
		c.ticker.Stop()
	}
}
