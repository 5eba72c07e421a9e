package debug

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"

	"github.com/Versifine/atrium/internal/input"
	"github.com/Versifine/atrium/internal/physics"
	"github.com/Versifine/atrium/internal/scene"
)

const (
	defaultTickInterval = 16 * time.Millisecond
	defaultMovePulse    = 180 * time.Millisecond
	yawStep             = 5 * math.Pi / 180
	pitchStep           = 5 * math.Pi / 180
	zoomStep            = 0.5
)

var opposite = map[string]string{
	input.KeyForward:  input.KeyBackward,
	input.KeyBackward: input.KeyForward,
	input.KeyLeft:     input.KeyRight,
	input.KeyRight:    input.KeyLeft,
}

// NetStatus reports the transport state for the state command.
type NetStatus interface {
	Connected() bool
	Stats() (received, skipped int)
}

type Options struct {
	TickInterval time.Duration
	MovePulse    time.Duration
	Out          io.Writer
	Net          NetStatus
}

// Console drives the scene host from a raw terminal. A terminal reports no
// key-up, so movement keys are held for a short pulse after each press.
type Console struct {
	host         *scene.Host
	net          NetStatus
	clock        *scene.Clock
	tickInterval time.Duration
	movePulse    time.Duration
	now          func() time.Time
	quit         context.CancelFunc

	outMu sync.Mutex
	out   io.Writer

	mu          sync.Mutex
	keys        *input.State
	until       map[string]time.Time
	shifted     bool
	commandMode bool
	commandBuf  []rune
	statusWidth int
}

func NewConsole(host *scene.Host, opts Options) *Console {
	c := &Console{
		host:         host,
		net:          opts.Net,
		clock:        scene.NewClock(),
		tickInterval: opts.TickInterval,
		movePulse:    opts.MovePulse,
		now:          time.Now,
		out:          opts.Out,
		keys:         input.NewState(),
		until:        make(map[string]time.Time),
	}
	if c.tickInterval <= 0 {
		c.tickInterval = defaultTickInterval
	}
	if c.movePulse <= 0 {
		c.movePulse = defaultMovePulse
	}
	if c.out == nil {
		c.out = os.Stdout
	}
	return c
}

// Start puts the terminal in raw mode and runs until ctx ends or the user
// quits.
func (c *Console) Start(ctx context.Context) error {
	if c == nil {
		return fmt.Errorf("console is nil")
	}
	if c.host == nil {
		return fmt.Errorf("console host is nil")
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("set terminal raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
		c.printf("\r\n")
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	c.quit = cancel

	c.printf("[debug] console started (W/A/S/D pulse, Shift+move or R run, arrows, +/-, X, :)\r\n")

	go c.tickLoop(ctx)

	reader := bufio.NewReader(os.Stdin)
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		b, err := reader.ReadByte()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read console input: %w", err)
		}
		c.handleKey(reader, b)
	}
}

func (c *Console) tickLoop(ctx context.Context) {
	ticker := time.NewTicker(c.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.step()
		}
	}
}

func (c *Console) step() scene.View {
	v := c.host.Tick(c.frame(), c.clock.Delta())
	c.renderStatusLine(v)
	return v
}

func (c *Console) handleKey(reader *bufio.Reader, b byte) {
	if c.isCommandMode() {
		c.handleCommandByte(b)
		return
	}

	switch b {
	case ':':
		c.enterCommandMode()
		return
	case 3: // Ctrl+C
		c.requestQuit()
		return
	case 'w', 'a', 's', 'd':
		c.pulse(string(b), false)
	case 'W', 'A', 'S', 'D':
		c.pulse(strings.ToLower(string(b)), true)
	case 'r', 'R':
		c.requestRunToggle()
	case '+', '=':
		c.host.Enqueue(func() { c.host.Orbit().Zoom(-zoomStep) })
	case '-', '_':
		c.host.Enqueue(func() { c.host.Orbit().Zoom(zoomStep) })
	case 'x', 'X':
		c.clearInput()
	case 27: // ESC + arrow sequence
		next, err := reader.ReadByte()
		if err != nil || next != '[' {
			return
		}
		arrow, err := reader.ReadByte()
		if err != nil {
			return
		}
		switch arrow {
		case 'D': // left
			c.rotate(yawStep, 0)
		case 'C': // right
			c.rotate(-yawStep, 0)
		case 'A': // up
			c.rotate(0, -pitchStep)
		case 'B': // down
			c.rotate(0, pitchStep)
		}
	}
}

func (c *Console) enterCommandMode() {
	c.mu.Lock()
	c.commandMode = true
	c.commandBuf = c.commandBuf[:0]
	c.mu.Unlock()
	c.printf("\r\n:")
}

func (c *Console) handleCommandByte(b byte) {
	switch b {
	case 13, 10: // Enter
		c.mu.Lock()
		cmd := strings.TrimSpace(string(c.commandBuf))
		c.commandMode = false
		c.commandBuf = c.commandBuf[:0]
		c.mu.Unlock()

		c.printf("\r\n")
		if cmd != "" {
			c.executeCommand(cmd)
		}
		return
	case 27: // ESC cancel command mode
		c.mu.Lock()
		c.commandMode = false
		c.commandBuf = c.commandBuf[:0]
		c.mu.Unlock()
		c.printf("\r\n[debug] command cancelled\r\n")
		return
	case 8, 127: // Backspace
		c.mu.Lock()
		if len(c.commandBuf) > 0 {
			c.commandBuf = c.commandBuf[:len(c.commandBuf)-1]
		}
		buf := string(c.commandBuf)
		c.mu.Unlock()
		c.printf("\r:%s \r:%s", buf, buf)
		return
	default:
		if b < 32 || b > 126 {
			return
		}
		c.mu.Lock()
		c.commandBuf = append(c.commandBuf, rune(b))
		buf := string(c.commandBuf)
		c.mu.Unlock()
		c.printf("\r:%s", buf)
	}
}

// executeCommand runs on the input goroutine; anything touching scene state
// is queued for the next tick.
func (c *Console) executeCommand(cmd string) {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return
	}

	switch parts[0] {
	case "help":
		c.printHelp()
	case "state":
		c.host.Enqueue(func() {
			ctrl := c.host.Controller()
			if ctrl == nil {
				c.printf("[debug] character not loaded\r\n")
				return
			}
			o := c.host.Orbit()
			c.printf("[debug] %s camera yaw=%.1f pitch=%.1f dist=%.1f\r\n",
				ctrl.String(), degrees(o.Yaw()), degrees(o.Pitch()), o.Distance())
			if b := c.host.Blender(); b != nil {
				c.printf("[debug] clip=%s fading=%t blends=%d clips=%s\r\n",
					b.Current(), b.Fading(), b.Requests(), strings.Join(b.Clips(), ","))
			}
		})
		if c.net != nil {
			received, skipped := c.net.Stats()
			c.printf("[debug] net connected=%t received=%d skipped=%d\r\n", c.net.Connected(), received, skipped)
		}
	case "avatars":
		c.host.Enqueue(func() {
			reg := c.host.Registry()
			c.printf("[debug] self=%q reported=%d %s\r\n", reg.SelfID(), reg.ReportedCount(), reg.String())
		})
	case "tp":
		if len(parts) != 4 {
			c.printf("[debug] usage: :tp <x> <y> <z>\r\n")
			return
		}
		x, err1 := strconv.ParseFloat(parts[1], 64)
		y, err2 := strconv.ParseFloat(parts[2], 64)
		z, err3 := strconv.ParseFloat(parts[3], 64)
		if err1 != nil || err2 != nil || err3 != nil {
			c.printf("[debug] invalid tp args\r\n")
			return
		}
		c.host.Enqueue(func() {
			ctrl := c.host.Controller()
			if ctrl == nil {
				c.printf("[debug] character not loaded\r\n")
				return
			}
			c.host.Orbit().Follow(ctrl.Teleport(physics.Vec3{x, y, z}))
			c.printf("[debug] teleported to (%.3f, %.3f, %.3f)\r\n", x, y, z)
		})
	case "run":
		c.requestRunToggle()
	case "quit", "q":
		c.requestQuit()
	default:
		c.printf("[debug] unknown command: %s\r\n", parts[0])
	}
}

func (c *Console) printHelp() {
	c.printf("[debug] keys:\r\n")
	c.printf("  W/A/S/D: pulse movement (~%dms)\r\n", c.movePulse.Milliseconds())
	c.printf("  Shift+W/A/S/D or R: toggle run\r\n")
	c.printf("  Arrow Left/Right: orbit yaw +/-5\r\n")
	c.printf("  Arrow Up/Down: orbit pitch +/-5\r\n")
	c.printf("  +/-: zoom\r\n")
	c.printf("  X: clear all input\r\n")
	c.printf("  : enter command mode\r\n")
	c.printf("[debug] commands:\r\n")
	c.printf("  :tp <x> <y> <z>\r\n")
	c.printf("  :state\r\n")
	c.printf("  :avatars\r\n")
	c.printf("  :run\r\n")
	c.printf("  :quit\r\n")
	c.printf("  :help\r\n")
}

func (c *Console) renderStatusLine(v scene.View) {
	c.mu.Lock()
	if c.commandMode {
		c.mu.Unlock()
		return
	}
	width := c.statusWidth
	c.mu.Unlock()

	var line string
	if v.Attached {
		p := v.Self.Position
		line = fmt.Sprintf(
			"[%s RUN:%s | %s FACE:%.1f | X:%.2f Y:%.2f Z:%.2f | CAM:%.1f | PEERS:%d/%d]",
			v.Self.Action, boolLabel(v.RunToggle), heldLabel(c.heldKeys()),
			degrees(v.Self.Facing), p.X(), p.Y(), p.Z(),
			degrees(v.CameraYaw), len(v.Avatars), v.Reported,
		)
	} else {
		line = fmt.Sprintf("[loading | CAM:%.1f | PEERS:%d/%d]", degrees(v.CameraYaw), len(v.Avatars), v.Reported)
	}

	padding := ""
	if width > len(line) {
		padding = strings.Repeat(" ", width-len(line))
	}
	c.printf("\r%s%s", line, padding)

	c.mu.Lock()
	if len(line) > c.statusWidth {
		c.statusWidth = len(line)
	}
	c.mu.Unlock()
}

// pulse holds key for one move pulse and releases its opposite. shift marks
// an upper-case press; the first one after a lower-case press toggles run.
func (c *Console) pulse(key string, shift bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.keys.Press(key)
	c.until[key] = c.now().Add(c.movePulse)
	if opp := opposite[key]; opp != "" {
		c.keys.Release(opp)
		delete(c.until, opp)
	}
	if shift && !c.shifted {
		c.keys.RequestRunToggle()
	}
	c.shifted = shift
}

func (c *Console) requestRunToggle() {
	c.mu.Lock()
	c.keys.RequestRunToggle()
	c.mu.Unlock()
	slog.Debug("debug run toggle requested")
}

func (c *Console) rotate(dYaw, dPitch float64) {
	c.host.Enqueue(func() { c.host.Orbit().Rotate(dYaw, dPitch) })
}

func (c *Console) requestQuit() {
	if c.quit != nil {
		c.quit()
	}
}

// frame expires finished pulses and returns this tick's input.
func (c *Console) frame() input.Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for key, t := range c.until {
		if !now.Before(t) {
			c.keys.Release(key)
			delete(c.until, key)
		}
	}
	return c.keys.Snapshot()
}

func (c *Console) heldKeys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var held []string
	for _, k := range input.Directions {
		if c.keys.Held(k) {
			held = append(held, k)
		}
	}
	return held
}

func (c *Console) clearInput() {
	c.mu.Lock()
	c.keys.Clear()
	c.until = make(map[string]time.Time)
	c.shifted = false
	c.mu.Unlock()
}

func (c *Console) isCommandMode() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.commandMode
}

func (c *Console) printf(format string, args ...any) {
	c.outMu.Lock()
	defer c.outMu.Unlock()
	fmt.Fprintf(c.out, format, args...)
}

func boolLabel(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func heldLabel(keys []string) string {
	if len(keys) == 0 {
		return "-"
	}
	return strings.ToUpper(strings.Join(keys, ""))
}

func degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
