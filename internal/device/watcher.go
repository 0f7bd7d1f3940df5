package device

import (
	"context"
	"log/slog"
	"sync"

	"github.com/pilebones/go-udev/netlink"

	"semtok/internal/logging"
)

// Watcher listens for udev events on accelerator devices and logs add/remove
// activity so a mid-run device loss is explained in the log.
type Watcher struct {
	logger *slog.Logger

	mu      sync.Mutex
	conn    *netlink.UEventConn
	quit    chan struct{}
	running bool
}

// NewWatcher constructs an accelerator hotplug watcher.
func NewWatcher(logger *slog.Logger) *Watcher {
	return &Watcher{logger: logging.NewComponentLogger(logger, "device-watcher")}
}

// Start begins listening for udev events. A failure to connect to the
// netlink socket is non-fatal: the run proceeds without hotplug visibility.
func (w *Watcher) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return
	}

	conn := new(netlink.UEventConn)
	if err := conn.Connect(netlink.UdevEvent); err != nil {
		w.logger.Warn("cannot connect to udev netlink socket; accelerator hotplug events will not be logged",
			logging.Error(err))
		return
	}

	w.conn = conn
	w.quit = make(chan struct{})
	w.running = true

	go w.loop(ctx, w.quit, conn)
	w.logger.Debug("accelerator watcher started")
}

// Stop shuts the watcher down.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return
	}
	close(w.quit)
	w.quit = nil
	_ = w.conn.Close()
	w.conn = nil
	w.running = false
}

func (w *Watcher) loop(ctx context.Context, quit <-chan struct{}, conn *netlink.UEventConn) {
	events := make(chan netlink.UEvent)
	errs := make(chan error)
	monitorQuit := conn.Monitor(events, errs, acceleratorMatcher())

	for {
		select {
		case <-ctx.Done():
			close(monitorQuit)
			return
		case <-quit:
			close(monitorQuit)
			return
		case event := <-events:
			level := slog.LevelInfo
			if event.Action == netlink.REMOVE {
				level = slog.LevelWarn
			}
			w.logger.Log(ctx, level, "accelerator hotplug event",
				logging.String("action", string(event.Action)),
				logging.String("devpath", event.KObj))
		case err := <-errs:
			w.logger.Warn("udev monitor error", logging.Error(err))
		}
	}
}

func acceleratorMatcher() netlink.Matcher {
	add := string(netlink.ADD) + "|" + string(netlink.REMOVE)
	rules := &netlink.RuleDefinitions{}
	for _, subsystem := range []string{"accel", "nvidia"} {
		subsystem := subsystem
		rules.AddRule(netlink.RuleDefinition{
			Action: &add,
			Env:    map[string]string{"SUBSYSTEM": subsystem},
		})
	}
	return rules
}
