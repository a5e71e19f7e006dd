package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/xid"
	log "github.com/sirupsen/logrus"

	"thermal/deque"
	"thermal/driver"
	"thermal/model"
	"thermal/process"
	"thermal/tour"
)

var (
	ErrUnknownType  = errors.New("unknown message type")
	ErrUnknownAlarm = errors.New("unknown alarm")
)

// jsonWriter is the write half of a websocket connection.
type jsonWriter interface {
	WriteJSON(v interface{}) error
}

// Hub is one viewer session: a plant, its tour and the clock driving it.
// Sessions share nothing.
type Hub struct {
	id        string
	pushEvery uint64
	// driver tick of the last pushed frame, owned by handleResponse
	lastPush uint64

	model  *process.Model
	tour   *tour.Controller
	driver *driver.Driver

	mu      sync.Mutex
	history *deque.ArrDeque

	// replies to requests, drained by the writer
	out chan model.Msg
}

func NewHub(cfg Config, opts ...driver.Option) *Hub {
	m := process.NewModel()
	pushEvery := cfg.PushEvery
	if pushEvery < 1 {
		pushEvery = 1
	}
	return &Hub{
		id:        xid.New().String(),
		pushEvery: uint64(pushEvery),
		model:     m,
		tour:      tour.NewController(),
		driver:    driver.New(m, cfg.Driver, opts...),
		history:   deque.NewArrDeque(cfg.HistoryCapacity),
		out:       make(chan model.Msg, 10),
	}
}

func (h *Hub) ID() string {
	return h.id
}

func (h *Hub) logger() *log.Entry {
	return log.WithField("session", h.id)
}

// handleRequest applies one request and returns the reply: the new frame,
// the history, or an error.
func (h *Hub) handleRequest(msg model.Msg) model.Msg {
	var err error
	switch msg.Type {
	case model.TypeStart:
		h.model.Start()
	case model.TypeStop:
		h.model.Stop()
	case model.TypeTrip:
		h.model.Trip()
	case model.TypeReset:
		h.model.Reset()
		h.tour.Reset()
		h.clearHistory()
		h.driver.Rebase()
	case model.TypeFuel, model.TypeLoad:
		var v float64
		if v, err = parseInput(msg.Content); err == nil {
			if msg.Type == model.TypeFuel {
				h.model.SetFuelInput(v)
			} else {
				h.model.SetTargetLoad(v)
			}
		}
	case model.TypeDismiss:
		kind, ok := process.ParseAlarmKind(msg.Content)
		if !ok {
			err = fmt.Errorf("%q: %w", msg.Content, ErrUnknownAlarm)
			break
		}
		h.model.DismissAlarm(kind)
	case model.TypeNext:
		h.tour.Next()
	case model.TypePrev:
		h.tour.Prev()
	case model.TypeStep:
		var s tour.Step
		if s, err = tour.ParseStep(msg.Content); err == nil {
			err = h.tour.SetStep(s)
		}
	case model.TypeHover, model.TypeSelect:
		var sub tour.Subsystem
		if sub, err = tour.ParseSubsystem(msg.Content); err == nil {
			if msg.Type == model.TypeHover {
				err = h.tour.Hover(sub)
			} else {
				err = h.tour.Select(sub)
			}
		}
	case model.TypeHistory:
		return h.historyMsg()
	default:
		err = fmt.Errorf("%q: %w", msg.Type, ErrUnknownType)
	}

	if err != nil {
		h.logger().WithFields(log.Fields{
			"type":    msg.Type,
			"content": msg.Content,
		}).WithError(err).Warn("request rejected")
		return errorMsg(msg.Type, err)
	}
	return h.frameMsg(h.driver.Stats().Ticks)
}

// parseInput reads an operator input percentage.
func parseInput(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("input %q: %w", s, process.ErrInvalidInput)
	}
	return v, nil
}

func (h *Hub) frame(tick uint64) model.Frame {
	return model.Frame{
		Session:  h.id,
		Tick:     tick,
		Plant:    h.model.Snapshot(),
		View:     h.tour.CurrentView(),
		Progress: h.tour.Progress(),
		Focus:    h.tour.Focus(),
	}
}

func (h *Hub) frameMsg(tick uint64) model.Msg {
	return h.encode(model.TypeFrame, h.frame(tick))
}

func (h *Hub) historyMsg() model.Msg {
	h.mu.Lock()
	samples := h.history.Slice()
	h.mu.Unlock()
	return h.encode(model.TypeHistory, model.History{Session: h.id, Samples: samples})
}

func (h *Hub) encode(typ string, v interface{}) model.Msg {
	data, err := json.Marshal(v)
	if err != nil {
		h.logger().WithError(err).Error("encode reply")
		return errorMsg(typ, err)
	}
	return model.Msg{Type: typ, Content: string(data)}
}

func errorMsg(request string, err error) model.Msg {
	data, _ := json.Marshal(model.ErrorReply{Request: request, Error: err.Error()})
	return model.Msg{Type: model.TypeError, Content: string(data)}
}

// record appends the current plant values to the trend buffer unless the
// simulation clock has not moved since the last sample.
func (h *Hub) record() {
	s := model.SampleOf(h.model.Snapshot())
	h.mu.Lock()
	defer h.mu.Unlock()
	if n := h.history.Size(); n > 0 && h.history.Get(n-1).Time == s.Time {
		return
	}
	h.history.Push(s)
}

func (h *Hub) clearHistory() {
	h.mu.Lock()
	h.history.Clear()
	h.mu.Unlock()
}

// pushDue reports whether tick is far enough past the last pushed frame.
// Ticks dropped by the driver do not delay the next push.
func (h *Hub) pushDue(tick uint64) bool {
	if tick-h.lastPush < h.pushEvery {
		return false
	}
	h.lastPush = tick
	return true
}

// send queues a reply for the writer.
func (h *Hub) send(ctx context.Context, msg model.Msg) {
	select {
	case h.out <- msg:
	case <-ctx.Done():
	}
}

// handleResponse is the only goroutine writing to the connection. It
// forwards replies and pushes a frame once pushEvery driver ticks have
// passed since the previous push.
func (h *Hub) handleResponse(ctx context.Context, w jsonWriter) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case reply := <-h.out:
			if err := w.WriteJSON(&reply); err != nil {
				return fmt.Errorf("write %s: %w", reply.Type, err)
			}
		case tick := <-h.driver.Frames():
			h.record()
			if !h.pushDue(tick) {
				continue
			}
			frame := h.frameMsg(tick)
			if err := w.WriteJSON(&frame); err != nil {
				return fmt.Errorf("write frame: %w", err)
			}
		}
	}
}
