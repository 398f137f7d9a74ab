// Package transport provides event ingress transports for the Event Chain SDK.
package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/gorilla/websocket"

	"github.com/GopherSecurity/eventchain/src/core"
	"github.com/GopherSecurity/eventchain/src/types"
)

// Frame is the wire format for inbound events and outbound reports.
// Inbound frames carry a name and payload; outbound frames echo the
// event ID with a status, and carry the diagnostic for disregards.
type Frame struct {
	// Name is the event kind. Required on inbound frames.
	Name string `json:"name"`

	// Payload is the event data.
	Payload json.RawMessage `json:"payload,omitempty"`

	// ID is the event ID, set on outbound frames.
	ID string `json:"id,omitempty"`

	// Status is "ok" or "disregarded" on outbound frames.
	Status string `json:"status,omitempty"`

	// Reason carries the disregard diagnostic.
	Reason string `json:"reason,omitempty"`
}

// WSIngress feeds a filter chain from a WebSocket connection. Each JSON
// frame becomes one event and one full chain traversal; the next frame
// is not read until the previous traversal finished, which keeps the
// chain's single-traversal contract. The traversal outcome is reported
// back to the peer as a JSON frame.
//
// The ingress binds the chain's disregard callback, so the chain must be
// constructed by NewWSIngress rather than shared with other callers.
type WSIngress struct {
	conn   *websocket.Conn
	chain  *core.FilterChain
	logger *log.Logger

	// lastDisregard holds the diagnostic of the current traversal, if
	// any. Reset before each frame; only touched from the read loop's
	// goroutine, on which the whole traversal runs.
	lastDisregard *string
}

// NewWSIngress creates an ingress over an established connection. The
// chain is built from the given filters with the ingress's own disregard
// callback bound.
//
// Returns:
//   - *WSIngress: the ingress
//   - error: InvalidArgument if conn is nil, or a chain construction error
func NewWSIngress(conn *websocket.Conn, chainFilters []core.Filter) (*WSIngress, error) {
	if conn == nil {
		return nil, types.NewChainError(types.InvalidArgument, "websocket connection must not be nil")
	}

	ingress := &WSIngress{
		conn:   conn,
		logger: log.Default(),
	}

	chain, err := core.NewFilterChainFunc(func(message string) {
		ingress.lastDisregard = &message
	})
	if err != nil {
		return nil, err
	}
	if err := chain.AddAll(chainFilters); err != nil {
		return nil, err
	}

	ingress.chain = chain
	return ingress, nil
}

// SetLogger redirects the ingress log output, primarily for tests.
func (in *WSIngress) SetLogger(logger *log.Logger) {
	if logger != nil {
		in.logger = logger
	}
}

// Chain returns the chain this ingress drives, for inspection.
func (in *WSIngress) Chain() *core.FilterChain {
	return in.chain
}

// Run reads frames and routes them until the context is cancelled or the
// connection fails. Each frame is acknowledged with an outbound status
// frame before the next is read.
//
// Returns:
//   - error: the read error that ended the loop, or nil on context
//     cancellation or normal peer close
func (in *WSIngress) Run(ctx context.Context) error {
	// Unblock ReadJSON when the context is cancelled.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			in.conn.Close()
		case <-done:
		}
	}()

	for {
		var frame Frame
		if err := in.conn.ReadJSON(&frame); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("read frame: %w", err)
		}

		if err := in.route(&frame); err != nil {
			return err
		}
	}
}

// route runs one traversal for the frame and reports the outcome.
func (in *WSIngress) route(frame *Frame) error {
	event := types.NewEvent(frame.Name, frame.Payload)
	in.lastDisregard = nil

	in.chain.Next(event)

	// A filter that neither forwarded nor disregarded leaves the
	// traversal parked mid-chain; reset before the next frame so frames
	// stay isolated, and report it to the peer.
	if in.chain.InUse() {
		in.chain.Disregard(fmt.Sprintf("filter left traversal of event %s incomplete", event.ID))
	}

	reply := Frame{ID: event.ID.String(), Status: "ok"}
	if in.lastDisregard != nil {
		reply.Status = "disregarded"
		reply.Reason = *in.lastDisregard
		in.logger.Printf("event %s disregarded: %s", event.ID, reply.Reason)
	}

	if err := in.conn.WriteJSON(&reply); err != nil {
		return fmt.Errorf("write reply: %w", err)
	}
	return nil
}
