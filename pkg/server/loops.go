// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
)

// AcceptLoop blocks accepting TCP connections and forwards each one to
// TCPJobs until ctx is canceled or the listener is closed. It performs
// no corpus or selector access itself.
func (s *Server) AcceptLoop(ctx context.Context) {
	for {
		conn, err := s.tcpListener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return
			}
			slog.Debug("server.tcp_accept_error", "err", err)
			continue
		}
		select {
		case s.tcpJobs <- conn:
		case <-ctx.Done():
			conn.Close()
			return
		}
	}
}

// ReceiveLoop blocks reading UDP datagrams, discards the payload per
// RFC 865, and forwards the source address to UDPJobs until ctx is
// canceled or the socket is closed.
func (s *Server) ReceiveLoop(ctx context.Context) {
	buf := make([]byte, 2048)
	for {
		_, addr, err := s.udpConn.ReadFromUDP(buf)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return
			}
			slog.Debug("server.udp_receive_error", "err", err)
			continue
		}
		select {
		case s.udpJobs <- addr:
		case <-ctx.Done():
			return
		}
	}
}
