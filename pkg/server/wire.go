// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"log/slog"
	"net"

	"github.com/fulgidus/quotez/pkg/corpus"
	"github.com/fulgidus/quotez/pkg/selector"
)

// MaxUDPDatagram is the output buffer size for UDP replies. The spec
// requires at least 512 bytes; quotes longer than this are truncated
// (still ending in LF) with a warning.
const MaxUDPDatagram = 512

// ServeTCP implements the RFC 865 TCP wire behavior for one accepted
// connection: if the corpus is empty, close immediately with zero
// bytes written; otherwise consult sel for an index, write the quote
// followed by LF, and close. No data is ever read from conn.
func ServeTCP(conn net.Conn, c *corpus.Corpus, sel *selector.Selector) {
	defer conn.Close()

	if c.Empty() {
		return
	}

	index, ok := sel.Next()
	if !ok {
		return
	}
	if index < 0 || index >= c.Size() {
		slog.Warn("server.selector_out_of_range", "index", index, "size", c.Size())
		return
	}

	payload := append([]byte(c.At(index)), '\n')
	if _, err := conn.Write(payload); err != nil {
		slog.Debug("server.tcp_write_error", "err", err)
	}
}

// ServeUDP implements the RFC 865 UDP wire behavior: if the corpus is
// empty, no datagram is sent; otherwise the selected quote plus LF is
// sent to addr, truncated-with-warning if it would exceed
// MaxUDPDatagram.
func ServeUDP(conn *net.UDPConn, addr *net.UDPAddr, c *corpus.Corpus, sel *selector.Selector) {
	if c.Empty() {
		return
	}

	index, ok := sel.Next()
	if !ok {
		return
	}
	if index < 0 || index >= c.Size() {
		slog.Warn("server.selector_out_of_range", "index", index, "size", c.Size())
		return
	}

	payload := append([]byte(c.At(index)), '\n')
	if len(payload) > MaxUDPDatagram {
		slog.Warn("server.udp_truncated", "original_len", len(payload), "max", MaxUDPDatagram)
		payload = payload[:MaxUDPDatagram-1]
		payload = append(payload, '\n')
	}

	if _, err := conn.WriteToUDP(payload, addr); err != nil {
		slog.Debug("server.udp_write_error", "err", err)
	}
}
