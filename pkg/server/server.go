// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server owns the bound TCP and UDP endpoints and implements
// the RFC 865 Quote-of-the-Day wire protocol for each transport. It
// never mutates the corpus or the selector itself: the accept and
// receive loops here only do blocking I/O and hand completed jobs to
// their caller (the supervisor), which is the sole owner of the
// selector and the corpus pointer.
package server

import (
	"fmt"
	"net"
	"strconv"
)

// Server owns the listening TCP socket and bound UDP socket for one
// quotezd instance.
type Server struct {
	tcpListener net.Listener
	udpConn     *net.UDPConn

	tcpJobs chan net.Conn
	udpJobs chan *net.UDPAddr
}

// Listen binds the TCP and UDP endpoints on host at the given ports.
// The TCP listener permits address reuse, which on Unix is the default
// for Go's TCP listener and makes it resilient to restart races. The
// UDP socket is bound with net.ListenUDP's defaults, which do not set
// SO_REUSEADDR for a unicast address.
func Listen(host string, tcpPort, udpPort int) (*Server, error) {
	tcpAddr := net.JoinHostPort(host, strconv.Itoa(tcpPort))
	tcpListener, err := net.Listen("tcp", tcpAddr)
	if err != nil {
		return nil, fmt.Errorf("bind tcp %s: %w", tcpAddr, err)
	}

	udpAddr := net.JoinHostPort(host, strconv.Itoa(udpPort))
	resolvedUDP, err := net.ResolveUDPAddr("udp", udpAddr)
	if err != nil {
		tcpListener.Close()
		return nil, fmt.Errorf("resolve udp %s: %w", udpAddr, err)
	}
	udpConn, err := net.ListenUDP("udp", resolvedUDP)
	if err != nil {
		tcpListener.Close()
		return nil, fmt.Errorf("bind udp %s: %w", udpAddr, err)
	}

	return &Server{
		tcpListener: tcpListener,
		udpConn:     udpConn,
		tcpJobs:     make(chan net.Conn),
		udpJobs:     make(chan *net.UDPAddr),
	}, nil
}

// TCPJobs returns the channel onto which accepted connections are
// delivered.
func (s *Server) TCPJobs() <-chan net.Conn { return s.tcpJobs }

// UDPJobs returns the channel onto which source addresses of received
// datagrams are delivered. The datagram payload is never surfaced:
// RFC 865 specifies the server ignores it.
func (s *Server) UDPJobs() <-chan *net.UDPAddr { return s.udpJobs }

// Close releases both listening sockets.
func (s *Server) Close() error {
	tcpErr := s.tcpListener.Close()
	udpErr := s.udpConn.Close()
	if tcpErr != nil {
		return tcpErr
	}
	return udpErr
}

// UDPConn exposes the bound UDP socket so the supervisor can write
// reply datagrams after consulting the selector.
func (s *Server) UDPConn() *net.UDPConn { return s.udpConn }

// TCPAddr returns the TCP listener's bound address, useful for tests
// and logging when the configured port is 0 (ephemeral).
func (s *Server) TCPAddr() net.Addr { return s.tcpListener.Addr() }

// UDPAddr returns the UDP socket's bound address, useful for tests and
// logging when the configured port is 0 (ephemeral).
func (s *Server) UDPAddr() net.Addr { return s.udpConn.LocalAddr() }
