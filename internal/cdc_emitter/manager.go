package cdc_emitter

import (
	"context"
	"errors"
	"fmt"
	"github.com/rs/zerolog/log"
	"io"
	"net"
	"sync"
)

const defaultBufferSize = 1024

type Config struct {
	// Port 0 picks a free port; see Addr.
	Port    int
	Address string
	// BufferSize bounds the number of commit events waiting to be broadcast.
	BufferSize int
}

func (c *Config) validate() error {
	var errGrp []error
	if c.Port < 0 || c.Port > 65535 {
		errGrp = append(errGrp, fmt.Errorf("invalid port: %d", c.Port))
	}
	if c.Address == "" {
		errGrp = append(errGrp, fmt.Errorf("invalid address: %s", c.Address))
	}
	if c.BufferSize < 0 {
		errGrp = append(errGrp, fmt.Errorf("invalid buffer size: %d", c.BufferSize))
	}
	return errors.Join(errGrp...)
}

// Manager broadcasts commit events as JSON lines to every connected TCP client.
type Manager struct {
	listener net.Listener

	emitChan   chan *Event
	procCtx    context.Context
	procCancel context.CancelFunc

	clients    map[net.Conn]bool
	clientsMux sync.Mutex
}

func New(cfg *Config) (*Manager, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.BufferSize == 0 {
		cfg.BufferSize = defaultBufferSize
	}

	addrString := fmt.Sprintf("%s:%d", cfg.Address, cfg.Port)
	listener, err := net.Listen("tcp", addrString)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addrString, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		listener:   listener,
		emitChan:   make(chan *Event, cfg.BufferSize),
		procCtx:    ctx,
		procCancel: cancel,

		clients:    make(map[net.Conn]bool),
		clientsMux: sync.Mutex{},
	}, nil
}

// Addr is the address the change feed listens on.
func (m *Manager) Addr() net.Addr {
	return m.listener.Addr()
}

func (m *Manager) Start() error {
	go func() {
		for {
			select {
			case <-m.procCtx.Done():
				return
			case e := <-m.emitChan:
				m.raiseCDCEvent(e)
			}
		}
	}()

	go func() {
		for {
			conn, err := m.listener.Accept()
			if err != nil {
				if errors.Is(err, net.ErrClosed) || m.procCtx.Err() != nil {
					return
				}
				log.Warn().Err(err).Msg("failed to accept change feed connection")
				continue
			}

			go m.handle(conn)
		}
	}()

	log.Info().Str("address", m.listener.Addr().String()).Msg("change feed listening")
	return nil
}

func (m *Manager) Stop() error {
	if m.procCancel != nil {
		m.procCancel()
	}

	if m.listener != nil {
		if err := m.listener.Close(); err != nil {
			return fmt.Errorf("failed to close listener: %w", err)
		}
	}

	m.clientsMux.Lock()
	for conn := range m.clients {
		_ = conn.Close()
		delete(m.clients, conn)
	}
	m.clientsMux.Unlock()
	return nil
}

func (m *Manager) Name() string {
	return "CDC Emitter"
}

// handle registers a client and blocks until it disconnects. Clients never send anything; reads
// only detect the disconnect.
func (m *Manager) handle(conn net.Conn) {
	defer func() {
		m.clientsMux.Lock()
		delete(m.clients, conn)
		m.clientsMux.Unlock()
		_ = conn.Close()
	}()

	m.clientsMux.Lock()
	m.clients[conn] = true
	m.clientsMux.Unlock()

	log.Debug().Str("remote", conn.RemoteAddr().String()).Msg("change feed client connected")

	buffer := make([]byte, 512)
	for {
		if _, err := conn.Read(buffer); err != nil {
			if errors.Is(err, io.EOF) {
				log.Debug().Str("remote", conn.RemoteAddr().String()).
					Msg("change feed client disconnected")
			} else {
				log.Debug().Err(err).Str("remote", conn.RemoteAddr().String()).
					Msg("change feed client read failed")
			}
			return
		}
	}
}
