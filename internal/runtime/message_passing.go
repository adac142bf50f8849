// Phase 3.2.2: Message Passing Concurrency Implementation
// Simplified version for compilation compatibility

package runtime

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Message passing concurrency types
type (
	MessageChannelID  uint64 // Channel identifier
	MessageProtocolID uint64 // Protocol identifier
	MessageSessionID  uint64 // Session identifier
)

// Message passing system
type MessagePassingSystem struct {
	channels   map[MessageChannelID]*MessageChannel // Active channels
	config     MessagePassingConfig                 // Configuration
	statistics MessagePassingStatistics             // Statistics
	running    bool                                 // System running
	ctx        context.Context                      // System context
	cancel     context.CancelFunc                   // Cancel function
	mutex      sync.RWMutex                         // Synchronization
}

// Message channel for actor communication
type MessageChannel struct {
	ID           MessageChannelID    // Channel identifier
	Name         string              // Channel name
	Type         MessageChannelType  // Channel type
	Capacity     uint32              // Channel capacity
	Participants []ActorID           // Channel participants
	Messages     chan Message        // Message channel
	State        MessageChannelState // Channel state
	CreateTime   time.Time           // Creation time
	LastActivity time.Time           // Last activity
	mutex        sync.RWMutex        // Channel synchronization
}

// Enumeration types

// Channel types
type MessageChannelType int

const (
	PointToPointChannel MessageChannelType = iota
	PublishSubscribeChannel
	RequestReplyChannel
)

// Channel states
type MessageChannelState int

const (
	MessageChannelInitializing MessageChannelState = iota
	MessageChannelOpen
	MessageChannelClosing
	MessageChannelClosed
	MessageChannelError
)

// Configuration types

// Message passing configuration
type MessagePassingConfig struct {
	MaxChannels        uint32        // Maximum channels
	MaxSessions        uint32        // Maximum sessions
	DefaultChannelSize uint32        // Default channel size
	SessionTimeout     time.Duration // Session timeout
	MessageTimeout     time.Duration // Message timeout
	BufferSize         uint64        // Buffer size
	EnableCompression  bool          // Enable compression
	EnableEncryption   bool          // Enable encryption
	EnableMonitoring   bool          // Enable monitoring
}

// Statistics types

// Message passing statistics
type MessagePassingStatistics struct {
	TotalChannels      uint64    // Total channels
	ActiveChannels     uint64    // Active channels
	TotalSessions      uint64    // Total sessions
	ActiveSessions     uint64    // Active sessions
	MessagesSent       uint64    // Messages sent
	MessagesReceived   uint64    // Messages received
	MessagesBuffered   uint64    // Messages buffered
	MessagesDropped    uint64    // Messages dropped
	TotalProtocols     uint64    // Total protocols
	ProtocolViolations uint64    // Protocol violations
	LastReset          time.Time // Last statistics reset
}

// Global counters for message passing
var (
	globalMessageChannelID  uint64
	globalMessageProtocolID uint64
	globalMessageSessionID  uint64
)

// NewMessagePassingSystem creates a new message passing system
func NewMessagePassingSystem(config MessagePassingConfig) (*MessagePassingSystem, error) {
	ctx, cancel := context.WithCancel(context.Background())

	system := &MessagePassingSystem{
		channels: make(map[MessageChannelID]*MessageChannel),
		config:   config,
		running:  false,
		ctx:      ctx,
		cancel:   cancel,
	}

	return system, nil
}

// Start starts the message passing system
func (mps *MessagePassingSystem) Start() error {
	mps.mutex.Lock()
	defer mps.mutex.Unlock()

	if mps.running {
		return fmt.Errorf("message passing system is already running")
	}

	mps.running = true
	return nil
}

// Stop stops the message passing system
func (mps *MessagePassingSystem) Stop() error {
	mps.mutex.Lock()
	defer mps.mutex.Unlock()

	if !mps.running {
		return nil
	}

	// Close all channels
	for _, channel := range mps.channels {
		mps.closeChannel(channel)
	}

	// Cancel context
	mps.cancel()
	mps.running = false
	return nil
}

// CreateChannel creates a new message channel
func (mps *MessagePassingSystem) CreateChannel(name string, channelType MessageChannelType, capacity uint32, participants []ActorID) (*MessageChannel, error) {
	if !mps.running {
		return nil, fmt.Errorf("message passing system is not running")
	}

	channelID := MessageChannelID(atomic.AddUint64(&globalMessageChannelID, 1))

	channel := &MessageChannel{
		ID:           channelID,
		Name:         name,
		Type:         channelType,
		Capacity:     capacity,
		Participants: participants,
		Messages:     make(chan Message, capacity),
		State:        MessageChannelInitializing,
		CreateTime:   time.Now(),
		LastActivity: time.Now(),
	}

	mps.mutex.Lock()
	mps.channels[channelID] = channel
	mps.mutex.Unlock()

	channel.State = MessageChannelOpen

	// Update statistics
	atomic.AddUint64(&mps.statistics.TotalChannels, 1)
	atomic.AddUint64(&mps.statistics.ActiveChannels, 1)

	return channel, nil
}

// Send sends a message through a channel
func (mps *MessagePassingSystem) Send(channelID MessageChannelID, msg Message) error {
	mps.mutex.RLock()
	channel, exists := mps.channels[channelID]
	mps.mutex.RUnlock()

	if !exists {
		return fmt.Errorf("channel %d not found", channelID)
	}

	return mps.sendThroughChannel(channel, msg)
}

// sendThroughChannel sends a message through a specific channel
func (mps *MessagePassingSystem) sendThroughChannel(channel *MessageChannel, msg Message) error {
	channel.mutex.Lock()
	defer channel.mutex.Unlock()

	if channel.State != MessageChannelOpen {
		return fmt.Errorf("channel is not open")
	}

	// Send message
	select {
	case channel.Messages <- msg:
		channel.LastActivity = time.Now()

		// Update system statistics
		atomic.AddUint64(&mps.statistics.MessagesSent, 1)

		return nil
	default:
		return fmt.Errorf("channel full")
	}
}

// closeChannel closes a channel
func (mps *MessagePassingSystem) closeChannel(channel *MessageChannel) {
	channel.mutex.Lock()
	defer channel.mutex.Unlock()

	if channel.State == MessageChannelClosed {
		return
	}

	channel.State = MessageChannelClosing
	close(channel.Messages)
	channel.State = MessageChannelClosed

	// Update statistics
	atomic.AddUint64(&mps.statistics.ActiveChannels, ^uint64(0)) // Decrement
}

// GetStatistics returns system statistics
func (mps *MessagePassingSystem) GetStatistics() MessagePassingStatistics {
	return mps.statistics
}

// Default configurations
var DefaultMessagePassingConfig = MessagePassingConfig{
	MaxChannels:        1000,
	MaxSessions:        500,
	DefaultChannelSize: 100,
	SessionTimeout:     time.Minute * 30,
	MessageTimeout:     time.Second * 30,
	BufferSize:         10 * 1024 * 1024, // 10MB
	EnableCompression:  false,
	EnableEncryption:   false,
	EnableMonitoring:   true,
}
