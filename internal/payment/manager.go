package payment

import (
	"log/slog"
	"sync"

	"github.com/ospitek/ui-gateway/internal/ports"
)

// ManagerConfig holds the collaborators shared by every flow.
type ManagerConfig struct {
	Intents   ports.IntentCreator
	Processor ports.PaymentProcessor
	Recorder  ports.AttemptRecorder
	Logger    *slog.Logger
}

// Manager hands out one Flow per order so concurrent submissions for the same
// order share the in-flight guard.
type Manager struct {
	cfg ManagerConfig

	mu    sync.Mutex
	flows map[string]*Flow
}

// NewManager creates an empty flow manager.
func NewManager(cfg ManagerConfig) *Manager {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Manager{cfg: cfg, flows: make(map[string]*Flow)}
}

// Flow returns the flow for the order, creating it on first use. The amount
// is fixed at creation; later calls with a different amount get the original
// flow unchanged.
func (m *Manager) Flow(orderID string, amount float64) (*Flow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if flow, ok := m.flows[orderID]; ok {
		return flow, nil
	}

	flow, err := NewFlow(Config{
		OrderID:   orderID,
		Amount:    amount,
		Currency:  DefaultCurrency,
		Intents:   m.cfg.Intents,
		Processor: m.cfg.Processor,
		Recorder:  m.cfg.Recorder,
		Logger:    m.cfg.Logger,
	})
	if err != nil {
		return nil, err
	}
	m.flows[orderID] = flow
	return flow, nil
}
