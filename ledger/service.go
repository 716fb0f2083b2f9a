package ledger

import (
	"context"
	"encoding/json"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/pokechain/arena/model"
)

// Action kinds submitted to the ledger.
const (
	ActionMintStarter  = "mint_starter"
	ActionRecordBattle = "record_battle"
	ActionBuyCreature  = "buy_pokemon"
	ActionListCreature = "list_pokemon"
)

// Receipt is the submission outcome returned to the caller.
type Receipt struct {
	ReceiptID string `json:"receipt_id"`
	Accepted  bool   `json:"accepted"`
	Error     string `json:"error,omitempty"`
}

// Service simulates the external ledger collaborator: submissions incur
// artificial latency and a configurable failure rate, and receipt rows
// are written to the DB in async batches. Local state is never rolled
// back on rejection; the receipt is the whole record.
type Service struct {
	db          *gorm.DB
	latency     time.Duration
	failureRate float64
	ch          chan *model.LedgerReceipt
	stopCh      chan struct{}
	wg          sync.WaitGroup
	mu          sync.Mutex
	rng         *rand.Rand
	logger      *zap.Logger
}

// New creates the service and starts its background writer.
func New(db *gorm.DB, latency time.Duration, failureRate float64, rng *rand.Rand, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &Service{
		db:          db,
		latency:     latency,
		failureRate: failureRate,
		ch:          make(chan *model.LedgerReceipt, 1024),
		stopCh:      make(chan struct{}),
		rng:         rng,
		logger:      logger,
	}
	svc.wg.Add(1)
	go svc.worker()
	return svc
}

// Submit records one action against the ledger. It blocks for the
// simulated round-trip, then returns the receipt; persistence of the
// receipt row happens in the background.
func (svc *Service) Submit(ctx context.Context, profileID int64, action string, payload interface{}) Receipt {
	rc := Receipt{ReceiptID: uuid.NewString(), Accepted: true}

	if svc.latency > 0 {
		select {
		case <-time.After(svc.latency):
		case <-ctx.Done():
			rc.Accepted = false
			rc.Error = ctx.Err().Error()
		}
	}
	if rc.Accepted && svc.roll() {
		rc.Accepted = false
		rc.Error = "ledger temporarily unavailable"
	}

	raw, _ := json.Marshal(payload)
	record := &model.LedgerReceipt{
		ReceiptID: rc.ReceiptID,
		ProfileID: profileID,
		Action:    action,
		Payload:   datatypes.JSON(raw),
		Accepted:  rc.Accepted,
		Error:     rc.Error,
	}
	select {
	case svc.ch <- record:
	default:
		svc.logger.Warn("ledger channel full, dropping receipt",
			zap.String("action", action))
	}

	if !rc.Accepted {
		svc.logger.Warn("ledger submission rejected",
			zap.String("action", action),
			zap.Int64("profile_id", profileID),
			zap.String("error", rc.Error))
	}
	return rc
}

func (svc *Service) roll() bool {
	if svc.failureRate <= 0 || svc.rng == nil {
		return false
	}
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return svc.rng.Float64() < svc.failureRate
}

// Stop flushes pending receipts and shuts down the writer.
func (svc *Service) Stop(_ context.Context) {
	select {
	case <-svc.stopCh:
	default:
		close(svc.stopCh)
	}
	svc.wg.Wait()
}

func (svc *Service) worker() {
	defer svc.wg.Done()
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	batch := make([]*model.LedgerReceipt, 0, 100)

	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := svc.db.Create(&batch).Error; err != nil {
			svc.logger.Error("receipt batch write failed", zap.Error(err))
		}
		batch = batch[:0]
	}

	for {
		select {
		case record := <-svc.ch:
			batch = append(batch, record)
			if len(batch) >= 100 {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-svc.stopCh:
			for {
				select {
				case record := <-svc.ch:
					batch = append(batch, record)
				default:
					flush()
					return
				}
			}
		}
	}
}
