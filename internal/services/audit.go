package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-authgate/hvgate/internal/core"
	"github.com/go-authgate/hvgate/internal/models"
	"github.com/go-authgate/hvgate/internal/store"
	"github.com/go-authgate/hvgate/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	auditBatchSize     = 100
	auditFlushInterval = time.Second
)

var _ core.AuditLogger = (*AuditService)(nil)

// AuditService handles audit logging operations
type AuditService struct {
	store      *store.Store
	enabled    bool
	bufferSize int
	logger     *zap.Logger

	// Async logging channel
	logChan chan *models.AuditLog

	// Batch buffer
	batchBuffer []*models.AuditLog
	batchMutex  sync.Mutex

	// Graceful shutdown
	wg           sync.WaitGroup
	shutdownCh   chan struct{}
	shutdownOnce sync.Once
}

// NewAuditService creates a new audit service
func NewAuditService(s *store.Store, enabled bool, bufferSize int, log *zap.Logger) *AuditService {
	if bufferSize <= 0 {
		bufferSize = 1000
	}
	if log == nil {
		log = zap.NewNop()
	}

	service := &AuditService{
		store:       s,
		enabled:     enabled,
		bufferSize:  bufferSize,
		logger:      log,
		logChan:     make(chan *models.AuditLog, bufferSize),
		batchBuffer: make([]*models.AuditLog, 0, auditBatchSize),
		shutdownCh:  make(chan struct{}),
	}

	if enabled {
		service.wg.Add(1)
		go service.worker()
		log.Info("audit service started", zap.Int("buffer_size", bufferSize))
	} else {
		log.Info("audit service is disabled")
	}

	return service
}

// worker is the background goroutine that processes audit logs
func (s *AuditService) worker() {
	defer s.wg.Done()

	ticker := time.NewTicker(auditFlushInterval)
	defer ticker.Stop()

	for {
		select {
		case entry := <-s.logChan:
			s.addToBatch(entry)

		case <-ticker.C:
			s.flushBatch()

		case <-s.shutdownCh:
			// Drain whatever is still queued before the final flush.
			for {
				select {
				case entry := <-s.logChan:
					s.addToBatch(entry)
				default:
					s.flushBatch()
					return
				}
			}
		}
	}
}

func (s *AuditService) addToBatch(entry *models.AuditLog) {
	s.batchMutex.Lock()
	defer s.batchMutex.Unlock()

	s.batchBuffer = append(s.batchBuffer, entry)
	if len(s.batchBuffer) >= auditBatchSize {
		s.flushBatchUnsafe()
	}
}

func (s *AuditService) flushBatch() {
	s.batchMutex.Lock()
	defer s.batchMutex.Unlock()
	s.flushBatchUnsafe()
}

// flushBatchUnsafe flushes the batch buffer without locking (caller must hold lock)
func (s *AuditService) flushBatchUnsafe() {
	if len(s.batchBuffer) == 0 {
		return
	}

	toWrite := make([]*models.AuditLog, len(s.batchBuffer))
	copy(toWrite, s.batchBuffer)
	s.batchBuffer = s.batchBuffer[:0]

	if err := s.store.CreateAuditLogBatch(context.Background(), toWrite); err != nil {
		s.logger.Error("failed to write audit log batch", zap.Int("count", len(toWrite)), zap.Error(err))
	}
}

// Log records an audit entry asynchronously. When the buffer is full the
// entry is dropped with a warning.
func (s *AuditService) Log(ctx context.Context, entry core.AuditEntry) {
	if !s.enabled {
		return
	}

	auditLog := s.buildLog(ctx, entry)

	select {
	case s.logChan <- auditLog:
	default:
		s.logger.Warn("audit log buffer full, dropping event", zap.String("event", string(entry.Event)))
	}
}

func (s *AuditService) buildLog(ctx context.Context, entry core.AuditEntry) *models.AuditLog {
	if entry.IPAddress == "" {
		entry.IPAddress = util.GetIPFromContext(ctx)
	}
	if entry.Username == "" {
		entry.Username = util.GetUsernameFromContext(ctx)
	}

	now := time.Now()
	return &models.AuditLog{
		ID:            uuid.New().String(),
		EventType:     string(entry.Event),
		EventTime:     now,
		Severity:      severityFor(entry),
		ActorUserID:   entry.UserID,
		ActorUsername: entry.Username,
		ActorIP:       entry.IPAddress,
		Details:       maskSensitiveDetails(entry.Details),
		Success:       entry.Success,
		ErrorMessage:  entry.ErrorMessage,
		UserAgent:     entry.UserAgent,
		CreatedAt:     now,
	}
}

func severityFor(entry core.AuditEntry) models.EventSeverity {
	switch {
	case entry.Event == core.EventHealthVaultFailed:
		return models.SeverityError
	case !entry.Success:
		return models.SeverityWarning
	default:
		return models.SeverityInfo
	}
}

// RecentForUser returns the newest audit rows for userID.
func (s *AuditService) RecentForUser(ctx context.Context, userID string, limit int) ([]models.AuditLog, error) {
	return s.store.ListAuditLogs(ctx, store.AuditLogFilters{ActorUserID: userID}, limit)
}

// CleanupOldLogs deletes audit logs older than the retention period
func (s *AuditService) CleanupOldLogs(ctx context.Context, retention time.Duration) (int64, error) {
	return s.store.DeleteOldAuditLogs(ctx, time.Now().Add(-retention))
}

// Shutdown flushes queued entries and stops the worker.
func (s *AuditService) Shutdown(ctx context.Context) error {
	if !s.enabled {
		return nil
	}

	s.shutdownOnce.Do(func() { close(s.shutdownCh) })

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("audit service shut down gracefully")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("audit service shutdown timeout: %w", ctx.Err())
	}
}

// maskSensitiveDetails masks sensitive information in audit log details
func maskSensitiveDetails(details map[string]any) models.AuditDetails {
	if details == nil {
		return nil
	}

	masked := make(models.AuditDetails, len(details))
	for key, value := range details {
		if isSensitiveField(key) {
			masked[key] = "***REDACTED***"
			continue
		}

		if isPartialMaskField(key) {
			if str, ok := value.(string); ok && len(str) > 12 {
				masked[key] = str[:8] + "..." + str[len(str)-4:]
				continue
			}
		}

		masked[key] = value
	}

	return masked
}

func isSensitiveField(key string) bool {
	key = strings.ToLower(key)
	for _, field := range []string{"password", "secret", "token", "private_key"} {
		if strings.Contains(key, field) {
			return true
		}
	}
	return false
}

func isPartialMaskField(key string) bool {
	key = strings.ToLower(key)
	for _, field := range []string{"record_id", "thumbprint"} {
		if strings.Contains(key, field) {
			return true
		}
	}
	return false
}
