package metrics

import (
	"time"

	"github.com/go-authgate/hvgate/internal/core"
)

// NoopMetrics is a no-operation implementation of core.Recorder
// All methods are empty and do nothing, providing zero overhead when metrics are disabled
type NoopMetrics struct{}

// Ensure NoopMetrics implements Recorder interface at compile time
var _ core.Recorder = (*NoopMetrics)(nil)

// NewNoopMetrics creates a new no-operation metrics recorder
func NewNoopMetrics() core.Recorder {
	return &NoopMetrics{}
}

func (n *NoopMetrics) RecordHandshake(operation, result string)                 {}
func (n *NoopMetrics) RecordTokenExchange(success bool, duration time.Duration) {}
func (n *NoopMetrics) RecordAssociationChange(action string)                    {}
func (n *NoopMetrics) RecordLogin(success bool)                                 {}
func (n *NoopMetrics) RecordLogout()                                            {}
func (n *NoopMetrics) SetIntegratedUsersCount(count int)                        {}
func (n *NoopMetrics) RecordDatabaseQueryError(operation string)                {}
