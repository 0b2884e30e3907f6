package adjudication

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// provenancePrefix is the fixed prefix of every provenance identifier.
const provenancePrefix = "CAWS-VERDICT-"

// ProvenancePublisher packages a completed verdict into a signed,
// identifiable record. A signer failure is fatal; the engine never falls
// back to an unsigned record.
type ProvenancePublisher struct {
	signer ProvenanceSigner
	logger *zap.Logger
}

// NewProvenancePublisher creates a publisher backed by the given signer.
func NewProvenancePublisher(signer ProvenanceSigner, logger *zap.Logger) *ProvenancePublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProvenancePublisher{signer: signer, logger: logger}
}

// Publish assigns the verdict its provenance identifier, serializes the
// full record and delegates attestation to the signer. The signature over
// the serialized verdict is returned to the caller.
func (p *ProvenancePublisher) Publish(verdict *Verdict) ([]byte, error) {
	verdict.ProvenanceID = provenancePrefix + uuid.NewString()

	record, err := json.Marshal(verdict)
	if err != nil {
		return nil, fmt.Errorf("marshal verdict record: %w", err)
	}

	signature, err := p.signer.Sign(record)
	if err != nil {
		return nil, fmt.Errorf("sign verdict record: %w", err)
	}

	p.logger.Debug("verdict published",
		zap.String("provenance_id", verdict.ProvenanceID),
		zap.String("task_id", verdict.TaskID),
		zap.String("status", string(verdict.Status)),
	)

	return signature, nil
}
