package materialize

import (
	"context"
	"fmt"

	"github.com/aretw0/formflow/pkg/domain"
)

const (
	// NameSpace bounds the numeric suffix of generated names: N is drawn from [1, NameSpace).
	NameSpace = 64000

	// DefaultMaxAttempts caps the candidates tried before giving up.
	DefaultMaxAttempts = 256
)

// CandidateName formats the output name for suffix n.
func CandidateName(n int) string {
	return fmt.Sprintf("form%d.pdf", n)
}

// GenerateUniqueFilename draws random form<N>.pdf candidates and returns the
// first one the reserver claims. The caller owns the reservation.
func (m *Materializer) GenerateUniqueFilename(ctx context.Context) (string, error) {
	for attempt := 0; attempt < m.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		name := CandidateName(m.intn(NameSpace-1) + 1)
		ok, err := m.reserver.Reserve(ctx, name)
		if err != nil {
			return "", fmt.Errorf("failed to reserve %s: %w", name, err)
		}
		if ok {
			return name, nil
		}
		m.logger.Debug("output name taken", "name", name, "attempt", attempt+1)
	}
	return "", fmt.Errorf("%w after %d attempts", domain.ErrNamespaceExhausted, m.maxAttempts)
}
